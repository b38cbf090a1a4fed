package mcp

import (
	"context"
	"errors"
	"testing"
)

// stubInterface 可编程的工具接口桩，记录调用次数
type stubInterface struct {
	calls    int
	data     map[string]any
	err      error
	panicMsg string
}

func (s *stubInterface) Call(ctx context.Context, toolName, action string, params map[string]any) (map[string]any, error) {
	s.calls++
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.data, s.err
}

func TestDispatchPlaceholderModeNeverTouchesReal(t *testing.T) {
	real := &stubInterface{data: map[string]any{"from": "real"}}
	placeholder := &stubInterface{data: map[string]any{"from": "placeholder"}}

	d := NewSmartDispatcher(ModePlaceholder, real, placeholder, nil)
	result := d.Dispatch(context.Background(), "time", "get_time", nil)

	if !result.Success {
		t.Fatalf("占位符调用应当成功: %+v", result)
	}
	if result.ModeUsed != ModePlaceholder {
		t.Fatalf("mode_used 应为 placeholder，实际 %s", result.ModeUsed)
	}
	if real.calls != 0 {
		t.Fatalf("placeholder 模式不应触碰真实接口，调用了 %d 次", real.calls)
	}
	if placeholder.calls != 1 {
		t.Fatalf("占位符接口应被调用一次，实际 %d 次", placeholder.calls)
	}
}

func TestDispatchRealModeFailureSurfaces(t *testing.T) {
	real := &stubInterface{err: errors.New("后端连接失败")}
	placeholder := &stubInterface{data: map[string]any{"from": "placeholder"}}

	d := NewSmartDispatcher(ModeReal, real, placeholder, nil)
	result := d.Dispatch(context.Background(), "brave-search", "search", map[string]any{"query": "x"})

	if result.Success {
		t.Fatal("real 模式下失败不应被掩盖")
	}
	if result.Error == "" {
		t.Fatal("失败结果必须携带错误信息")
	}
	if result.ModeUsed != ModeReal {
		t.Fatalf("mode_used 应为 real，实际 %s", result.ModeUsed)
	}
	if placeholder.calls != 0 {
		t.Fatalf("real 模式不应降级到占位符，调用了 %d 次", placeholder.calls)
	}
}

func TestDispatchHybridFallsBackOnRealFailure(t *testing.T) {
	real := &stubInterface{err: errors.New("后端连接失败")}
	placeholder := &stubInterface{data: map[string]any{"from": "placeholder"}}

	d := NewSmartDispatcher(ModeHybrid, real, placeholder, nil)
	result := d.Dispatch(context.Background(), "calculator", "calculate", map[string]any{"expression": "1+1"})

	if !result.Success {
		t.Fatalf("hybrid 模式降级后应当成功: %+v", result)
	}
	if result.ModeUsed != ModePlaceholder {
		t.Fatalf("降级后 mode_used 应为 placeholder，实际 %s", result.ModeUsed)
	}
	if real.calls != 1 || placeholder.calls != 1 {
		t.Fatalf("真实和占位符接口各应调用一次: real=%d placeholder=%d", real.calls, placeholder.calls)
	}
}

func TestDispatchRealModeUninitializedInterface(t *testing.T) {
	placeholder := &stubInterface{data: map[string]any{}}

	d := NewSmartDispatcher(ModeReal, nil, placeholder, nil)
	result := d.Dispatch(context.Background(), "time", "get_time", nil)

	if result.Success {
		t.Fatal("真实接口未初始化时调用必须失败")
	}
	if result.Error != ErrRealUnavailable.Error() {
		t.Fatalf("错误信息应指明接口未初始化，实际: %s", result.Error)
	}
	if placeholder.calls != 0 {
		t.Fatal("real 模式不应降级")
	}
}

func TestDispatchHybridFallsBackWhenRealUninitialized(t *testing.T) {
	placeholder := &stubInterface{data: map[string]any{"ok": true}}

	d := NewSmartDispatcher(ModeHybrid, nil, placeholder, nil)
	result := d.Dispatch(context.Background(), "time", "get_time", nil)

	if !result.Success || result.ModeUsed != ModePlaceholder {
		t.Fatalf("未初始化的真实接口在 hybrid 模式下应静默降级: %+v", result)
	}
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	real := &stubInterface{panicMsg: "适配器内部错误"}
	placeholder := &stubInterface{data: map[string]any{"ok": true}}

	d := NewSmartDispatcher(ModeHybrid, real, placeholder, nil)

	result := d.Dispatch(context.Background(), "filesystem", "read_file", map[string]any{"path": "a.txt"})
	if !result.Success || result.ModeUsed != ModePlaceholder {
		t.Fatalf("真实接口 panic 时 hybrid 应降级成功: %+v", result)
	}

	// real 模式下 panic 转为失败结果，不向调用方传播
	d = NewSmartDispatcher(ModeReal, real, placeholder, nil)
	result = d.Dispatch(context.Background(), "filesystem", "read_file", map[string]any{"path": "a.txt"})
	if result.Success || result.Error == "" {
		t.Fatalf("panic 应转换为失败结果: %+v", result)
	}
}

func TestDispatchRecordsExactlyOncePerCall(t *testing.T) {
	real := &stubInterface{err: errors.New("失败")}
	placeholder := &stubInterface{data: map[string]any{}}
	tracker := NewPerformanceTracker(nil)

	d := NewSmartDispatcher(ModeHybrid, real, placeholder, tracker)
	d.Dispatch(context.Background(), "calculator", "calculate", nil)
	d.Dispatch(context.Background(), "calculator", "calculate", nil)

	snapshot := tracker.Snapshot("calculator")
	if snapshot == nil {
		t.Fatal("统计缺失")
	}
	if snapshot.TotalCalls != 2 {
		t.Fatalf("两次调度应记录两次统计，实际 %d", snapshot.TotalCalls)
	}
}

func TestParseExecutionMode(t *testing.T) {
	for _, s := range []string{"real", "placeholder", "hybrid"} {
		mode, err := ParseExecutionMode(s)
		if err != nil || string(mode) != s {
			t.Fatalf("解析 %s 失败: %v", s, err)
		}
	}

	if mode, err := ParseExecutionMode(""); err != nil || mode != ModeHybrid {
		t.Fatalf("空字符串应默认为 hybrid: %v %v", mode, err)
	}

	if _, err := ParseExecutionMode("unknown"); err == nil {
		t.Fatal("未知模式应返回错误")
	}
}
