package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SmartDispatcher 智能工具调度器
//
// 按执行模式分发调用：
//   - real: 只尝试真实接口，失败以失败结果返回
//   - placeholder: 只调用占位符接口
//   - hybrid: 真实优先，任何失败（包括真实接口未初始化）静默降级到占位符
//
// Dispatch 永远返回 CallResult，不向调用方抛出 panic 或 error。
type SmartDispatcher struct {
	mode        ExecutionMode
	real        ToolInterface // nil 表示真实接口未初始化
	placeholder ToolInterface
	tracker     *PerformanceTracker
	realTimeout time.Duration
	logger      *zap.Logger
}

// DispatcherOption 调度器可选配置
type DispatcherOption func(*SmartDispatcher)

// WithRealCallTimeout 限制单次真实工具调用的时长，0 表示不限制
func WithRealCallTimeout(timeout time.Duration) DispatcherOption {
	return func(d *SmartDispatcher) {
		d.realTimeout = timeout
	}
}

// WithDispatcherLogger 指定日志器
func WithDispatcherLogger(logger *zap.Logger) DispatcherOption {
	return func(d *SmartDispatcher) {
		d.logger = logger
	}
}

// NewSmartDispatcher 创建调度器
// real 允许为 nil（真实接口不可用的场景），placeholder 不允许为 nil。
func NewSmartDispatcher(mode ExecutionMode, real, placeholder ToolInterface, tracker *PerformanceTracker, opts ...DispatcherOption) *SmartDispatcher {
	if tracker == nil {
		tracker = NewPerformanceTracker(nil)
	}

	d := &SmartDispatcher{
		mode:        mode,
		real:        real,
		placeholder: placeholder,
		tracker:     tracker,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Mode 配置的执行模式
func (d *SmartDispatcher) Mode() ExecutionMode {
	return d.mode
}

// Tracker 调度器使用的性能统计器
func (d *SmartDispatcher) Tracker() *PerformanceTracker {
	return d.tracker
}

// Dispatch 调度一次工具调用，每次调用恰好记录一次统计
func (d *SmartDispatcher) Dispatch(ctx context.Context, toolName, action string, params map[string]any) *CallResult {
	start := time.Now()

	result := d.dispatch(ctx, toolName, action, params)
	result.CallID = uuid.New().String()
	result.ToolName = toolName
	result.Action = action
	result.ExecutionTime = time.Since(start)

	var callErr error
	if result.Error != "" {
		callErr = errors.New(result.Error)
	}
	d.tracker.RecordCall(toolName, result.Success, result.ModeUsed, result.ExecutionTime, callErr)

	return result
}

func (d *SmartDispatcher) dispatch(ctx context.Context, toolName, action string, params map[string]any) *CallResult {
	if d.mode == ModeReal || d.mode == ModeHybrid {
		data, err := d.tryReal(ctx, toolName, action, params)
		if err == nil {
			return &CallResult{Success: true, Data: data, ModeUsed: ModeReal}
		}

		if d.mode == ModeReal {
			return &CallResult{Success: false, ModeUsed: ModeReal, Error: err.Error()}
		}

		d.logger.Warn("真实工具调用失败，降级到占位符",
			zap.String("tool", toolName),
			zap.String("action", action),
			zap.Error(err),
		)
	}

	data, err := d.tryPlaceholder(ctx, toolName, action, params)
	if err != nil {
		return &CallResult{Success: false, ModeUsed: ModePlaceholder, Error: err.Error()}
	}
	return &CallResult{Success: true, Data: data, ModeUsed: ModePlaceholder}
}

// tryReal 尝试真实调用，panic 转为 error，不向上传播
func (d *SmartDispatcher) tryReal(ctx context.Context, toolName, action string, params map[string]any) (data map[string]any, err error) {
	if d.real == nil {
		return nil, ErrRealUnavailable
	}

	if d.realTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.realTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("真实工具调用 panic: %v", r)
		}
	}()

	return d.real.Call(ctx, toolName, action, params)
}

// tryPlaceholder 占位符调用，同样吞掉 panic
func (d *SmartDispatcher) tryPlaceholder(ctx context.Context, toolName, action string, params map[string]any) (data map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("占位符工具调用 panic: %v", r)
		}
	}()

	return d.placeholder.Call(ctx, toolName, action, params)
}
