// Package mcp 智能工具调用：真实工具与占位符工具的统一调度
//
// 对外只暴露一个调度入口 SmartDispatcher.Dispatch，按执行模式决定调用
// 真实工具接口还是占位符接口，hybrid 模式下真实调用失败时自动降级。
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ExecutionMode 工具执行模式
type ExecutionMode string

const (
	// ModeReal 仅使用真实工具
	ModeReal ExecutionMode = "real"
	// ModePlaceholder 仅使用占位符工具
	ModePlaceholder ExecutionMode = "placeholder"
	// ModeHybrid 真实工具优先，失败时降级到占位符
	ModeHybrid ExecutionMode = "hybrid"
)

// ParseExecutionMode 解析执行模式字符串
func ParseExecutionMode(s string) (ExecutionMode, error) {
	switch ExecutionMode(s) {
	case ModeReal, ModePlaceholder, ModeHybrid:
		return ExecutionMode(s), nil
	case "":
		return ModeHybrid, nil
	default:
		return "", fmt.Errorf("未知的执行模式: %s", s)
	}
}

// ToolInterface 工具调用统一契约，由真实接口和占位符接口分别实现
type ToolInterface interface {
	// Call 调用工具的某个操作，params 的结构由具体工具决定
	Call(ctx context.Context, toolName, action string, params map[string]any) (map[string]any, error)
}

// CallResult 单次工具调用结果，Dispatch 永远返回非 nil 的 CallResult
type CallResult struct {
	CallID        string         `json:"call_id"`
	Success       bool           `json:"success"`
	Data          map[string]any `json:"data"`
	ToolName      string         `json:"tool_name"`
	Action        string         `json:"action"`
	ModeUsed      ExecutionMode  `json:"mode_used"` // 实际产生数据的后端，而非配置的模式
	Error         string         `json:"error,omitempty"`
	ExecutionTime time.Duration  `json:"execution_time"`
}

// ErrRealUnavailable 真实工具接口未初始化
var ErrRealUnavailable = errors.New("真实工具接口未初始化")

// UnsupportedActionError 工具存在但不支持该操作
type UnsupportedActionError struct {
	Tool   string
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("工具 %s 不支持的操作: %s", e.Tool, e.Action)
}
