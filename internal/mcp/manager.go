package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/ArcueidShiki/AuraWell-Agent/internal/config"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Manager 组合调度器、工作流运行器和性能统计，作为对外入口
//
// 由调用方显式构造并注入；确实需要进程级共享实例时使用 InitDefault /
// Default 的单次初始化路径。
type Manager struct {
	mode        ExecutionMode
	real        *RealToolInterface // nil 表示真实接口未初始化
	placeholder *PlaceholderToolInterface
	tracker     *PerformanceTracker
	dispatcher  *SmartDispatcher
	runner      *WorkflowRunner
	logger      *zap.Logger
}

// ManagerOption Manager 可选配置
type ManagerOption func(*managerOptions)

type managerOptions struct {
	recorder MetricsRecorder
	registry *WorkflowRegistry
	logger   *zap.Logger
}

// WithMetricsRecorder 对接外部指标系统（如 Prometheus）
func WithMetricsRecorder(recorder MetricsRecorder) ManagerOption {
	return func(o *managerOptions) { o.recorder = recorder }
}

// WithWorkflowRegistry 替换内置工作流注册表
func WithWorkflowRegistry(registry *WorkflowRegistry) ManagerOption {
	return func(o *managerOptions) { o.registry = registry }
}

// WithLogger 指定日志器
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(o *managerOptions) { o.logger = logger }
}

// NewManager 创建 Manager
// db 为 nil 时真实接口视为未初始化：real 模式下调用全部失败，
// hybrid 模式下全部降级到占位符。
func NewManager(cfg *config.MCPConfig, db *gorm.DB, opts ...ManagerOption) (*Manager, error) {
	mode, err := ParseExecutionMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	options := &managerOptions{
		registry: DefaultWorkflowRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	m := &Manager{
		mode:        mode,
		placeholder: NewPlaceholderToolInterface(cfg.PlaceholderTimeoutDuration()),
		tracker:     NewPerformanceTracker(options.recorder),
		logger:      options.logger,
	}

	var real ToolInterface
	if mode != ModePlaceholder && db != nil {
		m.real = NewRealToolInterface(cfg, db, options.logger)
		real = m.real
	}

	m.dispatcher = NewSmartDispatcher(mode, real, m.placeholder, m.tracker,
		WithRealCallTimeout(cfg.RealCallTimeoutDuration()),
		WithDispatcherLogger(options.logger),
	)
	m.runner = NewWorkflowRunner(m.dispatcher, options.registry, options.logger)

	options.logger.Info("工具管理器初始化完成",
		zap.String("mode", string(mode)),
		zap.Bool("real_interface", m.real != nil),
	)
	return m, nil
}

// Mode 配置的执行模式
func (m *Manager) Mode() ExecutionMode {
	return m.mode
}

// Dispatcher 底层调度器
func (m *Manager) Dispatcher() *SmartDispatcher {
	return m.dispatcher
}

// RealInterface 真实工具接口，未初始化时为 nil
func (m *Manager) RealInterface() *RealToolInterface {
	return m.real
}

// CallTool 调度一次工具调用
func (m *Manager) CallTool(ctx context.Context, toolName, action string, params map[string]any) *CallResult {
	return m.dispatcher.Dispatch(ctx, toolName, action, params)
}

// RunWorkflow 执行命名工作流
func (m *Manager) RunWorkflow(ctx context.Context, workflowName, userInput string, contextMap map[string]any) *WorkflowResult {
	return m.runner.Run(ctx, workflowName, userInput, contextMap)
}

// Workflows 已注册的工作流名称
func (m *Manager) Workflows() []string {
	return m.runner.registry.Names()
}

// PerformanceReport 性能报告（含优化建议）
func (m *Manager) PerformanceReport() map[string]any {
	report := m.tracker.BuildReport(m.mode)
	return map[string]any{
		"tool_mode":         string(report.ToolMode),
		"performance_stats": report.Tools,
		"summary":           report.Summary,
		"recommendations":   Recommendations(report),
	}
}

// HealthCheck 报告各后端的可用状态
func (m *Manager) HealthCheck(ctx context.Context) map[string]any {
	status := map[string]any{
		"tool_mode":             string(m.mode),
		"placeholder_interface": "available",
		"real_interface":        "not_available",
	}

	if m.real != nil {
		tools, err := m.real.ListTools(ctx)
		if err != nil {
			status["real_interface"] = fmt.Sprintf("error: %v", err)
		} else {
			status["real_interface"] = "available"
			status["real_tools_count"] = len(tools)
		}
	}
	return status
}

var (
	defaultManager *Manager
	defaultOnce    sync.Once
)

// InitDefault 初始化进程级共享实例，只有第一次调用生效
func InitDefault(cfg *config.MCPConfig, db *gorm.DB, opts ...ManagerOption) (*Manager, error) {
	var err error
	defaultOnce.Do(func() {
		defaultManager, err = NewManager(cfg, db, opts...)
	})
	if err != nil {
		return nil, err
	}
	if defaultManager == nil {
		return nil, fmt.Errorf("共享工具管理器初始化失败")
	}
	return defaultManager, nil
}

// Default 获取进程级共享实例，未初始化时返回 nil
func Default() *Manager {
	return defaultManager
}
