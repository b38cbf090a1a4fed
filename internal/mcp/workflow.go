package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// UserInputToken 工作流参数中表示"用户输入"的模板标记
const UserInputToken = "{{user_input}}"

// WorkflowStep 工作流中的一步工具调用
type WorkflowStep struct {
	Tool       string         `json:"tool"`
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

// WorkflowConfig 命名工作流配置，执行期间只读
type WorkflowConfig struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Steps       []WorkflowStep `json:"steps"`
}

// WorkflowResult 工作流执行结果
//
// 只要步骤迭代跑完，Success 即为 true，单步失败不影响整体状态；
// 调用方需要通过 Metadata 中的步骤计数识别部分失败。
type WorkflowResult struct {
	Success          bool           `json:"success"`
	WorkflowName     string         `json:"workflow_name"`
	Results          map[string]any `json:"results"`
	ExecutionSummary string         `json:"execution_summary"`
	Metadata         map[string]any `json:"metadata"`
}

// WorkflowRegistry 命名工作流注册表
type WorkflowRegistry struct {
	mu        sync.RWMutex
	workflows map[string]*WorkflowConfig
}

// NewWorkflowRegistry 创建空注册表
func NewWorkflowRegistry() *WorkflowRegistry {
	return &WorkflowRegistry{workflows: make(map[string]*WorkflowConfig)}
}

// Register 注册工作流，重名时返回错误
func (r *WorkflowRegistry) Register(cfg *WorkflowConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.workflows[cfg.Name]; exists {
		return fmt.Errorf("工作流 %s 已注册", cfg.Name)
	}
	r.workflows[cfg.Name] = cfg
	return nil
}

// Get 按名称查找工作流
func (r *WorkflowRegistry) Get(name string) (*WorkflowConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.workflows[name]
	return cfg, ok
}

// Names 已注册的工作流名称，按字典序
func (r *WorkflowRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultWorkflowRegistry 内置健康场景工作流
func DefaultWorkflowRegistry() *WorkflowRegistry {
	registry := NewWorkflowRegistry()

	builtin := []*WorkflowConfig{
		{
			Name:        "daily_checkin",
			Description: "每日签到：获取时间并计算用户输入的表达式",
			Steps: []WorkflowStep{
				{Tool: "time", Action: "get_time", Parameters: map[string]any{}},
				{Tool: "calculator", Action: "calculate", Parameters: map[string]any{"expression": UserInputToken}},
			},
		},
		{
			Name:        "health_analysis",
			Description: "健康数据分析：查询历史数据、计算指标、生成图表和趋势结论",
			Steps: []WorkflowStep{
				{Tool: "database-sqlite", Action: "query_health_data", Parameters: map[string]any{
					"user_query":  UserInputToken,
					"table_focus": "health_metrics",
				}},
				{Tool: "calculator", Action: "calculate_health_metrics", Parameters: map[string]any{}},
				{Tool: "quickchart", Action: "generate_health_dashboard", Parameters: map[string]any{"chart_type": "line"}},
				{Tool: "sequential-thinking", Action: "analyze_health_patterns", Parameters: map[string]any{}},
			},
		},
		{
			Name:        "nutrition_planning",
			Description: "营养规划：搜索研究资料并计算营养需求",
			Steps: []WorkflowStep{
				{Tool: "brave-search", Action: "search", Parameters: map[string]any{
					"query": UserInputToken,
					"count": 5,
				}},
				{Tool: "calculator", Action: "calculate_nutrition_requirements", Parameters: map[string]any{}},
				{Tool: "database-sqlite", Action: "query_diet_history", Parameters: map[string]any{}},
			},
		},
		{
			Name:        "fitness_planning",
			Description: "运动计划：结合用户偏好与天气情况",
			Steps: []WorkflowStep{
				{Tool: "memory", Action: "retrieve", Parameters: map[string]any{}},
				{Tool: "weather", Action: "get_weather", Parameters: map[string]any{"location": "北京"}},
				{Tool: "calculator", Action: "calculate_health_metrics", Parameters: map[string]any{}},
			},
		},
		{
			Name:        "research_query",
			Description: "健康信息检索并存入记忆",
			Steps: []WorkflowStep{
				{Tool: "brave-search", Action: "search", Parameters: map[string]any{"query": UserInputToken, "count": 5}},
				{Tool: "memory", Action: "store", Parameters: map[string]any{"data": UserInputToken}},
			},
		},
	}

	for _, cfg := range builtin {
		// 内置工作流名称互不相同，Register 不会失败
		_ = registry.Register(cfg)
	}
	return registry
}

// WorkflowRunner 顺序执行工作流的运行器
type WorkflowRunner struct {
	dispatcher *SmartDispatcher
	registry   *WorkflowRegistry
	logger     *zap.Logger
}

// NewWorkflowRunner 创建运行器
func NewWorkflowRunner(dispatcher *SmartDispatcher, registry *WorkflowRegistry, logger *zap.Logger) *WorkflowRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowRunner{
		dispatcher: dispatcher,
		registry:   registry,
		logger:     logger,
	}
}

// Run 执行命名工作流
//
// 步骤严格顺序执行，单步失败只记录日志行，不中断后续步骤。
// userInput 替换参数中的 {{user_input}} 标记；contextMap 中的字符串值
// 以 {{key}} 形式参与同样的替换。
func (r *WorkflowRunner) Run(ctx context.Context, workflowName, userInput string, contextMap map[string]any) *WorkflowResult {
	cfg, ok := r.registry.Get(workflowName)
	if !ok {
		return &WorkflowResult{
			Success:          false,
			WorkflowName:     workflowName,
			Results:          map[string]any{},
			ExecutionSummary: fmt.Sprintf("工作流配置不存在: %s", workflowName),
			Metadata: map[string]any{
				"tool_mode":       string(r.dispatcher.Mode()),
				"total_steps":     0,
				"completed_steps": 0,
			},
		}
	}

	r.logger.Info("执行工作流",
		zap.String("workflow", workflowName),
		zap.String("mode", string(r.dispatcher.Mode())),
		zap.Int("steps", len(cfg.Steps)),
	)

	results := make(map[string]any)
	summary := make([]string, 0, len(cfg.Steps))

	for _, step := range cfg.Steps {
		params := substituteParams(step.Parameters, userInput, contextMap)
		result := r.dispatcher.Dispatch(ctx, step.Tool, step.Action, params)

		key := fmt.Sprintf("%s_%s", step.Tool, step.Action)
		if result.Success {
			results[key] = result.Data
			summary = append(summary, fmt.Sprintf("%s.%s (%s) 耗时 %.2fs",
				step.Tool, step.Action, result.ModeUsed, result.ExecutionTime.Seconds()))
		} else {
			summary = append(summary, fmt.Sprintf("%s.%s 失败: %s", step.Tool, step.Action, result.Error))
			r.logger.Warn("工作流步骤失败，继续执行",
				zap.String("workflow", workflowName),
				zap.String("step", key),
				zap.String("error", result.Error),
			)
		}
	}

	return &WorkflowResult{
		Success:          true, // 跑完即视为完成，部分失败见 Metadata
		WorkflowName:     workflowName,
		Results:          results,
		ExecutionSummary: strings.Join(summary, "\n"),
		Metadata: map[string]any{
			"tool_mode":       string(r.dispatcher.Mode()),
			"total_steps":     len(cfg.Steps),
			"completed_steps": len(results),
		},
	}
}

// substituteParams 复制参数并替换模板标记，不修改配置本身
func substituteParams(params map[string]any, userInput string, contextMap map[string]any) map[string]any {
	substituted := make(map[string]any, len(params))
	for k, v := range params {
		s, ok := v.(string)
		if !ok {
			substituted[k] = v
			continue
		}

		s = strings.ReplaceAll(s, UserInputToken, userInput)
		for ck, cv := range contextMap {
			if cs, ok := cv.(string); ok {
				s = strings.ReplaceAll(s, "{{"+ck+"}}", cs)
			}
		}
		substituted[k] = s
	}
	return substituted
}
