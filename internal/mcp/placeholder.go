package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/ArcueidShiki/AuraWell-Agent/internal/health"

	"github.com/Knetic/govaluate"
)

// PlaceholderToolInterface 占位符工具接口
//
// 对所有工具合成确定性的模拟数据，不产生任何 I/O 副作用，
// 每次调用由显式超时约束。
type PlaceholderToolInterface struct {
	timeout time.Duration
	now     func() time.Time
}

// NewPlaceholderToolInterface 创建占位符接口
func NewPlaceholderToolInterface(timeout time.Duration) *PlaceholderToolInterface {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PlaceholderToolInterface{
		timeout: timeout,
		now:     time.Now,
	}
}

// Call 实现 ToolInterface
func (p *PlaceholderToolInterface) Call(ctx context.Context, toolName, action string, params map[string]any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("占位符调用超时: %w", err)
	}

	switch toolName {
	case "calculator":
		return p.calculator(action, params)
	case "database-sqlite":
		return p.database(action, params)
	case "time":
		return p.timeTool(action)
	case "filesystem":
		return p.filesystem(action, params)
	case "brave-search":
		return p.searchTool(params)
	case "quickchart":
		return p.quickchart(params)
	case "weather":
		return p.weather(params)
	case "memory":
		return p.memory(action, params)
	case "sequential-thinking":
		return p.thinking()
	default:
		return map[string]any{
			"status":  "success",
			"message": fmt.Sprintf("占位符工具 %s 执行完成", toolName),
			"action":  action,
		}, nil
	}
}

// calculator 占位符同样求值简单表达式，保证演示结果可用
func (p *PlaceholderToolInterface) calculator(action string, params map[string]any) (map[string]any, error) {
	switch action {
	case "calculate":
		expr := stringParam(params, "expression")
		if expr == "" {
			expr = "1+1"
		}
		expression, err := govaluate.NewEvaluableExpression(expr)
		if err != nil {
			return map[string]any{"status": "error", "message": "无效的数学表达式", "expression": expr}, nil
		}
		result, err := expression.Evaluate(nil)
		if err != nil {
			return map[string]any{"status": "error", "message": "无效的数学表达式", "expression": expr}, nil
		}
		return map[string]any{"status": "success", "result": result, "expression": expr}, nil

	case "calculate_health_metrics":
		metrics, err := health.CalculateMetrics(health.DefaultProfile())
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"status":           "success",
			"calculations":     metrics,
			"calculation_date": p.now().Format("2006-01-02"),
			"formulas_used":    []string{"BMI", "Mifflin-St Jeor"},
		}, nil

	case "calculate_nutrition_requirements":
		return map[string]any{
			"status": "success",
			"nutrition_needs": map[string]any{
				"daily_calories": 2310,
				"protein_g":      138.6,
				"carbs_g":        288.8,
				"fat_g":          77.0,
				"water_ml":       2500,
			},
			"meal_distribution": map[string]any{
				"breakfast": 0.25,
				"lunch":     0.35,
				"dinner":    0.30,
				"snacks":    0.10,
			},
		}, nil

	default:
		return map[string]any{"status": "success", "result": 42, "action": action}, nil
	}
}

func (p *PlaceholderToolInterface) database(action string, params map[string]any) (map[string]any, error) {
	records := health.SampleMetricRecords(p.now().AddDate(0, 0, -6), 7)

	switch action {
	case "query", "query_health_data", "query_comprehensive_health_data":
		return map[string]any{
			"status": "success",
			"data": map[string]any{
				"health_metrics": records,
				"trends":         health.WeightTrend(records),
			},
			"query_params": params,
		}, nil
	case "query_diet_history":
		return map[string]any{
			"status": "success",
			"data": map[string]any{
				"diet_records": []map[string]any{
					{"date": records[len(records)-1].Date, "calories": 2150, "protein_g": 120},
				},
			},
		}, nil
	default:
		return map[string]any{"status": "success", "rows_affected": 1, "action": action}, nil
	}
}

func (p *PlaceholderToolInterface) timeTool(action string) (map[string]any, error) {
	now := p.now()
	return map[string]any{
		"status": "success",
		"time_data": map[string]any{
			"current_time": now.Format(time.RFC3339),
			"timestamp":    now.Unix(),
			"formatted":    now.Format("2006-01-02 15:04:05"),
		},
		"action": action,
	}, nil
}

func (p *PlaceholderToolInterface) filesystem(action string, params map[string]any) (map[string]any, error) {
	switch action {
	case "read_file":
		return map[string]any{
			"status":    "success",
			"content":   "这是从文件读取的模拟内容",
			"file_path": stringParam(params, "path"),
			"file_size": 1024,
		}, nil
	case "write_file":
		return map[string]any{
			"status":        "success",
			"file_path":     stringParam(params, "path"),
			"bytes_written": len(stringParam(params, "content")),
		}, nil
	default:
		return map[string]any{"status": "success", "operation": action}, nil
	}
}

func (p *PlaceholderToolInterface) searchTool(params map[string]any) (map[string]any, error) {
	query := stringParam(params, "query")
	if query == "" {
		query = "健康"
	}

	return map[string]any{
		"status": "success",
		"search_results": []map[string]any{
			{
				"title":   fmt.Sprintf("关于%s的最新研究", query),
				"url":     "https://example.com/health-research",
				"snippet": fmt.Sprintf("%s相关的科学研究显示积极效果", query),
			},
			{
				"title":   fmt.Sprintf("%s实用指南", query),
				"url":     "https://example.com/health-guide",
				"snippet": fmt.Sprintf("专业的%s建议和实践方法", query),
			},
		},
		"search_query":  query,
		"total_results": 2,
	}, nil
}

func (p *PlaceholderToolInterface) quickchart(params map[string]any) (map[string]any, error) {
	chartType := stringParam(params, "chart_type")
	if chartType == "" {
		chartType = "line"
	}
	return map[string]any{
		"status":     "success",
		"chart_url":  fmt.Sprintf("https://quickchart.io/chart?c={type:'%s'}", chartType),
		"chart_type": chartType,
	}, nil
}

func (p *PlaceholderToolInterface) weather(params map[string]any) (map[string]any, error) {
	location := stringParam(params, "location")
	if location == "" {
		location = "北京"
	}
	return map[string]any{
		"status": "success",
		"weather_data": map[string]any{
			"temperature":          22,
			"humidity":             60,
			"condition":            "晴朗",
			"exercise_suitability": "excellent",
			"location":             location,
		},
	}, nil
}

func (p *PlaceholderToolInterface) memory(action string, params map[string]any) (map[string]any, error) {
	switch action {
	case "store":
		return map[string]any{
			"status":      "success",
			"memory_id":   fmt.Sprintf("mem_%d", p.now().Unix()),
			"stored_data": params["data"],
		}, nil
	case "retrieve":
		return map[string]any{
			"status": "success",
			"retrieved_data": map[string]any{
				"user_preferences": []string{"健康饮食", "规律运动"},
				"health_goals":     []string{"减重5kg", "提升体能"},
			},
		}, nil
	default:
		return map[string]any{"status": "success", "action": action}, nil
	}
}

func (p *PlaceholderToolInterface) thinking() (map[string]any, error) {
	return map[string]any{
		"status": "success",
		"thinking_steps": []string{
			"分析问题背景",
			"收集相关信息",
			"评估可能方案",
			"得出结论建议",
		},
		"conclusion": "基于分析得出的健康建议",
		"confidence": 0.85,
	}, nil
}
