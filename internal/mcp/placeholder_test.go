package mcp

import (
	"context"
	"testing"
	"time"
)

func TestPlaceholderKnownTools(t *testing.T) {
	p := NewPlaceholderToolInterface(time.Second)
	ctx := context.Background()

	cases := []struct {
		tool    string
		action  string
		params  map[string]any
		wantKey string
	}{
		{"calculator", "calculate", map[string]any{"expression": "9-3"}, "result"},
		{"calculator", "calculate_health_metrics", nil, "calculations"},
		{"calculator", "calculate_nutrition_requirements", nil, "nutrition_needs"},
		{"database-sqlite", "query_health_data", nil, "data"},
		{"time", "get_time", nil, "time_data"},
		{"filesystem", "read_file", map[string]any{"path": "a.txt"}, "content"},
		{"brave-search", "search", map[string]any{"query": "睡眠"}, "search_results"},
		{"quickchart", "generate", nil, "chart_url"},
		{"weather", "get_weather", nil, "weather_data"},
		{"memory", "retrieve", nil, "retrieved_data"},
		{"sequential-thinking", "analyze", nil, "thinking_steps"},
	}

	for _, c := range cases {
		data, err := p.Call(ctx, c.tool, c.action, c.params)
		if err != nil {
			t.Fatalf("%s.%s 占位符调用不应失败: %v", c.tool, c.action, err)
		}
		if data["status"] != "success" {
			t.Fatalf("%s.%s 状态应为 success: %+v", c.tool, c.action, data)
		}
		if _, ok := data[c.wantKey]; !ok {
			t.Fatalf("%s.%s 结果缺少 %s 字段: %+v", c.tool, c.action, c.wantKey, data)
		}
	}
}

func TestPlaceholderUnknownToolGenericResponse(t *testing.T) {
	p := NewPlaceholderToolInterface(time.Second)

	data, err := p.Call(context.Background(), "hologram", "project", nil)
	if err != nil {
		t.Fatalf("未知工具也应返回通用成功响应: %v", err)
	}
	if data["status"] != "success" || data["action"] != "project" {
		t.Fatalf("通用响应内容不正确: %+v", data)
	}
}

func TestPlaceholderInvalidExpression(t *testing.T) {
	p := NewPlaceholderToolInterface(time.Second)

	data, err := p.Call(context.Background(), "calculator", "calculate", map[string]any{
		"expression": "2+*",
	})
	if err != nil {
		t.Fatalf("占位符不应以 error 形式失败: %v", err)
	}
	if data["status"] != "error" {
		t.Fatalf("非法表达式应返回 error 状态: %+v", data)
	}
}

func TestPlaceholderRespectsCancelledContext(t *testing.T) {
	p := NewPlaceholderToolInterface(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Call(ctx, "time", "get_time", nil); err == nil {
		t.Fatal("已取消的上下文应导致调用失败")
	}
}
