package mcp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ArcueidShiki/AuraWell-Agent/internal/config"
	mcpcore "github.com/ArcueidShiki/AuraWell-Agent/internal/mcp"

	"github.com/gin-gonic/gin"
)

func setupHandler(t *testing.T) *MCPHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := mcpcore.NewManager(&config.MCPConfig{
		Mode:           "placeholder",
		FilesystemRoot: t.TempDir(),
	}, nil)
	if err != nil {
		t.Fatalf("创建管理器失败: %v", err)
	}
	return NewMCPHandler(manager)
}

func postJSON(t *testing.T, handler gin.HandlerFunc, path string, body any, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	handler(c)
	return w
}

func TestCallToolReturnsResult(t *testing.T) {
	handler := setupHandler(t)

	w := postJSON(t, handler.CallTool, "/api/v1/mcp/call", map[string]any{
		"tool_name":  "calculator",
		"action":     "calculate",
		"parameters": map[string]any{"expression": "2+3"},
	}, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var result mcpcore.CallResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if !result.Success || result.ModeUsed != mcpcore.ModePlaceholder {
		t.Fatalf("占位符调用应成功: %+v", result)
	}
	if result.Data["result"] != float64(5) {
		t.Fatalf("2+3 应为 5，实际 %v", result.Data["result"])
	}
	if result.CallID == "" {
		t.Fatal("结果缺少 call_id")
	}
}

func TestCallToolRejectsInvalidBody(t *testing.T) {
	handler := setupHandler(t)

	// 缺少必填的 action 字段
	w := postJSON(t, handler.CallTool, "/api/v1/mcp/call", map[string]any{
		"tool_name": "calculator",
	}, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestRunWorkflowKnownName(t *testing.T) {
	handler := setupHandler(t)

	w := postJSON(t, handler.RunWorkflow, "/api/v1/mcp/workflows/daily_checkin/run", map[string]any{
		"user_input": "7*8",
	}, gin.Params{{Key: "name", Value: "daily_checkin"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var result mcpcore.WorkflowResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if !result.Success {
		t.Fatalf("工作流应执行成功: %+v", result)
	}
}

func TestRunWorkflowUnknownNameReturns404(t *testing.T) {
	handler := setupHandler(t)

	w := postJSON(t, handler.RunWorkflow, "/api/v1/mcp/workflows/nonexistent/run", map[string]any{
		"user_input": "x",
	}, gin.Params{{Key: "name", Value: "nonexistent"}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestListWorkflows(t *testing.T) {
	handler := setupHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/mcp/workflows", nil)
	handler.ListWorkflows(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Workflows []string `json:"workflows"`
			Count     int      `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Data.Count == 0 {
		t.Fatal("应返回内置工作流")
	}
}

func TestGetPerformanceReport(t *testing.T) {
	handler := setupHandler(t)

	// 先产生一次调用让报告有内容
	postJSON(t, handler.CallTool, "/api/v1/mcp/call", map[string]any{
		"tool_name": "time",
		"action":    "get_time",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/mcp/performance", nil)
	handler.GetPerformanceReport(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	for _, key := range []string{"tool_mode", "performance_stats", "summary", "recommendations"} {
		if _, ok := resp.Data[key]; !ok {
			t.Fatalf("报告缺少 %s 字段", key)
		}
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	handler := setupHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/mcp/health", nil)
	handler.HealthCheck(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Data["tool_mode"] != "placeholder" {
		t.Fatalf("tool_mode 应为 placeholder: %v", resp.Data["tool_mode"])
	}
	if resp.Data["placeholder_interface"] != "available" {
		t.Fatalf("占位符接口应始终可用: %v", resp.Data)
	}
}
