package mcp

import (
	"net/http"

	response "github.com/ArcueidShiki/AuraWell-Agent/api/handlers/common"
	"github.com/ArcueidShiki/AuraWell-Agent/internal/mcp"

	"github.com/gin-gonic/gin"
)

// MCPHandler 工具调度 Handler
type MCPHandler struct {
	manager *mcp.Manager
}

// NewMCPHandler 创建 MCPHandler
func NewMCPHandler(manager *mcp.Manager) *MCPHandler {
	return &MCPHandler{manager: manager}
}

// CallTool 调用单个工具
// @Summary 调用单个工具
// @Tags MCP
// @Accept json
// @Produce json
// @Param request body ToolCallRequest true "调用参数"
// @Success 200 {object} mcp.CallResult
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/mcp/call [post]
func (h *MCPHandler) CallTool(c *gin.Context) {
	var req ToolCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Success: false, Message: "请求参数错误: " + err.Error()})
		return
	}

	// 调度永远返回结果，工具级失败体现在 result.Success 里
	result := h.manager.CallTool(c.Request.Context(), req.ToolName, req.Action, req.Parameters)
	c.JSON(http.StatusOK, result)
}

// RunWorkflow 执行命名工作流
// @Summary 执行命名工作流
// @Tags MCP
// @Accept json
// @Produce json
// @Param name path string true "工作流名称"
// @Param request body WorkflowRunRequest true "执行输入"
// @Success 200 {object} mcp.WorkflowResult
// @Failure 404 {object} mcp.WorkflowResult
// @Router /api/v1/mcp/workflows/{name}/run [post]
func (h *MCPHandler) RunWorkflow(c *gin.Context) {
	name := c.Param("name")

	var req WorkflowRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Success: false, Message: "请求参数错误: " + err.Error()})
		return
	}

	result := h.manager.RunWorkflow(c.Request.Context(), name, req.UserInput, req.Context)
	if !result.Success && len(result.Results) == 0 {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListWorkflows 列出已注册的工作流
// @Summary 列出已注册的工作流
// @Tags MCP
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /api/v1/mcp/workflows [get]
func (h *MCPHandler) ListWorkflows(c *gin.Context) {
	names := h.manager.Workflows()
	c.JSON(http.StatusOK, response.APIResponse{
		Success: true,
		Data: gin.H{
			"workflows": names,
			"count":     len(names),
		},
	})
}

// GetPerformanceReport 性能报告
// @Summary 工具调用性能报告
// @Tags MCP
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /api/v1/mcp/performance [get]
func (h *MCPHandler) GetPerformanceReport(c *gin.Context) {
	c.JSON(http.StatusOK, response.APIResponse{
		Success: true,
		Data:    h.manager.PerformanceReport(),
	})
}

// HealthCheck 工具后端健康状态
// @Summary 工具后端健康状态
// @Tags MCP
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /api/v1/mcp/health [get]
func (h *MCPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, response.APIResponse{
		Success: true,
		Data:    h.manager.HealthCheck(c.Request.Context()),
	})
}
