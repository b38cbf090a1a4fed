package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有 API 路由
func RegisterRoutes(router *gin.Engine, handlers *Handlers) {
	apiV1 := router.Group("/api/v1")
	registerMCPRoutes(apiV1, handlers)
}

// registerMCPRoutes 注册工具调度相关路由
func registerMCPRoutes(apiGroup *gin.RouterGroup, h *Handlers) {
	mcpGroup := apiGroup.Group("/mcp")
	{
		mcpGroup.POST("/call", h.MCP.CallTool)
		mcpGroup.GET("/workflows", h.MCP.ListWorkflows)
		mcpGroup.POST("/workflows/:name/run", h.MCP.RunWorkflow)
		mcpGroup.GET("/performance", h.MCP.GetPerformanceReport)
		mcpGroup.GET("/health", h.MCP.HealthCheck)
	}
}
