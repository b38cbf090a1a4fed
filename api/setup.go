package api

import (
	mcpHandlers "github.com/ArcueidShiki/AuraWell-Agent/api/handlers/mcp"
	"github.com/ArcueidShiki/AuraWell-Agent/internal/config"
	"github.com/ArcueidShiki/AuraWell-Agent/internal/mcp"
	"github.com/ArcueidShiki/AuraWell-Agent/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Handlers 聚合所有 API Handler
type Handlers struct {
	MCP *mcpHandlers.MCPHandler
}

// SetupRouter 设置并返回 Gin 路由
func SetupRouter(db *gorm.DB, cfg *config.Config, manager *mcp.Manager) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORS(), metrics.PrometheusMiddleware())

	handlers := &Handlers{
		MCP: mcpHandlers.NewMCPHandler(manager),
	}

	// 系统探针与指标
	router.GET("/health", HealthCheck())
	router.GET("/ready", ReadinessCheck(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterRoutes(router, handlers)
	return router
}
