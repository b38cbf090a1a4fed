// 演示程序：在占位符模式下跑通全部内置工作流，
// 打印每步结果、性能报告和健康检查，不依赖外部服务。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ArcueidShiki/AuraWell-Agent/internal/config"
	"github.com/ArcueidShiki/AuraWell-Agent/internal/logger"
	"github.com/ArcueidShiki/AuraWell-Agent/internal/mcp"
)

func main() {
	mode := os.Getenv("APP_MCP_MODE")
	if mode == "" {
		mode = "placeholder"
	}

	if err := logger.Init("warn", "console", "stderr"); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := &config.MCPConfig{
		Mode:           mode,
		FilesystemRoot: "./workspace",
	}

	manager, err := mcp.NewManager(cfg, nil, mcp.WithLogger(logger.Named("demo")))
	if err != nil {
		fmt.Printf("初始化工具管理器失败: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	fmt.Printf("==== AuraWell 工具编排演示（模式: %s）====\n\n", manager.Mode())

	inputs := map[string]string{
		"daily_checkin":      "2+2",
		"health_analysis":    "分析我最近的体重趋势",
		"nutrition_planning": "制定增肌饮食计划",
		"fitness_planning":   "每周三次力量训练",
		"research_query":     "间歇性断食的科学依据",
	}

	for _, name := range manager.Workflows() {
		userInput := inputs[name]
		fmt.Printf("---- 工作流: %s ----\n", name)

		result := manager.RunWorkflow(ctx, name, userInput, nil)
		fmt.Println(result.ExecutionSummary)
		fmt.Printf("完成步骤: %v/%v\n\n", result.Metadata["completed_steps"], result.Metadata["total_steps"])
	}

	fmt.Println("==== 性能报告 ====")
	printJSON(manager.PerformanceReport())

	fmt.Println("\n==== 健康检查 ====")
	printJSON(manager.HealthCheck(ctx))
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("序列化失败: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
