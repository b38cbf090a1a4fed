package mcp

// ToolCallRequest 工具调用请求体。
type ToolCallRequest struct {
	ToolName   string         `json:"tool_name" binding:"required"`
	Action     string         `json:"action" binding:"required"`
	Parameters map[string]any `json:"parameters"`
}

// WorkflowRunRequest 工作流执行请求体。
type WorkflowRunRequest struct {
	UserInput string         `json:"user_input"`
	Context   map[string]any `json:"context"`
}
