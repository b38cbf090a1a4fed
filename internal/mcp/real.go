package mcp

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ArcueidShiki/AuraWell-Agent/internal/config"
	"github.com/ArcueidShiki/AuraWell-Agent/internal/health"
	"github.com/ArcueidShiki/AuraWell-Agent/pkg/httputil"

	"github.com/Knetic/govaluate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// adapterFunc 单个工具的操作分发函数
type adapterFunc func(ctx context.Context, action string, params map[string]any) (map[string]any, error)

// RealToolInterface 真实工具接口
//
// 按工具名将调用分发到具体后端：SQLite 数据库、表达式计算、
// 网络搜索、文件系统、时间。未映射的工具名走通用透传。
type RealToolInterface struct {
	db       *gorm.DB
	fsRoot   string
	search   *searchClient
	adapters map[string]adapterFunc
	extra    map[string]adapterFunc
	logger   *zap.Logger
	now      func() time.Time
}

// NewRealToolInterface 创建真实工具接口
func NewRealToolInterface(cfg *config.MCPConfig, db *gorm.DB, logger *zap.Logger) *RealToolInterface {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &RealToolInterface{
		db:     db,
		fsRoot: cfg.FilesystemRoot,
		search: newSearchClient(&cfg.Search),
		extra:  make(map[string]adapterFunc),
		logger: logger,
		now:    time.Now,
	}

	r.adapters = map[string]adapterFunc{
		"database-sqlite": r.callDatabase,
		"calculator":      r.callCalculator,
		"brave-search":    r.callSearch,
		"filesystem":      r.callFilesystem,
		"time":            r.callTime,
	}
	return r
}

// Call 实现 ToolInterface
func (r *RealToolInterface) Call(ctx context.Context, toolName, action string, params map[string]any) (map[string]any, error) {
	if adapter, ok := r.adapters[toolName]; ok {
		return adapter(ctx, action, params)
	}

	// 通用透传：尝试外部注册的处理器
	if handler, ok := r.extra[toolName]; ok {
		return handler(ctx, action, params)
	}
	return nil, fmt.Errorf("工具 %s 未接入真实后端", toolName)
}

// RegisterHandler 注册额外的工具处理器（通用透传路径）
func (r *RealToolInterface) RegisterHandler(toolName string, handler func(ctx context.Context, action string, params map[string]any) (map[string]any, error)) {
	r.extra[toolName] = handler
}

// ListTools 列出已接入的工具名
func (r *RealToolInterface) ListTools(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(r.adapters)+len(r.extra))
	for name := range r.adapters {
		names = append(names, name)
	}
	for name := range r.extra {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// callDatabase 数据库工具：按 SQL 查询
func (r *RealToolInterface) callDatabase(ctx context.Context, action string, params map[string]any) (map[string]any, error) {
	if action != "query" && action != "query_health_data" {
		return nil, &UnsupportedActionError{Tool: "database-sqlite", Action: action}
	}

	if r.db == nil {
		return nil, fmt.Errorf("数据库未连接")
	}

	sql := stringParam(params, "sql")
	if sql == "" {
		return nil, fmt.Errorf("缺少 sql 参数")
	}
	if stmt := strings.ToUpper(strings.TrimSpace(sql)); !strings.HasPrefix(stmt, "SELECT") {
		return nil, fmt.Errorf("数据库工具只允许 SELECT 查询")
	}

	var rows []map[string]any
	if err := r.db.WithContext(ctx).Raw(sql).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("执行查询失败: %w", err)
	}

	return map[string]any{
		"status":    "success",
		"rows":      rows,
		"row_count": len(rows),
	}, nil
}

// callCalculator 计算器工具：表达式求值与健康指标计算
func (r *RealToolInterface) callCalculator(ctx context.Context, action string, params map[string]any) (map[string]any, error) {
	switch action {
	case "calculate":
		return evaluateExpression(stringParam(params, "expression"))
	case "calculate_health_metrics":
		return calculateHealthMetrics(params)
	default:
		return nil, &UnsupportedActionError{Tool: "calculator", Action: action}
	}
}

// callSearch 搜索工具
func (r *RealToolInterface) callSearch(ctx context.Context, action string, params map[string]any) (map[string]any, error) {
	if action != "search" {
		return nil, &UnsupportedActionError{Tool: "brave-search", Action: action}
	}

	query := stringParam(params, "query")
	if query == "" {
		return nil, fmt.Errorf("缺少 query 参数")
	}

	count := intParam(params, "count", 5)
	return r.search.Search(ctx, query, count)
}

// callFilesystem 文件系统工具：读写被限制在配置的根目录下
func (r *RealToolInterface) callFilesystem(ctx context.Context, action string, params map[string]any) (map[string]any, error) {
	path, err := r.resolvePath(stringParam(params, "path"))
	if err != nil {
		return nil, err
	}

	switch action {
	case "read_file":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取文件失败: %w", err)
		}
		return map[string]any{
			"status":    "success",
			"content":   string(content),
			"file_path": path,
			"file_size": len(content),
		}, nil

	case "write_file":
		content := stringParam(params, "content")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("创建目录失败: %w", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("写入文件失败: %w", err)
		}
		return map[string]any{
			"status":        "success",
			"file_path":     path,
			"bytes_written": len(content),
		}, nil

	default:
		return nil, &UnsupportedActionError{Tool: "filesystem", Action: action}
	}
}

// resolvePath 将相对路径限制在 fsRoot 内，拒绝越界访问
func (r *RealToolInterface) resolvePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("缺少 path 参数")
	}

	cleaned := filepath.Join(r.fsRoot, filepath.Clean("/"+path))
	root := filepath.Clean(r.fsRoot)
	if cleaned != root && !strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
		return "", fmt.Errorf("路径越界: %s", path)
	}
	return cleaned, nil
}

// callTime 时间工具
func (r *RealToolInterface) callTime(ctx context.Context, action string, params map[string]any) (map[string]any, error) {
	if action != "get_time" {
		return nil, &UnsupportedActionError{Tool: "time", Action: action}
	}

	now := r.now()
	return map[string]any{
		"status": "success",
		"time_data": map[string]any{
			"current_time": now.Format(time.RFC3339),
			"timestamp":    now.Unix(),
			"weekday":      now.Weekday().String(),
			"formatted":    now.Format("2006-01-02 15:04:05"),
		},
	}, nil
}

// evaluateExpression 用 govaluate 求值数学表达式
func evaluateExpression(expr string) (map[string]any, error) {
	if expr == "" {
		return nil, fmt.Errorf("缺少 expression 参数")
	}

	expression, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("解析表达式失败: %w", err)
	}

	result, err := expression.Evaluate(nil)
	if err != nil {
		return nil, fmt.Errorf("计算表达式失败: %w", err)
	}

	return map[string]any{
		"status":     "success",
		"result":     result,
		"expression": expr,
	}, nil
}

// calculateHealthMetrics 按档案参数计算健康指标，缺省值取演示档案
func calculateHealthMetrics(params map[string]any) (map[string]any, error) {
	profile := health.DefaultProfile()

	if v := stringParam(params, "sex"); v != "" {
		profile.Sex = v
	}
	if v := floatParam(params, "height_cm", 0); v > 0 {
		profile.HeightCm = v
	}
	if v := floatParam(params, "weight_kg", 0); v > 0 {
		profile.WeightKg = v
	}
	if v := intParam(params, "age", 0); v > 0 {
		profile.Age = v
	}
	if v := stringParam(params, "activity_level"); v != "" {
		profile.ActivityLevel = v
	}

	metrics, err := health.CalculateMetrics(profile)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"status":        "success",
		"calculations":  metrics,
		"formulas_used": []string{"BMI", "Mifflin-St Jeor"},
	}, nil
}

// searchClient 搜索 API 客户端
type searchClient struct {
	endpoint string
	apiKey   string
	client   *httputil.Client
}

func newSearchClient(cfg *config.SearchConfig) *searchClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &searchClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client: httputil.NewClient(
			httputil.WithTimeout(timeout),
			httputil.WithRetries(2),
			httputil.WithHeaders(map[string]string{
				"Accept":               "application/json",
				"X-Subscription-Token": cfg.APIKey,
			}),
		),
	}
}

// Search 执行网络搜索
func (s *searchClient) Search(ctx context.Context, query string, count int) (map[string]any, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("搜索 API 密钥未配置")
	}
	if count <= 0 || count > 10 {
		count = 5
	}

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("无效的搜索端点: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("count", fmt.Sprintf("%d", count))
	u.RawQuery = q.Encode()

	var body struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := s.client.GetJSON(ctx, u.String(), &body); err != nil {
		return nil, fmt.Errorf("搜索请求失败: %w", err)
	}

	results := make([]map[string]any, 0, len(body.Web.Results))
	for _, item := range body.Web.Results {
		results = append(results, map[string]any{
			"title":   item.Title,
			"url":     item.URL,
			"snippet": item.Description,
		})
	}

	return map[string]any{
		"status":         "success",
		"search_query":   query,
		"search_results": results,
		"total_results":  len(results),
	}, nil
}

// 参数提取辅助

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}
	return ""
}

func intParam(params map[string]any, key string, fallback int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func floatParam(params map[string]any, key string, fallback float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}
