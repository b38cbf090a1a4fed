package mcp

import (
	"sync"
	"sync/atomic"
	"time"
)

// PerformanceTracker 工具调用性能统计
//
// 每次调度记录一次事件，统计在进程生命周期内累积，从不自动重置。
// 计数使用原子操作，map 的创建由读写锁保护，多个调度器可共享同一实例。
type PerformanceTracker struct {
	tools    map[string]*ToolStats
	mu       sync.RWMutex
	recorder MetricsRecorder
}

// ToolStats 单个工具的统计数据
type ToolStats struct {
	Name          string
	TotalCalls    atomic.Int64
	SuccessCalls  atomic.Int64
	FailedCalls   atomic.Int64
	TotalDuration atomic.Int64 // 纳秒
	MinDuration   atomic.Int64
	MaxDuration   atomic.Int64
	LastCalled    atomic.Int64 // Unix 时间戳
	LastError     atomic.Value // string
}

// MetricsRecorder 指标记录接口（可对接 Prometheus）
type MetricsRecorder interface {
	RecordToolCall(tool string, success bool, mode ExecutionMode, duration time.Duration)
}

// NewPerformanceTracker 创建性能统计器，recorder 可以为 nil
func NewPerformanceTracker(recorder MetricsRecorder) *PerformanceTracker {
	return &PerformanceTracker{
		tools:    make(map[string]*ToolStats),
		recorder: recorder,
	}
}

func (t *PerformanceTracker) getOrCreateStats(name string) *ToolStats {
	t.mu.RLock()
	stats, ok := t.tools[name]
	t.mu.RUnlock()

	if ok {
		return stats
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// 双重检查
	if stats, ok = t.tools[name]; ok {
		return stats
	}

	stats = &ToolStats{Name: name}
	stats.MinDuration.Store(int64(^uint64(0) >> 1)) // Max int64
	t.tools[name] = stats
	return stats
}

// RecordCall 记录一次工具调用
func (t *PerformanceTracker) RecordCall(name string, success bool, mode ExecutionMode, duration time.Duration, callErr error) {
	stats := t.getOrCreateStats(name)

	stats.TotalCalls.Add(1)
	if success {
		stats.SuccessCalls.Add(1)
	} else {
		stats.FailedCalls.Add(1)
		if callErr != nil {
			stats.LastError.Store(callErr.Error())
		}
	}

	durationNs := duration.Nanoseconds()
	stats.TotalDuration.Add(durationNs)
	stats.LastCalled.Store(time.Now().Unix())

	for {
		old := stats.MinDuration.Load()
		if durationNs >= old || stats.MinDuration.CompareAndSwap(old, durationNs) {
			break
		}
	}
	for {
		old := stats.MaxDuration.Load()
		if durationNs <= old || stats.MaxDuration.CompareAndSwap(old, durationNs) {
			break
		}
	}

	if t.recorder != nil {
		t.recorder.RecordToolCall(name, success, mode, duration)
	}
}

// ToolStatsSnapshot 工具统计快照
type ToolStatsSnapshot struct {
	Name          string        `json:"name"`
	TotalCalls    int64         `json:"total_calls"`
	SuccessCalls  int64         `json:"successful_calls"`
	FailedCalls   int64         `json:"failed_calls"`
	SuccessRate   float64       `json:"success_rate"`
	TotalDuration time.Duration `json:"total_execution_time"`
	AvgDuration   time.Duration `json:"average_execution_time"`
	MinDuration   time.Duration `json:"min_execution_time"`
	MaxDuration   time.Duration `json:"max_execution_time"`
	LastCalled    *time.Time    `json:"last_called,omitempty"`
	LastError     string        `json:"last_error,omitempty"`
}

// Report 性能报告
type Report struct {
	ToolMode ExecutionMode                 `json:"tool_mode"`
	Tools    map[string]*ToolStatsSnapshot `json:"performance_stats"`
	Summary  ReportSummary                 `json:"summary"`
}

// ReportSummary 全局汇总
type ReportSummary struct {
	TotalTools  int     `json:"total_tools"`
	TotalCalls  int64   `json:"total_calls"`
	SuccessRate float64 `json:"success_rate"` // 百分比，无调用时为 100
}

// Snapshot 生成某个工具的统计快照，不存在时返回 nil
func (t *PerformanceTracker) Snapshot(name string) *ToolStatsSnapshot {
	t.mu.RLock()
	stats, ok := t.tools[name]
	t.mu.RUnlock()

	if !ok {
		return nil
	}
	return snapshotStats(stats)
}

// BuildReport 汇总所有工具的统计
func (t *PerformanceTracker) BuildReport(mode ExecutionMode) *Report {
	t.mu.RLock()
	defer t.mu.RUnlock()

	report := &Report{
		ToolMode: mode,
		Tools:    make(map[string]*ToolStatsSnapshot, len(t.tools)),
	}

	var totalCalls, successCalls int64
	for name, stats := range t.tools {
		snapshot := snapshotStats(stats)
		report.Tools[name] = snapshot
		totalCalls += snapshot.TotalCalls
		successCalls += snapshot.SuccessCalls
	}

	report.Summary = ReportSummary{
		TotalTools:  len(report.Tools),
		TotalCalls:  totalCalls,
		SuccessRate: 100,
	}
	if totalCalls > 0 {
		report.Summary.SuccessRate = float64(successCalls) / float64(totalCalls) * 100
	}
	return report
}

func snapshotStats(stats *ToolStats) *ToolStatsSnapshot {
	total := stats.TotalCalls.Load()
	success := stats.SuccessCalls.Load()
	totalDuration := stats.TotalDuration.Load()

	snapshot := &ToolStatsSnapshot{
		Name:          stats.Name,
		TotalCalls:    total,
		SuccessCalls:  success,
		FailedCalls:   stats.FailedCalls.Load(),
		TotalDuration: time.Duration(totalDuration),
	}

	if total > 0 {
		snapshot.SuccessRate = float64(success) / float64(total)
		snapshot.AvgDuration = time.Duration(totalDuration / total)
	}

	minDur := stats.MinDuration.Load()
	if minDur != int64(^uint64(0)>>1) {
		snapshot.MinDuration = time.Duration(minDur)
	}
	snapshot.MaxDuration = time.Duration(stats.MaxDuration.Load())

	if lastCalled := stats.LastCalled.Load(); lastCalled > 0 {
		t := time.Unix(lastCalled, 0)
		snapshot.LastCalled = &t
	}
	if lastErr := stats.LastError.Load(); lastErr != nil {
		snapshot.LastError = lastErr.(string)
	}
	return snapshot
}

// Recommendations 根据报告生成优化建议，规则顺序固定
func Recommendations(report *Report) []string {
	recommendations := make([]string, 0, 3)

	if report.Summary.TotalCalls > 0 && report.Summary.SuccessRate < 90 {
		recommendations = append(recommendations, "工具成功率较低，建议检查网络连接和 API 配置")
	}
	if report.Summary.TotalCalls == 0 {
		recommendations = append(recommendations, "尚未有工具调用记录，建议进行功能测试")
	}
	if report.ToolMode == ModeHybrid {
		recommendations = append(recommendations, "当前使用混合模式，可在可靠性和性能之间取得平衡")
	}
	return recommendations
}
