package mcp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder 将工具调用统计导出为 Prometheus 指标
type PrometheusRecorder struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusRecorder 在默认注册表上创建记录器
func NewPrometheusRecorder() *PrometheusRecorder {
	return NewPrometheusRecorderWith(prometheus.DefaultRegisterer)
}

// NewPrometheusRecorderWith 在指定注册表上创建记录器（测试用）
func NewPrometheusRecorderWith(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		calls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aurawell_mcp_tool_calls_total",
				Help: "工具调用总数",
			},
			[]string{"tool", "mode", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aurawell_mcp_tool_call_duration_seconds",
				Help:    "工具调用延迟分布",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
	}
}

// RecordToolCall 实现 MetricsRecorder
func (r *PrometheusRecorder) RecordToolCall(tool string, success bool, mode ExecutionMode, duration time.Duration) {
	status := "success"
	if !success {
		status = "failed"
	}

	r.calls.WithLabelValues(tool, string(mode), status).Inc()
	r.duration.WithLabelValues(tool).Observe(duration.Seconds())
}
