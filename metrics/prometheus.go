// Package metrics 封装了基于 Prometheus 的指标采集，预定义模拟引擎的标准监控指标。
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 封装了内部独立的 Prometheus 注册中心及预定义的模拟指标。
type Metrics struct {
	registry *prometheus.Registry

	// 预定义的标准指标，减少各业务模块的样板代码
	SimulationsTotal   *prometheus.CounterVec   // 模拟请求总量 (维度: model, status)
	PathsGenerated     *prometheus.CounterVec   // 已生成路径总数 (维度: model)
	SimulationDuration *prometheus.HistogramVec // 单次模拟耗时分布 (维度: model)
	AdvisoriesTotal    *prometheus.CounterVec   // 数值建议告警总量 (维度: model, kind)
	BuildInfo          *prometheus.GaugeVec     // 构建信息
}

// NewMetrics 初始化并返回一个新的指标采集器。
// 它会自动注册 Go 运行时指标和进程指标。
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.SimulationsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_requests_total",
		Help: "Total number of simulation requests",
	}, []string{"model", "status"})

	m.PathsGenerated = m.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_paths_generated_total",
		Help: "Total number of sample paths generated",
	}, []string{"model"})

	m.SimulationDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "simulation_duration_seconds",
		Help:    "Simulation request latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"model"})

	m.AdvisoriesTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "simulation_advisories_total",
		Help: "Total number of numerical advisories raised during simulation",
	}, []string{"model", "kind"})

	slog.Info("simulation metrics registry initialized", "service", serviceName)
	return m
}

// NewCounterVec 创建并注册一个新的计数器指标。
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// Handler 返回该注册中心的 Prometheus 抓取端点处理器。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
