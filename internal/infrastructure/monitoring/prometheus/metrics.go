package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the service exports.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Pipeline
	StageDuration      HistogramVec
	ContractsGenerated CounterVec
	PipelineFailures   CounterVec
	ReviewFallbacks    CounterVec
	RenderFallbacks    CounterVec

	// Renderer
	BrowserOpenPages GaugeVec
	BrowserLaunches  GaugeVec

	// System Health
	HealthCheckStatus GaugeVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	DefaultStageDurationBuckets = []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60}
)

func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")

	m.StageDuration = collector.RegisterHistogram("pipeline_stage_duration_seconds", "Duration of each contract pipeline stage", DefaultStageDurationBuckets, "stage")
	m.ContractsGenerated = collector.RegisterCounter("contracts_generated_total", "Contracts persisted by final status", "status")
	m.PipelineFailures = collector.RegisterCounter("pipeline_failures_total", "Generation requests that failed, by stage", "stage")
	m.ReviewFallbacks = collector.RegisterCounter("review_fallback_total", "Reviews that used the conservative fallback", "reason")
	m.RenderFallbacks = collector.RegisterCounter("render_fallback_total", "Documents delivered inline instead of as stored PDF", "reason")

	m.BrowserOpenPages = collector.RegisterGauge("browser_open_pages", "Open headless browser tabs")
	m.BrowserLaunches = collector.RegisterGauge("browser_launches", "Headless browser launches since start")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	return m
}

func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *AppMetrics) SetHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// BrowserStats reports the renderer's counters.
type BrowserStats interface {
	OpenPages() int64
	Launches() int64
}

func (m *AppMetrics) RecordBrowser(s BrowserStats) {
	m.BrowserOpenPages.WithLabelValues().Set(float64(s.OpenPages()))
	m.BrowserLaunches.WithLabelValues().Set(float64(s.Launches()))
}

// PipelineMetrics adapts AppMetrics to the contract pipeline's metrics port.
type PipelineMetrics struct {
	m *AppMetrics
}

func NewPipelineMetrics(m *AppMetrics) *PipelineMetrics {
	return &PipelineMetrics{m: m}
}

func (p *PipelineMetrics) ObserveStage(stage string, d time.Duration) {
	p.m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PipelineMetrics) IncGenerated(status string) {
	p.m.ContractsGenerated.WithLabelValues(status).Inc()
}

func (p *PipelineMetrics) IncFailed(stage string) {
	p.m.PipelineFailures.WithLabelValues(stage).Inc()
}

func (p *PipelineMetrics) IncReviewFallback(reason string) {
	p.m.ReviewFallbacks.WithLabelValues(reason).Inc()
}

func (p *PipelineMetrics) IncRenderFallback(reason string) {
	p.m.RenderFallbacks.WithLabelValues(reason).Inc()
}

//Personal.AI order the ending
