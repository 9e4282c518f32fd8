// Package metrics provides Prometheus metrics for the scoutbase service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scoutbase service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	comparisonsTotal  prometheus.Counter
	analysesTotal     prometheus.Counter
	scoringLatency    prometheus.Histogram
	reportsCreated    prometheus.Counter
	pdfExports        prometheus.Counter
	pdfRenderLatency  prometheus.Histogram
	quotaDenials      *prometheus.CounterVec
	checkoutSessions  *prometheus.CounterVec
	tierChanges       *prometheus.CounterVec

	// Ranking store metrics
	rankingUpdates      prometheus.Counter
	rankedPlayers       prometheus.Gauge
	rankingQueryLatency prometheus.Histogram

	// Inventory metrics
	playersTotal prometheus.Gauge

	// Auth metrics
	loginSuccess   prometheus.Counter
	loginFailure   prometheus.Counter
	activeSessions prometheus.Gauge

	// Job queue metrics
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueUtilization  prometheus.Gauge
	queueEnqueues     prometheus.Counter
	queueDequeues     prometheus.Counter
	queueEnqueueFails prometheus.Counter

	// Worker metrics
	jobsProcessed        prometheus.Counter
	jobsFailed           prometheus.Counter
	jobsDuplicate        prometheus.Counter
	jobLatency           prometheus.Histogram
	workerCount          prometheus.Gauge
	workerActiveCount    prometheus.Gauge
	workerJobsPerSecond  prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec
	errorLatency      *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scoutbase",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // metric registration is inherently long
	auto := promauto.With(m.registry)

	m.comparisonsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "comparisons_total",
		Help:      "Total number of player comparisons computed",
	})

	m.analysesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyses_total",
		Help:      "Total number of single-player analyses computed",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of weighted-score computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.reportsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_created_total",
		Help:      "Total number of scouting reports created",
	})

	m.pdfExports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pdf_exports_total",
		Help:      "Total number of PDF dossiers rendered",
	})

	m.pdfRenderLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pdf_render_latency_milliseconds",
		Help:      "Histogram of PDF render latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.quotaDenials = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quota_denials_total",
		Help:      "Requests denied by subscription tier or monthly quota",
	}, []string{"feature"})

	m.checkoutSessions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "checkout_sessions_total",
		Help:      "Checkout sessions created per target tier",
	}, []string{"tier"})

	m.tierChanges = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tier_changes_total",
		Help:      "Completed subscription tier changes per tier",
	}, []string{"tier"})

	m.rankingUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_updates_total",
		Help:      "Total number of ranking store updates",
	})

	m.rankedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranked_players",
		Help:      "Number of players currently tracked in the ranking store",
	})

	m.rankingQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_query_latency_milliseconds",
		Help:      "Histogram of ranking store query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.playersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_total",
		Help:      "Number of player profiles stored",
	})

	m.loginSuccess = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "login_success_total",
		Help:      "Successful logins",
	})

	m.loginFailure = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "login_failure_total",
		Help:      "Failed logins",
	})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Sessions currently alive",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_queue_size",
		Help:      "Current number of queued processing jobs",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_queue_capacity",
		Help:      "Configured capacity of the processing job queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_queue_utilization",
		Help:      "Queue utilization ratio (0.0 to 1.0)",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_queue_enqueues_total",
		Help:      "Total number of jobs accepted onto the queue",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_queue_dequeues_total",
		Help:      "Total number of jobs handed to workers",
	})

	m.queueEnqueueFails = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_queue_enqueue_failures_total",
		Help:      "Jobs rejected by the queue (closed, full, or cancelled)",
	})

	m.jobsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_processed_total",
		Help:      "Processing jobs completed successfully",
	})

	m.jobsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_failed_total",
		Help:      "Processing jobs that ended in failure",
	})

	m.jobsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "jobs_duplicate_total",
		Help:      "Job submissions rejected as duplicates",
	})

	m.jobLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "job_processing_latency_milliseconds",
		Help:      "Histogram of end-to-end job processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Configured number of processing workers",
	})

	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Workers currently running",
	})

	m.workerJobsPerSecond = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_jobs_per_second",
		Help:      "Recent job throughput per second",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration by endpoint, method and status code",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Errors grouped by component and kind",
	}, []string{"component", "kind"})

	m.errorsByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_type_total",
		Help:      "Errors grouped by type and severity",
	}, []string{"type", "severity"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Errors grouped by endpoint, method and type",
	}, []string{"endpoint", "method", "type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "error_latency_milliseconds",
		Help:      "Latency of failed operations by component and error type",
		Buckets:   m.histogramBuckets,
	}, []string{"component", "type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Global helpers delegating to the singleton manager.

func RecordComparison()             { globalManager.comparisonsTotal.Inc() }
func RecordAnalysis()               { globalManager.analysesTotal.Inc() }
func RecordScoringLatency(ms float64) { globalManager.scoringLatency.Observe(ms) }

func RecordReportCreated()             { globalManager.reportsCreated.Inc() }
func RecordPDFExport()                 { globalManager.pdfExports.Inc() }
func RecordPDFRenderLatency(ms float64) { globalManager.pdfRenderLatency.Observe(ms) }
func RecordQuotaDenied(feature string) { globalManager.quotaDenials.WithLabelValues(feature).Inc() }

func RecordCheckoutSession(tier string) { globalManager.checkoutSessions.WithLabelValues(tier).Inc() }
func RecordTierChange(tier string)      { globalManager.tierChanges.WithLabelValues(tier).Inc() }

func RecordRankingUpdate()                 { globalManager.rankingUpdates.Inc() }
func UpdateRankedPlayers(n int)            { globalManager.rankedPlayers.Set(float64(n)) }
func RecordRankingQueryLatency(ms float64) { globalManager.rankingQueryLatency.Observe(ms) }

func UpdatePlayersTotal(n int) { globalManager.playersTotal.Set(float64(n)) }

func RecordLoginSuccess()       { globalManager.loginSuccess.Inc() }
func RecordLoginFailure()       { globalManager.loginFailure.Inc() }
func UpdateActiveSessions(n int) { globalManager.activeSessions.Set(float64(n)) }

func UpdateQueueSize(n int)            { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int)        { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueUtilization(r float64) { globalManager.queueUtilization.Set(r) }
func RecordQueueEnqueue()              { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()              { globalManager.queueDequeues.Inc() }
func RecordQueueEnqueueError()         { globalManager.queueEnqueueFails.Inc() }

func RecordJobProcessed()                  { globalManager.jobsProcessed.Inc() }
func RecordJobFailed()                     { globalManager.jobsFailed.Inc() }
func RecordJobDuplicate()                  { globalManager.jobsDuplicate.Inc() }
func RecordJobProcessingLatency(ms float64) { globalManager.jobLatency.Observe(ms) }

func UpdateWorkerCount(n int)              { globalManager.workerCount.Set(float64(n)) }
func UpdateWorkerActiveCount(n int)        { globalManager.workerActiveCount.Set(float64(n)) }
func UpdateWorkerJobsPerSecond(v float64)  { globalManager.workerJobsPerSecond.Set(v) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

func RecordErrorByComponent(component, kind string) {
	globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
}

func RecordErrorByType(errType, severity string) {
	globalManager.errorsByType.WithLabelValues(errType, severity).Inc()
}

func RecordErrorByEndpoint(endpoint, method, errType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errType).Inc()
}

func RecordErrorLatency(component, errType string, ms float64) {
	globalManager.errorLatency.WithLabelValues(component, errType).Observe(ms)
}

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)     { globalManager.systemGoroutineCount.Set(float64(n)) }
func RecordSystemGCPauseTime(ms float64)   { globalManager.systemGCPauseTime.Observe(ms) }
