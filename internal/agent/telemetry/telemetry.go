package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KS2225/AI-report-writer/config"
)

// Telemetry tracks pipeline runs, stage timings, LLM usage and search calls.
// It is safe for concurrent use by independent pipeline invocations.
type Telemetry struct {
	config config.TelemetryConfig
	logger *log.Logger

	mu      sync.RWMutex
	metrics *Metrics

	runsTotal      *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	llmTokensTotal *prometheus.CounterVec
	searchesTotal  *prometheus.CounterVec
}

// Metrics holds in-process counters mirrored into prometheus collectors.
type Metrics struct {
	TotalRuns      int64
	SuccessfulRuns int64
	FailedRuns     int64
	AverageRunTime time.Duration

	StageExecutions map[string]int64
	StageDurations  map[string]time.Duration

	LLMRequests     int64
	LLMInputTokens  int64
	LLMOutputTokens int64

	SearchRequests int64
}

// RunEvent records the outcome of one complete pipeline invocation.
type RunEvent struct {
	RunID    string
	Query    string
	Duration time.Duration
	Success  bool
	Error    string
}

// StageEvent records the outcome of a single pipeline stage.
type StageEvent struct {
	RunID    string
	Stage    string
	Duration time.Duration
	Success  bool
}

var (
	promOnce sync.Once

	promRunsTotal      *prometheus.CounterVec
	promStageDuration  *prometheus.HistogramVec
	promLLMTokensTotal *prometheus.CounterVec
	promSearchesTotal  *prometheus.CounterVec
)

// Collectors are registered once on the default registry so that multiple
// Telemetry instances (one per orchestrator) share them.
func collectors() (*prometheus.CounterVec, *prometheus.HistogramVec, *prometheus.CounterVec, *prometheus.CounterVec) {
	promOnce.Do(func() {
		promRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "report_writer_runs_total",
			Help: "Completed pipeline runs by outcome.",
		}, []string{"outcome"})
		promStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "report_writer_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"stage"})
		promLLMTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "report_writer_llm_tokens_total",
			Help: "LLM tokens consumed, by direction.",
		}, []string{"direction"})
		promSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "report_writer_searches_total",
			Help: "Web search calls by provider.",
		}, []string{"provider"})
	})
	return promRunsTotal, promStageDuration, promLLMTokensTotal, promSearchesTotal
}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry(cfg config.TelemetryConfig) *Telemetry {
	runs, stages, tokens, searches := collectors()
	return &Telemetry{
		config: cfg,
		logger: log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		metrics: &Metrics{
			StageExecutions: make(map[string]int64),
			StageDurations:  make(map[string]time.Duration),
		},
		runsTotal:      runs,
		stageDuration:  stages,
		llmTokensTotal: tokens,
		searchesTotal:  searches,
	}
}

// RecordRun records a complete pipeline invocation.
func (t *Telemetry) RecordRun(event RunEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.TotalRuns++
	outcome := "success"
	if event.Success {
		t.metrics.SuccessfulRuns++
	} else {
		t.metrics.FailedRuns++
		outcome = "failure"
	}
	t.runsTotal.WithLabelValues(outcome).Inc()

	if t.metrics.TotalRuns == 1 {
		t.metrics.AverageRunTime = event.Duration
	} else {
		total := t.metrics.AverageRunTime * time.Duration(t.metrics.TotalRuns-1)
		t.metrics.AverageRunTime = (total + event.Duration) / time.Duration(t.metrics.TotalRuns)
	}

	t.logger.Printf("Run: ID=%s, Success=%t, Duration=%v, Error=%q",
		event.RunID, event.Success, event.Duration, event.Error)
}

// RecordStage records a single stage execution.
func (t *Telemetry) RecordStage(event StageEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.StageExecutions[event.Stage]++
	t.metrics.StageDurations[event.Stage] += event.Duration
	t.stageDuration.WithLabelValues(event.Stage).Observe(event.Duration.Seconds())
}

// RecordLLMUsage records token consumption for one model call.
func (t *Telemetry) RecordLLMUsage(inputTokens, outputTokens int64) {
	if !t.config.Enabled || !t.config.CostTracking {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.LLMRequests++
	t.metrics.LLMInputTokens += inputTokens
	t.metrics.LLMOutputTokens += outputTokens
	t.llmTokensTotal.WithLabelValues("input").Add(float64(inputTokens))
	t.llmTokensTotal.WithLabelValues("output").Add(float64(outputTokens))
}

// RecordSearch records one web search call.
func (t *Telemetry) RecordSearch(provider string) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.SearchRequests++
	t.searchesTotal.WithLabelValues(provider).Inc()
}

// Snapshot returns a copy of the current metrics.
func (t *Telemetry) Snapshot() Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := *t.metrics
	out.StageExecutions = make(map[string]int64, len(t.metrics.StageExecutions))
	for k, v := range t.metrics.StageExecutions {
		out.StageExecutions[k] = v
	}
	out.StageDurations = make(map[string]time.Duration, len(t.metrics.StageDurations))
	for k, v := range t.metrics.StageDurations {
		out.StageDurations[k] = v
	}
	return out
}
