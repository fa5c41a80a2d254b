package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KS2225/AI-report-writer/config"
	"github.com/KS2225/AI-report-writer/internal/agent/telemetry"
)

// validationMessage is returned verbatim when the query is too short.
const validationMessage = "Error: please enter a valid research query (at least 3 characters)"

// Orchestrator sequences the three pipeline stages and maps any stage
// failure to a single user-facing error string. It is the one entry point
// external callers use; concurrent invocations are independent.
type Orchestrator struct {
	config    *config.Config
	telemetry *telemetry.Telemetry
	logger    *log.Logger

	planner  *Planner
	searches *SearchStage
	writer   *Writer

	mu   sync.RWMutex
	runs map[string]*RunStatus
}

// NewOrchestrator wires the pipeline from configuration. The LLM provider and
// searcher are injected so stages can be tested against deterministic
// stand-ins.
func NewOrchestrator(cfg *config.Config, llmProvider LLMProvider, searcher Searcher, tel *telemetry.Telemetry) *Orchestrator {
	return &Orchestrator{
		config:    cfg,
		telemetry: tel,
		logger:    log.New(log.Writer(), "[ORCHESTRATOR] ", log.LstdFlags),
		planner:   NewPlanner(cfg, llmProvider, tel),
		searches:  NewSearchStage(searcher),
		writer:    NewWriter(cfg, llmProvider, tel),
		runs:      make(map[string]*RunStatus),
	}
}

// Run executes the full pipeline for a query. On success the result carries
// the short summary, the markdown report with references appended, and the
// follow-up questions as a 1-indexed numbered list. On failure the summary
// field carries a marked error message and the other fields are empty.
func (o *Orchestrator) Run(ctx context.Context, query string, progress ProgressFunc) PipelineResult {
	runID := uuid.New().String()
	startTime := time.Now()

	status := &RunStatus{
		RunID:     runID,
		Query:     query,
		State:     StateIdle,
		StartedAt: startTime,
	}
	o.trackRun(status)
	defer o.releaseRun(runID)

	report, err := o.process(ctx, query, status, progress)

	o.telemetry.RecordRun(telemetry.RunEvent{
		RunID:    runID,
		Query:    query,
		Duration: time.Since(startTime),
		Success:  err == nil,
		Error:    errString(err),
	})

	if err != nil {
		o.logger.Printf("Run %s failed in state %s: %v", runID, status.State, err)
		o.mu.Lock()
		status.State = StateFailed
		status.CurrentLabel = ""
		status.Error = err.Error()
		status.LastUpdated = time.Now()
		o.mu.Unlock()
		return PipelineResult{Summary: userErrorString(err), Failed: true}
	}

	o.updateStatus(status, StateDone, 1.0, "")
	return PipelineResult{
		Summary:   report.ShortSummary,
		Report:    report.MarkdownReport,
		FollowUps: formatFollowUps(report.FollowUpQuestions),
	}
}

// process runs validation, planning, searching and writing in order. Each stage
// consumes the full output of the prior one; the first error is terminal.
func (o *Orchestrator) process(ctx context.Context, query string, status *RunStatus, progress ProgressFunc) (ReportData, error) {
	o.updateStatus(status, StateValidating, 0, "Validating query")
	if len(strings.TrimSpace(query)) < 3 {
		return ReportData{}, &ValidationError{Message: validationMessage}
	}

	emit(progress, 0, "Starting research pipeline...")

	o.updateStatus(status, StatePlanning, 0.1, "Planning research strategy")
	plan, err := timedStage(o, status.RunID, "planning", func() (SearchPlan, error) {
		return o.planner.Plan(ctx, query, o.wrapProgress(status, progress))
	})
	if err != nil {
		return ReportData{}, err
	}

	o.updateStatus(status, StateSearching, 0.2, "Performing searches")
	outcomes, err := timedStage(o, status.RunID, "searching", func() ([]SearchOutcome, error) {
		return o.searches.PerformSearches(ctx, plan, o.wrapProgress(status, progress))
	})
	if err != nil {
		return ReportData{}, err
	}

	o.updateStatus(status, StateWriting, 0.75, "Writing report")
	report, err := timedStage(o, status.RunID, "writing", func() (ReportData, error) {
		return o.writer.WriteReport(ctx, query, outcomes, o.wrapProgress(status, progress))
	})
	if err != nil {
		return ReportData{}, err
	}

	return report, nil
}

// timedStage records stage duration telemetry around fn.
func timedStage[T any](o *Orchestrator, runID, stage string, fn func() (T, error)) (T, error) {
	startTime := time.Now()
	out, err := fn()
	o.telemetry.RecordStage(telemetry.StageEvent{
		RunID:    runID,
		Stage:    stage,
		Duration: time.Since(startTime),
		Success:  err == nil,
	})
	return out, err
}

// wrapProgress forwards stage progress to the caller's sink while keeping the
// run status current.
func (o *Orchestrator) wrapProgress(status *RunStatus, progress ProgressFunc) ProgressFunc {
	return func(fraction float64, label string) {
		o.mu.Lock()
		status.Progress = fraction
		status.CurrentLabel = label
		status.LastUpdated = time.Now()
		o.mu.Unlock()
		emit(progress, fraction, label)
	}
}

// ActiveRuns returns a snapshot of every in-flight run.
func (o *Orchestrator) ActiveRuns() []RunStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]RunStatus, 0, len(o.runs))
	for _, st := range o.runs {
		out = append(out, *st)
	}
	return out
}

// Status returns the status of an in-flight run.
func (o *Orchestrator) Status(runID string) (RunStatus, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	st, ok := o.runs[runID]
	if !ok {
		return RunStatus{}, false
	}
	return *st, true
}

func (o *Orchestrator) trackRun(status *RunStatus) {
	o.mu.Lock()
	o.runs[status.RunID] = status
	o.mu.Unlock()
}

func (o *Orchestrator) releaseRun(runID string) {
	o.mu.Lock()
	delete(o.runs, runID)
	o.mu.Unlock()
}

func (o *Orchestrator) updateStatus(status *RunStatus, state State, progress float64, label string) {
	o.mu.Lock()
	status.State = state
	status.Progress = progress
	status.CurrentLabel = label
	status.LastUpdated = time.Now()
	o.mu.Unlock()
}

// formatFollowUps renders follow-up questions as a numbered plain-text list.
func formatFollowUps(questions []string) string {
	lines := make([]string, 0, len(questions))
	for i, q := range questions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, q))
	}
	return strings.Join(lines, "\n")
}

// userErrorString converts a stage error into the single marked message shown
// to the caller. Validation messages already carry the marker.
func userErrorString(err error) string {
	msg := err.Error()
	if strings.HasPrefix(msg, "Error: ") {
		return msg
	}
	return "Error: " + msg
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
