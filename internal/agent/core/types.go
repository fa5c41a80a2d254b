package core

import (
	"context"
	"time"

	"github.com/KS2225/AI-report-writer/internal/schema"
	"github.com/KS2225/AI-report-writer/tools/web_search/models"
)

// SearchOutcome bundles the results of executing one planned search with the
// plan item that produced it. Outcomes are produced in plan order.
type SearchOutcome struct {
	Query   string          `json:"query"`
	Reason  string          `json:"reason"`
	Results []models.Result `json:"results"`
	Summary string          `json:"summary"`
}

// PipelineResult is what the external caller receives: three text blocks on
// success, or a marked error message in Summary with the other fields empty.
type PipelineResult struct {
	Summary   string `json:"summary"`
	Report    string `json:"report"`
	FollowUps string `json:"follow_ups"`
	Failed    bool   `json:"failed"`
}

// ProgressFunc receives incremental progress events during a run. Events are
// fire-and-forget; the pipeline never consumes a return value. A nil
// ProgressFunc is valid and means the caller does not want updates.
type ProgressFunc func(fraction float64, label string)

// State is the orchestrator's position in the pipeline.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StatePlanning   State = "planning"
	StateSearching  State = "searching"
	StateWriting    State = "writing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// RunStatus tracks one pipeline invocation while it is in flight.
type RunStatus struct {
	RunID        string    `json:"run_id"`
	Query        string    `json:"query"`
	State        State     `json:"state"`
	Progress     float64   `json:"progress"` // 0.0 to 1.0
	CurrentLabel string    `json:"current_label,omitempty"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	LastUpdated  time.Time `json:"last_updated"`
}

// LLMProvider generates structured text from a prompt. Implementations are
// configured with a model, temperature and JSON response hint at construction;
// the pipeline only ever needs the one capability.
type LLMProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Searcher executes one planned web search and returns the normalized
// outcome. It is satisfied by the web_search providers via the adapter in
// searcher.go, and by deterministic stand-ins in tests.
type Searcher interface {
	Search(ctx context.Context, query, reason string) (SearchOutcome, error)
}

// Aliases so callers of this package deal with a single import.
type (
	SearchPlan     = schema.SearchPlan
	SearchPlanItem = schema.SearchPlanItem
	ReportData     = schema.ReportData
)
