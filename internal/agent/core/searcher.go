package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/KS2225/AI-report-writer/config"
	"github.com/KS2225/AI-report-writer/internal/agent/telemetry"
	"github.com/KS2225/AI-report-writer/tools/web_search"
)

// WebSearchAdapter satisfies Searcher using a web_search provider, attaching
// the plan item's query and reason to the normalized results.
type WebSearchAdapter struct {
	provider   string
	searcher   web_search.WebSearcher
	maxResults int
	telemetry  *telemetry.Telemetry
}

// NewWebSearchAdapter builds the configured provider and wraps it.
func NewWebSearchAdapter(cfg config.SearchConfig, tel *telemetry.Telemetry) (*WebSearchAdapter, error) {
	searcher, err := web_search.NewWebSearcher(web_search.Provider(cfg.Provider), cfg.APIKey, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &WebSearchAdapter{
		provider:   cfg.Provider,
		searcher:   searcher,
		maxResults: cfg.MaxResults,
		telemetry:  tel,
	}, nil
}

// Search performs one web search. One outbound network call per invocation;
// failures are surfaced as ProviderError, never retried.
func (a *WebSearchAdapter) Search(ctx context.Context, query, reason string) (SearchOutcome, error) {
	if a.telemetry != nil {
		a.telemetry.RecordSearch(a.provider)
	}
	results, err := a.searcher.Search(ctx, query, a.maxResults)
	if err != nil {
		return SearchOutcome{}, &ProviderError{Query: query, Err: err}
	}
	return SearchOutcome{
		Query:   query,
		Reason:  reason,
		Results: results,
		Summary: fmt.Sprintf("Top %d search results for '%s'", len(results), query),
	}, nil
}

// SearchStage runs a plan's searches strictly sequentially, reporting
// progress after each one.
type SearchStage struct {
	searcher Searcher
	logger   *log.Logger
}

// NewSearchStage creates a new search stage over the given searcher.
func NewSearchStage(searcher Searcher) *SearchStage {
	return &SearchStage{
		searcher: searcher,
		logger:   log.New(log.Writer(), "[SEARCH] ", log.LstdFlags),
	}
}

// PerformSearches executes every planned search in order. Each call completes
// before the next begins so progress advances linearly and provider rate
// limits are respected. The first failure aborts the stage; no partial
// results survive.
func (s *SearchStage) PerformSearches(ctx context.Context, plan SearchPlan, progress ProgressFunc) ([]SearchOutcome, error) {
	total := len(plan.Searches)
	outcomes := make([]SearchOutcome, 0, total)

	for i, item := range plan.Searches {
		emit(progress, 0.2+0.5*float64(i+1)/float64(total),
			fmt.Sprintf("Searching (%d/%d): %s", i+1, total, truncate(item.Query, 50)))

		startTime := time.Now()
		outcome, err := s.searcher.Search(ctx, item.Query, item.Reason)
		if err != nil {
			return nil, err
		}
		s.logger.Printf("Search %d/%d (%q) returned %d results in %v",
			i+1, total, item.Query, len(outcome.Results), time.Since(startTime))
		outcomes = append(outcomes, outcome)
	}

	emit(progress, 0.7, "Completed all searches")
	return outcomes, nil
}
