package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
)

func threeItemPlan() SearchPlan {
	return SearchPlan{Searches: []SearchPlanItem{
		{Reason: "foundations", Query: "alpha"},
		{Reason: "industry", Query: "beta"},
		{Reason: "limits", Query: "gamma"},
	}}
}

func TestPerformSearchesSequentialOrder(t *testing.T) {
	searcher := &stubSearcher{resultsPerQuery: 2}
	stage := NewSearchStage(searcher)

	rec := &progressRecorder{}
	outcomes, err := stage.PerformSearches(context.Background(), threeItemPlan(), rec.fn())
	if err != nil {
		t.Fatalf("PerformSearches failed: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for i, want := range []string{"alpha", "beta", "gamma"} {
		if outcomes[i].Query != want {
			t.Errorf("outcome %d: got query %q, want %q", i, outcomes[i].Query, want)
		}
	}
	if searcher.queries[0] != "alpha" || searcher.queries[1] != "beta" || searcher.queries[2] != "gamma" {
		t.Errorf("searches did not run in plan order: %v", searcher.queries)
	}
	if outcomes[1].Reason != "industry" {
		t.Errorf("reason not carried through: %q", outcomes[1].Reason)
	}
}

func TestPerformSearchesProgressBand(t *testing.T) {
	stage := NewSearchStage(&stubSearcher{resultsPerQuery: 1})

	rec := &progressRecorder{}
	if _, err := stage.PerformSearches(context.Background(), threeItemPlan(), rec.fn()); err != nil {
		t.Fatalf("PerformSearches failed: %v", err)
	}

	// One event per search plus the completion event at 0.7.
	want := []float64{
		0.2 + 0.5*1.0/3.0,
		0.2 + 0.5*2.0/3.0,
		0.2 + 0.5*3.0/3.0,
		0.7,
	}
	if len(rec.fractions) != len(want) {
		t.Fatalf("expected %d progress events, got %d: %v", len(want), len(rec.fractions), rec.fractions)
	}
	for i, w := range want {
		if math.Abs(rec.fractions[i]-w) > 1e-9 {
			t.Errorf("event %d: got fraction %v, want %v", i, rec.fractions[i], w)
		}
	}
	if rec.labels[0] != "Searching (1/3): alpha" {
		t.Errorf("unexpected first label: %q", rec.labels[0])
	}
	if rec.labels[3] != "Completed all searches" {
		t.Errorf("unexpected completion label: %q", rec.labels[3])
	}
}

func TestPerformSearchesAbortsOnFailure(t *testing.T) {
	searcher := &stubSearcher{
		resultsPerQuery: 2,
		failOnCall:      2,
		failErr:         fmt.Errorf("401 unauthorized"),
	}
	stage := NewSearchStage(searcher)

	outcomes, err := stage.PerformSearches(context.Background(), threeItemPlan(), nil)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if pe.Query != "beta" {
		t.Errorf("error names wrong query: %q", pe.Query)
	}
	if outcomes != nil {
		t.Errorf("expected no surviving outcomes, got %d", len(outcomes))
	}
	if searcher.calls != 2 {
		t.Errorf("expected the stage to stop after the failing call, got %d calls", searcher.calls)
	}
}

func TestPerformSearchesTruncatesLongQuery(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "abcde"
	}
	plan := SearchPlan{Searches: []SearchPlanItem{{Reason: "r", Query: long}}}
	stage := NewSearchStage(&stubSearcher{resultsPerQuery: 1})

	rec := &progressRecorder{}
	if _, err := stage.PerformSearches(context.Background(), plan, rec.fn()); err != nil {
		t.Fatalf("PerformSearches failed: %v", err)
	}
	if got, want := rec.labels[0], "Searching (1/1): "+long[:50]; got != want {
		t.Errorf("label not truncated:\ngot  %q\nwant %q", got, want)
	}
}
