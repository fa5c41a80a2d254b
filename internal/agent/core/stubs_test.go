package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/KS2225/AI-report-writer/config"
	"github.com/KS2225/AI-report-writer/internal/agent/telemetry"
	"github.com/KS2225/AI-report-writer/tools/web_search/models"
)

// stubLLM returns scripted responses in order, one per Generate call.
type stubLLM struct {
	responses []string
	err       error
	calls     int
}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.responses) {
		return "", fmt.Errorf("stubLLM: unexpected call %d", s.calls+1)
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp, nil
}

// stubSearcher returns k fixed results per query, optionally failing on a
// specific call number (1-indexed).
type stubSearcher struct {
	resultsPerQuery int
	failOnCall      int
	failErr         error
	calls           int
	queries         []string
}

func (s *stubSearcher) Search(ctx context.Context, query, reason string) (SearchOutcome, error) {
	s.calls++
	s.queries = append(s.queries, query)
	if s.failOnCall != 0 && s.calls == s.failOnCall {
		err := s.failErr
		if err == nil {
			err = fmt.Errorf("stub provider failure")
		}
		return SearchOutcome{}, &ProviderError{Query: query, Err: err}
	}
	results := make([]models.Result, 0, s.resultsPerQuery)
	for i := 0; i < s.resultsPerQuery; i++ {
		results = append(results, models.Result{
			Title:   fmt.Sprintf("%s result %d", query, i+1),
			URL:     fmt.Sprintf("https://example.com/%s/%d", query, i+1),
			Snippet: "snippet",
		})
	}
	return SearchOutcome{
		Query:   query,
		Reason:  reason,
		Results: results,
		Summary: fmt.Sprintf("Top %d search results for '%s'", len(results), query),
	}, nil
}

// progressRecorder captures progress events for assertions.
type progressRecorder struct {
	fractions []float64
	labels    []string
}

func (r *progressRecorder) fn() ProgressFunc {
	return func(fraction float64, label string) {
		r.fractions = append(r.fractions, fraction)
		r.labels = append(r.labels, label)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Research:  config.ResearchConfig{NumSearches: 3},
		Search:    config.SearchConfig{Provider: "serpapi", MaxResults: 5},
		LLM:       config.LLMConfig{Provider: "gemini", Model: "gemini-2.0-flash", Temperature: 0.7},
		Telemetry: config.TelemetryConfig{Enabled: true, CostTracking: true},
	}
}

func newTestTelemetry(t *testing.T) *telemetry.Telemetry {
	t.Helper()
	return telemetry.NewTelemetry(config.TelemetryConfig{Enabled: true, CostTracking: true})
}

const validPlanJSON = `{"searches":[
	{"reason":"foundations","query":"quantum computing basics"},
	{"reason":"industry","query":"quantum computing applications"},
	{"reason":"limits","query":"quantum computing challenges"}
]}`

const validReportJSON = `{
	"short_summary":"Quantum computing is advancing. Applications are emerging.",
	"markdown_report":"# Quantum Computing\n\nA detailed report body.",
	"follow_up_questions":["What about error correction?","Which industries adopt first?","How near is advantage?"]
}`
