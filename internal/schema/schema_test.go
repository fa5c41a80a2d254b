package schema

import (
	"strings"
	"testing"
)

func TestValidateSearchPlanAccepts(t *testing.T) {
	t.Parallel()
	data := []byte(`{"searches":[
		{"reason":"background","query":"quantum computing basics"},
		{"reason":"applications","query":"quantum computing industry applications"},
		{"reason":"limitations","query":"quantum computing challenges"}
	]}`)
	plan, err := ValidateSearchPlan(data)
	if err != nil {
		t.Fatalf("ValidateSearchPlan: %v", err)
	}
	if len(plan.Searches) != 3 {
		t.Fatalf("expected 3 searches, got %d", len(plan.Searches))
	}
	if plan.Searches[0].Query != "quantum computing basics" {
		t.Fatalf("unexpected first query: %q", plan.Searches[0].Query)
	}
}

func TestValidateSearchPlanRejectsMissingField(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		data string
	}{
		{"missing reason", `{"searches":[{"query":"q"}]}`},
		{"missing query", `{"searches":[{"reason":"r"}]}`},
		{"empty query", `{"searches":[{"reason":"r","query":""}]}`},
		{"missing searches", `{"plan":[]}`},
		{"empty searches", `{"searches":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ValidateSearchPlan([]byte(tc.data)); err == nil {
				t.Fatalf("expected rejection for %s", tc.name)
			}
		})
	}
}

func TestValidateSearchPlanRejectsWrongType(t *testing.T) {
	t.Parallel()
	// Numeric reason must be rejected, not coerced to a string.
	data := []byte(`{"searches":[{"reason":42,"query":"q"}]}`)
	if _, err := ValidateSearchPlan(data); err == nil {
		t.Fatal("expected rejection for numeric reason")
	}
}

func TestValidateReportAccepts(t *testing.T) {
	t.Parallel()
	data := []byte(`{
		"short_summary":"Two sentences. Maybe three.",
		"markdown_report":"# Report\n\nBody.",
		"follow_up_questions":["q1","q2","q3"]
	}`)
	report, err := ValidateReport(data)
	if err != nil {
		t.Fatalf("ValidateReport: %v", err)
	}
	if report.ShortSummary == "" || report.MarkdownReport == "" {
		t.Fatalf("expected populated report, got %+v", report)
	}
	if len(report.FollowUpQuestions) != 3 {
		t.Fatalf("expected 3 follow-ups, got %d", len(report.FollowUpQuestions))
	}
}

func TestValidateReportRejectsMissingOrMistyped(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		data string
		want string
	}{
		{"missing summary", `{"markdown_report":"m","follow_up_questions":[]}`, "short_summary"},
		{"numeric report", `{"short_summary":"s","markdown_report":7,"follow_up_questions":[]}`, "markdown_report"},
		{"string follow-ups", `{"short_summary":"s","markdown_report":"m","follow_up_questions":"not a list"}`, "follow_up_questions"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateReport([]byte(tc.data))
			if err == nil {
				t.Fatalf("expected rejection for %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error should name field %q, got: %v", tc.want, err)
			}
		})
	}
}
