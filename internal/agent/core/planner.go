package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/KS2225/AI-report-writer/config"
	"github.com/KS2225/AI-report-writer/internal/agent/telemetry"
	"github.com/KS2225/AI-report-writer/internal/schema"
)

// Planner turns a research query into a validated plan of web searches.
type Planner struct {
	config      *config.Config
	llmProvider LLMProvider
	telemetry   *telemetry.Telemetry
	logger      *log.Logger
}

// NewPlanner creates a new planner instance.
func NewPlanner(cfg *config.Config, llmProvider LLMProvider, tel *telemetry.Telemetry) *Planner {
	return &Planner{
		config:      cfg,
		llmProvider: llmProvider,
		telemetry:   tel,
		logger:      log.New(log.Writer(), "[PLANNER] ", log.LstdFlags),
	}
}

// Plan asks the model for a search plan and validates the response. Progress
// is reported before and after the model call.
func (p *Planner) Plan(ctx context.Context, query string, progress ProgressFunc) (SearchPlan, error) {
	startTime := time.Now()
	emit(progress, 0.1, "Planning research strategy...")

	prompt := p.createPlanningPrompt(query)

	response, err := p.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return SearchPlan{}, &PlanningError{Err: err}
	}

	plan, err := p.parsePlanningResponse(response)
	if err != nil {
		return SearchPlan{}, err
	}

	p.logger.Printf("Planning completed in %v with %d searches", time.Since(startTime), len(plan.Searches))
	emit(progress, 0.2, fmt.Sprintf("Planned %d searches", len(plan.Searches)))
	return plan, nil
}

// createPlanningPrompt combines the fixed planning instruction with the
// user's query.
func (p *Planner) createPlanningPrompt(query string) string {
	instruction := fmt.Sprintf(`You are a research planning assistant.
Given a research query, create a strategic search plan with %d different searches.
Each search should target different aspects to provide comprehensive coverage.
Think about:
- Different angles and perspectives on the topic
- Various subtopics and related areas
- Recent developments and trends
- Comparisons with alternatives
- Technical details and implementation aspects
- Use cases and applications
- Expert opinions and reviews
- Challenges and limitations

Return a JSON object with the exact format:
{"searches": [{"reason": "...", "query": "..."}, ...]}`, p.config.Research.NumSearches)

	return fmt.Sprintf("%s\n\nResearch Query: %s\n\nPlease provide the search plan in JSON format.", instruction, query)
}

// parsePlanningResponse extracts the JSON object from the model response and
// validates it against the search plan shape. No retry, no lenient fallback:
// a malformed plan is surfaced to the caller as the terminal failure.
func (p *Planner) parsePlanningResponse(response string) (SearchPlan, error) {
	raw, err := ExtractJSON(response)
	if err != nil {
		return SearchPlan{}, err
	}

	plan, err := schema.ValidateSearchPlan(raw)
	if err != nil {
		return SearchPlan{}, &SchemaError{Shape: "SearchPlan", Err: err}
	}
	return plan, nil
}

func emit(progress ProgressFunc, fraction float64, label string) {
	if progress != nil {
		progress(fraction, label)
	}
}
