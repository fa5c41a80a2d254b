package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/KS2225/AI-report-writer/config"
	"github.com/KS2225/AI-report-writer/internal/agent/telemetry"
	"github.com/KS2225/AI-report-writer/internal/schema"
)

const reportWriterInstruction = `You are a senior researcher tasked with writing a cohesive report for a research query.
You will be provided with the original query and search results from a research assistant.

First, create an outline for the report that describes the structure and flow.
Then, generate the full report based on that outline.

Requirements:
- The report must be in markdown format
- It should be detailed and comprehensive (aim for 1000+ words)
- Include proper sections with headers
- Provide a short 2-3 sentence summary
- Suggest 3-5 follow-up research questions

Return a JSON object with: {"short_summary": "...", "markdown_report": "...", "follow_up_questions": [...]}`

// Writer synthesizes the aggregated search results into the final report.
type Writer struct {
	config      *config.Config
	llmProvider LLMProvider
	telemetry   *telemetry.Telemetry
	logger      *log.Logger
}

// NewWriter creates a new report writer instance.
func NewWriter(cfg *config.Config, llmProvider LLMProvider, tel *telemetry.Telemetry) *Writer {
	return &Writer{
		config:      cfg,
		llmProvider: llmProvider,
		telemetry:   tel,
		logger:      log.New(log.Writer(), "[WRITER] ", log.LstdFlags),
	}
}

// WriteReport asks the model for the report, validates it, and appends the
// reference list to the markdown body exactly once.
func (w *Writer) WriteReport(ctx context.Context, query string, outcomes []SearchOutcome, progress ProgressFunc) (ReportData, error) {
	startTime := time.Now()
	emit(progress, 0.75, "Writing comprehensive report...")

	prompt := w.createReportPrompt(query, outcomes)

	response, err := w.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return ReportData{}, &ReportError{Err: err}
	}

	report, err := w.parseReportResponse(response)
	if err != nil {
		return ReportData{}, err
	}

	report.MarkdownReport += "\n\n" + BuildReferences(outcomes)

	w.logger.Printf("Report completed in %v (%d follow-ups)", time.Since(startTime), len(report.FollowUpQuestions))
	emit(progress, 1.0, "Report completed")
	return report, nil
}

// createReportPrompt builds a plain-text digest of all outcomes and embeds it
// with the fixed writer instruction and the original query. All user- and
// model-derived text is escaped so it cannot corrupt the prompt's structure.
func (w *Writer) createReportPrompt(query string, outcomes []SearchOutcome) string {
	digests := make([]string, 0, len(outcomes))
	for i, outcome := range outcomes {
		var b strings.Builder
		fmt.Fprintf(&b, "Search %d: %s\nReason: %s\nReferences:\n", i+1, jsonSafe(outcome.Query), jsonSafe(outcome.Reason))
		for j, res := range outcome.Results {
			fmt.Fprintf(&b, "%d. %s\n", j+1, jsonSafe(res.URL))
		}
		digests = append(digests, strings.TrimRight(b.String(), "\n"))
	}

	return fmt.Sprintf("%s\n\nOriginal Research Query: %s\n\nSearch Results:\n%s\n\n"+
		"Please write a comprehensive report in JSON format with short_summary, markdown_report, and follow_up_questions.",
		reportWriterInstruction, jsonSafe(query), strings.Join(digests, "\n\n"))
}

func (w *Writer) parseReportResponse(response string) (ReportData, error) {
	raw, err := ExtractJSON(response)
	if err != nil {
		return ReportData{}, err
	}

	report, err := schema.ValidateReport(raw)
	if err != nil {
		return ReportData{}, &SchemaError{Shape: "ReportData", Err: err}
	}
	return report, nil
}

// jsonSafe escapes characters that would break the structure of embedded
// text: backslash, double quote, newline, carriage return.
func jsonSafe(text string) string {
	if text == "" {
		return ""
	}
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
	)
	return r.Replace(text)
}
