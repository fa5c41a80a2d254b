package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed plan_schema.json
var planSchemaJSON string

//go:embed report_schema.json
var reportSchemaJSON string

// SearchPlanItem is one planned web search with the model's rationale.
type SearchPlanItem struct {
	Reason string `json:"reason"`
	Query  string `json:"query"`
}

// SearchPlan is the ordered list of searches to perform for a query.
type SearchPlan struct {
	Searches []SearchPlanItem `json:"searches"`
}

// ReportData is the synthesized research report produced by the writer model.
type ReportData struct {
	ShortSummary      string   `json:"short_summary"`
	MarkdownReport    string   `json:"markdown_report"`
	FollowUpQuestions []string `json:"follow_up_questions"`
}

var (
	compileOnce  sync.Once
	planSchema   *jsonschema.Schema
	reportSchema *jsonschema.Schema
	compileErr   error
)

func compiled() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		for name, src := range map[string]string{
			"plan_schema.json":   planSchemaJSON,
			"report_schema.json": reportSchemaJSON,
		} {
			if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
				compileErr = fmt.Errorf("add schema resource %s: %w", name, err)
				return
			}
		}
		if planSchema, compileErr = compiler.Compile("plan_schema.json"); compileErr != nil {
			compileErr = fmt.Errorf("compile plan schema: %w", compileErr)
			return
		}
		if reportSchema, compileErr = compiler.Compile("report_schema.json"); compileErr != nil {
			compileErr = fmt.Errorf("compile report schema: %w", compileErr)
		}
	})
	return compileErr
}

// ValidateSearchPlan type-checks raw JSON against the search plan shape and
// decodes it. Validation is strict: wrong types and missing fields are
// rejected rather than coerced.
func ValidateSearchPlan(data []byte) (SearchPlan, error) {
	if err := validate(data, func() *jsonschema.Schema { return planSchema }); err != nil {
		return SearchPlan{}, err
	}
	var plan SearchPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return SearchPlan{}, fmt.Errorf("decode search plan: %w", err)
	}
	return plan, nil
}

// ValidateReport type-checks raw JSON against the report shape and decodes it.
func ValidateReport(data []byte) (ReportData, error) {
	if err := validate(data, func() *jsonschema.Schema { return reportSchema }); err != nil {
		return ReportData{}, err
	}
	var report ReportData
	if err := json.Unmarshal(data, &report); err != nil {
		return ReportData{}, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}

func validate(data []byte, pick func() *jsonschema.Schema) error {
	if err := compiled(); err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if err := pick().Validate(doc); err != nil {
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return nil
}
