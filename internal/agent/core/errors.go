package core

import "fmt"

// ValidationError rejects a user query before any stage runs.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ExtractionError means no brace-delimited JSON object was found in a model
// response.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string { return e.Message }

// ParseError means a brace-delimited span was found but is not valid JSON.
// Preview carries a truncated prefix of the original response for diagnosis.
type ParseError struct {
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse JSON: %v\nPreview: %s", e.Err, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError means the extracted JSON is well-formed but does not match the
// expected shape. The wrapped error names the offending field.
type SchemaError struct {
	Shape string // "SearchPlan" or "ReportData"
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s shape invalid: %v", e.Shape, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// PlanningError wraps a failed model call during the planning stage.
type PlanningError struct {
	Err error
}

func (e *PlanningError) Error() string { return fmt.Sprintf("planning failed: %v", e.Err) }

func (e *PlanningError) Unwrap() error { return e.Err }

// ProviderError wraps a failed web search call. The pipeline aborts on the
// first one; partial results are never surfaced.
type ProviderError struct {
	Query string
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("search for %q failed: %v", e.Query, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ReportError wraps a failed model call during the report stage.
type ReportError struct {
	Err error
}

func (e *ReportError) Error() string { return fmt.Sprintf("report generation failed: %v", e.Err) }

func (e *ReportError) Unwrap() error { return e.Err }
