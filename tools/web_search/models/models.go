package models

// Result is one normalized organic search result. URL may be empty when the
// provider omitted it; such results cannot be cited.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// NoTitle is substituted when a provider returns a result without a title.
const NoTitle = "No title"

// Normalize fills the placeholder title for results the provider returned
// without one.
func Normalize(r Result) Result {
	if r.Title == "" {
		r.Title = NoTitle
	}
	return r
}
