package core

import (
	"fmt"
	"strings"
)

// BuildReferences renders a numbered markdown reference list from all search
// outcomes. References are deduplicated by (title, url) with the first
// occurrence winning; results without a url cannot be cited and are skipped.
// Deterministic given input order.
func BuildReferences(outcomes []SearchOutcome) string {
	type key struct{ title, url string }
	seen := make(map[key]bool)

	var b strings.Builder
	b.WriteString("## References\n\n")
	counter := 1

	for _, outcome := range outcomes {
		for _, res := range outcome.Results {
			if res.URL == "" {
				continue
			}
			k := key{res.Title, res.URL}
			if seen[k] {
				continue
			}
			seen[k] = true
			fmt.Fprintf(&b, "%d. [%s](%s)\n", counter, res.Title, res.URL)
			counter++
		}
	}

	return b.String()
}
