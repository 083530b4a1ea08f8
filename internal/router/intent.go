package router

import "strings"

// Intent classifies what a query is asking for.
type Intent int

const (
	// IntentExplain asks about behavior or purpose; answered by the LLM.
	IntentExplain Intent = iota
	// IntentDisplay asks to see raw file content; answered verbatim from
	// the document store, no LLM involved.
	IntentDisplay
)

// displayKeywords mark a query as a request for raw content.
var displayKeywords = []string{
	"show",
	"display",
	"what's in",
	"what is in",
	"content of",
}

// classify detects display intent from keywords. Anything else is an
// explanation request.
func classify(query string) Intent {
	q := strings.ToLower(query)
	for _, kw := range displayKeywords {
		if strings.Contains(q, kw) {
			return IntentDisplay
		}
	}
	return IntentExplain
}
