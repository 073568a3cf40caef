package extract

import (
	"context"
	"strings"
)

var indemnificationTerms = []string{"indemnif", "liability", "data breach", "security breach"}

var terminationQualifiers = []string{"convenience", "at will"}

// KeywordExtractor locates clauses by scanning paragraphs for characteristic
// terms. It is the deterministic fallback for when the model path produces
// nothing usable, and it never fails: absent matches yield the not-found
// stand-ins.
type KeywordExtractor struct{}

// Extract makes one left-to-right pass over blank-line-separated paragraphs.
// A paragraph may land in both buffers, in one, or in neither; the buffers
// are independent.
func (KeywordExtractor) Extract(_ context.Context, text string) (Result, error) {
	var indemnification, termination strings.Builder

	for _, para := range strings.Split(text, "\n\n") {
		lower := strings.ToLower(para)

		if containsAny(lower, indemnificationTerms) {
			indemnification.WriteString(para)
			indemnification.WriteString("\n\n")
		}

		// Termination needs both the stem and a qualifier: plain termination
		// clauses (for cause, for breach) are not what we are after.
		if strings.Contains(lower, "terminat") && containsAny(lower, terminationQualifiers) {
			termination.WriteString(para)
			termination.WriteString("\n\n")
		}
	}

	return Result{
		IndemnificationText: orNotFound(strings.TrimSpace(indemnification.String()), IndemnificationNotFound),
		TerminationText:     orNotFound(strings.TrimSpace(termination.String()), TerminationNotFound),
	}, nil
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func orNotFound(s, sentinel string) string {
	if s == "" {
		return sentinel
	}
	return s
}
