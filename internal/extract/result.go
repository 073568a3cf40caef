// Package extract pulls the two target clauses out of assembled contract
// text: the data/security-breach indemnification clause and the
// termination-for-convenience clause.
package extract

// Canonical stand-ins persisted when a clause cannot be located. Distinct
// per field so downstream consumers can tell which clause was missing.
const (
	IndemnificationNotFound = "No indemnification clause found."
	TerminationNotFound     = "No termination for convenience clause found."
)

// Result is the pair of extracted clause texts. Both fields are always
// populated together by whichever extractor succeeds: either the clause text
// or its not-found stand-in, never an empty string.
type Result struct {
	IndemnificationText string
	TerminationText     string
}
