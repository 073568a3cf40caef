package models

import "time"

// Status values for a contract document record. A record starts as
// StatusPending at creation and moves through the pipeline from there.
// StatusCompleted and StatusFailed are terminal: once set, the record never
// transitions again.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusExtracting = "extracting"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// IsTerminal reports whether a status permits no further transitions.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// Document represents the record for a contract processing job in Firestore.
// It is the only externally observable view of a pipeline run: observers
// poll it, and a failed status with no clause text is the complete failure
// report.
type Document struct {
	ID                  string    `firestore:"-" json:"id"`
	SourceName          string    `firestore:"sourceName,omitempty" json:"sourceName"`
	Status              string    `firestore:"status,omitempty" json:"status"`
	Progress            int       `firestore:"progress" json:"progress"`
	PageCount           int       `firestore:"pageCount,omitempty" json:"pageCount,omitempty"`
	IndemnificationText string    `firestore:"indemnificationText,omitempty" json:"indemnificationText,omitempty"`
	TerminationText     string    `firestore:"terminationText,omitempty" json:"terminationText,omitempty"`
	CreatedAt           time.Time `firestore:"createdAt,omitempty" json:"createdAt"`
}
