package services

import (
	"context"
	"log/slog"

	"github.com/clauseflow/clauseflow/internal/extract"
	"github.com/clauseflow/clauseflow/internal/models"
	"github.com/clauseflow/clauseflow/internal/store"
)

// Reporter translates pipeline outcomes into persisted record updates. Every
// call is a single best-effort remote write: a failed update is logged and
// the pipeline carries on, with its in-memory state authoritative for the
// rest of the run.
type Reporter struct {
	store RecordStore
}

// NewReporter creates a reporter over the given record store.
func NewReporter(store RecordStore) *Reporter {
	return &Reporter{store: store}
}

// Transition moves the record to status with the given progress checkpoint.
func (r *Reporter) Transition(ctx context.Context, id, status string, progress int) {
	if r.alreadyTerminal(ctx, id, status) {
		return
	}
	patch := store.Patch{Status: status, Progress: &progress}
	if err := r.store.Update(ctx, id, patch); err != nil {
		slog.Error("Failed to persist status update.", "documentId", id, "status", status, "error", err)
	}
}

// Completed persists the terminal completed status together with both clause
// fields in one update, so observers never see a half-populated result.
func (r *Reporter) Completed(ctx context.Context, id string, result extract.Result) {
	if r.alreadyTerminal(ctx, id, models.StatusCompleted) {
		return
	}
	progress := 100
	patch := store.Patch{
		Status:              models.StatusCompleted,
		Progress:            &progress,
		IndemnificationText: &result.IndemnificationText,
		TerminationText:     &result.TerminationText,
	}
	if err := r.store.Update(ctx, id, patch); err != nil {
		slog.Error("Failed to persist completion.", "documentId", id, "error", err)
	}
}

// Failed marks the run failed. No clause fields are ever written on this
// path, and progress is left wherever the run got to.
func (r *Reporter) Failed(ctx context.Context, id string) {
	if r.alreadyTerminal(ctx, id, models.StatusFailed) {
		return
	}
	if err := r.store.Update(ctx, id, store.Patch{Status: models.StatusFailed}); err != nil {
		slog.Error("Failed to persist failure status.", "documentId", id, "error", err)
	}
}

// alreadyTerminal reports whether the record is in a terminal state, in
// which case the update is skipped: completed and failed are final, and a
// late status write must not downgrade them. The check is best-effort; if
// the read fails the write proceeds.
func (r *Reporter) alreadyTerminal(ctx context.Context, id, attempted string) bool {
	doc, err := r.store.Get(ctx, id)
	if err != nil {
		return false
	}
	if models.IsTerminal(doc.Status) {
		slog.Warn("Skipping status update for record already in a terminal state.",
			"documentId", id, "currentStatus", doc.Status, "attemptedStatus", attempted)
		return true
	}
	return false
}
