package services

import (
	"context"
	"testing"

	"github.com/clauseflow/clauseflow/internal/extract"
	"github.com/clauseflow/clauseflow/internal/models"
)

func TestReporter_TerminalStatesAreFinal(t *testing.T) {
	records := newFakeRecordStore()
	records.put("done", models.StatusCompleted)
	records.put("broken", models.StatusFailed)

	r := NewReporter(records)
	r.Transition(context.Background(), "done", models.StatusProcessing, 10)
	r.Failed(context.Background(), "done")
	r.Completed(context.Background(), "broken", extract.Result{
		IndemnificationText: "clause",
		TerminationText:     "clause",
	})

	if got := records.docs["done"].Status; got != models.StatusCompleted {
		t.Errorf("completed record was downgraded to %q", got)
	}
	if got := records.docs["broken"].Status; got != models.StatusFailed {
		t.Errorf("failed record was upgraded to %q", got)
	}
	if records.docs["broken"].IndemnificationText != "" {
		t.Error("clause fields were written to a record that had already failed")
	}
}

func TestReporter_TransitionPersistsStatusAndProgress(t *testing.T) {
	records := newFakeRecordStore()
	records.put("doc1", models.StatusPending)

	r := NewReporter(records)
	r.Transition(context.Background(), "doc1", models.StatusProcessing, 10)

	doc := records.docs["doc1"]
	if doc.Status != models.StatusProcessing || doc.Progress != 10 {
		t.Errorf("unexpected record state: %+v", doc)
	}
}

func TestReporter_FailedLeavesProgressUntouched(t *testing.T) {
	records := newFakeRecordStore()
	records.put("doc1", models.StatusPending)
	records.docs["doc1"].Progress = 60

	r := NewReporter(records)
	r.Failed(context.Background(), "doc1")

	doc := records.docs["doc1"]
	if doc.Status != models.StatusFailed {
		t.Errorf("expected status failed, got %q", doc.Status)
	}
	if doc.Progress != 60 {
		t.Errorf("failure must not touch progress, got %d", doc.Progress)
	}
}

func TestReporter_UnknownRecordUpdateIsLoggedNotFatal(t *testing.T) {
	r := NewReporter(newFakeRecordStore())
	// Must not panic or error out; the pipeline's in-memory state stays
	// authoritative when the remote write is lost.
	r.Transition(context.Background(), "missing", models.StatusProcessing, 10)
	r.Failed(context.Background(), "missing")
}
