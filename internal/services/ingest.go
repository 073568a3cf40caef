package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/clauseflow/clauseflow/internal/store"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// GCSEvent is the payload of a GCS object-finalize event.
type GCSEvent struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}

// IngestFunction handles a freshly uploaded contract: it validates the PDF,
// creates the document record, and runs the pipeline. The record exists with
// status pending before the pipeline touches it, so observers can poll from
// the moment of upload.
type IngestFunction struct {
	records   RecordStore
	blobs     BlobStore
	processor *ProcessorFunction
}

// NewIngest creates an IngestFunction wired to the real cloud clients,
// configured from the environment.
func NewIngest(ctx context.Context) (*IngestFunction, error) {
	deps, err := buildPipelineDeps(ctx)
	if err != nil {
		return nil, err
	}
	return &IngestFunction{
		records:   deps.records,
		blobs:     deps.blobs,
		processor: newProcessor(deps.blobs, deps.ocr, deps.extractors, deps.reporter),
	}, nil
}

// newIngest wires an ingest function from explicit dependencies for tests.
func newIngest(records RecordStore, blobs BlobStore, processor *ProcessorFunction) *IngestFunction {
	return &IngestFunction{records: records, blobs: blobs, processor: processor}
}

// Process handles one uploaded contract object end to end.
func (f *IngestFunction) Process(ctx context.Context, e GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name)
	logCtx.Info("Processing uploaded contract.")

	data, err := f.blobs.Download(ctx, e.Name)
	if err != nil {
		logCtx.Error("Failed to download uploaded contract", "error", err)
		return err
	}

	pageCount, err := pdfPageCount(data)
	if err != nil {
		logCtx.Error("Uploaded file is not a readable PDF", "error", err)
		return fmt.Errorf("invalid PDF %s: %w", e.Name, err)
	}

	doc, err := f.records.Create(ctx, path.Base(e.Name))
	if err != nil {
		logCtx.Error("Failed to create document record", "error", err)
		return err
	}
	logCtx = logCtx.With("documentId", doc.ID)

	if err := f.records.Update(ctx, doc.ID, store.Patch{PageCount: &pageCount}); err != nil {
		// Advisory metadata only; the pipeline runs regardless.
		logCtx.Error("Failed to record page count", "error", err)
	}
	logCtx.Info("Created document record.", "pageCount", pageCount)

	return f.processor.Process(ctx, doc.ID, f.blobs.URI(e.Name))
}

// pdfPageCount validates the upload as a PDF and returns its page count.
func pdfPageCount(data []byte) (int, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(data), cfg)
}
