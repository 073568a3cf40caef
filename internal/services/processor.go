package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/clauseflow/clauseflow/internal/blob"
	"github.com/clauseflow/clauseflow/internal/extract"
	"github.com/clauseflow/clauseflow/internal/gcp"
	"github.com/clauseflow/clauseflow/internal/models"
	"github.com/clauseflow/clauseflow/internal/ocr"
	"github.com/clauseflow/clauseflow/internal/reassemble"
	"github.com/clauseflow/clauseflow/internal/store"
	"golang.org/x/sync/errgroup"
)

// maxShardDownloads bounds the concurrent shard downloads during reassembly.
// Shards are independent and read-only, so only the download fan-out is
// parallel; the pipeline stages themselves are strictly sequential.
const maxShardDownloads = 10

// Progress checkpoints reported over a run. Advisory only, monotone within
// a single attempt.
const (
	progressOCRSubmitted = 10
	progressExtracting   = 60
)

// RecordStore is the slice of the document record store the pipeline needs.
type RecordStore interface {
	Create(ctx context.Context, fileName string) (*models.Document, error)
	Update(ctx context.Context, id string, patch store.Patch) error
	Get(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context) ([]*models.Document, error)
}

// BlobStore is the slice of the blob store the pipeline needs.
type BlobStore interface {
	Write(ctx context.Context, path string, data []byte, contentType string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Download(ctx context.Context, name string) ([]byte, error)
	URI(name string) string
}

// OCREngine submits a document for OCR and blocks until the JSON result
// shards exist under the output prefix.
type OCREngine interface {
	Run(ctx context.Context, sourceURI, outputPrefix string) error
}

// ProcessorConfig holds configuration for the clause processor service.
type ProcessorConfig struct {
	ProjectID      string
	ContractBucket string
	CollectionName string
	VertexAIRegion string
}

// ProcessorFunction owns a document's pipeline run: OCR, shard reassembly,
// clause extraction, and the status state machine around them.
type ProcessorFunction struct {
	blobs      BlobStore
	ocr        OCREngine
	extractors extract.Extractor
	reporter   *Reporter
}

func loadProcessorConfig() (*ProcessorConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	contractBucket := gcp.GetEnv("CONTRACT_BUCKET", "")
	if contractBucket == "" {
		return nil, fmt.Errorf("CONTRACT_BUCKET environment variable must be set")
	}

	return &ProcessorConfig{
		ProjectID:      projectID,
		ContractBucket: contractBucket,
		CollectionName: gcp.GetEnv("FIRESTORE_COLLECTION", "contracts"),
		VertexAIRegion: gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
	}, nil
}

// NewProcessor creates a ProcessorFunction wired to the real cloud clients,
// configured from the environment.
func NewProcessor(ctx context.Context) (*ProcessorFunction, error) {
	deps, err := buildPipelineDeps(ctx)
	if err != nil {
		return nil, err
	}
	return newProcessor(deps.blobs, deps.ocr, deps.extractors, deps.reporter), nil
}

// newProcessor wires a processor from explicit dependencies. Tests use this
// with fakes.
func newProcessor(blobs BlobStore, ocrEngine OCREngine, extractors extract.Extractor, reporter *Reporter) *ProcessorFunction {
	return &ProcessorFunction{
		blobs:      blobs,
		ocr:        ocrEngine,
		extractors: extractors,
		reporter:   reporter,
	}
}

// pipelineDeps is the full dependency set shared by the processor and ingest
// constructors.
type pipelineDeps struct {
	records    RecordStore
	blobs      BlobStore
	ocr        OCREngine
	extractors extract.Extractor
	reporter   *Reporter
}

func buildPipelineDeps(ctx context.Context) (*pipelineDeps, error) {
	config, err := loadProcessorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	visionClient, err := gcp.NewVisionClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	vertexClient, err := gcp.NewVertexClient(ctx, config.ProjectID, config.VertexAIRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	records := store.NewDocumentStore(firestoreClient, config.CollectionName)
	return &pipelineDeps{
		records:    records,
		blobs:      blob.NewGCSStore(storageClient, config.ContractBucket),
		ocr:        ocr.NewEngine(visionClient),
		extractors: extract.NewChain(vertexClient),
		reporter:   NewReporter(records),
	}, nil
}

// Process runs the full pipeline for one document: OCR submission and wait,
// shard listing and reassembly, clause extraction, and the final terminal
// status write. The stages are strictly sequential; the two long waits (OCR
// completion, model response) suspend only this goroutine. Once started the
// run always reaches a terminal status; the returned error exists for
// logging and function-invocation semantics at the call site.
func (f *ProcessorFunction) Process(ctx context.Context, documentID, sourceURI string) error {
	logCtx := slog.With("documentId", documentID)
	logCtx.Info("Starting clause extraction pipeline.", "sourceUri", sourceURI)

	f.reporter.Transition(ctx, documentID, models.StatusProcessing, progressOCRSubmitted)

	outputPrefix := fmt.Sprintf("ocr-results/%s/", documentID)
	if err := f.ocr.Run(ctx, sourceURI, f.blobs.URI(outputPrefix)); err != nil {
		logCtx.Error("OCR stage failed.", "error", err)
		f.reporter.Failed(ctx, documentID)
		return fmt.Errorf("ocr stage: %w", err)
	}
	logCtx.Info("OCR complete. Reassembling shards.")

	f.reporter.Transition(ctx, documentID, models.StatusExtracting, progressExtracting)

	text, err := f.assembleText(ctx, outputPrefix)
	if err != nil {
		logCtx.Error("Shard reassembly failed.", "error", err)
		f.reporter.Failed(ctx, documentID)
		return fmt.Errorf("reassembly stage: %w", err)
	}
	if text == "" {
		// Not an error: extraction still runs and legitimately reports both
		// clauses as not found.
		logCtx.Warn("Assembled text is empty.")
	}

	result, err := f.extractors.Extract(ctx, text)
	if err != nil {
		// The keyword fallback never fails, so this is the orchestration
		// glue breaking, not the model.
		logCtx.Error("Clause extraction failed.", "error", err)
		f.reporter.Failed(ctx, documentID)
		return fmt.Errorf("extraction stage: %w", err)
	}

	f.reporter.Completed(ctx, documentID, result)
	logCtx.Info("Pipeline complete.")
	return nil
}

// assembleText lists the OCR shards under prefix, downloads them with
// bounded concurrency, and reassembles the linear document text. Listing
// order is whatever the blob store returns: preserved so concatenation is
// deterministic within one run, but not guaranteed to match page order.
func (f *ProcessorFunction) assembleText(ctx context.Context, prefix string) (string, error) {
	names, err := f.blobs.List(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to list OCR shards: %w", err)
	}

	var shardNames []string
	for _, name := range names {
		if strings.HasSuffix(name, ".json") {
			shardNames = append(shardNames, name)
		}
	}
	slog.Info("Found OCR shards.", "prefix", prefix, "shardCount", len(shardNames))

	shards := make([][]byte, len(shardNames))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxShardDownloads)
	for i, name := range shardNames {
		eg.Go(func() error {
			data, err := f.blobs.Download(gctx, name)
			if err != nil {
				return fmt.Errorf("shard %s: %w", name, err)
			}
			shards[i] = data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return "", fmt.Errorf("failed to download OCR shards: %w", err)
	}

	return reassemble.Assemble(shards), nil
}
