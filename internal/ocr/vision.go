// Package ocr adapts Cloud Vision's asynchronous PDF OCR for the pipeline.
package ocr

import (
	"context"
	"fmt"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
)

// shardBatchSize is how many pages Vision writes into each output JSON shard.
const shardBatchSize = 20

// Engine submits documents to Cloud Vision for OCR. Vision writes its
// results as paginated JSON shards under a GCS output prefix.
type Engine struct {
	client *vision.ImageAnnotatorClient
}

// NewEngine wraps an annotator client.
func NewEngine(client *vision.ImageAnnotatorClient) *Engine {
	return &Engine{client: client}
}

// Run submits the PDF at sourceURI for document text detection and blocks
// until Vision has written its result shards under outputURI. The wait is
// minutes-scale for large documents; the caller's goroutine is the only
// thing suspended.
func (e *Engine) Run(ctx context.Context, sourceURI, outputURI string) error {
	req := &visionpb.AsyncBatchAnnotateFilesRequest{
		Requests: []*visionpb.AsyncAnnotateFileRequest{{
			InputConfig: &visionpb.InputConfig{
				GcsSource: &visionpb.GcsSource{Uri: sourceURI},
				MimeType:  "application/pdf",
			},
			Features: []*visionpb.Feature{{
				Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
			}},
			OutputConfig: &visionpb.OutputConfig{
				GcsDestination: &visionpb.GcsDestination{Uri: outputURI},
				BatchSize:      shardBatchSize,
			},
		}},
	}

	op, err := e.client.AsyncBatchAnnotateFiles(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to submit OCR request for %s: %w", sourceURI, err)
	}

	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("OCR operation for %s failed: %w", sourceURI, err)
	}
	return nil
}
