package extract

import (
	"context"
	"fmt"
	"log/slog"
)

// Extractor is one clause-extraction strategy. Implementations either return
// a fully populated Result or an error; partial results are never produced.
type Extractor interface {
	Extract(ctx context.Context, text string) (Result, error)
}

// Chain tries each strategy in order and returns the first success.
type Chain []Extractor

// NewChain builds the standard strategy order: the model path first, the
// deterministic keyword scan as the safety net. The keyword extractor never
// fails, so the chain as a whole always yields a populated Result.
func NewChain(model ClauseModel) Chain {
	return Chain{&AIExtractor{Model: model}, KeywordExtractor{}}
}

func (c Chain) Extract(ctx context.Context, text string) (Result, error) {
	if len(c) == 0 {
		return Result{}, fmt.Errorf("no extraction strategies configured")
	}

	var lastErr error
	for _, e := range c {
		result, err := e.Extract(ctx, text)
		if err == nil {
			return result, nil
		}
		slog.Warn("Extraction strategy failed, falling back to next.", "error", err)
		lastErr = err
	}
	return Result{}, fmt.Errorf("all extraction strategies failed: %w", lastErr)
}
