package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/clauseflow/clauseflow/internal/models"
	"github.com/clauseflow/clauseflow/internal/services"
)

var (
	processorInstance *services.ProcessorFunction
	once              sync.Once
	initErr           error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleProcessContract", handleProcessContract)
}

func main() {}

// handleProcessContract acknowledges a processing submission immediately and
// runs the pipeline detached: request latency is decoupled from pipeline
// duration, and status is observed by polling the document record.
func handleProcessContract(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		processorInstance, initErr = services.NewProcessor(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical: processor initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Could not decode request body", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}
	if req.DocumentID == "" || req.Filename == "" {
		http.Error(w, "Bad Request: id and filename are required", http.StatusBadRequest)
		return
	}

	// The run outlives this request; no cancellation hook is exposed.
	go func() {
		if err := processorInstance.Process(context.Background(), req.DocumentID, req.Filename); err != nil {
			slog.Error("Pipeline run failed", "documentId", req.DocumentID, "error", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(models.ProcessResponse{Status: "accepted", DocumentID: req.DocumentID}); err != nil {
		slog.Error("Failed to write response", "error", err, "documentId", req.DocumentID)
	}
}
