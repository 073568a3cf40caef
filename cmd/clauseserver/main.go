// clauseserver runs the pipeline as a standalone HTTP service for local and
// single-host deployments, exposing the processing submission endpoint and
// the polling surface over the document records.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/clauseflow/clauseflow/internal/gcp"
	"github.com/clauseflow/clauseflow/internal/models"
	"github.com/clauseflow/clauseflow/internal/services"
	"github.com/clauseflow/clauseflow/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type server struct {
	processor *services.ProcessorFunction
	docs      *store.DocumentStore
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		slog.Error("PROJECT_ID environment variable must be set")
		os.Exit(1)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, projectID)
	if err != nil {
		slog.Error("Failed to create firestore client", "error", err)
		os.Exit(1)
	}
	docs := store.NewDocumentStore(firestoreClient, gcp.GetEnv("FIRESTORE_COLLECTION", "contracts"))

	processor, err := services.NewProcessor(ctx)
	if err != nil {
		slog.Error("Failed to initialize processor", "error", err)
		os.Exit(1)
	}

	s := &server{processor: processor, docs: docs}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", handleHealth)
	r.Post("/process", s.handleProcess)
	r.Get("/documents", s.handleListDocuments)
	r.Get("/documents/{documentID}", s.handleGetDocument)

	addr := ":" + gcp.GetEnv("PORT", "8080")
	slog.Info("clauseserver listening.", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleProcess acknowledges the submission immediately; the pipeline run is
// detached and observed by polling the document record.
func (s *server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "could not parse JSON body", http.StatusBadRequest)
		return
	}
	if req.DocumentID == "" || req.Filename == "" {
		jsonError(w, "id and filename are required", http.StatusBadRequest)
		return
	}

	go func() {
		if err := s.processor.Process(context.Background(), req.DocumentID, req.Filename); err != nil {
			slog.Error("Pipeline run failed", "documentId", req.DocumentID, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, models.ProcessResponse{Status: "accepted", DocumentID: req.DocumentID})
}

func (s *server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.List(r.Context())
	if err != nil {
		slog.Error("Failed to list documents", "error", err)
		jsonError(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "documentID")
	doc, err := s.docs.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("Failed to get document", "documentId", id, "error", err)
		jsonError(w, "failed to get document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
