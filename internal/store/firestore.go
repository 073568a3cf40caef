// Package store provides the Firestore-backed document record store.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/clauseflow/clauseflow/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when a document id has no record.
var ErrNotFound = errors.New("document not found")

// Patch is a partial update to a document record. Zero-value fields are left
// untouched; pointer fields are applied when non-nil so an explicit empty
// string or zero can still be written.
type Patch struct {
	Status              string
	Progress            *int
	PageCount           *int
	IndemnificationText *string
	TerminationText     *string
}

// DocumentStore persists contract document records in a single Firestore
// collection.
type DocumentStore struct {
	client     *firestore.Client
	collection string
}

// NewDocumentStore creates a record store over the given collection.
func NewDocumentStore(client *firestore.Client, collection string) *DocumentStore {
	return &DocumentStore{client: client, collection: collection}
}

// Create inserts a new record with status pending and zero progress, and
// returns it with its assigned id.
func (s *DocumentStore) Create(ctx context.Context, fileName string) (*models.Document, error) {
	doc := models.Document{
		SourceName: fileName,
		Status:     models.StatusPending,
		Progress:   0,
		CreatedAt:  time.Now(),
	}

	ref, _, err := s.client.Collection(s.collection).Add(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	doc.ID = ref.ID
	return &doc, nil
}

// Update applies a partial update to the record with the given id. Returns
// ErrNotFound if the id is absent.
func (s *DocumentStore) Update(ctx context.Context, id string, patch Patch) error {
	var updates []firestore.Update
	if patch.Status != "" {
		updates = append(updates, firestore.Update{Path: "status", Value: patch.Status})
	}
	if patch.Progress != nil {
		updates = append(updates, firestore.Update{Path: "progress", Value: *patch.Progress})
	}
	if patch.PageCount != nil {
		updates = append(updates, firestore.Update{Path: "pageCount", Value: *patch.PageCount})
	}
	if patch.IndemnificationText != nil {
		updates = append(updates, firestore.Update{Path: "indemnificationText", Value: *patch.IndemnificationText})
	}
	if patch.TerminationText != nil {
		updates = append(updates, firestore.Update{Path: "terminationText", Value: *patch.TerminationText})
	}
	if len(updates) == 0 {
		return nil
	}

	_, err := s.client.Collection(s.collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", id, err)
	}
	return nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *DocumentStore) Get(ctx context.Context, id string) (*models.Document, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}

	var doc models.Document
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	doc.ID = snap.Ref.ID
	return &doc, nil
}

// List returns all records, newest upload first.
func (s *DocumentStore) List(ctx context.Context) ([]*models.Document, error) {
	snaps, err := s.client.Collection(s.collection).OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*models.Document, 0, len(snaps))
	for _, snap := range snaps {
		var doc models.Document
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", snap.Ref.ID, err)
		}
		doc.ID = snap.Ref.ID
		docs = append(docs, &doc)
	}
	return docs, nil
}
