// Package memory holds process-local repositories used when no database is configured
package memory

import (
	"context"
	"sort"
	"sync"

	"gosheet/domain/core"
	"gosheet/internal/errors"
	"gosheet/models"
	"gosheet/ports"
)

type documentRepository struct {
	mu   sync.RWMutex
	docs map[core.DocumentID]*models.Document
}

// NewDocumentRepository creates an empty in-memory document repository
func NewDocumentRepository() ports.DocumentRepository {
	return &documentRepository{docs: make(map[core.DocumentID]*models.Document)}
}

func (r *documentRepository) Save(ctx context.Context, doc *models.Document) error {
	if doc == nil || doc.ID == "" {
		return errors.InvalidInput("document must have an ID")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc.Clone()
	return nil
}

func (r *documentRepository) Get(ctx context.Context, id core.DocumentID) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, errors.NotFound("document")
	}
	return doc.Clone(), nil
}

func (r *documentRepository) List(ctx context.Context) ([]*models.Document, error) {
	r.mu.RLock()
	docs := make([]*models.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UpdatedAt.Equal(docs[j].UpdatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id core.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return errors.NotFound("document")
	}
	delete(r.docs, id)
	return nil
}
