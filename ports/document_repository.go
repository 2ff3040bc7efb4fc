package ports

import (
	"context"

	"gosheet/domain/core"
	"gosheet/models"
)

// DocumentRepository persists documents and their current table
type DocumentRepository interface {
	// Save inserts or replaces the document with the same ID
	Save(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, id core.DocumentID) (*models.Document, error)
	// List returns documents most recently updated first
	List(ctx context.Context) ([]*models.Document, error)
	Delete(ctx context.Context, id core.DocumentID) error
}
