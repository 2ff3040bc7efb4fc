package models

import (
	"time"

	"gosheet/domain/core"
	"gosheet/domain/table"
)

// Document is an imported or newly created grid
type Document struct {
	ID        core.DocumentID `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Format    string          `json:"format" db:"format"`
	Table     table.Table     `json:"table"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Clone returns a copy that shares no cells with d
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Table = d.Table.Clone()
	return &c
}

// DocumentSummary is the list view of a document
type DocumentSummary struct {
	ID        core.DocumentID `json:"id"`
	Name      string          `json:"name"`
	Format    string          `json:"format"`
	Rows      int             `json:"rows"`
	Columns   int             `json:"columns"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Summary builds the list view of d
func (d *Document) Summary() DocumentSummary {
	return DocumentSummary{
		ID:        d.ID,
		Name:      d.Name,
		Format:    d.Format,
		Rows:      d.Table.Rows(),
		Columns:   d.Table.Width(),
		UpdatedAt: d.UpdatedAt,
	}
}
