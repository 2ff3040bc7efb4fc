package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"gosheet/domain/core"
	"gosheet/domain/table"
	"gosheet/internal/errors"
	"gosheet/models"
	"gosheet/ports"

	"github.com/jmoiron/sqlx"
)

// documentRow is the storage shape of a document; cells are a JSONB array of rows
type documentRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Format      string    `db:"format"`
	Cells       []byte    `db:"cells"`
	RowCount    int       `db:"row_count"`
	ColumnCount int       `db:"column_count"`
	Fingerprint string    `db:"fingerprint"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// DocumentRepositoryImpl implements DocumentRepository for PostgreSQL
type DocumentRepositoryImpl struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new PostgreSQL document repository
func NewDocumentRepository(db *sqlx.DB) ports.DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

func toRow(doc *models.Document) (*documentRow, error) {
	t := doc.Table
	if t == nil {
		t = table.Table{}
	}
	cells, err := json.Marshal(t)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal cells")
	}
	return &documentRow{
		ID:          doc.ID.String(),
		Name:        doc.Name,
		Format:      doc.Format,
		Cells:       cells,
		RowCount:    t.Rows(),
		ColumnCount: t.Width(),
		Fingerprint: table.Fingerprint(t).String(),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func (row *documentRow) toDocument() (*models.Document, error) {
	var t table.Table
	if err := json.Unmarshal(row.Cells, &t); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal cells")
	}
	if t == nil {
		t = table.Table{}
	}
	return &models.Document{
		ID:        core.DocumentID(row.ID),
		Name:      row.Name,
		Format:    row.Format,
		Table:     t,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Save upserts the document by ID
func (r *DocumentRepositoryImpl) Save(ctx context.Context, doc *models.Document) error {
	if doc == nil || doc.ID == "" {
		return errors.InvalidInput("document must have an ID")
	}
	row, err := toRow(doc)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO documents (
			id, name, format, cells, row_count, column_count, fingerprint, created_at, updated_at
		) VALUES (
			:id, :name, :format, :cells, :row_count, :column_count, :fingerprint, :created_at, :updated_at
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			format = EXCLUDED.format,
			cells = EXCLUDED.cells,
			row_count = EXCLUDED.row_count,
			column_count = EXCLUDED.column_count,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = EXCLUDED.updated_at
	`, row)
	if err != nil {
		return errors.DatabaseError("failed to save document", err)
	}
	return nil
}

// Get retrieves a document by its ID
func (r *DocumentRepositoryImpl) Get(ctx context.Context, id core.DocumentID) (*models.Document, error) {
	var row documentRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, name, format, cells, row_count, column_count, fingerprint, created_at, updated_at
		FROM documents WHERE id = $1
	`, id.String())
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("document")
		}
		return nil, errors.DatabaseError("failed to get document", err)
	}
	return row.toDocument()
}

// List returns every document, most recently updated first
func (r *DocumentRepositoryImpl) List(ctx context.Context) ([]*models.Document, error) {
	var rows []documentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, name, format, cells, row_count, column_count, fingerprint, created_at, updated_at
		FROM documents
		ORDER BY updated_at DESC, id DESC
	`)
	if err != nil {
		return nil, errors.DatabaseError("failed to list documents", err)
	}

	docs := make([]*models.Document, 0, len(rows))
	for i := range rows {
		doc, err := rows[i].toDocument()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Delete removes a document by its ID
func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id core.DocumentID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id.String())
	if err != nil {
		return errors.DatabaseError("failed to delete document", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("document")
	}
	return nil
}
