package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"gosheet/domain/core"
	"gosheet/domain/table"
	"gosheet/internal/errors"
	"gosheet/internal/migration"
	"gosheet/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowConversion(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	doc := &models.Document{
		ID:        core.NewDocumentID(),
		Name:      "q.xlsx",
		Format:    "xlsx",
		Table:     table.New([]string{"Name", "Q1"}, []string{"Alice"}),
		CreatedAt: now,
		UpdatedAt: now,
	}

	row, err := toRow(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, row.RowCount)
	assert.Equal(t, 2, row.ColumnCount)
	assert.JSONEq(t, `[["Name","Q1"],["Alice"]]`, string(row.Cells))
	assert.Equal(t, table.Fingerprint(doc.Table).String(), row.Fingerprint)

	back, err := row.toDocument()
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestRowConversionEmptyTable(t *testing.T) {
	row, err := toRow(&models.Document{ID: core.NewDocumentID()})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(row.Cells))

	doc, err := row.toDocument()
	require.NoError(t, err)
	assert.NotNil(t, doc.Table)
	assert.Equal(t, 0, doc.Table.Rows())
}

func TestDocumentRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, migration.NewRunner().Run(ctx, db))

	repo := NewDocumentRepository(db)
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := &models.Document{
		ID:        core.NewDocumentID(),
		Name:      "integration.json",
		Format:    "json",
		Table:     table.New([]string{"a", "1"}),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Save(ctx, doc))

	doc.Table = table.New([]string{"b", "2"}, []string{"c"})
	doc.UpdatedAt = now.Add(time.Second)
	require.NoError(t, repo.Save(ctx, doc))

	got, err := repo.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.True(t, table.Equal(doc.Table, got.Table))

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, docs)

	require.NoError(t, repo.Delete(ctx, doc.ID))
	_, err = repo.Get(ctx, doc.ID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
