package document

import (
	"context"
	"testing"

	"gosheet/adapters/codec"
	"gosheet/adapters/memory"
	"gosheet/domain/core"
	"gosheet/domain/table"
	"gosheet/internal/errors"
	"gosheet/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(event ports.DocumentEvent) {
	m.Called(event)
}

func quarterly() table.Table {
	return table.New(
		[]string{"Name", "Q1", "Q2"},
		[]string{"Alice", "10", "20"},
		[]string{"Bob", "30", "5"},
	)
}

func newService(t *testing.T) (*Service, *mockPublisher) {
	t.Helper()
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything).Return()
	return NewService(memory.NewDocumentRepository(), pub), pub
}

func importQuarterly(t *testing.T, svc *Service) core.DocumentID {
	t.Helper()
	doc, err := svc.Import(context.Background(), "quarterly.json", []byte(codecJSON(t, quarterly())))
	require.NoError(t, err)
	return doc.ID
}

func codecJSON(t *testing.T, tbl table.Table) string {
	t.Helper()
	text, err := codec.EncodeJSON(tbl)
	require.NoError(t, err)
	return text
}

func TestCreate(t *testing.T) {
	svc, pub := newService(t)

	doc, err := svc.Create(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, "Untitled.xlsx", doc.Name)
	assert.Equal(t, "xlsx", doc.Format)
	assert.Equal(t, 0, doc.Table.Rows())

	doc, err = svc.Create(context.Background(), "budget.csv", codec.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "budget.json", doc.Name)

	_, err = svc.Create(context.Background(), "x", "pdf")
	assert.True(t, errors.Is(err, errors.CodeUnsupportedFormat))

	pub.AssertNumberOfCalls(t, "Publish", 2)
}

func TestImport(t *testing.T) {
	svc, _ := newService(t)
	id := importQuarterly(t, svc)

	doc, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, table.Equal(quarterly(), doc.Table))
	assert.Equal(t, "json", doc.Format)

	_, err = svc.Import(context.Background(), "notes.txt", []byte("hi"))
	assert.True(t, errors.Is(err, errors.CodeUnsupportedFormat))

	_, err = svc.Import(context.Background(), "broken.xml", []byte("<root><row>"))
	assert.True(t, errors.Is(err, errors.CodeFormatError))
}

func TestReplaceTrimsAndPublishes(t *testing.T) {
	svc, pub := newService(t)
	id := importQuarterly(t, svc)

	doc, err := svc.Replace(context.Background(), id, table.New(
		[]string{"a", "b", ""},
		[]string{"", "", ""},
	))
	require.NoError(t, err)
	assert.Equal(t, table.Table{{"a", "b"}}, doc.Table)

	pub.AssertCalled(t, "Publish", mock.MatchedBy(func(ev ports.DocumentEvent) bool {
		return ev.DocumentID == id && ev.EventType == ports.EventTableReplaced &&
			ev.Data["rows"] == 1 && ev.Data["columns"] == 2
	}))

	_, err = svc.Replace(context.Background(), core.NewDocumentID(), table.Table{})
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestApplyReportsRowChanges(t *testing.T) {
	svc, pub := newService(t)
	id := importQuarterly(t, svc)

	next := quarterly()
	next = append(next, table.Row{"Dave", "1", "2"})
	_, changes, err := svc.Apply(context.Background(), id, next)
	require.NoError(t, err)
	assert.Equal(t, 1, changes.Added)
	assert.Equal(t, 0, changes.Removed)

	pub.AssertCalled(t, "Publish", mock.MatchedBy(func(ev ports.DocumentEvent) bool {
		return ev.EventType == ports.EventTableReplaced && ev.Data["added"] == 1 && ev.Data["removed"] == 0
	}))
}

func TestListAndDelete(t *testing.T) {
	svc, _ := newService(t)
	id := importQuarterly(t, svc)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Rows)
	assert.Equal(t, 3, list[0].Columns)

	require.NoError(t, svc.Delete(context.Background(), id))
	list, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.True(t, errors.Is(svc.Delete(context.Background(), id), errors.CodeNotFound))
}

func TestExport(t *testing.T) {
	svc, _ := newService(t)
	id := importQuarterly(t, svc)

	exp, err := svc.Export(context.Background(), id, "xml")
	require.NoError(t, err)
	assert.Equal(t, "quarterly.xml", exp.Name)
	assert.Equal(t, "application/xml", exp.MIMEType)

	back, err := codec.DecodeXML(string(exp.Data))
	require.NoError(t, err)
	assert.True(t, table.Equal(quarterly(), back))

	exp, err = svc.Export(context.Background(), id, "")
	require.NoError(t, err)
	assert.Equal(t, "quarterly.json", exp.Name)

	_, err = svc.Export(context.Background(), id, "docx")
	assert.True(t, errors.Is(err, errors.CodeUnsupportedFormat))
}

func TestSummary(t *testing.T) {
	svc, _ := newService(t)
	id := importQuarterly(t, svc)

	summary, ok, err := svc.Summary(context.Background(), id, []int{1, 2, 99})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, 65.0, summary.Sum)
	assert.Equal(t, 30.0, summary.Max)
	assert.Equal(t, 5.0, summary.Min)

	_, ok, err = svc.Summary(context.Background(), id, []int{0})
	require.NoError(t, err)
	assert.False(t, ok)
}
