package lookup

import (
	"testing"

	"gosheet/domain/table"
	"gosheet/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quarterly() table.Table {
	return table.New(
		[]string{"Name", "Q1", "Q2"},
		[]string{"Alice", "10", "20"},
		[]string{"Bob", "30", "5"},
	)
}

func TestItems(t *testing.T) {
	tbl := table.New([]string{"title"}, []string{"Name", "Q1"}, []string{"Alice", "1"})

	assert.Equal(t, []string{"Name", "Q1"}, Items(tbl, 2))
	assert.Equal(t, []string{"title"}, Items(tbl, 1))
	assert.Equal(t, []string{}, Items(tbl, 4))
	assert.Equal(t, []string{}, Items(tbl, 0))
	assert.Equal(t, []string{}, Items(table.Table{}, 1))
}

func TestNames(t *testing.T) {
	names, err := Names(quarterly(), 1, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, names)

	byNumber, err := Names(quarterly(), 1, "1")
	require.NoError(t, err)
	assert.Equal(t, names, byNumber)
}

func TestNamesKeepsRaggedRowsAligned(t *testing.T) {
	tbl := table.Table{
		{"Item", "Name", "Score"},
		{"x"},
		{"y", "Carol", "7"},
		{},
	}

	names, err := Names(tbl, 1, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Carol", ""}, names)
}

func TestNamesHeaderBeyondTable(t *testing.T) {
	names, err := Names(quarterly(), 10, "A")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestNamesInvalidReference(t *testing.T) {
	_, err := Names(quarterly(), 1, "A1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidReference))
}

func TestValues(t *testing.T) {
	values, err := Values(quarterly(), 1, "A", "Q1")
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "30"}, values)

	values, err = Values(quarterly(), 1, "A", "Q2")
	require.NoError(t, err)
	assert.Equal(t, []string{"20", "5"}, values)
}

func TestValuesReadsItemColumnNotNameColumn(t *testing.T) {
	tbl := table.New(
		[]string{"Score", "Name"},
		[]string{"9", "Dan"},
	)

	values, err := Values(tbl, 1, "B", "Score")
	require.NoError(t, err)
	assert.Equal(t, []string{"9"}, values)
}

func TestValuesItemNotFound(t *testing.T) {
	for _, item := range []string{"Q9", "", "q1"} {
		_, err := Values(quarterly(), 1, "A", item)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeItemNotFound))
		assert.Equal(t, "item name not found among items, or is empty", errors.Message(err))
	}
}

func TestBuildNameValueMap(t *testing.T) {
	names, err := Names(quarterly(), 1, "A")
	require.NoError(t, err)
	values, err := Values(quarterly(), 1, "A", "Q1")
	require.NoError(t, err)

	m := BuildNameValueMap(names, values)
	assert.Equal(t, map[string]string{"Alice": "10", "Bob": "30"}, m.Map())
	assert.Equal(t, []string{"Alice", "Bob"}, m.Names())
}

func TestBuildNameValueMapLastWriteWins(t *testing.T) {
	m := BuildNameValueMap([]string{"A", "A"}, []string{"1", "2"})

	assert.Equal(t, 1, m.Len())
	v, ok := m.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestBuildNameValueMapTruncatesAndSkipsEmptyNames(t *testing.T) {
	m := BuildNameValueMap([]string{"a", "", "c", "d"}, []string{"1", "2", "3"})

	assert.Equal(t, []Entry{{Name: "a", Value: "1"}, {Name: "c", Value: "3"}}, m.Entries())
	_, ok := m.Get("d")
	assert.False(t, ok)
}

func TestBuildNameValueMapKeepsFirstSeenOrder(t *testing.T) {
	m := BuildNameValueMap([]string{"b", "a", "b"}, []string{"1", "2", "3"})

	assert.Equal(t, []Entry{{Name: "b", Value: "3"}, {Name: "a", Value: "2"}}, m.Entries())
}

func TestBuildNameValueMapKeepsRowOrderForNumericNames(t *testing.T) {
	m := BuildNameValueMap([]string{"Total", "10", "2"}, []string{"7", "8", "9"})

	assert.Equal(t, []string{"Total", "10", "2"}, m.Names())
}
