package document

import (
	"context"
	"testing"

	"gosheet/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunQuery(t *testing.T) {
	tests := []struct {
		name  string
		req   QueryRequest
		lines []string
		value *float64
	}{
		{"items", QueryRequest{ItemRow: 1, Op: OpItems}, []string{"Name", "Q1", "Q2"}, nil},
		{"names", QueryRequest{ItemRow: 1, NameColumn: "A", Op: OpNames}, []string{"Alice", "Bob"}, nil},
		{"values", QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q1", Op: OpValues}, []string{"10", "30"}, nil},
		{"max", QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q1", Op: OpMax}, []string{"Max:", "Bob : 30"}, ptr(30)},
		{"min", QueryRequest{ItemRow: 1, NameColumn: "1", Item: "Q2", Op: "MIN"}, []string{"Min:", "Bob : 5"}, ptr(5)},
		{"average", QueryRequest{ItemRow: 1, NameColumn: "a", Item: "Q1", Op: OpAverage}, []string{"Average: 20.00"}, ptr(20)},
		{"rule", QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q1", Op: OpRule, Rule: "x>10#x*2"}, []string{"Bob = 30 | 60"}, nil},
		{"rule no match", QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q1", Op: OpRule, Rule: "x > 100"}, []string{}, nil},
		{"header only", QueryRequest{ItemRow: 3, NameColumn: "A", Item: "5", Op: OpMax}, []string{"Max:", "no valid data"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := RunQuery(quarterly(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.lines, res.Lines)
			assert.Equal(t, tt.value, res.Value)
		})
	}
}

func TestRunQueryErrors(t *testing.T) {
	tests := []struct {
		name string
		req  QueryRequest
		code string
	}{
		{"bad column", QueryRequest{ItemRow: 1, NameColumn: "A1", Item: "Q1", Op: OpMax}, errors.CodeInvalidReference},
		{"missing item", QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q9", Op: OpAverage}, errors.CodeItemNotFound},
		{"empty item", QueryRequest{ItemRow: 1, NameColumn: "A", Op: OpValues}, errors.CodeItemNotFound},
		{"unknown op", QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q1", Op: "median"}, errors.CodeInvalidInput},
		{"empty rule", QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q1", Op: OpRule}, errors.CodeInvalidInput},
		{"bad rule", QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q1", Op: OpRule, Rule: "x >"}, errors.CodeInvalidRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunQuery(quarterly(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestQueryLoadsDocument(t *testing.T) {
	svc, _ := newService(t)
	id := importQuarterly(t, svc)

	res, err := svc.Query(context.Background(), id, QueryRequest{ItemRow: 1, NameColumn: "A", Item: "Q2", Op: OpMax})
	require.NoError(t, err)
	assert.Equal(t, []string{"Max:", "Alice : 20"}, res.Lines)
}

func ptr(f float64) *float64 { return &f }
