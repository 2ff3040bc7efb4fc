package document

import (
	"context"
	"strings"

	"gosheet/domain/core"
	"gosheet/domain/table"
	"gosheet/internal/aggregate"
	"gosheet/internal/errors"
	"gosheet/internal/lookup"
	"gosheet/internal/rule"
)

// Query operations
const (
	OpItems   = "items"
	OpNames   = "names"
	OpValues  = "values"
	OpMax     = "max"
	OpMin     = "min"
	OpAverage = "average"
	OpRule    = "rule"
)

// QueryRequest selects the name/value mapping and the operation to run on it
type QueryRequest struct {
	ItemRow    int    `json:"item_row"`
	NameColumn string `json:"name_column"`
	Item       string `json:"item"`
	Op         string `json:"op"`
	Rule       string `json:"rule,omitempty"`
}

// QueryResult is the report lines of an operation, plus the number behind
// them for max, min and average
type QueryResult struct {
	Lines []string `json:"lines"`
	Value *float64 `json:"value,omitempty"`
}

// Query runs a lookup or aggregation against the document's current table
func (s *Service) Query(ctx context.Context, id core.DocumentID, req QueryRequest) (*QueryResult, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return RunQuery(doc.Table, req)
}

// RunQuery evaluates req against t
func RunQuery(t table.Table, req QueryRequest) (*QueryResult, error) {
	op := strings.ToLower(strings.TrimSpace(req.Op))

	switch op {
	case OpItems:
		return &QueryResult{Lines: lookup.Items(t, req.ItemRow)}, nil
	case OpNames:
		names, err := lookup.Names(t, req.ItemRow, req.NameColumn)
		if err != nil {
			return nil, err
		}
		return &QueryResult{Lines: names}, nil
	case OpValues:
		values, err := lookup.Values(t, req.ItemRow, req.NameColumn, req.Item)
		if err != nil {
			return nil, err
		}
		return &QueryResult{Lines: values}, nil
	case OpMax, OpMin, OpAverage, OpRule:
	default:
		return nil, errors.InvalidInput("unknown query operation: " + req.Op)
	}

	m, err := nameValueMap(t, req)
	if err != nil {
		return nil, err
	}

	switch op {
	case OpMax:
		hi := aggregate.Max(m)
		return extremumResult(aggregate.NamesAtMax(m, hi), hi), nil
	case OpMin:
		lo := aggregate.Min(m)
		return extremumResult(aggregate.NamesAtMin(m, lo), lo), nil
	case OpAverage:
		res := &QueryResult{Lines: aggregate.Average(m)}
		if mean, ok := aggregate.Mean(m); ok {
			res.Value = &mean
		}
		return res, nil
	default:
		if strings.TrimSpace(req.Rule) == "" {
			return nil, errors.InvalidInput("rule is required")
		}
		if _, err := rule.Compile(req.Rule); err != nil {
			return nil, errors.InvalidRule(req.Rule, err)
		}
		return &QueryResult{Lines: aggregate.EvaluateRule(m, req.Rule)}, nil
	}
}

func nameValueMap(t table.Table, req QueryRequest) (*lookup.NameValueMap, error) {
	names, err := lookup.Names(t, req.ItemRow, req.NameColumn)
	if err != nil {
		return nil, err
	}
	values, err := lookup.Values(t, req.ItemRow, req.NameColumn, req.Item)
	if err != nil {
		return nil, err
	}
	return lookup.BuildNameValueMap(names, values), nil
}

func extremumResult(lines []string, ext aggregate.Extremum) *QueryResult {
	res := &QueryResult{Lines: lines}
	if ext.Valid {
		v := ext.Value
		res.Value = &v
	}
	return res
}
