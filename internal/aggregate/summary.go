package aggregate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the numbers found in a selection of grid rows
type Summary struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
	Mean  float64 `json:"mean"`
}

// Summarize parses every cell of the given rows and aggregates the numbers.
// It reports false when no cell holds a number.
func Summarize(rows [][]string) (Summary, bool) {
	var values []float64
	for _, row := range rows {
		for _, cell := range row {
			if f, ok := ParseNumber(cell); ok {
				values = append(values, f)
			}
		}
	}
	if len(values) == 0 {
		return Summary{}, false
	}

	return Summary{
		Count: len(values),
		Sum:   floats.Sum(values),
		Max:   floats.Max(values),
		Min:   floats.Min(values),
		Mean:  stat.Mean(values, nil),
	}, true
}

func (s Summary) String() string {
	return fmt.Sprintf("Selected %d numbers | Max: %.2f Min: %.2f Average: %.2f Sum: %.2f",
		s.Count, s.Max, s.Min, s.Mean, s.Sum)
}
