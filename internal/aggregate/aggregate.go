// Package aggregate computes statistics over a name/value mapping: extremes,
// the mean, and user rules evaluated per entry. Values that do not start with
// a number are ignored rather than reported as errors.
package aggregate

import (
	"fmt"
	"log"

	"gosheet/internal/lookup"
	"gosheet/internal/rule"

	"github.com/montanaflynn/stats"
)

// Report labels
const (
	LabelMax     = "Max:"
	LabelMin     = "Min:"
	LabelAverage = "Average:"
	NoValidData  = "no valid data"
)

// Extremum is a maximum or minimum; Valid is false when there was no numeric data
type Extremum struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// NumericValues parses every value of m, dropping the ones that are not numbers
func NumericValues(m *lookup.NameValueMap) []float64 {
	var out []float64
	for _, e := range m.Entries() {
		if f, ok := ParseNumber(e.Value); ok {
			out = append(out, f)
		}
	}
	return out
}

// Max returns the largest numeric value of m
func Max(m *lookup.NameValueMap) Extremum {
	v, err := stats.Max(stats.Float64Data(NumericValues(m)))
	if err != nil {
		return Extremum{}
	}
	return Extremum{Value: v, Valid: true}
}

// Min returns the smallest numeric value of m
func Min(m *lookup.NameValueMap) Extremum {
	v, err := stats.Min(stats.Float64Data(NumericValues(m)))
	if err != nil {
		return Extremum{}
	}
	return Extremum{Value: v, Valid: true}
}

// NamesAtMax lists every entry whose value equals the maximum, ties included
func NamesAtMax(m *lookup.NameValueMap, max Extremum) []string {
	return namesAt(LabelMax, m, max)
}

// NamesAtMin lists every entry whose value equals the minimum, ties included
func NamesAtMin(m *lookup.NameValueMap, min Extremum) []string {
	return namesAt(LabelMin, m, min)
}

func namesAt(label string, m *lookup.NameValueMap, ext Extremum) []string {
	if !ext.Valid {
		return []string{label, NoValidData}
	}
	out := []string{label}
	for _, e := range m.Entries() {
		if f, ok := ParseNumber(e.Value); ok && f == ext.Value {
			out = append(out, fmt.Sprintf("%s : %s", e.Name, e.Value))
		}
	}
	return out
}

// Mean returns the arithmetic mean of the numeric values of m
func Mean(m *lookup.NameValueMap) (float64, bool) {
	v, err := stats.Mean(stats.Float64Data(NumericValues(m)))
	if err != nil {
		return 0, false
	}
	return v, true
}

// Average reports the mean rounded to two decimals
func Average(m *lookup.NameValueMap) []string {
	mean, ok := Mean(m)
	if !ok {
		return []string{LabelAverage, NoValidData}
	}
	return []string{fmt.Sprintf("%s %.2f", LabelAverage, mean)}
}

// EvaluateRule applies a "<predicate>[#<transform>]" rule to every numeric
// entry of m. Matching entries are reported as "name = value", or
// "name = value | result" when the rule has a transform. A rule that does not
// compile, or fails for a given entry, contributes nothing.
func EvaluateRule(m *lookup.NameValueMap, source string) []string {
	results := []string{}
	if source == "" {
		return results
	}

	prog, err := rule.Compile(source)
	if err != nil {
		log.Printf("[Aggregate] rule %q rejected: %v", source, err)
		return results
	}

	for _, e := range m.Entries() {
		x, ok := ParseNumber(e.Value)
		if !ok {
			continue
		}

		matched, err := prog.Match(x)
		if err != nil {
			log.Printf("[Aggregate] rule skipped entry %q: %v", e.Name, err)
			continue
		}
		if !matched {
			continue
		}

		if !prog.HasTransform() {
			results = append(results, fmt.Sprintf("%s = %s", e.Name, e.Value))
			continue
		}
		computed, err := prog.Apply(x)
		if err != nil {
			log.Printf("[Aggregate] rule skipped entry %q: %v", e.Name, err)
			continue
		}
		results = append(results, fmt.Sprintf("%s = %s | %s", e.Name, e.Value, computed))
	}
	return results
}
