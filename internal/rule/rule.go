// Package rule evaluates user-typed filter rules of the form
//
//	<predicate>[#<transform>]
//
// Both parts are expressions over a single variable x holding a cell's numeric
// value, e.g. "x > 10" or "x > 10 # x * 2". Expressions are compiled by expr,
// which only sees the variables handed to it: there is no access to the host
// program, the file system or the network.
package rule

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Variable is the name bound to the numeric cell value
const Variable = "x"

// maxNodes caps the size of a compiled expression
const maxNodes = 2000

// Program is a compiled rule
type Program struct {
	Source    string
	Predicate string
	Transform string

	predicate *vm.Program
	transform *vm.Program
}

// Split separates the predicate from the optional transform. Only the text up
// to a second '#' is considered; a blank transform counts as absent.
func Split(source string) (predicate, transform string) {
	parts := strings.SplitN(source, "#", 3)
	if len(parts) == 1 {
		return source, ""
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

// Compile parses a rule. An empty predicate is an error.
func Compile(source string) (*Program, error) {
	predicate, transform := Split(source)
	if strings.TrimSpace(predicate) == "" {
		return nil, fmt.Errorf("rule has no condition")
	}

	p := &Program{Source: source, Predicate: predicate, Transform: transform}

	var err error
	if p.predicate, err = compile(predicate); err != nil {
		return nil, fmt.Errorf("condition: %w", err)
	}
	if transform != "" {
		if p.transform, err = compile(transform); err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
	}
	return p, nil
}

func compile(code string) (*vm.Program, error) {
	return expr.Compile(normalize(code),
		expr.Env(map[string]any{Variable: 0.0}),
		expr.MaxNodes(maxNodes),
		expr.Function("fmod", fmod,
			new(func(float64, float64) float64),
			new(func(float64, int) float64),
			new(func(int, float64) float64),
		),
		expr.Operator("%", "fmod"),
	)
}

// fmod is % for float operands. The result takes the sign of the dividend and
// a zero divisor gives NaN.
func fmod(params ...any) (any, error) {
	a, err := toFloat(params[0])
	if err != nil {
		return nil, err
	}
	b, err := toFloat(params[1])
	if err != nil {
		return nil, err
	}
	return math.Mod(a, b), nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%% expects numbers, got %T", v)
}

// normalize accepts the strict comparison operators people tend to type
func normalize(code string) string {
	code = strings.ReplaceAll(code, "===", "==")
	return strings.ReplaceAll(code, "!==", "!=")
}

// HasTransform reports whether the rule computes a result for matching values
func (p *Program) HasTransform() bool {
	return p.transform != nil
}

// Match evaluates the predicate for x. Non-boolean results follow the usual
// truthiness: zero, NaN, "" and nil are false.
func (p *Program) Match(x float64) (bool, error) {
	out, err := expr.Run(p.predicate, map[string]any{Variable: x})
	if err != nil {
		return false, err
	}
	return truthy(out), nil
}

// Apply evaluates the transform for x and renders the result as text
func (p *Program) Apply(x float64) (string, error) {
	if p.transform == nil {
		return "", fmt.Errorf("rule has no transform")
	}
	out, err := expr.Run(p.transform, map[string]any{Variable: x})
	if err != nil {
		return "", err
	}
	return Format(out), nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	}
	return true
}

// Format renders an evaluation result: integral floats without a fraction,
// infinities as Infinity, everything else in its shortest form.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return FormatNumber(t)
	case string:
		return t
	}
	return fmt.Sprint(v)
}

// FormatNumber renders a float the way a spreadsheet user expects to read it
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
