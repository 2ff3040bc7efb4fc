// Package column converts spreadsheet column references into indexes.
//
// A reference is either a run of letters (A=1, Z=26, AA=27, case-insensitive)
// or a positive decimal integer.
package column

import (
	"math"
	"strconv"
	"strings"

	"gosheet/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Resolve returns the 1-based column number for ref
func Resolve(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, errors.InvalidReference(ref)
	}

	if isLetters(ref) {
		n := 0
		for _, r := range strings.ToUpper(ref) {
			if n > (math.MaxInt32-26)/26 {
				return 0, errors.InvalidReference(ref)
			}
			n = n*26 + int(r-'A'+1)
		}
		return n, nil
	}

	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 || strings.HasPrefix(ref, "+") {
		return 0, errors.InvalidReference(ref)
	}
	return n, nil
}

// Index returns the 0-based column index for ref
func Index(ref string) (int, error) {
	n, err := Resolve(ref)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

// Letter renders a 0-based index as a column label (0 -> A, 26 -> AA)
func Letter(index int) string {
	name, err := excelize.ColumnNumberToName(index + 1)
	if err == nil {
		return name
	}
	// beyond the worksheet limit, keep counting in base 26
	var sb []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		sb = append([]byte{byte('A' + (n-1)%26)}, sb...)
	}
	return string(sb)
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
