package rule

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in        string
		predicate string
		transform string
	}{
		{"x>10", "x>10", ""},
		{"x>10#x*2", "x>10", "x*2"},
		{" x > 1 # x + 1 ", "x > 1", "x + 1"},
		{"x>1#", "x>1", ""},
		{"x>1#x*2#ignored", "x>1", "x*2"},
	}

	for _, tt := range tests {
		p, tr := Split(tt.in)
		assert.Equal(t, tt.predicate, p, tt.in)
		assert.Equal(t, tt.transform, tr, tt.in)
	}
}

func TestMatchAndApply(t *testing.T) {
	p, err := Compile("x>10#x*2")
	require.NoError(t, err)
	require.True(t, p.HasTransform())

	ok, err := p.Match(15)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Match(5)
	require.NoError(t, err)
	assert.False(t, ok)

	out, err := p.Apply(15)
	require.NoError(t, err)
	assert.Equal(t, "30", out)
}

func TestOperators(t *testing.T) {
	tests := []struct {
		rule string
		x    float64
		want bool
	}{
		{"x >= 2 && x <= 4", 3, true},
		{"x < 0 || x > 100", 50, false},
		{"x == 2.5", 2.5, true},
		{"x === 2", 2, true},
		{"x !== 2", 3, true},
		{"!(x > 1)", 0, true},
		{"x", 0, false},
		{"x", 7, true},
		{"abs(x) > 3", -5, true},
		{"x % 2 == 0", 4, true},
		{"x % 2 == 0", 7, false},
		{"x % 2.5 == 0.5", 3, true},
		{"x % 3 == -1", -7, true},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			p, err := Compile(tt.rule)
			require.NoError(t, err)
			got, err := p.Match(tt.x)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModuloTransform(t *testing.T) {
	p, err := Compile("x>5#x%4")
	require.NoError(t, err)

	out, err := p.Apply(15)
	require.NoError(t, err)
	assert.Equal(t, "3", out)

	out, err = p.Apply(7.5)
	require.NoError(t, err)
	assert.Equal(t, "3.5", out)

	p, err = Compile("x>0#x%0")
	require.NoError(t, err)
	out, err = p.Apply(3)
	require.NoError(t, err)
	assert.Equal(t, "NaN", out)
}

func TestCompileRejectsInvalidRules(t *testing.T) {
	for _, src := range []string{"", "   ", "#x*2", "x >", "y > 1", "x > 1 # y", "os.Exit(1)", "x = 15"} {
		_, err := Compile(src)
		assert.Error(t, err, src)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "30", Format(30.0))
	assert.Equal(t, "2.5", Format(2.5))
	assert.Equal(t, "0.1", Format(0.1))
	assert.Equal(t, "true", Format(true))
	assert.Equal(t, "7", Format(7))
	assert.Equal(t, "Infinity", Format(math.Inf(1)))
	assert.Equal(t, "NaN", Format(math.NaN()))
	assert.Equal(t, "1e+21", Format(1e21))
	assert.Equal(t, "null", Format(nil))
}
