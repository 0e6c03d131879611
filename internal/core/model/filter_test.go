package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(size int64, frames ...Frame) Record {
	return Record{Size: size, Traceback: Traceback(frames)}
}

func TestNewFilterRejectsBadPattern(t *testing.T) {
	_, err := NewFilter(true, "[", nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filename pattern")
}

func TestFilterMatchesTopFrameOnly(t *testing.T) {
	f := MustFilter(true, "a.py", nil, false)

	assert.True(t, f.Matches(rec(1, Frame{Filename: "a.py", Lineno: 10})))
	// a.py is only deeper in the stack, the top frame decides.
	assert.False(t, f.Matches(rec(1,
		Frame{Filename: "b.py", Lineno: 5},
		Frame{Filename: "a.py", Lineno: 10})))
}

func TestFilterMatchesAllFrames(t *testing.T) {
	f := MustFilter(true, "a.py", nil, true)

	assert.True(t, f.Matches(rec(1,
		Frame{Filename: "b.py", Lineno: 5},
		Frame{Filename: "a.py", Lineno: 10})))
	assert.False(t, f.Matches(rec(1, Frame{Filename: "c.py", Lineno: 1})))
}

func TestFilterLinenoPinning(t *testing.T) {
	lineno := 10
	f := MustFilter(true, "a.py", &lineno, false)

	assert.True(t, f.Matches(rec(1, Frame{Filename: "a.py", Lineno: 10})))
	assert.False(t, f.Matches(rec(1, Frame{Filename: "a.py", Lineno: 20})))
}

func TestFilterGlobCrossesSeparators(t *testing.T) {
	f := MustFilter(true, "*/importlib/*", nil, false)

	assert.True(t, f.Matches(rec(1, Frame{Filename: "/usr/lib/python3/importlib/_bootstrap.py"})))
	assert.False(t, f.Matches(rec(1, Frame{Filename: "/app/views.py"})))
}

func TestFilterSetApply(t *testing.T) {
	traces := []Record{
		rec(100, Frame{Filename: "/app/a.py", Lineno: 10}),
		rec(50, Frame{Filename: "/app/b.py", Lineno: 20}),
		rec(25, Frame{Filename: "/lib/c.py", Lineno: 5}),
	}

	t.Run("empty set is identity", func(t *testing.T) {
		out := FilterSet{}.Apply(traces)
		assert.Equal(t, traces, out)
		// The result is a fresh slice, not an alias of the input.
		out[0].Size = 999
		assert.Equal(t, int64(100), traces[0].Size)
	})

	t.Run("inclusive filters intersect", func(t *testing.T) {
		fs := FilterSet{
			MustFilter(true, "/app/*", nil, false),
			MustFilter(true, "*/a.py", nil, false),
		}
		out := fs.Apply(traces)
		require.Len(t, out, 1)
		assert.Equal(t, int64(100), out[0].Size)
	})

	t.Run("exclusive filter subtracts", func(t *testing.T) {
		fs := FilterSet{MustFilter(false, "/lib/*", nil, false)}
		out := fs.Apply(traces)
		require.Len(t, out, 2)
		assert.Equal(t, int64(100), out[0].Size)
		assert.Equal(t, int64(50), out[1].Size)
	})

	t.Run("include then exclude", func(t *testing.T) {
		fs := FilterSet{
			MustFilter(true, "/app/*", nil, false),
			MustFilter(false, "*/b.py", nil, false),
		}
		out := fs.Apply(traces)
		require.Len(t, out, 1)
		assert.Equal(t, int64(100), out[0].Size)
	})

	t.Run("order of application does not change the result", func(t *testing.T) {
		a := FilterSet{
			MustFilter(true, "/app/*", nil, false),
			MustFilter(false, "*/b.py", nil, false),
		}
		b := FilterSet{
			MustFilter(false, "*/b.py", nil, false),
			MustFilter(true, "/app/*", nil, false),
		}
		assert.Equal(t, a.Apply(traces), b.Apply(traces))
	})
}

func TestFilterLabel(t *testing.T) {
	lineno := 42
	tests := []struct {
		name     string
		filter   *Filter
		expected string
	}{
		{"include", MustFilter(true, "a.py", nil, false), "include a.py"},
		{"exclude", MustFilter(false, "a.py", nil, false), "exclude a.py"},
		{"with lineno", MustFilter(true, "a.py", &lineno, false), "include a.py:42"},
		{"all frames", MustFilter(false, "a.py", nil, true), "exclude a.py (any frame)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Label())
		})
	}
}

func TestFilterSetLabel(t *testing.T) {
	assert.Equal(t, "(none)", FilterSet{}.Label())

	fs := FilterSet{
		MustFilter(true, "a.py", nil, false),
		MustFilter(false, "b.py", nil, false),
	}
	assert.Equal(t, "include a.py, exclude b.py", fs.Label())
}
