package model

import (
	"fmt"

	"github.com/gobwas/glob"

	"github.com/snapview/memsnap/internal/util"
)

// Filter is one inclusion/exclusion rule narrowing which records take part
// in aggregation. Inclusive filters keep matching records, exclusive
// filters remove them. With AllFrames set every frame of the traceback is
// tested, otherwise only the top (most recent) frame. A nil Lineno matches
// any line in the matched file.
type Filter struct {
	Inclusive bool
	Pattern   string
	Lineno    *int
	AllFrames bool

	matcher glob.Glob
}

// NewFilter builds a filter, compiling the filename glob up front so an
// invalid pattern fails here instead of deep inside aggregation. The glob
// is compiled without separators: '*' crosses path separators, matching
// fnmatch-style patterns like "*/importlib/*".
func NewFilter(inclusive bool, pattern string, lineno *int, allFrames bool) (*Filter, error) {
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filename pattern %q: %w", pattern, err)
	}
	return &Filter{
		Inclusive: inclusive,
		Pattern:   pattern,
		Lineno:    lineno,
		AllFrames: allFrames,
		matcher:   matcher,
	}, nil
}

// MustFilter is NewFilter for compile-time-constant patterns.
func MustFilter(inclusive bool, pattern string, lineno *int, allFrames bool) *Filter {
	f, err := NewFilter(inclusive, pattern, lineno, allFrames)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Filter) matchFrame(frame Frame) bool {
	if !f.matcher.Match(frame.Filename) {
		return false
	}
	return f.Lineno == nil || frame.Lineno == *f.Lineno
}

// Matches reports whether the record satisfies the filter's pattern,
// independent of the include/exclude direction.
func (f *Filter) Matches(r Record) bool {
	if f.AllFrames {
		for _, frame := range r.Traceback {
			if f.matchFrame(frame) {
				return true
			}
		}
		return false
	}
	return f.matchFrame(r.Traceback.TopFrame())
}

// Label renders the filter for the filters summary line, e.g.
// "include .../views.py:42 (any frame)".
func (f *Filter) Label() string {
	text := util.ShortenFilename(f.Pattern, 3)
	if f.Lineno != nil {
		text = fmt.Sprintf("%s:%d", text, *f.Lineno)
	}
	if f.AllFrames {
		text += " (any frame)"
	}
	if f.Inclusive {
		return "include " + text
	}
	return "exclude " + text
}

// FilterSet is an ordered sequence of filters. Applying the set narrows
// the record set filter by filter: a record survives iff it matches every
// inclusive filter and no exclusive filter.
type FilterSet []*Filter

// Apply filters a record slice into a fresh slice; the input is never
// mutated. An empty set is the identity.
func (fs FilterSet) Apply(traces []Record) []Record {
	if len(fs) == 0 {
		out := make([]Record, len(traces))
		copy(out, traces)
		return out
	}

	surviving := traces
	for _, f := range fs {
		kept := make([]Record, 0, len(surviving))
		for _, r := range surviving {
			if f.Matches(r) == f.Inclusive {
				kept = append(kept, r)
			}
		}
		surviving = kept
	}

	out := make([]Record, len(surviving))
	copy(out, surviving)
	return out
}

// Clone returns a copy of the filter list. Filters themselves are
// immutable and shared.
func (fs FilterSet) Clone() FilterSet {
	out := make(FilterSet, len(fs))
	copy(out, fs)
	return out
}

// Label renders the whole set for display, "(none)" when empty.
func (fs FilterSet) Label() string {
	if len(fs) == 0 {
		return "(none)"
	}
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.Label()
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
