package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Frame is one source location inside a captured call stack.
// A Lineno of 0 means the line is unknown (frozen or native code) and must
// be excluded from source-line lookups.
type Frame struct {
	Filename string `json:"filename"`
	Lineno   int    `json:"lineno"`
}

// String renders the frame as "filename:lineno", or just the filename when
// the line is unknown.
func (f Frame) String() string {
	if f.Lineno <= 0 {
		return f.Filename
	}
	return fmt.Sprintf("%s:%d", f.Filename, f.Lineno)
}

// Traceback is the ordered call stack of one allocation, most recent call
// first.
type Traceback []Frame

// TopFrame returns the most recent frame, or a zero Frame for an empty
// traceback.
func (tb Traceback) TopFrame() Frame {
	if len(tb) == 0 {
		return Frame{}
	}
	return tb[0]
}

// Key returns an order-sensitive comparable key: two tracebacks share a key
// iff every frame matches in order.
func (tb Traceback) Key() string {
	var sb strings.Builder
	for _, f := range tb {
		sb.WriteString(f.Filename)
		sb.WriteByte(0)
		sb.WriteString(strconv.Itoa(f.Lineno))
		sb.WriteByte(1)
	}
	return sb.String()
}

// Record is one captured allocation observation.
type Record struct {
	Size      int64     `json:"size"`
	Traceback Traceback `json:"traceback"`
}

// Snapshot is the complete set of records captured at one point in time.
// It is immutable once decoded; its identity is the source file path.
type Snapshot struct {
	Path       string    `json:"-"`
	CapturedAt time.Time `json:"captured_at"`
	Traces     []Record  `json:"traces"`
}

// TraceCount returns the number of records in the snapshot.
func (s *Snapshot) TraceCount() int {
	return len(s.Traces)
}

// TotalSize returns the summed byte size of all records.
func (s *Snapshot) TotalSize() int64 {
	var total int64
	for _, r := range s.Traces {
		total += r.Size
	}
	return total
}

// GroupBy selects the aggregation key for statistics.
type GroupBy int

const (
	GroupByFilename GroupBy = iota
	GroupByLineno
	GroupByTraceback
)

// String returns the flag-facing name of the grouping key.
func (g GroupBy) String() string {
	switch g {
	case GroupByFilename:
		return "filename"
	case GroupByLineno:
		return "lineno"
	case GroupByTraceback:
		return "traceback"
	default:
		return "unknown"
	}
}

// ParseGroupBy parses a flag-facing grouping name.
func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.ToLower(s) {
	case "filename", "file":
		return GroupByFilename, nil
	case "lineno", "line":
		return GroupByLineno, nil
	case "traceback", "stack":
		return GroupByTraceback, nil
	default:
		return 0, fmt.Errorf("invalid group-by %q: must be filename, lineno or traceback", s)
	}
}

// ViewState is the immutable tuple of navigable UI state: grouping key,
// active filters and the cumulative flag. It is the unit stored in the
// view history.
type ViewState struct {
	GroupBy    GroupBy
	Filters    FilterSet
	Cumulative bool
}

// NewViewState copies the filter list so later drill-downs cannot mutate a
// state already recorded in history.
func NewViewState(groupBy GroupBy, filters FilterSet, cumulative bool) ViewState {
	return ViewState{
		GroupBy:    groupBy,
		Filters:    filters.Clone(),
		Cumulative: cumulative,
	}
}
