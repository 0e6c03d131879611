package interaction

import (
	"sort"
)

// SortOrder represents the sort direction
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// StatSorter orders table rows by one column. Ordering always uses the
// cells' raw sort keys, never the rendered display strings, and the sort
// is stable so ties keep the aggregator's natural input order.
type StatSorter struct {
	column int
	order  SortOrder
}

// NewStatSorter creates a sorter for the given column and direction.
func NewStatSorter(column int, order SortOrder) *StatSorter {
	return &StatSorter{column: column, order: order}
}

// Column returns the active sort column.
func (s *StatSorter) Column() int { return s.column }

// Order returns the active sort direction.
func (s *StatSorter) Order() SortOrder { return s.order }

// Sort orders the table's rows in place.
func (s *StatSorter) Sort(t *StatsTable) {
	col := s.column
	if col < 0 || col >= len(t.Headers) {
		return
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		less := t.Rows[i].Cells[col].Sort.Less(t.Rows[j].Cells[col].Sort)
		if s.order == SortDescending {
			greater := t.Rows[j].Cells[col].Sort.Less(t.Rows[i].Cells[col].Sort)
			return greater
		}
		return less
	})
}
