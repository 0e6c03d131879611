package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/data/aggregator"
)

func sortedTable() *StatsTable {
	stats := []aggregator.Statistic{
		stat(50, 5, frame("b.py", 0)),
		stat(150, 2, frame("a.py", 0)),
		stat(25, 2, frame("c.py", 0)),
	}
	return NewStatsTable(stats, model.GroupByFilename, nil)
}

func names(t *StatsTable) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Cells[0].Display
	}
	return out
}

func TestSortBySizeDescending(t *testing.T) {
	table := sortedTable()
	NewStatSorter(1, SortDescending).Sort(table)
	assert.Equal(t, []string{"a.py", "b.py", "c.py"}, names(table))
}

func TestSortByNameAscending(t *testing.T) {
	table := sortedTable()
	NewStatSorter(0, SortAscending).Sort(table)
	assert.Equal(t, []string{"a.py", "b.py", "c.py"}, names(table))

	NewStatSorter(0, SortDescending).Sort(table)
	assert.Equal(t, []string{"c.py", "b.py", "a.py"}, names(table))
}

func TestSortUsesRawValuesNotDisplayStrings(t *testing.T) {
	// 2 KiB and 9 B: string comparison of the display values would put
	// "9 B" after "2.0 KiB".
	stats := []aggregator.Statistic{
		stat(9, 1, frame("small.py", 0)),
		stat(2048, 1, frame("big.py", 0)),
	}
	table := NewStatsTable(stats, model.GroupByFilename, nil)
	NewStatSorter(1, SortDescending).Sort(table)
	assert.Equal(t, []string{"big.py", "small.py"}, names(table))
}

func TestSortIsStable(t *testing.T) {
	table := sortedTable()
	// b.py and c.py tie on count; their aggregation order must survive.
	NewStatSorter(2, SortDescending).Sort(table)
	assert.Equal(t, []string{"b.py", "a.py", "c.py"}, names(table))

	// Re-sorting by the same column keeps the order.
	before := names(table)
	NewStatSorter(2, SortDescending).Sort(table)
	assert.Equal(t, before, names(table))
}

func TestSortOutOfRangeColumnIsNoop(t *testing.T) {
	table := sortedTable()
	before := names(table)

	NewStatSorter(99, SortDescending).Sort(table)
	assert.Equal(t, before, names(table))
	NewStatSorter(-1, SortAscending).Sort(table)
	assert.Equal(t, before, names(table))
}

func TestRowTracebackFollowsSort(t *testing.T) {
	table := sortedTable()
	NewStatSorter(1, SortDescending).Sort(table)

	require.Equal(t, "a.py", table.Rows[0].Cells[0].Display)
	assert.Equal(t, "a.py", table.Rows[0].Traceback.TopFrame().Filename,
		"the traceback must move with its row so drill-down targets the visible group")
}
