package interaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/data/aggregator"
)

func stat(size, count int64, frames ...model.Frame) aggregator.Statistic {
	return aggregator.Statistic{Traceback: model.Traceback(frames), Size: size, Count: count}
}

func frame(filename string, lineno int) model.Frame {
	return model.Frame{Filename: filename, Lineno: lineno}
}

func TestHeaders(t *testing.T) {
	plain := NewStatsTable(nil, model.GroupByFilename, nil)
	assert.Equal(t, []string{"Filename", "Size", "Count", "Item Size", "%Total"}, plain.Headers)
	assert.Equal(t, 1, plain.DefaultSortColumn())

	diff := NewDiffTable(nil, model.GroupByLineno, nil)
	assert.Equal(t, []string{"Line", "Size", "Size Diff", "Count", "Count Diff", "Item Size", "%Total"}, diff.Headers)
	assert.Equal(t, 2, diff.DefaultSortColumn())

	tb := NewStatsTable(nil, model.GroupByTraceback, nil)
	assert.Equal(t, "Traceback", tb.Headers[0])
}

func TestStatsTableRows(t *testing.T) {
	stats := []aggregator.Statistic{
		stat(150, 2, frame("a.py", 0)),
		stat(25, 1, frame("b.py", 0)),
	}
	table := NewStatsTable(stats, model.GroupByFilename, nil)

	assert.Equal(t, int64(175), table.Total)
	require.Len(t, table.Rows, 2)

	row := table.Rows[0]
	require.Len(t, row.Cells, 5)
	assert.Equal(t, "a.py", row.Cells[0].Display)
	assert.Equal(t, "a.py", row.Cells[0].Sort.Str)
	assert.Equal(t, "150 B", row.Cells[1].Display)
	assert.Equal(t, "2", row.Cells[2].Display)
	assert.Equal(t, "75 B", row.Cells[3].Display)
	assert.Equal(t, "85.7 %", row.Cells[4].Display)
}

func TestNameCellLinenoGrouping(t *testing.T) {
	stats := []aggregator.Statistic{stat(10, 1, frame("/a/b/c/d/e.py", 42))}
	table := NewStatsTable(stats, model.GroupByLineno, nil)

	cell := table.Rows[0].Cells[0]
	assert.Equal(t, ".../c/d/e.py:42", cell.Display)
	assert.Equal(t, "/a/b/c/d/e.py", cell.Sort.Str)
	assert.Equal(t, float64(42), cell.Sort.Num)
}

func TestTracebackCell(t *testing.T) {
	tb := model.Traceback{
		frame("a.py", 1), frame("b.py", 2), frame("c.py", 3), frame("d.py", 4),
	}
	table := NewStatsTable([]aggregator.Statistic{{Traceback: tb, Size: 10, Count: 1}},
		model.GroupByTraceback, nil)

	cell := table.Rows[0].Cells[0]
	assert.Equal(t, "a.py:1 <= b.py:2 <= c.py:3 <= ...", cell.Display,
		"only the first frames show inline, deeper frames collapse")
	assert.Equal(t, tb.Key(), cell.Sort.Str)

	lines := strings.Split(cell.Tooltip, "\n")
	assert.Equal(t, "Traceback (most recent first):", lines[0])
	assert.Equal(t, "  a.py:1", lines[1])
	assert.Len(t, lines, 5, "tooltip expands every frame of a short stack")
}

func TestSizeCellTooltipThreshold(t *testing.T) {
	small := sizeCell(100, false)
	assert.Equal(t, "", small.Tooltip, "no exact-byte tooltip below the threshold")

	large := sizeCell(20480, false)
	assert.Equal(t, "20 KiB", large.Display)
	assert.Equal(t, "20480", large.Tooltip)

	largeDiff := sizeCell(-20480, true)
	assert.Equal(t, "-20 KiB", largeDiff.Display)
	assert.Equal(t, "-20480", largeDiff.Tooltip)
}

func TestItemSizeCellZeroCount(t *testing.T) {
	cell := itemSizeCell(0, 0)
	assert.Equal(t, "0 B", cell.Display)
}

func TestPercentCellZeroTotal(t *testing.T) {
	table := NewStatsTable([]aggregator.Statistic{stat(0, 1, frame("a.py", 0))},
		model.GroupByFilename, nil)
	assert.Equal(t, "0.0 %", table.Rows[0].Cells[4].Display)
}

func TestDiffTableRows(t *testing.T) {
	diffs := []aggregator.StatisticDiff{
		{Traceback: model.Traceback{frame("a.py", 0)}, Size: 160, SizeDiff: 60, Count: 2, CountDiff: 1},
		{Traceback: model.Traceback{frame("gone.py", 0)}, SizeDiff: -30, CountDiff: -1},
	}
	table := NewDiffTable(diffs, model.GroupByFilename, nil)

	assert.True(t, table.Diff)
	assert.Equal(t, int64(160), table.Total)
	require.Len(t, table.Rows, 2)

	row := table.Rows[0]
	require.Len(t, row.Cells, 7)
	assert.Equal(t, "160 B", row.Cells[1].Display)
	assert.Equal(t, "+60 B", row.Cells[2].Display)
	assert.Equal(t, "2", row.Cells[3].Display)
	assert.Equal(t, "+1", row.Cells[4].Display)

	vanished := table.Rows[1]
	assert.Equal(t, "0 B", vanished.Cells[1].Display)
	assert.Equal(t, "-30 B", vanished.Cells[2].Display)
	assert.Equal(t, "-1", vanished.Cells[4].Display)
}
