package interaction

import (
	"fmt"
	"strings"

	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/data/aggregator"
	"github.com/snapview/memsnap/internal/data/source"
	"github.com/snapview/memsnap/internal/util"
)

const (
	// Frames shown inline for a traceback-grouped row.
	showFrames = 3
	// Frames expanded in a traceback tooltip.
	tooltipFrames = 25
	// Sizes below this threshold get no exact-byte tooltip.
	tooltipSizeThreshold = 10 * 1024
	// Trailing path components kept when shortening filenames.
	filenameParts = 3
)

// SortKey is the raw comparable projection of a cell: Str compares first,
// then Num. Numeric columns leave Str empty; the name column uses Str for
// the filename (or traceback key) and Num for the line number.
type SortKey struct {
	Str string
	Num float64
}

// Less orders keys ascending.
func (k SortKey) Less(other SortKey) bool {
	if k.Str != other.Str {
		return k.Str < other.Str
	}
	return k.Num < other.Num
}

// Cell carries the three role projections of one table cell. Sort is the
// only projection ever used for ordering; Display and Tooltip are
// formatted strings for the presentation layer.
type Cell struct {
	Sort    SortKey
	Display string
	Tooltip string
}

// Row is one aggregated group as the presentation layer sees it, plus the
// traceback it stands for so drill-down can reach back to the group key.
type Row struct {
	Cells     []Cell
	Traceback model.Traceback
}

// StatsTable is the sortable row set produced from one aggregation run.
// Rows are the sorted sequence itself: "the record at row N" is a plain
// index, never recomputed from raw traces.
type StatsTable struct {
	GroupBy model.GroupBy
	Diff    bool
	Total   int64
	Headers []string
	Rows    []Row
}

// NewStatsTable builds the row set for a plain aggregation. src may be nil
// to skip source-line tooltips.
func NewStatsTable(stats []aggregator.Statistic, groupBy model.GroupBy, src *source.Cache) *StatsTable {
	t := &StatsTable{
		GroupBy: groupBy,
		Headers: headersFor(groupBy, false),
	}
	for _, s := range stats {
		t.Total += s.Size
	}
	t.Rows = make([]Row, 0, len(stats))
	for _, s := range stats {
		t.Rows = append(t.Rows, Row{
			Traceback: s.Traceback,
			Cells: []Cell{
				t.nameCell(s.Traceback, src),
				sizeCell(s.Size, false),
				countCell(s.Count, false),
				itemSizeCell(s.Size, s.Count),
				t.percentCell(s.Size),
			},
		})
	}
	return t
}

// NewDiffTable builds the row set for a two-snapshot comparison.
func NewDiffTable(diffs []aggregator.StatisticDiff, groupBy model.GroupBy, src *source.Cache) *StatsTable {
	t := &StatsTable{
		GroupBy: groupBy,
		Diff:    true,
		Headers: headersFor(groupBy, true),
	}
	for _, d := range diffs {
		t.Total += d.Size
	}
	t.Rows = make([]Row, 0, len(diffs))
	for _, d := range diffs {
		t.Rows = append(t.Rows, Row{
			Traceback: d.Traceback,
			Cells: []Cell{
				t.nameCell(d.Traceback, src),
				sizeCell(d.Size, false),
				sizeCell(d.SizeDiff, true),
				countCell(d.Count, false),
				countCell(d.CountDiff, true),
				itemSizeCell(d.Size, d.Count),
				t.percentCell(d.Size),
			},
		})
	}
	return t
}

// DefaultSortColumn is the size-delta column when diffing, else the size
// column.
func (t *StatsTable) DefaultSortColumn() int {
	if t.Diff {
		return 2
	}
	return 1
}

func headersFor(groupBy model.GroupBy, diff bool) []string {
	var name string
	switch groupBy {
	case model.GroupByTraceback:
		name = "Traceback"
	case model.GroupByLineno:
		name = "Line"
	default:
		name = "Filename"
	}
	headers := []string{name, "Size"}
	if diff {
		headers = append(headers, "Size Diff")
	}
	headers = append(headers, "Count")
	if diff {
		headers = append(headers, "Count Diff")
	}
	return append(headers, "Item Size", "%Total")
}

func (t *StatsTable) nameCell(tb model.Traceback, src *source.Cache) Cell {
	if t.GroupBy == model.GroupByTraceback {
		return tracebackCell(tb, src)
	}

	frame := tb.TopFrame()
	display := util.ShortenFilename(frame.Filename, filenameParts)
	key := SortKey{Str: frame.Filename}
	if t.GroupBy == model.GroupByLineno {
		display = fmt.Sprintf("%s:%d", display, frame.Lineno)
		key.Num = float64(frame.Lineno)
	}

	tooltip := ""
	if src != nil {
		tooltip = src.Line(frame.Filename, frame.Lineno)
	}
	return Cell{Sort: key, Display: display, Tooltip: tooltip}
}

func tracebackCell(tb model.Traceback, src *source.Cache) Cell {
	var display, tooltip []string
	tooltip = append(tooltip, "Traceback (most recent first):")

	for i, frame := range tb {
		if i >= tooltipFrames {
			break
		}
		line := frame.String()
		if i < showFrames {
			display = append(display, util.ShortenFilename(frame.Filename, filenameParts)+lineSuffix(frame))
		}
		tooltip = append(tooltip, "  "+line)
		if src != nil {
			if code := src.Line(frame.Filename, frame.Lineno); code != "" {
				tooltip = append(tooltip, "    "+code)
			}
		}
	}
	if len(tb) > showFrames {
		display = append(display, util.MoreText)
	}
	if len(tb) > tooltipFrames {
		tooltip = append(tooltip, util.MoreText)
	}

	return Cell{
		Sort:    SortKey{Str: tb.Key()},
		Display: strings.Join(display, " <= "),
		Tooltip: strings.Join(tooltip, "\n"),
	}
}

func lineSuffix(frame model.Frame) string {
	if frame.Lineno <= 0 {
		return ""
	}
	return fmt.Sprintf(":%d", frame.Lineno)
}

func sizeCell(size int64, diff bool) Cell {
	c := Cell{Sort: SortKey{Num: float64(size)}}
	if diff {
		c.Display = util.FormatSignedSize(size)
	} else {
		c.Display = util.FormatSize(size)
	}
	// No exact-byte tooltip below the threshold; the rounded display value
	// is precise enough there.
	if abs64(size) >= tooltipSizeThreshold {
		if diff {
			c.Tooltip = fmt.Sprintf("%+d", size)
		} else {
			c.Tooltip = fmt.Sprintf("%d", size)
		}
	}
	return c
}

func countCell(count int64, diff bool) Cell {
	c := Cell{Sort: SortKey{Num: float64(count)}}
	if diff {
		c.Display = util.FormatSignedCount(count)
	} else {
		c.Display = util.FormatCount(count)
	}
	return c
}

func itemSizeCell(size, count int64) Cell {
	if count == 0 {
		return Cell{Display: util.FormatSize(0)}
	}
	item := size / count
	return Cell{Sort: SortKey{Num: float64(item)}, Display: util.FormatSize(item)}
}

func (t *StatsTable) percentCell(size int64) Cell {
	if t.Total == 0 {
		return Cell{Display: util.FormatPercent(0)}
	}
	percent := float64(size) / float64(t.Total)
	return Cell{Sort: SortKey{Num: percent}, Display: util.FormatPercent(percent)}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
