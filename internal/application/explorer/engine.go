// Package explorer drives the snapshot statistics views: it owns the
// current ViewState, the undo/redo history, drill-down transitions and
// the aggregation pipeline feeding the presentation layer.
package explorer

import (
	"fmt"

	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/data/aggregator"
	"github.com/snapview/memsnap/internal/data/source"
	"github.com/snapview/memsnap/internal/data/store"
	"github.com/snapview/memsnap/internal/presentation/interaction"
	"github.com/snapview/memsnap/internal/util"
)

// Engine is the snapshot statistics & navigation engine. All methods are
// meant to run on the single goroutine handling user events; the store it
// draws from is safe for concurrent use on its own.
type Engine struct {
	store *store.Store
	agg   *aggregator.Aggregator
	src   *source.Cache

	history *HistoryStack

	primaryPath string
	comparePath string // empty = no comparison

	view   model.ViewState
	table  *interaction.StatsTable
	sorter *interaction.StatSorter
}

// NewEngine creates an engine over the given primary snapshot, seeds the
// default view (group by filename, no filters, cumulative off) and runs
// the first aggregation.
func NewEngine(s *store.Store, primaryPath string) (*Engine, error) {
	e := &Engine{
		store:   s,
		agg:     aggregator.New(),
		src:     source.NewCache(),
		history: NewHistoryStack(),
	}
	if err := e.LoadSnapshots(primaryPath, ""); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadSnapshots switches the engine to a new primary (and optional
// comparison) snapshot. The view history is reset and re-seeded with the
// default view state, then re-aggregated.
func (e *Engine) LoadSnapshots(primaryPath, comparePath string) error {
	e.primaryPath = primaryPath
	e.comparePath = comparePath
	e.src.Clear()

	e.history.Clear()
	e.view = model.NewViewState(model.GroupByFilename, nil, false)
	e.history.Append(e.view)
	return e.refresh()
}

// SetComparison selects (or clears, with an empty path) the snapshot the
// primary is compared against, keeping view state and history.
func (e *Engine) SetComparison(path string) error {
	if path == e.primaryPath {
		path = ""
	}
	e.comparePath = path
	return e.refresh()
}

// View returns the current view state.
func (e *Engine) View() model.ViewState {
	return e.view
}

// SetView atomically switches grouping, filters and the cumulative flag,
// records the new state in history and re-aggregates once.
func (e *Engine) SetView(state model.ViewState) error {
	e.view = state
	e.history.Append(state)
	return e.refresh()
}

// Table returns the current sorted row set.
func (e *Engine) Table() *interaction.StatsTable {
	return e.table
}

// Rows returns the current ordered rows; the row at index N maps to the
// statistic at position N, stable across sorts until the next refresh.
func (e *Engine) Rows() []interaction.Row {
	return e.table.Rows
}

// SortBy re-sorts the current rows by the given column and direction.
func (e *Engine) SortBy(column int, order interaction.SortOrder) {
	e.sorter = interaction.NewStatSorter(column, order)
	e.sorter.Sort(e.table)
}

// Sorter returns the active sorter.
func (e *Engine) Sorter() *interaction.StatSorter {
	return e.sorter
}

// DrillDown narrows the view based on the activated row: filename grouping
// pins the row's file and switches to line grouping; line grouping pins
// the exact file:line and switches to traceback grouping, replacing the
// previous same-file filter instead of stacking a new one; traceback
// grouping is already maximally specific and ignores the event.
func (e *Engine) DrillDown(rowIndex int) error {
	if rowIndex < 0 || rowIndex >= len(e.table.Rows) {
		return nil
	}
	top := e.table.Rows[rowIndex].Traceback.TopFrame()

	switch e.view.GroupBy {
	case model.GroupByFilename:
		f, err := model.NewFilter(true, top.Filename, nil, e.view.Cumulative)
		if err != nil {
			return err
		}
		filters := append(e.view.Filters.Clone(), f)
		return e.SetView(model.NewViewState(model.GroupByLineno, filters, e.view.Cumulative))

	case model.GroupByLineno:
		lineno := top.Lineno
		f, err := model.NewFilter(true, top.Filename, &lineno, false)
		if err != nil {
			return err
		}
		filters := e.view.Filters.Clone()
		if n := len(filters); n > 0 && replacesLast(filters[n-1], f) {
			filters[n-1] = f
		} else {
			filters = append(filters, f)
		}
		return e.SetView(model.NewViewState(model.GroupByTraceback, filters, e.view.Cumulative))

	default: // model.GroupByTraceback
		return nil
	}
}

// replacesLast reports whether the refined filter should replace the last
// one instead of being appended: same inclusive filter on the same file
// with no line pinned yet. This keeps the filter list from growing while
// refining within one file.
func replacesLast(last, refined *model.Filter) bool {
	return last.Inclusive &&
		last.Pattern == refined.Pattern &&
		last.Lineno == nil
}

// GoPrevious steps back in history and replays that view. At the start of
// history it is a silent no-op.
func (e *Engine) GoPrevious() error {
	state, ok := e.history.GoPrevious()
	if !ok {
		return nil
	}
	e.view = state
	return e.refresh()
}

// GoNext steps forward in history and replays that view. At the end of
// history it is a silent no-op.
func (e *Engine) GoNext() error {
	state, ok := e.history.GoNext()
	if !ok {
		return nil
	}
	e.view = state
	return e.refresh()
}

// History exposes the history stack.
func (e *Engine) History() *HistoryStack {
	return e.history
}

// Diff reports whether a comparison snapshot is active.
func (e *Engine) Diff() bool {
	return e.comparePath != ""
}

// PrimaryLabel returns the metadata label of the primary snapshot.
func (e *Engine) PrimaryLabel() (string, error) {
	return e.store.Label(e.primaryPath)
}

// CompareLabel returns the metadata label of the comparison snapshot, or
// "(none)" when no comparison is active.
func (e *Engine) CompareLabel() (string, error) {
	if e.comparePath == "" {
		return "(none)", nil
	}
	return e.store.Label(e.comparePath)
}

// Summary renders the one-line totals text, e.g.
// "Files: 42 - Total: 1.5 MiB".
func (e *Engine) Summary() string {
	var lines string
	switch e.view.GroupBy {
	case model.GroupByFilename:
		lines = fmt.Sprintf("Files: %d", len(e.table.Rows))
	case model.GroupByLineno:
		lines = fmt.Sprintf("Lines: %d", len(e.table.Rows))
	default:
		lines = fmt.Sprintf("Tracebacks: %d", len(e.table.Rows))
	}
	return fmt.Sprintf("%s - Total: %s", lines, util.FormatSize(e.table.Total))
}

// FiltersLabel renders the active filter list, e.g.
// "Filters: include a.py:12, exclude .../glue.py (any frame)".
func (e *Engine) FiltersLabel() string {
	return "Filters: " + e.view.Filters.Label()
}

// refresh re-runs the pipeline for the current view: load, filter,
// aggregate (or diff), rebuild rows and apply the default sort.
func (e *Engine) refresh() error {
	primary, err := e.store.Load(e.primaryPath)
	if err != nil {
		return err
	}
	filtered := e.view.Filters.Apply(primary.Traces)

	if e.comparePath != "" {
		compare, err := e.store.Load(e.comparePath)
		if err != nil {
			return err
		}
		// The primary snapshot is the newer side; the comparison snapshot
		// is the baseline the diff is taken against.
		filteredCompare := e.view.Filters.Apply(compare.Traces)
		diffs := e.agg.Compare(filteredCompare, filtered, e.view.GroupBy, e.view.Cumulative)
		e.table = interaction.NewDiffTable(diffs, e.view.GroupBy, e.src)
	} else {
		stats := e.agg.Aggregate(filtered, e.view.GroupBy, e.view.Cumulative)
		e.table = interaction.NewStatsTable(stats, e.view.GroupBy, e.src)
	}

	e.sorter = interaction.NewStatSorter(e.table.DefaultSortColumn(), interaction.SortDescending)
	e.sorter.Sort(e.table)
	return nil
}
