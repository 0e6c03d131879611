package explorer

import (
	"context"
	"fmt"

	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/data/store"
	"github.com/snapview/memsnap/internal/presentation/display"
	"github.com/snapview/memsnap/internal/presentation/formatter"
	"github.com/snapview/memsnap/internal/presentation/interaction"
	"github.com/snapview/memsnap/internal/util"
)

// AppConfig configures the interactive explorer.
type AppConfig struct {
	// Snapshot file paths; the first is the primary, the second (when
	// present) starts as the active baseline.
	Paths []string
}

// App is the interactive terminal explorer: one event loop wiring the
// keyboard, the snapshot watcher and the engine to the terminal display.
type App struct {
	config  *AppConfig
	store   *store.Store
	engine  *Engine
	display *display.TerminalDisplay

	selected int
	scroll   int
	status   string

	compareActive bool
	reload        chan string
}

// NewApp creates the explorer over the configured snapshot paths. The
// engine is seeded before Run so load errors surface immediately.
func NewApp(config *AppConfig) (*App, error) {
	if len(config.Paths) == 0 {
		return nil, fmt.Errorf("at least one snapshot path is required")
	}

	s := store.NewStore()
	engine, err := NewEngine(s, config.Paths[0])
	if err != nil {
		return nil, err
	}

	app := &App{
		config:  config,
		store:   s,
		engine:  engine,
		display: display.NewTerminalDisplay(),
		reload:  make(chan string, 4),
	}

	if len(config.Paths) > 1 {
		if err := engine.SetComparison(config.Paths[1]); err != nil {
			return nil, err
		}
		app.compareActive = true
	}
	return app, nil
}

// Run drives the event loop until the user quits or the context ends.
func (a *App) Run(ctx context.Context) error {
	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	defer keyboard.Close()

	watcher, err := store.NewWatcher(a.store, a.config.Paths, func(path string) {
		select {
		case a.reload <- path:
		default:
		}
	})
	if err != nil {
		util.LogWarnf("Snapshot watcher unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	a.display.EnterAlternateScreen()
	defer a.display.ExitAlternateScreen()
	a.render()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-a.reload:
			a.handleReload(path)
			a.render()
		case event := <-keyboard.Events():
			if quit := a.handleKey(event); quit {
				return nil
			}
			a.render()
		}
	}
}

// handleReload re-seeds the engine after a snapshot file changed on disk.
// Reloading resets the view history, the same as loading fresh snapshots.
func (a *App) handleReload(path string) {
	compare := ""
	if a.compareActive && len(a.config.Paths) > 1 {
		compare = a.config.Paths[1]
	}
	if err := a.engine.LoadSnapshots(a.config.Paths[0], compare); err != nil {
		a.status = fmt.Sprintf("reload failed: %v", err)
		return
	}
	a.selected = 0
	a.scroll = 0
	a.status = fmt.Sprintf("reloaded %s", path)
}

func (a *App) handleKey(event interaction.KeyEvent) bool {
	a.status = ""

	switch {
	case event.Type == interaction.KeyChar && (event.Key == 'q' || event.Key == 3):
		return true
	case event.Type == interaction.KeyUp || (event.Type == interaction.KeyChar && event.Key == 'k'):
		a.moveSelection(-1)
	case event.Type == interaction.KeyDown || (event.Type == interaction.KeyChar && event.Key == 'j'):
		a.moveSelection(1)
	case event.Type == interaction.KeyEnter:
		a.reportErr(a.engine.DrillDown(a.selected))
		a.clampSelection()
	case event.Type == interaction.KeyLeft || (event.Type == interaction.KeyChar && event.Key == 'h'):
		a.reportErr(a.engine.GoPrevious())
		a.clampSelection()
	case event.Type == interaction.KeyRight || (event.Type == interaction.KeyChar && event.Key == 'l'):
		a.reportErr(a.engine.GoNext())
		a.clampSelection()
	case event.Type == interaction.KeyChar && event.Key == 'g':
		a.cycleGroupBy()
	case event.Type == interaction.KeyChar && event.Key == 'c':
		view := a.engine.View()
		a.reportErr(a.engine.SetView(model.NewViewState(view.GroupBy, view.Filters, !view.Cumulative)))
		a.clampSelection()
	case event.Type == interaction.KeyChar && event.Key == 's':
		a.cycleSortColumn()
	case event.Type == interaction.KeyChar && event.Key == 'd':
		a.toggleSortOrder()
	case event.Type == interaction.KeyChar && event.Key == 'x':
		a.toggleComparison()
	case event.Type == interaction.KeyChar && event.Key == '0':
		view := a.engine.View()
		a.reportErr(a.engine.SetView(model.NewViewState(model.GroupByFilename, nil, view.Cumulative)))
		a.selected = 0
		a.scroll = 0
	}
	return false
}

func (a *App) cycleGroupBy() {
	view := a.engine.View()
	next := model.GroupByFilename
	switch view.GroupBy {
	case model.GroupByFilename:
		next = model.GroupByLineno
	case model.GroupByLineno:
		next = model.GroupByTraceback
	}
	a.reportErr(a.engine.SetView(model.NewViewState(next, view.Filters, view.Cumulative)))
	a.clampSelection()
}

func (a *App) cycleSortColumn() {
	table := a.engine.Table()
	next := (a.engine.Sorter().Column() + 1) % len(table.Headers)
	a.engine.SortBy(next, a.engine.Sorter().Order())
}

func (a *App) toggleSortOrder() {
	order := interaction.SortDescending
	if a.engine.Sorter().Order() == interaction.SortDescending {
		order = interaction.SortAscending
	}
	a.engine.SortBy(a.engine.Sorter().Column(), order)
}

func (a *App) toggleComparison() {
	if len(a.config.Paths) < 2 {
		a.status = "no comparison snapshot given"
		return
	}
	if a.compareActive {
		a.reportErr(a.engine.SetComparison(""))
	} else {
		a.reportErr(a.engine.SetComparison(a.config.Paths[1]))
	}
	if a.status == "" {
		a.compareActive = !a.compareActive
	}
	a.clampSelection()
}

func (a *App) reportErr(err error) {
	if err != nil {
		a.status = err.Error()
	}
}

func (a *App) moveSelection(delta int) {
	a.selected += delta
	a.clampSelection()
}

func (a *App) clampSelection() {
	rows := a.engine.Rows()
	if a.selected >= len(rows) {
		a.selected = len(rows) - 1
	}
	if a.selected < 0 {
		a.selected = 0
	}
}

// render composes the full screen for the current engine state.
func (a *App) render() {
	_, height := a.display.Size()
	table := a.engine.Table()

	var lines []string

	primary, err := a.engine.PrimaryLabel()
	if err != nil {
		primary = err.Error()
	}
	lines = append(lines, util.ColorBold+"Snapshot: "+primary+util.ColorReset)
	if a.engine.Diff() {
		compare, err := a.engine.CompareLabel()
		if err != nil {
			compare = err.Error()
		}
		lines = append(lines, "Compared to: "+compare)
	}

	view := a.engine.View()
	cumulative := "off"
	if view.Cumulative {
		cumulative = "on"
	}
	lines = append(lines, fmt.Sprintf("Group by: %s | Cumulative: %s | %s",
		view.GroupBy, cumulative, a.engine.FiltersLabel()))

	widths := formatter.CalculateColumnWidths(table.Headers, table.Rows)
	lines = append(lines, a.headerLine(widths))

	// Rows take whatever vertical space the chrome leaves over.
	chrome := len(lines) + 3 // summary, tooltip, help
	visible := height - chrome
	if visible < 1 {
		visible = 1
	}
	a.adjustScroll(visible)

	rows := a.engine.Rows()
	for i := a.scroll; i < len(rows) && i < a.scroll+visible; i++ {
		line := a.rowLine(rows[i], widths)
		if i == a.selected {
			line = util.Invert(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, util.ColorBold+a.engine.Summary()+util.ColorReset)
	lines = append(lines, a.tooltipLine())
	if a.status != "" {
		lines = append(lines, util.ColorYellow+a.status+util.ColorReset)
	} else {
		lines = append(lines, "↑/↓ select · enter drill down · g group · c cumulative · ←/→ history · s/d sort · x compare · 0 reset · q quit")
	}

	a.display.Render(lines)
}

func (a *App) adjustScroll(visible int) {
	if a.selected < a.scroll {
		a.scroll = a.selected
	}
	if a.selected >= a.scroll+visible {
		a.scroll = a.selected - visible + 1
	}
	if a.scroll < 0 {
		a.scroll = 0
	}
}

func (a *App) headerLine(widths []int) string {
	table := a.engine.Table()
	sorter := a.engine.Sorter()
	line := ""
	for i, h := range table.Headers {
		if i == sorter.Column() {
			if sorter.Order() == interaction.SortDescending {
				h += " ▼"
			} else {
				h += " ▲"
			}
		}
		if w := util.GetDisplayWidth(h); w > widths[i] {
			widths[i] = w
		}
		line += util.PadToWidth(h, widths[i]) + "  "
	}
	return util.ColorCyan + line + util.ColorReset
}

func (a *App) rowLine(row interaction.Row, widths []int) string {
	line := ""
	for i, cell := range row.Cells {
		text := util.TruncateToWidth(cell.Display, widths[i])
		line += util.PadToWidth(text, widths[i]) + "  "
	}
	return line
}

// tooltipLine shows the selected row's tooltip projections: the exact
// byte value when above the threshold, and the source line when known.
func (a *App) tooltipLine() string {
	rows := a.engine.Rows()
	if a.selected < 0 || a.selected >= len(rows) {
		return ""
	}
	row := rows[a.selected]

	tip := ""
	if t := row.Cells[1].Tooltip; t != "" {
		tip = t + " B"
	}
	if t := row.Cells[0].Tooltip; t != "" {
		if tip != "" {
			tip += " · "
		}
		// Only the first tooltip line fits the status area.
		for i := 0; i < len(t); i++ {
			if t[i] == '\n' {
				t = t[:i]
				break
			}
		}
		tip += t
	}
	return tip
}
