package display

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/snapview/memsnap/internal/util"
)

// TerminalDisplay renders the explorer view on the alternate screen
// buffer, redrawing only the lines that changed since the previous frame.
type TerminalDisplay struct {
	inAlternateScreen bool
	previousScreen    []string
	isFirstRender     bool
}

func NewTerminalDisplay() *TerminalDisplay {
	return &TerminalDisplay{isFirstRender: true}
}

// EnterAlternateScreen switches to the alternate screen buffer.
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Print(util.EnterAltScreen)
	fmt.Print(util.ClearScreen)
	fmt.Print(util.ClearScrollback)
	fmt.Print(util.MoveCursorHome)
	fmt.Print(util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen restores the normal screen buffer.
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Print(util.ShowCursor)
	fmt.Print(util.LeaveAltScreen)
	td.inAlternateScreen = false
}

// Size returns the terminal dimensions, with a conservative fallback when
// stdout is not a terminal.
func (td *TerminalDisplay) Size() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

// Render draws the given lines, diffing against the previous frame so an
// unchanged line costs nothing.
func (td *TerminalDisplay) Render(lines []string) {
	width, height := td.Size()
	if len(lines) > height {
		lines = lines[:height]
	}

	fitted := make([]string, len(lines))
	for i, line := range lines {
		if util.GetDisplayWidth(line) > width {
			line = util.TruncateToWidth(line, width)
		}
		fitted[i] = line
	}
	lines = fitted

	var sb strings.Builder
	sb.WriteString(util.MoveCursorHome)

	full := td.isFirstRender || len(td.previousScreen) != len(lines)
	for i, line := range lines {
		if !full && td.previousScreen[i] == line {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(util.ClearLine)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	// Blank out leftover lines from a taller previous frame.
	for i := len(lines); i < len(td.previousScreen); i++ {
		sb.WriteString(util.ClearLine)
		sb.WriteString("\n")
	}

	fmt.Print(sb.String())
	td.previousScreen = lines
	td.isFirstRender = false
}
