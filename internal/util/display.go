package util

import (
	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorBold   = "\033[1m"
	ColorInvert = "\033[7m"

	ClearScreen     = "\033[2J" // Clear entire screen
	ClearLine       = "\033[2K" // Clear entire line
	ClearScrollback = "\033[3J" // Clear scrollback buffer
	MoveCursorHome  = "\033[H"  // Move cursor to home position
	HideCursor      = "\033[?25l"
	ShowCursor      = "\033[?25h"
	EnterAltScreen  = "\033[?1049h"
	LeaveAltScreen  = "\033[?1049l"
)

// Invert returns the text rendered with inverted colors (selection marker).
func Invert(text string) string {
	return ColorInvert + text + ColorReset
}

// GetDisplayWidth calculates the display width of a string, accounting for
// wide runes.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateToWidth truncates text to the given display width, appending an
// ellipsis when the text was cut.
func TruncateToWidth(text string, width int) string {
	return runewidth.Truncate(text, width, MoreText)
}

// PadToWidth left-aligns text inside a cell of the given display width.
func PadToWidth(text string, width int) string {
	return runewidth.FillRight(text, width)
}
