package formatter

import (
	"fmt"
	"strings"

	"github.com/snapview/memsnap/internal/presentation/interaction"
	"github.com/snapview/memsnap/internal/util"
)

// Name column cap keeps pathological paths from blowing up the table.
const maxNameWidth = 60

type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Format(report *Report) error {
	fmt.Printf("Snapshot: %s\n", report.PrimaryLabel)
	if report.CompareLabel != "" && report.CompareLabel != "(none)" {
		fmt.Printf("Compared to: %s\n", report.CompareLabel)
	}
	fmt.Println(report.Filters)

	headers := report.Table.Headers
	rows := report.Rows()
	widths := CalculateColumnWidths(headers, rows)

	f.printBorder(widths, "┌", "┬", "┐")
	f.printRow(headers, widths)
	f.printBorder(widths, "├", "┼", "┤")
	for _, row := range rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = util.TruncateToWidth(cell.Display, widths[i])
		}
		f.printRow(cells, widths)
	}
	f.printBorder(widths, "└", "┴", "┘")

	fmt.Println(report.Summary)
	if report.Limit > 0 && len(report.Table.Rows) > report.Limit {
		fmt.Printf("(showing top %d of %d groups)\n", report.Limit, len(report.Table.Rows))
	}
	return nil
}

// CalculateColumnWidths sizes each column to its widest content, with the
// name column capped.
func CalculateColumnWidths(headers []string, rows []interaction.Row) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row.Cells {
			if i >= len(widths) {
				break
			}
			if w := util.GetDisplayWidth(cell.Display); w > widths[i] {
				widths[i] = w
			}
		}
	}
	if len(widths) > 0 && widths[0] > maxNameWidth {
		widths[0] = maxNameWidth
	}
	return widths
}

func (f *TableFormatter) printRow(cells []string, widths []int) {
	parts := make([]string, len(widths))
	for i := range widths {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		parts[i] = util.PadToWidth(text, widths[i])
	}
	fmt.Println("│ " + strings.Join(parts, " │ ") + " │")
}

func (f *TableFormatter) printBorder(widths []int, left, mid, right string) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	fmt.Println(left + strings.Join(parts, mid) + right)
}
