package formatter

import (
	"fmt"

	"github.com/snapview/memsnap/internal/presentation/interaction"
)

// Report is everything a one-shot output format needs: the sorted row set
// plus the surrounding labels the explorer would show in its chrome.
type Report struct {
	PrimaryLabel string
	CompareLabel string
	Filters      string
	Summary      string
	Table        *interaction.StatsTable
	Limit        int // 0 = unlimited
}

// Rows returns the table rows truncated to the report limit.
func (r *Report) Rows() []interaction.Row {
	rows := r.Table.Rows
	if r.Limit > 0 && len(rows) > r.Limit {
		return rows[:r.Limit]
	}
	return rows
}

// Formatter renders a report to stdout.
type Formatter interface {
	Format(report *Report) error
}

// New returns the formatter for an output format name.
func New(format string) (Formatter, error) {
	switch format {
	case "table", "":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("invalid output format %q: must be table, json, csv or summary", format)
	}
}
