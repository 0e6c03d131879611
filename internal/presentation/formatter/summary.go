package formatter

import (
	"fmt"
)

// SummaryFormatter prints the headline numbers and the few largest groups,
// for quick shell pipelines where the full table is noise.
type SummaryFormatter struct {
	topGroups int
}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{topGroups: 5}
}

func (f *SummaryFormatter) Format(report *Report) error {
	fmt.Printf("Snapshot: %s\n", report.PrimaryLabel)
	if report.CompareLabel != "" && report.CompareLabel != "(none)" {
		fmt.Printf("Compared to: %s\n", report.CompareLabel)
	}
	fmt.Println(report.Filters)
	fmt.Println(report.Summary)

	rows := report.Rows()
	n := f.topGroups
	if len(rows) < n {
		n = len(rows)
	}
	if n == 0 {
		return nil
	}

	sizeCol := 1
	if report.Table.Diff {
		sizeCol = 2 // the size-delta column is what a diff summary is about
	}
	fmt.Printf("Top %d by %s:\n", n, report.Table.Headers[sizeCol])
	for i := 0; i < n; i++ {
		fmt.Printf("  %s  %s\n", rows[i].Cells[sizeCol].Display, rows[i].Cells[0].Display)
	}
	return nil
}
