package formatter

import (
	"encoding/csv"
	"os"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(report *Report) error {
	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()

	if err := writer.Write(report.Table.Headers); err != nil {
		return err
	}
	for _, row := range report.Rows() {
		record := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			record[i] = cell.Display
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}
