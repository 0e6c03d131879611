package formatter

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonRow struct {
	Name      string  `json:"name"`
	Size      int64   `json:"size"`
	SizeDiff  *int64  `json:"sizeDiff,omitempty"`
	Count     int64   `json:"count"`
	CountDiff *int64  `json:"countDiff,omitempty"`
	ItemSize  int64   `json:"itemSize"`
	Percent   float64 `json:"percentOfTotal"`
}

type jsonReport struct {
	Snapshot   string    `json:"snapshot"`
	ComparedTo string    `json:"comparedTo,omitempty"`
	Filters    string    `json:"filters"`
	GroupBy    string    `json:"groupBy"`
	TotalSize  int64     `json:"totalSize"`
	Groups     []jsonRow `json:"groups"`
}

func (f *JSONFormatter) Format(report *Report) error {
	out := jsonReport{
		Snapshot:  report.PrimaryLabel,
		Filters:   report.Filters,
		GroupBy:   report.Table.GroupBy.String(),
		TotalSize: report.Table.Total,
	}
	if report.CompareLabel != "" && report.CompareLabel != "(none)" {
		out.ComparedTo = report.CompareLabel
	}

	for _, row := range report.Rows() {
		jr := jsonRow{Name: row.Cells[0].Display}
		if report.Table.Diff {
			// Columns: Name, Size, Size Diff, Count, Count Diff, Item Size, %Total
			jr.Size = int64(row.Cells[1].Sort.Num)
			sizeDiff := int64(row.Cells[2].Sort.Num)
			jr.SizeDiff = &sizeDiff
			jr.Count = int64(row.Cells[3].Sort.Num)
			countDiff := int64(row.Cells[4].Sort.Num)
			jr.CountDiff = &countDiff
			jr.ItemSize = int64(row.Cells[5].Sort.Num)
			jr.Percent = row.Cells[6].Sort.Num
		} else {
			jr.Size = int64(row.Cells[1].Sort.Num)
			jr.Count = int64(row.Cells[2].Sort.Num)
			jr.ItemSize = int64(row.Cells[3].Sort.Num)
			jr.Percent = row.Cells[4].Sort.Num
		}
		out.Groups = append(out.Groups, jr)
	}

	data, err := sonic.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
