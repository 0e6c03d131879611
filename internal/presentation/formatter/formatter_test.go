package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/data/aggregator"
	"github.com/snapview/memsnap/internal/presentation/interaction"
)

func testTable() *interaction.StatsTable {
	stats := []aggregator.Statistic{
		{Traceback: model.Traceback{{Filename: "a.py"}}, Size: 150, Count: 2},
		{Traceback: model.Traceback{{Filename: "b.py"}}, Size: 25, Count: 1},
	}
	return interaction.NewStatsTable(stats, model.GroupByFilename, nil)
}

func TestNewSelectsFormatter(t *testing.T) {
	tests := []struct {
		format   string
		expected Formatter
	}{
		{"table", &TableFormatter{}},
		{"", &TableFormatter{}},
		{"json", &JSONFormatter{}},
		{"csv", &CSVFormatter{}},
		{"summary", &SummaryFormatter{}},
	}
	for _, tt := range tests {
		f, err := New(tt.format)
		require.NoError(t, err, tt.format)
		assert.IsType(t, tt.expected, f)
	}

	_, err := New("xml")
	assert.Error(t, err)
}

func TestReportRowsLimit(t *testing.T) {
	report := &Report{Table: testTable()}
	assert.Len(t, report.Rows(), 2)

	report.Limit = 1
	rows := report.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "a.py", rows[0].Cells[0].Display)

	report.Limit = 10
	assert.Len(t, report.Rows(), 2)
}

func TestCalculateColumnWidths(t *testing.T) {
	table := testTable()
	widths := CalculateColumnWidths(table.Headers, table.Rows)

	require.Len(t, widths, len(table.Headers))
	// Headers are wider than the data here.
	assert.Equal(t, len("Filename"), widths[0])
	assert.Equal(t, len("Item Size"), widths[3])
}

func TestCalculateColumnWidthsCapsNameColumn(t *testing.T) {
	longName := strings.Repeat("x", 200)
	stats := []aggregator.Statistic{
		{Traceback: model.Traceback{{Filename: longName}}, Size: 1, Count: 1},
	}
	table := interaction.NewStatsTable(stats, model.GroupByFilename, nil)

	widths := CalculateColumnWidths(table.Headers, table.Rows)
	assert.Equal(t, 60, widths[0])
}
