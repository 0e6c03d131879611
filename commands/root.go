package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snapview/memsnap/internal/analyzer"
	"github.com/snapview/memsnap/internal/util"
)

var (
	// Logging related
	debug bool

	// Output related
	outputFormat string

	// Grouping and filtering
	groupBy    string
	cumulative bool
	limit      int
	include    []string
	exclude    []string
	allFrames  bool

	rootCmd = &cobra.Command{
		Use:   "memsnap <snapshot> [baseline-snapshot] [flags]",
		Short: "Memory allocation snapshot statistics tool",
		Long: `memsnap reads memory allocation snapshot files, groups the recorded
allocations by filename, line or full traceback, and prints size and count
statistics. With a second snapshot given, the first is diffed against it
as a baseline.

Examples:
  memsnap heap.json                                  # Top allocation sites by file
  memsnap heap.json --group-by lineno                # Group by file:line
  memsnap after.json before.json                     # What changed since before.json
  memsnap heap.json --include '*/myapp/*' --cumulative
  memsnap heap.json --output json --limit 20         # Machine-readable top 20
  memsnap explore heap.json                          # Interactive browser`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runReport,
	}
)

const defaultLogFile = "~/.memsnap/logs/app.log"

func init() {
	// Data organization
	rootCmd.Flags().StringVarP(&groupBy, "group-by", "g", "filename",
		"Group allocations by field (filename, lineno, traceback)")
	rootCmd.Flags().BoolVarP(&cumulative, "cumulative", "c", false,
		"Credit each location once per allocation instead of only the top frame")
	rootCmd.Flags().IntVar(&limit, "limit", 0,
		"Limit result count (0 = unlimited)")

	// Filtering
	rootCmd.Flags().StringArrayVar(&include, "include", nil,
		"Only count allocations matching the pattern (repeatable, pattern[:lineno])")
	rootCmd.Flags().StringArrayVar(&exclude, "exclude", nil,
		"Drop allocations matching the pattern (repeatable, pattern[:lineno])")
	rootCmd.Flags().BoolVar(&allFrames, "all-frames", false,
		"Match filters against every traceback frame, not just the most recent")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runReport(cmd *cobra.Command, args []string) error {
	initLogging()

	config := &analyzer.Config{
		Paths:        args,
		OutputFormat: outputFormat,
		GroupBy:      groupBy,
		Cumulative:   cumulative,
		Limit:        limit,
		Include:      include,
		Exclude:      exclude,
		AllFrames:    allFrames,
	}

	a := analyzer.New(config)
	return a.Run()
}

func initLogging() {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, debug)
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
