package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/snapview/memsnap/internal/application/explorer"
	"github.com/snapview/memsnap/internal/util"
)

var exploreCmd = &cobra.Command{
	Use:   "explore <snapshot> [baseline-snapshot]",
	Short: "Browse snapshot statistics interactively",
	Long: `Opens a full-screen browser over a snapshot file, optionally diffed
against a baseline snapshot.

Press Enter on a row to drill down (file -> line -> traceback), arrow keys
to move and to walk the view history, 'g' to cycle grouping, 'c' to toggle
cumulative mode, 'x' to toggle the baseline diff and 'q' to quit.
Snapshots are reloaded automatically when the files change on disk.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	// Logging goes to the file only: stderr output would tear the
	// alternate screen.
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	ensureDir(filepath.Dir(logFile))
	util.InitLogger(logLevel, logFile, false)

	app, err := explorer.NewApp(&explorer.AppConfig{Paths: args})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	go func() {
		<-sigChan
		cancel()
	}()

	return app.Run(ctx)
}
