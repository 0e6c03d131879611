// Package analyzer runs the one-shot report pipeline: load snapshots,
// filter, aggregate, sort and hand the rows to an output formatter. The
// interactive explorer shares the same engine underneath.
package analyzer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/snapview/memsnap/internal/application/explorer"
	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/data/store"
	"github.com/snapview/memsnap/internal/presentation/formatter"
	"github.com/snapview/memsnap/internal/util"
)

type Config struct {
	// Snapshot paths: the first is the primary, an optional second is
	// the baseline it is diffed against.
	Paths []string

	OutputFormat string
	GroupBy      string
	Cumulative   bool
	Limit        int

	// Filename filter specs, "pattern" or "pattern:lineno".
	Include []string
	Exclude []string
	// Match filters against every traceback frame instead of only the
	// most recent one.
	AllFrames bool
}

type Analyzer struct {
	config *Config
	store  *store.Store
}

func New(config *Config) *Analyzer {
	return &Analyzer{
		config: config,
		store:  store.NewStore(),
	}
}

func (a *Analyzer) Run() error {
	startTime := time.Now()

	if len(a.config.Paths) == 0 {
		return fmt.Errorf("no snapshot path given")
	}

	groupBy, err := model.ParseGroupBy(a.config.GroupBy)
	if err != nil {
		return err
	}
	filters, err := a.buildFilters()
	if err != nil {
		return err
	}

	// Phase 1: load and aggregate through the shared engine.
	loadStart := time.Now()
	engine, err := explorer.NewEngine(a.store, a.config.Paths[0])
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	if len(a.config.Paths) > 1 {
		if err := engine.SetComparison(a.config.Paths[1]); err != nil {
			return fmt.Errorf("failed to load comparison snapshot: %w", err)
		}
	}
	if err := engine.SetView(model.NewViewState(groupBy, filters, a.config.Cumulative)); err != nil {
		return err
	}
	util.LogDebugf("Load and aggregation duration: %v, %d groups",
		time.Since(loadStart), len(engine.Rows()))

	// Phase 2: format and output.
	primaryLabel, err := engine.PrimaryLabel()
	if err != nil {
		return err
	}
	compareLabel := ""
	if engine.Diff() {
		if compareLabel, err = engine.CompareLabel(); err != nil {
			return err
		}
	}

	report := &formatter.Report{
		PrimaryLabel: primaryLabel,
		CompareLabel: compareLabel,
		Filters:      engine.FiltersLabel(),
		Summary:      engine.Summary(),
		Table:        engine.Table(),
		Limit:        a.config.Limit,
	}

	f, err := formatter.New(a.config.OutputFormat)
	if err != nil {
		return err
	}
	err = f.Format(report)

	util.LogDebugf("Total duration: %v", time.Since(startTime))
	return err
}

// buildFilters turns the --include/--exclude specs into a filter set.
func (a *Analyzer) buildFilters() (model.FilterSet, error) {
	var filters model.FilterSet
	for _, spec := range a.config.Include {
		f, err := parseFilterSpec(spec, true, a.config.AllFrames)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	for _, spec := range a.config.Exclude {
		f, err := parseFilterSpec(spec, false, a.config.AllFrames)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// parseFilterSpec splits an optional ":lineno" suffix off a pattern. A
// trailing colon segment that is not a number stays part of the pattern.
func parseFilterSpec(spec string, inclusive, allFrames bool) (*model.Filter, error) {
	pattern := spec
	var lineno *int
	if i := strings.LastIndexByte(spec, ':'); i > 0 {
		if n, err := strconv.Atoi(spec[i+1:]); err == nil {
			pattern = spec[:i]
			lineno = &n
		}
	}
	return model.NewFilter(inclusive, pattern, lineno, allFrames)
}
