// Package aggregator turns filtered allocation records into per-group
// size/count statistics, optionally diffed between two snapshots.
package aggregator

import (
	"fmt"

	"github.com/snapview/memsnap/internal/core/model"
	"github.com/snapview/memsnap/internal/util"
)

// Statistic is the aggregation result for one group key. Traceback holds
// the key representative: a single zero-line frame for filename grouping,
// a single frame for line grouping, the full stack for traceback grouping.
type Statistic struct {
	Traceback model.Traceback
	Size      int64
	Count     int64
}

// StatisticDiff is the aggregation result for one group key when two
// snapshots are compared. Size and Count are the newer snapshot's current
// values; SizeDiff and CountDiff carry the signed change against the older
// snapshot. A group present only in the older snapshot appears with zero
// Size/Count and negative diffs. This convention is applied uniformly
// across all grouping modes.
type StatisticDiff struct {
	Traceback model.Traceback
	Size      int64
	SizeDiff  int64
	Count     int64
	CountDiff int64
}

// Aggregator groups records by filename, file:line or full traceback.
type Aggregator struct{}

// New creates a new Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

type keyedGroup struct {
	key  string
	repr model.Traceback
}

// recordGroups returns the group keys one record contributes to. In
// cumulative mode a record credits every distinct location it passes
// through, each at most once even when the stack revisits a location.
func recordGroups(r model.Record, groupBy model.GroupBy, cumulative bool) []keyedGroup {
	if groupBy == model.GroupByTraceback {
		return []keyedGroup{{key: r.Traceback.Key(), repr: r.Traceback}}
	}

	frameGroup := fileGroup
	if groupBy == model.GroupByLineno {
		frameGroup = lineGroup
	}

	if !cumulative {
		return []keyedGroup{frameGroup(r.Traceback.TopFrame())}
	}

	groups := make([]keyedGroup, 0, len(r.Traceback))
	seen := make(map[string]struct{}, len(r.Traceback))
	for _, frame := range r.Traceback {
		g := frameGroup(frame)
		if _, dup := seen[g.key]; dup {
			continue
		}
		seen[g.key] = struct{}{}
		groups = append(groups, g)
	}
	return groups
}

func fileGroup(frame model.Frame) keyedGroup {
	return keyedGroup{
		key:  frame.Filename,
		repr: model.Traceback{{Filename: frame.Filename}},
	}
}

func lineGroup(frame model.Frame) keyedGroup {
	return keyedGroup{
		key:  fmt.Sprintf("%s\x00%d", frame.Filename, frame.Lineno),
		repr: model.Traceback{{Filename: frame.Filename, Lineno: frame.Lineno}},
	}
}

// Aggregate groups records under the given key. Cumulative folding is
// meaningless for traceback grouping and is forced off there. The returned
// order is the deterministic first-seen order of each group; ordering for
// display is the sorter's job.
func (a *Aggregator) Aggregate(traces []model.Record, groupBy model.GroupBy, cumulative bool) []Statistic {
	stats, _, _ := a.aggregate(traces, groupBy, cumulative)
	return stats
}

// aggregate returns the statistics in first-seen order together with the
// group key of each entry and the key-to-position index.
func (a *Aggregator) aggregate(traces []model.Record, groupBy model.GroupBy, cumulative bool) ([]Statistic, []string, map[string]int) {
	if groupBy == model.GroupByTraceback {
		cumulative = false
	}

	stats := make([]Statistic, 0)
	keys := make([]string, 0)
	index := make(map[string]int)

	for _, r := range traces {
		for _, g := range recordGroups(r, groupBy, cumulative) {
			i, ok := index[g.key]
			if !ok {
				i = len(stats)
				index[g.key] = i
				stats = append(stats, Statistic{Traceback: g.repr})
				keys = append(keys, g.key)
			}
			stats[i].Size += r.Size
			stats[i].Count++
		}
	}

	util.LogDebugf("Aggregated %d records into %d %s groups (cumulative=%t)",
		len(traces), len(stats), groupBy, cumulative)
	return stats, keys, index
}

// Compare aggregates both record sets over the same grouping and returns
// the per-group diff. Groups of the newer set come first in first-seen
// order, followed by groups that vanished since the older snapshot.
// Comparing a snapshot against itself yields zero diffs everywhere.
func (a *Aggregator) Compare(oldTraces, newTraces []model.Record, groupBy model.GroupBy, cumulative bool) []StatisticDiff {
	oldStats, oldKeys, oldIndex := a.aggregate(oldTraces, groupBy, cumulative)
	newStats, newKeys, newIndex := a.aggregate(newTraces, groupBy, cumulative)

	diffs := make([]StatisticDiff, 0, len(newStats))
	for i, ns := range newStats {
		diff := StatisticDiff{
			Traceback: ns.Traceback,
			Size:      ns.Size,
			SizeDiff:  ns.Size,
			Count:     ns.Count,
			CountDiff: ns.Count,
		}
		if oi, ok := oldIndex[newKeys[i]]; ok {
			diff.SizeDiff = ns.Size - oldStats[oi].Size
			diff.CountDiff = ns.Count - oldStats[oi].Count
		}
		diffs = append(diffs, diff)
	}

	for i, os := range oldStats {
		if _, ok := newIndex[oldKeys[i]]; ok {
			continue
		}
		diffs = append(diffs, StatisticDiff{
			Traceback: os.Traceback,
			SizeDiff:  -os.Size,
			CountDiff: -os.Count,
		})
	}

	return diffs
}
