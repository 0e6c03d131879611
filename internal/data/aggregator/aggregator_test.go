package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapview/memsnap/internal/core/model"
)

func rec(size int64, frames ...model.Frame) model.Record {
	return model.Record{Size: size, Traceback: model.Traceback(frames)}
}

func frame(filename string, lineno int) model.Frame {
	return model.Frame{Filename: filename, Lineno: lineno}
}

func threeRecords() []model.Record {
	return []model.Record{
		rec(100, frame("a.py", 10)),
		rec(50, frame("a.py", 20)),
		rec(25, frame("b.py", 5)),
	}
}

func TestAggregateByFilename(t *testing.T) {
	stats := New().Aggregate(threeRecords(), model.GroupByFilename, false)

	require.Len(t, stats, 2)
	assert.Equal(t, "a.py", stats[0].Traceback.TopFrame().Filename)
	assert.Equal(t, int64(150), stats[0].Size)
	assert.Equal(t, int64(2), stats[0].Count)
	assert.Equal(t, "b.py", stats[1].Traceback.TopFrame().Filename)
	assert.Equal(t, int64(25), stats[1].Size)
	assert.Equal(t, int64(1), stats[1].Count)
}

func TestAggregateByLineno(t *testing.T) {
	stats := New().Aggregate(threeRecords(), model.GroupByLineno, false)

	require.Len(t, stats, 3)
	assert.Equal(t, frame("a.py", 10), stats[0].Traceback.TopFrame())
	assert.Equal(t, int64(100), stats[0].Size)
	assert.Equal(t, frame("a.py", 20), stats[1].Traceback.TopFrame())
	assert.Equal(t, int64(50), stats[1].Size)
}

func TestAggregateByTraceback(t *testing.T) {
	shared := model.Traceback{frame("a.py", 10), frame("main.py", 3)}
	traces := []model.Record{
		{Size: 100, Traceback: shared},
		{Size: 60, Traceback: shared},
		{Size: 25, Traceback: model.Traceback{frame("a.py", 10), frame("other.py", 7)}},
	}

	stats := New().Aggregate(traces, model.GroupByTraceback, false)

	require.Len(t, stats, 2, "same top frame but different stacks must not merge")
	assert.Equal(t, int64(160), stats[0].Size)
	assert.Equal(t, int64(2), stats[0].Count)
	assert.Equal(t, shared, stats[0].Traceback)
}

func TestAggregateCumulative(t *testing.T) {
	traces := []model.Record{
		rec(100, frame("a.py", 10), frame("b.py", 5), frame("a.py", 30)),
		rec(40, frame("b.py", 5)),
	}

	stats := New().Aggregate(traces, model.GroupByFilename, true)

	require.Len(t, stats, 2)
	// The first record passes through a.py twice but credits it once.
	assert.Equal(t, "a.py", stats[0].Traceback.TopFrame().Filename)
	assert.Equal(t, int64(100), stats[0].Size)
	assert.Equal(t, int64(1), stats[0].Count)
	assert.Equal(t, "b.py", stats[1].Traceback.TopFrame().Filename)
	assert.Equal(t, int64(140), stats[1].Size)
	assert.Equal(t, int64(2), stats[1].Count)
}

func TestAggregateCumulativeByLinenoKeepsDistinctLines(t *testing.T) {
	traces := []model.Record{
		rec(100, frame("a.py", 10), frame("a.py", 30)),
	}

	stats := New().Aggregate(traces, model.GroupByLineno, true)

	// Same file, different lines: both groups get the full credit.
	require.Len(t, stats, 2)
	assert.Equal(t, int64(100), stats[0].Size)
	assert.Equal(t, int64(100), stats[1].Size)
}

func TestAggregateCumulativeIgnoredForTraceback(t *testing.T) {
	traces := []model.Record{
		rec(100, frame("a.py", 10), frame("b.py", 5)),
	}

	plain := New().Aggregate(traces, model.GroupByTraceback, false)
	cumulative := New().Aggregate(traces, model.GroupByTraceback, true)
	assert.Equal(t, plain, cumulative)
}

func TestAggregateEmpty(t *testing.T) {
	stats := New().Aggregate(nil, model.GroupByFilename, false)
	assert.Empty(t, stats)
}

func TestCompare(t *testing.T) {
	older := []model.Record{
		rec(100, frame("a.py", 10)),
		rec(30, frame("gone.py", 1)),
	}
	newer := []model.Record{
		rec(100, frame("a.py", 10)),
		rec(60, frame("a.py", 20)),
		rec(10, frame("new.py", 2)),
	}

	diffs := New().Compare(older, newer, model.GroupByFilename, false)
	require.Len(t, diffs, 3)

	// a.py grew by one allocation.
	assert.Equal(t, "a.py", diffs[0].Traceback.TopFrame().Filename)
	assert.Equal(t, int64(160), diffs[0].Size)
	assert.Equal(t, int64(60), diffs[0].SizeDiff)
	assert.Equal(t, int64(2), diffs[0].Count)
	assert.Equal(t, int64(1), diffs[0].CountDiff)

	// new.py appeared; its diff equals its full size.
	assert.Equal(t, "new.py", diffs[1].Traceback.TopFrame().Filename)
	assert.Equal(t, int64(10), diffs[1].Size)
	assert.Equal(t, int64(10), diffs[1].SizeDiff)

	// gone.py vanished: zero current values, negative diffs.
	assert.Equal(t, "gone.py", diffs[2].Traceback.TopFrame().Filename)
	assert.Equal(t, int64(0), diffs[2].Size)
	assert.Equal(t, int64(-30), diffs[2].SizeDiff)
	assert.Equal(t, int64(0), diffs[2].Count)
	assert.Equal(t, int64(-1), diffs[2].CountDiff)
}

func TestCompareSelfIsZero(t *testing.T) {
	traces := threeRecords()
	diffs := New().Compare(traces, traces, model.GroupByFilename, false)

	require.Len(t, diffs, 2)
	for _, d := range diffs {
		assert.Zero(t, d.SizeDiff)
		assert.Zero(t, d.CountDiff)
		assert.NotZero(t, d.Size)
	}
}
