package bucket_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/noiseregions/bucket"
	"github.com/katalvlaran/noiseregions/core"
	"github.com/katalvlaran/noiseregions/noise"
	"github.com/katalvlaran/noiseregions/progress"
)

func TestID_Quantization(t *testing.T) {
	assert.Equal(t, 0, bucket.ID(-1))
	assert.Equal(t, bucket.Offset, bucket.ID(0))
	assert.Equal(t, 2*bucket.Offset, bucket.ID(1))
	assert.Equal(t, bucket.Offset-1, bucket.ID(-0.0000001))
	assert.Equal(t, bucket.Offset+500000, bucket.ID(0.5))
}

// A constant field yields exactly one bucket holding every scanned cell.
func TestScan_ConstantNoiseSingleBucket(t *testing.T) {
	b := core.Bounds{MinX: -3, MaxX: 4, MinZ: 10, MaxZ: 15}
	m, err := bucket.Scan(context.Background(), noise.Constant(0.25), b, nil)
	require.NoError(t, err)
	require.Len(t, m, 1)
	assert.Equal(t, int(b.Area()), m[bucket.ID(0.25)].Len())
}

// TestScan_PartitionCompleteness checks union == scanned cells and pairwise
// disjointness for a real cellular field.
func TestScan_PartitionCompleteness(t *testing.T) {
	field, err := noise.NewCellular(noise.Params{Seed: 3, Frequency: 0.08, Jitter: 0.5})
	require.NoError(t, err)
	b := core.Bounds{MinX: -20, MaxX: 25, MinZ: -15, MaxZ: 30}
	state := progress.NewState(b.Area())

	m, err := bucket.Scan(context.Background(), field, b, state)
	require.NoError(t, err)
	require.Greater(t, len(m), 1)

	owner := make(map[core.Cell]int, b.Area())
	for id, cells := range m {
		for c := range cells {
			prev, dup := owner[c]
			require.False(t, dup, "cell %v in buckets %d and %d", c, prev, id)
			owner[c] = id
		}
	}
	assert.Equal(t, int(b.Area()), len(owner))
	assert.Equal(t, int(b.Area()), m.CellCount())
	for x := b.MinX; x <= b.MaxX; x++ {
		for z := b.MinZ; z <= b.MaxZ; z++ {
			_, ok := owner[core.Cell{X: x, Z: z}]
			require.True(t, ok)
		}
	}

	snap := state.Snapshot()
	assert.True(t, snap.Done())
	assert.Equal(t, b.Area(), snap.Completed)
}

func TestScan_InvalidBounds(t *testing.T) {
	m, err := bucket.Scan(context.Background(), noise.Constant(0), core.Bounds{MinX: 1, MaxX: 0}, nil)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, core.ErrInvalidBounds)

	j, err := bucket.Start(context.Background(), noise.Constant(0), core.Bounds{MinZ: 1, MaxZ: 0})
	assert.Nil(t, j)
	assert.ErrorIs(t, err, core.ErrInvalidBounds)
}

func TestScan_CancelledState(t *testing.T) {
	b := core.Bounds{MinX: 0, MaxX: 9, MinZ: 0, MaxZ: 9}
	state := progress.NewState(b.Area())
	state.Cancel()
	m, err := bucket.Scan(context.Background(), noise.Constant(0), b, state)
	assert.ErrorIs(t, err, bucket.ErrCancelled)
	assert.Empty(t, m)
}

// Ranges ending at math.MaxInt terminate and cover exactly their cells.
func TestScan_MaxIntEdges(t *testing.T) {
	cases := []core.Bounds{
		{MinX: 0, MaxX: 0, MinZ: math.MaxInt - 1, MaxZ: math.MaxInt},
		{MinX: math.MaxInt - 2, MaxX: math.MaxInt, MinZ: math.MaxInt, MaxZ: math.MaxInt},
		{MinX: math.MinInt, MaxX: math.MinInt + 1, MinZ: math.MinInt, MaxZ: math.MinInt},
	}
	for _, b := range cases {
		m, err := bucket.Scan(context.Background(), noise.Constant(0), b, nil)
		require.NoError(t, err, b.String())
		cells := m[bucket.ID(0)]
		assert.Equal(t, int(b.Area()), cells.Len(), b.String())
		for c := range cells {
			assert.True(t, b.Contains(c), "%v outside %s", c, b)
		}
	}
}

// A single long row still reports progress and honours cancellation
// before it is finished.
func TestScan_LongRowCancels(t *testing.T) {
	b := core.Bounds{MinX: 0, MaxX: 0, MinZ: 0, MaxZ: 999_999}
	state := progress.NewState(b.Area())
	var calls atomic.Int64
	field := noise.FieldFunc(func(x, z float64) float64 {
		if calls.Add(1) == 10_000 {
			state.Cancel()
		}
		return 0
	})

	m, err := bucket.Scan(context.Background(), field, b, state)
	assert.ErrorIs(t, err, bucket.ErrCancelled)
	assert.Less(t, m.CellCount(), 20_000)
	snap := state.Snapshot()
	assert.True(t, snap.Cancelled)
	assert.Greater(t, snap.Completed, int64(0))
	assert.Less(t, snap.Completed, b.Area())
}

func TestMap_IDsSorted(t *testing.T) {
	m := bucket.Map{}
	m.Insert(5, core.Cell{X: 1})
	m.Insert(2, core.Cell{X: 2})
	m.Insert(5, core.Cell{X: 3})
	assert.Equal(t, []int{2, 5}, m.IDs())
	assert.Equal(t, 3, m.CellCount())
}

func TestJob_CompletesInBackground(t *testing.T) {
	b := core.Bounds{MinX: 0, MaxX: 63, MinZ: 0, MaxZ: 63}
	j, err := bucket.Start(context.Background(), noise.Constant(-1), b)
	require.NoError(t, err)

	m, err := j.Wait()
	require.NoError(t, err)
	assert.Equal(t, int(b.Area()), m[0].Len())
	assert.True(t, j.Progress().Done())
}

// TestJob_CancelMidScan blocks the field after the first row so that Cancel
// deterministically lands mid-scan.
func TestJob_CancelMidScan(t *testing.T) {
	b := core.Bounds{MinX: 0, MaxX: 99, MinZ: 0, MaxZ: 9}
	release := make(chan struct{})
	var calls atomic.Int64
	field := noise.FieldFunc(func(x, z float64) float64 {
		if calls.Add(1) == int64(b.Depth())+1 {
			<-release
		}
		return 0
	})

	j, err := bucket.Start(context.Background(), field, b)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return calls.Load() > int64(b.Depth()) }, time.Second, time.Millisecond)
	j.Cancel()
	close(release)

	m, err := j.Wait()
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, bucket.ErrCancelled))
	assert.Less(t, m.CellCount(), int(b.Area()))
	snap := j.Progress()
	assert.True(t, snap.Cancelled)
	assert.False(t, snap.Done())
}
