package runstore

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/shapegrid/internal/timeutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun() *Run {
	return &Run{
		Size:              64,
		TotalShapes:       100000,
		TotalTests:        1000,
		Strategy:          "centered",
		RangeRule:         "half-open",
		Seed:              42,
		RectAccuracy:      97.3,
		CircleAccuracy:    88.1,
		MeanRectScore:     1234.5,
		MeanCircleScore:   -12.25,
		RectAccumulated:   311,
		CircleAccumulated: 540,
		TrainSeconds:      12.5,
		ConfigJSON:        json.RawMessage(`{"size":64}`),
	}
}

func TestInsertAssignsIDAndTimestamp(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	s.SetClock(timeutil.NewMockClock(now))

	run := sampleRun()
	require.NoError(t, s.Insert(run))

	_, err := uuid.Parse(run.RunID)
	assert.NoError(t, err)
	assert.Equal(t, now.UnixNano(), run.CreatedAt)

	got, err := s.Get(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run, got)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	clock := timeutil.NewMockClock(time.Unix(1000, 0))
	s.SetClock(clock)

	var ids []string
	for i := 0; i < 3; i++ {
		run := sampleRun()
		run.Seed = uint64(i)
		run.ConfigJSON = nil
		require.NoError(t, s.Insert(run))
		ids = append(ids, run.RunID)
		clock.Advance(time.Minute)
	}

	runs, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].RunID)
	assert.Equal(t, ids[0], runs[2].RunID)
	assert.Nil(t, runs[0].ConfigJSON)

	limited, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	run := sampleRun()
	require.NoError(t, s.Insert(run))

	require.NoError(t, s.Delete(run.RunID))
	_, err := s.Get(run.RunID)
	assert.Error(t, err)
	assert.Error(t, s.Delete(run.RunID))
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	run := sampleRun()
	require.NoError(t, s.Insert(run))
	require.NoError(t, s.Close())

	// Second open finds the schema already migrated.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RectAccuracy, got.RectAccuracy)
}
