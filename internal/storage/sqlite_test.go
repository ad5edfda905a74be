package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/flappy-planes/internal/leaderboard"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "a", "b", "scores.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreGetSet(t *testing.T) {
	store := openTestStore(t)

	v, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, v, "absent key reads as nil")

	require.NoError(t, store.Set("k", []byte(`[1]`)))
	require.NoError(t, store.Set("k", []byte(`[2]`)))

	v, err = store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(v))
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scores.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("v")))
	require.NoError(t, store.SaveRun("k", "Ann", 3))
	require.NoError(t, store.Close())

	store, err = Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	v, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))

	runs, err := store.RecentRuns("k", 5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStoreBacksLeaderboard(t *testing.T) {
	store := openTestStore(t)

	board, err := leaderboard.Open(store, "flappyPlanesScores", leaderboard.WithHistory(store))
	require.NoError(t, err)
	_, err = board.Record("Ann", 12.5)
	require.NoError(t, err)
	_, err = board.Record("Bo", 30)
	require.NoError(t, err)

	reopened, err := leaderboard.Open(store, "flappyPlanesScores")
	require.NoError(t, err)
	assert.Equal(t, []leaderboard.Entry{{Name: "Bo", Time: 30}, {Name: "Ann", Time: 12.5}}, reopened.List())

	runs, err := store.RecentRuns("flappyPlanesScores", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "Bo", runs[0].Name, "newest run first")
	assert.Equal(t, 12.5, runs[1].Seconds)
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetStats("planes")
	require.NoError(t, err)
	assert.Zero(t, empty.Runs)
	assert.True(t, empty.LastPlayed.IsZero())

	for _, s := range []float64{2, 4, 9} {
		require.NoError(t, store.SaveRun("planes", "p", s))
	}
	require.NoError(t, store.SaveRun("other", "p", 100))

	stats, err := store.GetStats("planes")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Runs)
	assert.Equal(t, 9.0, stats.Best)
	assert.InDelta(t, 5.0, stats.Average, 1e-9)
	assert.Equal(t, 15.0, stats.Total)
	assert.False(t, stats.LastPlayed.IsZero())

	all, err := store.GetAllStats()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 100.0, all["other"].Best)
}

func TestStoreRecentRunsLimit(t *testing.T) {
	store := openTestStore(t)
	for i := range 20 {
		require.NoError(t, store.SaveRun("planes", "p", float64(i)))
	}

	runs, err := store.RecentRuns("planes", 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 19.0, runs[0].Seconds)
	assert.Equal(t, 17.0, runs[2].Seconds)
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.SaveRun("planes", "p", 1))
	require.NoError(t, store.SaveRun("other", "p", 1))

	require.NoError(t, store.ClearRuns("planes"))

	runs, err := store.RecentRuns("planes", 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	runs, err = store.RecentRuns("other", 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1, "other boards are not affected")
}
