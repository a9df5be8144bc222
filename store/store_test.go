package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	biorad "github.com/Gurinderjeet/biorad"
)

func testRecord() *biorad.Result {
	return &biorad.Result{
		ExperimentID:  "lasso-relieff",
		Seed:          42,
		TrainScore:    0.91,
		TestScore:     0.78,
		TrainVariance: 0.002,
		TestVariance:  0.013,
		FeatureVotes:  []int{3, 0, 5, 1},
		Folds: []biorad.FoldResult{
			{Fold: 0, Status: biorad.FoldOK, TrainScore: 0.9, TestScore: 0.8, Config: biorad.Config{"lambda": 0.5}, Support: []int{0, 2}},
			{Fold: 1, Status: biorad.FoldFailed, Reason: "singular system"},
		},
		FoldsTotal:  2,
		FoldsScored: 1,
		Duration:    3 * time.Second,
	}
}

func TestFileStoreLifecycle(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.False(t, st.Exists(42, "lasso-relieff"))
	_, err = st.Read(42, "lasso-relieff")
	require.Error(t, err)

	rec := testRecord()
	require.NoError(t, st.Write(42, "lasso-relieff", rec))
	require.True(t, st.Exists(42, "lasso-relieff"))

	got, err := st.Read(42, "lasso-relieff")
	require.NoError(t, err)
	require.Equal(t, rec, got)

	// Keys are independent per seed.
	require.False(t, st.Exists(43, "lasso-relieff"))
}

func TestFileStoreOverwrite(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	first := testRecord()
	require.NoError(t, st.Write(1, "x", first))

	second := testRecord()
	second.TestScore = 0.5
	require.NoError(t, st.Write(1, "x", second))

	got, err := st.Read(1, "x")
	require.NoError(t, err)
	require.Equal(t, second, got)
}

func TestFileStoreNoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, st.Write(7, "x", testRecord()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "experiment_7_x.json.zst", entries[0].Name())
}

func TestFileStoreRejectsCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	require.NoError(t, err)

	// A truncated file must never be read back as a valid record.
	path := filepath.Join(dir, "experiment_9_x.json.zst")
	require.NoError(t, os.WriteFile(path, []byte("partial"), 0o644))

	require.True(t, st.Exists(9, "x"))
	_, err = st.Read(9, "x")
	require.Error(t, err)
}
