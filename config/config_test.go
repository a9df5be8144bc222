package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeSweep(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSweep(t, `
experiment_id: hnscc-relapse
seeds: [0, 7, 42]
outer_folds: 10
inner_folds: 5
max_evals: 60
search_budget: 700s
results_dir: /tmp/results
support_policy: return_NaN
`)
	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "hnscc-relapse", s.ExperimentID)
	require.Equal(t, []int64{0, 7, 42}, s.Seeds)
	require.Equal(t, 10, s.OuterFolds)
	require.Equal(t, 5, s.InnerFolds)
	require.Equal(t, 60, s.MaxEvals)
	require.Equal(t, 700*time.Second, s.SearchBudget.Std())
	require.Equal(t, "return_NaN", s.SupportPolicy)
}

func TestLoadDefaults(t *testing.T) {
	path := writeSweep(t, `results_dir: out`)
	s, err := Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, s.ExperimentID)
	require.Equal(t, []int64{0}, s.Seeds)
	require.Equal(t, 10, s.OuterFolds)
	require.Equal(t, 5, s.InnerFolds)
	require.Equal(t, 100, s.MaxEvals)
	require.Equal(t, "return_all", s.SupportPolicy)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"BadFolds":   "outer_folds: 1",
		"BadEvals":   "max_evals: -3",
		"BadPolicy":  "support_policy: keep_everything",
		"BadBudget":  "search_budget: -5s",
		"NotYAML":    "outer_folds: [not a number",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeSweep(t, content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
