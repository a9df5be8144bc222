// Package config loads and validates comparison sweep configurations.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "700s" parse.
type Duration time.Duration

// Std returns the wrapped standard duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("config: duration must be a string like \"700s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Sweep describes one model-comparison sweep: which seeds to run, how the
// nested validation is shaped and where results land.
type Sweep struct {
	ExperimentID  string   `yaml:"experiment_id"`
	Seeds         []int64  `yaml:"seeds"`
	OuterFolds    int      `yaml:"outer_folds"`
	InnerFolds    int      `yaml:"inner_folds"`
	MaxEvals      int      `yaml:"max_evals"`
	SearchBudget  Duration `yaml:"search_budget"`
	Concurrent    int      `yaml:"concurrent"`
	ResultsDir    string   `yaml:"results_dir"`
	SupportPolicy string   `yaml:"support_policy"`
}

// Load reads a YAML sweep file, fills defaults and validates it.
func Load(path string) (*Sweep, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var s Sweep
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	s.fillDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Sweep) fillDefaults() {
	if s.ExperimentID == "" {
		s.ExperimentID = uuid.NewString()
	}
	if len(s.Seeds) == 0 {
		s.Seeds = []int64{0}
	}
	if s.OuterFolds == 0 {
		s.OuterFolds = 10
	}
	if s.InnerFolds == 0 {
		s.InnerFolds = 5
	}
	if s.MaxEvals == 0 {
		s.MaxEvals = 100
	}
	if s.SupportPolicy == "" {
		s.SupportPolicy = "return_all"
	}
}

// Validate fails fast on malformed sweeps.
func (s *Sweep) Validate() error {
	if s.OuterFolds < 2 {
		return fmt.Errorf("config: outer_folds must be at least 2, got %d", s.OuterFolds)
	}
	if s.InnerFolds < 2 {
		return fmt.Errorf("config: inner_folds must be at least 2, got %d", s.InnerFolds)
	}
	if s.MaxEvals < 1 {
		return fmt.Errorf("config: max_evals must be positive, got %d", s.MaxEvals)
	}
	if s.SearchBudget < 0 {
		return fmt.Errorf("config: search_budget must not be negative, got %s", s.SearchBudget.Std())
	}
	if s.Concurrent < 0 {
		return fmt.Errorf("config: concurrent must not be negative, got %d", s.Concurrent)
	}
	if s.SupportPolicy != "return_all" && s.SupportPolicy != "return_NaN" {
		return fmt.Errorf("config: invalid support_policy %q", s.SupportPolicy)
	}
	return nil
}
