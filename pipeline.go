package biorad

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Pipeline composes an optional feature-selection stage with a classifier.
// The stages are built from factories so that a clone always starts from
// an unfitted, freshly constructed state; configuration and fitted state
// never leak between clones.
type Pipeline struct {
	// NewSelector builds the feature-selection stage for a configuration.
	// Nil means no selection stage.
	NewSelector func(cfg Config) (Selector, error)
	// NewModel builds the classifier stage for a configuration.
	NewModel func(cfg Config) (Model, error)

	cfg      Config
	selector Selector
	model    Model
}

var _ Model = (*Pipeline)(nil)

// Clone returns an unfitted pipeline sharing the factories and carrying a
// copy of the applied configuration.
func (p *Pipeline) Clone() *Pipeline {
	return &Pipeline{
		NewSelector: p.NewSelector,
		NewModel:    p.NewModel,
		cfg:         p.cfg.Clone(),
	}
}

// Apply sets the hyperparameter configuration used by the next Fit. The
// configuration is copied; later mutation by the caller has no effect.
func (p *Pipeline) Apply(cfg Config) {
	p.cfg = cfg.Clone()
	p.selector = nil
	p.model = nil
}

// Config returns the applied configuration.
func (p *Pipeline) Config() Config { return p.cfg.Clone() }

// Fit constructs both stages from the factories, fits the selection stage
// on the training data, restricts the features and fits the classifier.
func (p *Pipeline) Fit(x mat.Matrix, y []float64) error {
	if p.NewModel == nil {
		return errors.New("biorad: pipeline has no model factory")
	}
	if err := checkXY(x, y); err != nil {
		return err
	}
	if p.NewSelector != nil {
		sel, err := p.NewSelector(p.cfg)
		if err != nil {
			return fmt.Errorf("biorad: build selector: %w", err)
		}
		if err := sel.Fit(x, y); err != nil {
			return fmt.Errorf("biorad: fit selector: %w", err)
		}
		p.selector = sel
		x = sel.Transform(x)
	}
	model, err := p.NewModel(p.cfg)
	if err != nil {
		return fmt.Errorf("biorad: build model: %w", err)
	}
	if err := model.Fit(x, y); err != nil {
		return fmt.Errorf("biorad: fit model: %w", err)
	}
	p.model = model
	return nil
}

// Predict runs x through the fitted stages.
func (p *Pipeline) Predict(x mat.Matrix) ([]float64, error) {
	if p.model == nil {
		return nil, errors.New("biorad: pipeline is not fitted")
	}
	if p.selector != nil {
		x = p.selector.Transform(x)
	}
	return p.model.Predict(x)
}

// Support reports the selected feature indices of the fitted selection
// stage. Without a selection stage the support is nil with a nil error,
// meaning no vote is cast.
func (p *Pipeline) Support() ([]int, error) {
	if p.selector == nil {
		return nil, nil
	}
	return p.selector.Support()
}
