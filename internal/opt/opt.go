// Package opt provides the weight-update algorithms.
package opt

import (
	"github.com/gnegnu/gnegnu/internal/layer"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidAlgorithm is returned for an unrecognized algorithm tag or name.
var ErrInvalidAlgorithm = errors.New("invalid learning algorithm")

// Algorithm selects the weight-update rule of a network.
type Algorithm int

const (
	BBProp  Algorithm = iota + 1 // batch gradient descent
	OBProp                       // online gradient descent, runs as BBProp
	BBPropM                      // batch gradient descent with momentum
	OBPropM                      // online gradient descent with momentum, runs as BBPropM
	RProp                        // resilient backpropagation (batch)
)

var algorithmNames = map[Algorithm]string{
	BBProp:  "bbprop",
	OBProp:  "obprop",
	BBPropM: "bbpropm",
	OBPropM: "obpropm",
	RProp:   "rprop",
}

// String returns the algorithm name.
func (a Algorithm) String() string {
	if s, ok := algorithmNames[a]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether a is one of the five recognized tags.
func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

// ParseAlgorithm returns the algorithm with the given name.
func ParseAlgorithm(name string) (Algorithm, error) {
	for a, s := range algorithmNames {
		if s == name {
			return a, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidAlgorithm, "unknown algorithm '%s'", name)
}

// Defaults.
const (
	DefaultLearnRate      = 0.1
	DefaultMomentum       = 0.6
	DefaultRPropNMinus    = 0.5
	DefaultRPropNPlus     = 1.2
	DefaultRPropMaxUpdate = 50
	DefaultRPropMinUpdate = 0.000001
	RPropInitialDelta     = 0.1
)

// Params holds the training hyperparameters of a network.
type Params struct {
	LearnRate      float64
	Momentum       float64
	RPropNMinus    float64 // step shrink factor on sign flip
	RPropNPlus     float64 // step growth factor on stable sign
	RPropMaxUpdate float64
	RPropMinUpdate float64
}

// DefaultParams returns the default hyperparameters.
func DefaultParams() Params {
	return Params{
		LearnRate:      DefaultLearnRate,
		Momentum:       DefaultMomentum,
		RPropNMinus:    DefaultRPropNMinus,
		RPropNPlus:     DefaultRPropNPlus,
		RPropMaxUpdate: DefaultRPropMaxUpdate,
		RPropMinUpdate: DefaultRPropMinUpdate,
	}
}

// Optimizer is one weight-update rule over the weighted layers of a network.
//
// A training epoch calls BeginEpoch once, Accumulate after the gradients of
// each example have been computed, and EndEpoch once to update the weights.
type Optimizer interface {
	// Reset puts the rule's state in its initial form after the rule is selected.
	Reset(layers []*layer.Layer)
	BeginEpoch(layers []*layer.Layer)
	Accumulate(layers []*layer.Layer)
	EndEpoch(layers []*layer.Layer)
}

// New returns the update rule for a. The rule reads hyperparameters through
// p at every call, so later changes to *p take effect.
func New(a Algorithm, p *Params) (Optimizer, error) {
	switch a {
	case BBProp, OBProp:
		return &GD{Params: p}, nil
	case BBPropM, OBPropM:
		return &GDM{GD{Params: p}}, nil
	case RProp:
		return &RPROP{Params: p}, nil
	}
	return nil, errors.Wrapf(ErrInvalidAlgorithm, "algorithm tag %d", int(a))
}

// GD is batch gradient descent: the per-example updates are summed in Delta
// and applied once at the end of the epoch.
type GD struct {
	Params *Params
}

// Reset zeroes every delta and clears the gradient memories.
func (g *GD) Reset(layers []*layer.Layer) {
	for _, l := range layers {
		l.SetDeltas(0)
		clearMemory(l)
	}
}

// BeginEpoch zeroes every delta.
func (g *GD) BeginEpoch(layers []*layer.Layer) {
	for _, l := range layers {
		l.SetDeltas(0)
	}
}

// Accumulate adds -lr * gradient to every delta.
func (g *GD) Accumulate(layers []*layer.Layer) {
	for _, l := range layers {
		floats.AddScaled(l.Delta, -g.Params.LearnRate, l.Gradient)
	}
}

// EndEpoch adds every delta to its weight.
func (g *GD) EndEpoch(layers []*layer.Layer) {
	for _, l := range layers {
		floats.Add(l.Weight, l.Delta)
	}
}

// GDM is batch gradient descent with momentum on the previous example's gradient.
type GDM struct {
	GD
}

// Accumulate adds -lr*gradient - lr*momentum*previous to every delta and
// remembers the gradient.
func (g *GDM) Accumulate(layers []*layer.Layer) {
	lr := g.Params.LearnRate
	for _, l := range layers {
		floats.AddScaled(l.Delta, -lr, l.Gradient)
		floats.AddScaled(l.Delta, -lr*g.Params.Momentum, l.PGradient)
		copy(l.PGradient, l.Gradient)
	}
}

// RPROP is resilient backpropagation: each weight moves by its own step size
// in the direction opposite to the sign of the gradient summed over the
// training set, and the step grows while that sign is stable.
type RPROP struct {
	Params *Params
}

// Reset sets every step size to the initial delta and clears the gradient memories.
func (r *RPROP) Reset(layers []*layer.Layer) {
	for _, l := range layers {
		l.SetDeltas(RPropInitialDelta)
		clearMemory(l)
	}
}

// BeginEpoch zeroes the set-wise gradients.
func (r *RPROP) BeginEpoch(layers []*layer.Layer) {
	for _, l := range layers {
		clear(l.SGradient)
	}
}

// Accumulate adds the example gradient to the set-wise gradient.
func (r *RPROP) Accumulate(layers []*layer.Layer) {
	for _, l := range layers {
		floats.Add(l.SGradient, l.Gradient)
	}
}

// EndEpoch adapts every step size and updates the weights.
//
// PGradient holds the previous epoch's set-wise gradient. On a sign flip the
// step shrinks, the weight is left alone and the memory is cleared so the
// next epoch takes the neutral branch.
func (r *RPROP) EndEpoch(layers []*layer.Layer) {
	p := r.Params
	for _, l := range layers {
		for i, sg := range l.SGradient {
			t := l.PGradient[i] * sg
			switch {
			case t > 0:
				l.Delta[i] = min(l.Delta[i]*p.RPropNPlus, p.RPropMaxUpdate)
				l.Weight[i] -= sign(sg) * l.Delta[i]
				l.PGradient[i] = sg
			case t < 0:
				l.Delta[i] = max(l.Delta[i]*p.RPropNMinus, p.RPropMinUpdate)
				l.PGradient[i] = 0
			default:
				l.Weight[i] -= sign(sg) * l.Delta[i]
				l.PGradient[i] = sg
			}
		}
	}
}

// clearMemory drops state left behind by a previously selected rule.
func clearMemory(l *layer.Layer) {
	clear(l.PGradient)
	clear(l.SGradient)
}

// sign returns -1, 0 or +1.
func sign(x float64) float64 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
