// Package net provides the fully connected feed-forward network: lifecycle,
// forward simulation, backpropagation and training.
//
// Layers are ordered from the output layer (index 0) to the input layer
// (index N-1); activation flows from the input toward the output. Layers at
// index 2 and above carry a bias unit whose output is fixed at 1, so the
// output layer's weighted sum never has a learned offset.
//
// A Network is not safe for concurrent use. Clone it to share state between
// goroutines.
package net

import (
	"math"
	"math/rand"
	"runtime"
	"strings"
	"time"

	"github.com/gnegnu/gnegnu/internal/activations"
	"github.com/gnegnu/gnegnu/internal/layer"
	"github.com/gnegnu/gnegnu/internal/loss"
	"github.com/gnegnu/gnegnu/internal/opt"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrOutOfMemory is returned when the arrays of a network cannot be allocated.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrInvalidTopology is returned for fewer than two layers or an empty layer.
	ErrInvalidTopology = errors.New("invalid network topology")
	// ErrInputSize is returned when an input vector does not match the input units.
	ErrInputSize = errors.New("the input list length doesn't match the number of inputs in the neural network")
	// ErrDestroyed is returned by operations on a destroyed network.
	ErrDestroyed = errors.New("network destroyed")
)

// TrivialStep is the weight perturbation of CalculateGradientsTrivial.
const TrivialStep = 0.001

// Network is a fully connected feed-forward network.
type Network struct {
	layers    []*layer.Layer
	params    opt.Params
	algo      opt.Algorithm
	optimizer opt.Optimizer
	act       activations.Activation
	loss      loss.Loss

	// error signals of layers 0..N-2, reused by CalculateGradients
	signals []*mat.VecDense
}

type options struct {
	rand   layer.RandSource
	params *opt.Params
}

// Option configures New.
type Option func(*options)

// WithRand sets the source of the initial weights. The default is a
// generator owned by the network and seeded from the wall clock.
func WithRand(src layer.RandSource) Option {
	return func(o *options) {
		o.rand = src
	}
}

// WithParams sets the initial hyperparameters instead of opt.DefaultParams.
func WithParams(p opt.Params) Option {
	return func(o *options) {
		o.params = &p
	}
}

// New creates a network with units[i] non-bias units in layer i, ordered
// from the output layer to the input layer. Weights are random in
// [-0.5, 0.5) and the learning algorithm is RPROP.
func New(units []int, opts ...Option) (n *Network, err error) {
	if len(units) < 2 {
		return nil, errors.Wrapf(ErrInvalidTopology, "need at least 2 layers, got %d", len(units))
	}
	for i, u := range units {
		if u <= 0 {
			return nil, errors.Wrapf(ErrInvalidTopology, "layer %d has %d units", i, u)
		}
	}
	o := options{}
	for _, apply := range opts {
		apply(&o)
	}

	defer recoverAlloc(&n, &err)

	n = newNetwork()
	if o.params != nil {
		n.params = *o.params
	}
	n.layers = make([]*layer.Layer, len(units))
	below := 0
	for i, u := range units {
		bias := i > 1
		if err := checkAlloc(u, below); err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		n.layers[i] = layer.New(u, bias, below)
		below = n.layers[i].Units
	}
	n.bind()

	src := o.rand
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	n.SetRandomWeights(src)
	n.MustSetLearningAlgorithm(opt.RProp)
	return n, nil
}

func newNetwork() *Network {
	return &Network{
		params: opt.DefaultParams(),
		act:    activations.Sigmoid{},
		loss:   loss.HalfSSE{},
	}
}

// maxElems bounds the length of a single array so its byte size fits an int.
const maxElems = math.MaxInt / 8

// checkAlloc rejects layer sizes whose arrays cannot be represented.
func checkAlloc(units, below int) error {
	if units >= maxElems || (below > 0 && units+1 > maxElems/below) {
		return errors.Wrapf(ErrOutOfMemory, "%d units over %d", units, below)
	}
	return nil
}

// recoverAlloc turns a failed slice allocation into ErrOutOfMemory and
// drops the partially built network.
func recoverAlloc(n **Network, err *error) {
	r := recover()
	if r == nil {
		return
	}
	re, ok := r.(runtime.Error)
	if !ok || !strings.Contains(re.Error(), "makeslice") {
		panic(r)
	}
	*n = nil
	*err = errors.Wrap(ErrOutOfMemory, re.Error())
}

// bind allocates the per-layer scratch vectors.
func (n *Network) bind() {
	n.signals = make([]*mat.VecDense, len(n.layers)-1)
	for j := range n.signals {
		n.signals[j] = mat.NewVecDense(n.layers[j].Units, nil)
	}
}

// Clone returns an independent deep copy of the network, its hyperparameters
// and its learning algorithm.
func (n *Network) Clone() (c *Network, err error) {
	if n.Destroyed() {
		return nil, ErrDestroyed
	}
	defer recoverAlloc(&c, &err)

	c = newNetwork()
	c.params = n.params
	c.act = n.act
	c.loss = n.loss
	c.layers = make([]*layer.Layer, len(n.layers))
	for i, l := range n.layers {
		c.layers[i] = l.Clone()
	}
	c.bind()
	c.algo = n.algo
	if c.optimizer, err = opt.New(c.algo, &c.params); err != nil {
		return nil, err
	}
	return c, nil
}

// Destroy releases every array of the network. Calling it again is a no-op.
func (n *Network) Destroy() {
	for _, l := range n.layers {
		l.Release()
	}
	n.layers = nil
	n.signals = nil
	n.optimizer = nil
}

// Destroyed reports whether Destroy has been called.
func (n *Network) Destroyed() bool {
	return n.layers == nil
}

// SetLearningAlgorithm selects the weight-update rule and resets its state:
// zero deltas for the gradient descent family, the initial step size for RPROP.
func (n *Network) SetLearningAlgorithm(a opt.Algorithm) error {
	o, err := opt.New(a, &n.params)
	if err != nil {
		return err
	}
	n.algo = a
	n.optimizer = o
	o.Reset(n.weighted())
	return nil
}

// MustSetLearningAlgorithm is like SetLearningAlgorithm but panics on an
// unrecognized algorithm.
func (n *Network) MustSetLearningAlgorithm(a opt.Algorithm) {
	if err := n.SetLearningAlgorithm(a); err != nil {
		panic(err)
	}
}

// Algorithm returns the selected learning algorithm.
func (n *Network) Algorithm() opt.Algorithm {
	return n.algo
}

// Params returns the hyperparameters. Changes through the pointer apply to
// the next training epoch.
func (n *Network) Params() *opt.Params {
	return &n.params
}

// Layers returns the layers, output layer first.
func (n *Network) Layers() []*layer.Layer {
	return n.layers
}

// weighted returns the layers that own weights.
func (n *Network) weighted() []*layer.Layer {
	return n.layers[1:]
}

// NumLayers returns the number of layers.
func (n *Network) NumLayers() int {
	return len(n.layers)
}

// InputUnits returns the number of input values, bias excluded.
func (n *Network) InputUnits() int {
	return n.layers[len(n.layers)-1].Active()
}

// OutputUnits returns the number of output values.
func (n *Network) OutputUnits() int {
	return n.layers[0].Units
}

// Outputs returns a copy of the output layer.
func (n *Network) Outputs() []float64 {
	return append([]float64(nil), n.layers[0].Output...)
}

// SetInput writes values into the non-bias units of the input layer.
func (n *Network) SetInput(values []float64) {
	in := n.layers[len(n.layers)-1]
	copy(in.Output[:in.Active()], values)
}

// Simulate propagates the input layer to the output layer. Bias units and
// the input layer are never written.
func (n *Network) Simulate() {
	for i := len(n.layers) - 1; i > 0; i-- {
		below := n.layers[i-1]
		n.layers[i].Feed(below.Output, below.Active(), n.act.Activate)
	}
}

// GlobalError returns 0.5 * sum((desired_i - output_i)^2) over the outputs.
func (n *Network) GlobalError(desired []float64) float64 {
	return n.loss.Forward(n.layers[0].Output, desired)
}

// SimulateError sets the input, simulates, and returns the global error.
func (n *Network) SimulateError(input, desired []float64) float64 {
	n.SetInput(input)
	n.Simulate()
	return n.GlobalError(desired)
}

// Predict simulates the network on input and returns the outputs.
func (n *Network) Predict(input []float64) ([]float64, error) {
	if n.Destroyed() {
		return nil, ErrDestroyed
	}
	if len(input) != n.InputUnits() {
		return nil, errors.Wrapf(ErrInputSize, "got %d values, want %d", len(input), n.InputUnits())
	}
	n.SetInput(input)
	n.Simulate()
	return n.Outputs(), nil
}

// CalculateGradients computes the gradient of the global error w.r.t. every
// weight by backpropagation. The network must have been simulated on the
// input that desired belongs to.
func (n *Network) CalculateGradients(desired []float64) {
	out := n.layers[0]
	if bp, ok := n.loss.(loss.BackwardInPlacer); ok {
		bp.BackwardInPlace(out.Output, desired, out.Error)
	} else {
		copy(out.Error, n.loss.Backward(out.Output, desired))
	}

	for j := 0; j < len(n.layers)-1; j++ {
		l := n.layers[j]
		signal := n.signals[j]
		active := l.Active()
		for i := 0; i < l.Units; i++ {
			if i < active {
				signal.SetVec(i, l.Error[i]*n.act.OutputDerivative(l.Output[i]))
			} else {
				signal.SetVec(i, 0)
			}
		}
		n.layers[j+1].Backprop(signal)
	}
}

// CalculateGradientsTrivial estimates every gradient by a forward difference
// of the global error with step TrivialStep, simulating the network twice per
// weight. It exists to check CalculateGradients and is far too slow for
// training. The input must already be set.
func (n *Network) CalculateGradientsTrivial(desired []float64) {
	settings := &fd.Settings{Formula: fd.Forward, Step: TrivialStep}
	for _, l := range n.weighted() {
		w := l.Weight
		for i, orig := range w {
			l.Gradient[i] = fd.Derivative(func(x float64) float64 {
				w[i] = x
				n.Simulate()
				return n.GlobalError(desired)
			}, orig, settings)
			w[i] = orig
		}
	}
}

// SetRandomWeights sets every weight uniformly in [-0.5, 0.5).
func (n *Network) SetRandomWeights(src layer.RandSource) {
	for _, l := range n.weighted() {
		l.Randomize(src)
	}
}

// ScaleWeights multiplies every weight by factor.
func (n *Network) ScaleWeights(factor float64) {
	for _, l := range n.weighted() {
		floats.Scale(factor, l.Weight)
	}
}

// SetDeltas sets every delta to v.
func (n *Network) SetDeltas(v float64) {
	for _, l := range n.weighted() {
		l.SetDeltas(v)
	}
}

// ResetDeltas sets every delta to zero.
func (n *Network) ResetDeltas() {
	n.SetDeltas(0)
}

// ResetSGradient sets every set-wise gradient to zero.
func (n *Network) ResetSGradient() {
	for _, l := range n.weighted() {
		clear(l.SGradient)
	}
}
