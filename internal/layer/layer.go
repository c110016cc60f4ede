// Package layer provides the per-layer storage of a fully connected network.
package layer

import (
	"gonum.org/v1/gonum/mat"
)

// RandSource supplies uniform values in [0, 1). *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// Layer owns the arrays of one network layer.
//
// Units counts every activation slot, including the bias slot when Bias is
// set; the bias is always the last slot and its output stays at 1.
//
// Non-output layers also own a weight matrix connecting each of their units
// to each slot of the layer below (closer to the output). The matrix and its
// parallel arrays are stored row-major by source unit: the weight between
// unit k of this layer and unit j of the layer below is at k*Below+j.
type Layer struct {
	Units int
	Bias  bool
	Below int // slot count of the layer below, 0 for the output layer

	Output []float64
	Error  []float64

	Weight    []float64
	Gradient  []float64
	PGradient []float64 // previous gradient: momentum memory or RPROP sign memory
	Delta     []float64 // cumulative update (GD) or per-weight step size (RPROP)
	SGradient []float64 // gradient summed over the training set (RPROP)

	// gonum views sharing the slices above
	weights   *mat.Dense
	gradients *mat.Dense
	outputs   *mat.VecDense
	errors    *mat.VecDense
	// scratch for the weighted sums fed to the layer below
	sums *mat.VecDense
}

// New allocates a zero-filled layer with units non-bias slots, plus one bias
// slot when bias is set. below is the slot count of the layer below, 0 for
// the output layer, which owns no weights.
func New(units int, bias bool, below int) *Layer {
	if bias {
		units++
	}
	l := &Layer{
		Units:  units,
		Bias:   bias,
		Below:  below,
		Output: make([]float64, units),
		Error:  make([]float64, units),
	}
	if below > 0 {
		n := units * below
		l.Weight = make([]float64, n)
		l.Gradient = make([]float64, n)
		l.PGradient = make([]float64, n)
		l.Delta = make([]float64, n)
		l.SGradient = make([]float64, n)
	}
	if bias {
		l.Output[units-1] = 1
	}
	l.bind()
	return l
}

// bind builds the matrix views over the layer slices.
func (l *Layer) bind() {
	l.outputs = mat.NewVecDense(l.Units, l.Output)
	l.errors = mat.NewVecDense(l.Units, l.Error)
	if l.Below > 0 {
		l.weights = mat.NewDense(l.Units, l.Below, l.Weight)
		l.gradients = mat.NewDense(l.Units, l.Below, l.Gradient)
		l.sums = mat.NewVecDense(l.Below, nil)
	}
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := &Layer{
		Units:     l.Units,
		Bias:      l.Bias,
		Below:     l.Below,
		Output:    append([]float64(nil), l.Output...),
		Error:     append([]float64(nil), l.Error...),
		Weight:    clone(l.Weight),
		Gradient:  clone(l.Gradient),
		PGradient: clone(l.PGradient),
		Delta:     clone(l.Delta),
		SGradient: clone(l.SGradient),
	}
	c.bind()
	return c
}

func clone(s []float64) []float64 {
	if s == nil {
		return nil
	}
	return append(make([]float64, 0, len(s)), s...)
}

// Release drops every array held by the layer.
func (l *Layer) Release() {
	*l = Layer{}
}

// Active returns the number of non-bias units.
func (l *Layer) Active() int {
	if l.Bias {
		return l.Units - 1
	}
	return l.Units
}

// NumWeights returns the number of elements of each weight-shaped array.
func (l *Layer) NumWeights() int {
	return l.Units * l.Below
}

// Index returns the flat position of the weight between unit k of this layer
// and unit j of the layer below.
func (l *Layer) Index(k, j int) int {
	return k*l.Below + j
}

// W returns the weight between unit k of this layer and unit j of the layer below.
func (l *Layer) W(k, j int) float64 {
	return l.Weight[k*l.Below+j]
}

// SetW sets the weight between unit k of this layer and unit j of the layer below.
func (l *Layer) SetW(k, j int, v float64) {
	l.Weight[k*l.Below+j] = v
}

// Feed computes the transfer function of the weighted sums of this layer's
// outputs into the first n slots of dst, the output slice of the layer below.
func (l *Layer) Feed(dst []float64, n int, f func(float64) float64) {
	l.sums.MulVec(l.weights.T(), l.outputs)
	for j := 0; j < n; j++ {
		dst[j] = f(l.sums.AtVec(j))
	}
}

// Backprop stores the gradient of every weight for the given error signals of
// the layer below and sets this layer's errors to the signals propagated
// back through the weights.
func (l *Layer) Backprop(signal *mat.VecDense) {
	l.gradients.Outer(1, l.outputs, signal)
	l.errors.MulVec(l.weights, signal)
}

// Randomize sets every weight uniformly in [-0.5, 0.5).
func (l *Layer) Randomize(src RandSource) {
	for i := range l.Weight {
		l.Weight[i] = -0.5 + src.Float64()
	}
}

// SetDeltas sets every delta to v.
func (l *Layer) SetDeltas(v float64) {
	for i := range l.Delta {
		l.Delta[i] = v
	}
}
