// Package activations provides the unit transfer function used by the engine.
package activations

import "math"

// Activation is a transfer function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x)
	Derivative(x float64) float64

	// OutputDerivative computes f'(x) given y = f(x).
	// Backpropagation only keeps unit outputs, so this is the form it uses.
	OutputDerivative(y float64) float64
}

// Sigmoid is the logistic transfer function 1/(1+e^-x).
type Sigmoid struct{}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (s Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// OutputDerivative computes y * (1 - y)
func (s Sigmoid) OutputDerivative(y float64) float64 {
	return y * (1 - y)
}
