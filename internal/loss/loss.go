// Package loss provides the error measures used by the engine.
package loss

// BackwardInPlacer is an optional interface for loss functions that support
// in-place gradient computation to avoid allocations.
type BackwardInPlacer interface {
	BackwardInPlace(yPred, yTrue, grad []float64)
}

// Loss is a loss function with derivative.
type Loss interface {
	// Forward computes the loss between predicted and true values.
	Forward(yPred, yTrue []float64) float64

	// Backward computes the gradient of the loss w.r.t. prediction.
	// This creates a new slice and should be avoided in hot loops.
	Backward(yPred, yTrue []float64) []float64
}

// HalfSSE is half the sum of squared errors, the network's global error.
// Its gradient w.r.t. the prediction is the plain output error y_pred - y_true.
type HalfSSE struct{}

// Forward computes 0.5 * sum((y_true - y_pred)^2) over len(yPred) outputs.
func (h HalfSSE) Forward(yPred, yTrue []float64) float64 {
	var sum float64
	for i := range yPred {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}
	return 0.5 * sum
}

// Backward computes y_pred - y_true.
func (h HalfSSE) Backward(yPred, yTrue []float64) []float64 {
	grad := make([]float64, len(yPred))
	h.BackwardInPlace(yPred, yTrue, grad)
	return grad
}

// BackwardInPlace computes y_pred - y_true into grad.
func (h HalfSSE) BackwardInPlace(yPred, yTrue, grad []float64) {
	for i := range yPred {
		grad[i] = yPred[i] - yTrue[i]
	}
}
