package net

import (
	"github.com/pkg/errors"
)

// ErrDatasetShape is returned for a dataset whose vectors do not fit a network.
var ErrDatasetShape = errors.New("dataset shape mismatch")

// Dataset is a training set of input vectors and their desired outputs.
type Dataset struct {
	Inputs  [][]float64
	Targets [][]float64
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Inputs)
}

// Validate checks that the dataset is non-empty and that every example has
// in input values and out target values.
func (d *Dataset) Validate(in, out int) error {
	if len(d.Inputs) == 0 {
		return errors.Wrap(ErrDatasetShape, "empty dataset")
	}
	if len(d.Inputs) != len(d.Targets) {
		return errors.Wrapf(ErrDatasetShape, "%d inputs, %d targets", len(d.Inputs), len(d.Targets))
	}
	for i := range d.Inputs {
		if len(d.Inputs[i]) != in {
			return errors.Wrapf(ErrDatasetShape, "example %d: %d inputs, want %d", i, len(d.Inputs[i]), in)
		}
		if len(d.Targets[i]) != out {
			return errors.Wrapf(ErrDatasetShape, "example %d: %d targets, want %d", i, len(d.Targets[i]), out)
		}
	}
	return nil
}

// Epoch trains the network once over the whole dataset with the selected
// learning algorithm and returns the largest per-example error observed
// before the weight update.
func (n *Network) Epoch(ds *Dataset) float64 {
	layers := n.weighted()
	n.optimizer.BeginEpoch(layers)

	var maxErr float64
	for i := range ds.Inputs {
		e := n.SimulateError(ds.Inputs[i], ds.Targets[i])
		if e > maxErr {
			maxErr = e
		}
		n.CalculateGradients(ds.Targets[i])
		n.optimizer.Accumulate(layers)
	}

	n.optimizer.EndEpoch(layers)
	return maxErr
}

// Train runs epochs until the largest per-example error of an epoch is below
// maxError or maxEpochs epochs have run. It returns the number of epochs run
// on convergence and 0 otherwise, including when a Stopper callback ends
// training early.
func (n *Network) Train(ds *Dataset, maxError float64, maxEpochs int, callbacks ...Callback) int {
	for _, cb := range callbacks {
		cb.OnTrainBegin(n)
	}

	converged := 0
	for epoch := 1; epoch <= maxEpochs; epoch++ {
		for _, cb := range callbacks {
			cb.OnEpochBegin(epoch, n)
		}

		e := n.Epoch(ds)

		for _, cb := range callbacks {
			cb.OnEpochEnd(epoch, e, n)
		}

		if e < maxError {
			converged = epoch
			break
		}
		if stopRequested(callbacks) {
			break
		}
	}

	for _, cb := range callbacks {
		cb.OnTrainEnd(n)
	}
	return converged
}

func stopRequested(callbacks []Callback) bool {
	for _, cb := range callbacks {
		if s, ok := cb.(Stopper); ok && s.Stop() {
			return true
		}
	}
	return false
}
