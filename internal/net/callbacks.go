package net

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/gnegnu/gnegnu/internal/opt"
)

// Callback defines the interface for training callbacks.
type Callback interface {
	OnTrainBegin(n *Network)
	OnTrainEnd(n *Network)
	OnEpochBegin(epoch int, n *Network)
	OnEpochEnd(epoch int, maxErr float64, n *Network)
}

// Stopper is implemented by callbacks that can end training at an epoch boundary.
type Stopper interface {
	Stop() bool
}

// SchedulerCallback is a callback that wraps a learning rate scheduler.
type SchedulerCallback struct {
	BaseCallback
	scheduler opt.Scheduler
}

func NewSchedulerCallback(scheduler opt.Scheduler) *SchedulerCallback {
	return &SchedulerCallback{scheduler: scheduler}
}

func (c *SchedulerCallback) OnEpochEnd(epoch int, maxErr float64, n *Network) {
	c.scheduler.Step()
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network)                          {}
func (c BaseCallback) OnTrainEnd(n *Network)                            {}
func (c BaseCallback) OnEpochBegin(epoch int, n *Network)               {}
func (c BaseCallback) OnEpochEnd(epoch int, maxErr float64, n *Network) {}

// EarlyStopping stops training when the epoch error has stopped improving.
type EarlyStopping struct {
	BaseCallback
	Patience  int
	Threshold float64

	bestErr      float64
	numBadEpochs int
	Stopped      bool
}

func NewEarlyStopping(patience int, threshold float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:  patience,
		Threshold: threshold,
		bestErr:   math.MaxFloat64,
	}
}

func (c *EarlyStopping) OnTrainBegin(n *Network) {
	c.bestErr = math.MaxFloat64
	c.numBadEpochs = 0
	c.Stopped = false
}

func (c *EarlyStopping) OnEpochEnd(epoch int, maxErr float64, n *Network) {
	if maxErr < c.bestErr-c.Threshold {
		c.bestErr = maxErr
		c.numBadEpochs = 0
	} else {
		c.numBadEpochs++
	}

	if c.numBadEpochs >= c.Patience {
		c.Stopped = true
	}
}

// Stop reports whether patience has run out.
func (c *EarlyStopping) Stop() bool {
	return c.Stopped
}

// ModelCheckpoint writes the text encoding of the network after every epoch
// that improves on the best error so far. The written network is the one the
// epoch measured, taken before the epoch's weight update.
type ModelCheckpoint struct {
	BaseCallback
	Filename string

	bestErr  float64
	snapshot *Network
	// Err is the last clone or write error, if any.
	Err error
}

func NewModelCheckpoint(filename string) *ModelCheckpoint {
	return &ModelCheckpoint{
		Filename: filename,
		bestErr:  math.MaxFloat64,
	}
}

func (c *ModelCheckpoint) OnTrainBegin(n *Network) {
	c.bestErr = math.MaxFloat64
}

func (c *ModelCheckpoint) OnEpochBegin(epoch int, n *Network) {
	snapshot, err := n.Clone()
	if err != nil {
		c.Err = err
	}
	c.snapshot = snapshot
}

func (c *ModelCheckpoint) OnEpochEnd(epoch int, maxErr float64, n *Network) {
	if c.snapshot == nil || maxErr >= c.bestErr {
		return
	}
	c.bestErr = maxErr
	c.Err = c.snapshot.Save(c.Filename)
}

func (c *ModelCheckpoint) OnTrainEnd(n *Network) {
	c.snapshot = nil
}

// Logger logs training progress.
type Logger struct {
	BaseCallback
	Interval int
	Out      io.Writer // os.Stdout when nil
}

func (c Logger) OnEpochEnd(epoch int, maxErr float64, n *Network) {
	if c.Interval > 0 && epoch%c.Interval == 0 {
		out := c.Out
		if out == nil {
			out = os.Stdout
		}
		fmt.Fprintf(out, "Epoch %d: max error = %.6f\n", epoch, maxErr)
	}
}
