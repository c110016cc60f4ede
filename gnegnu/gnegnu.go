// Package gnegnu is a small feed-forward neural network engine: sigmoid
// networks of any depth trained by backpropagation with batch gradient
// descent, gradient descent with momentum or RPROP.
package gnegnu

import (
	"io"

	"github.com/gnegnu/gnegnu/internal/codegen"
	"github.com/gnegnu/gnegnu/internal/layer"
	"github.com/gnegnu/gnegnu/internal/net"
	"github.com/gnegnu/gnegnu/internal/opt"
)

// Re-export common types and functions for easier access
type (
	Network   = net.Network
	Dataset   = net.Dataset
	Option    = net.Option
	Params    = opt.Params
	Algorithm = opt.Algorithm
	Callback  = net.Callback
	Stopper   = net.Stopper
	Scheduler = opt.Scheduler
)

// Learning algorithms
const (
	BBProp  = opt.BBProp
	OBProp  = opt.OBProp
	BBPropM = opt.BBPropM
	OBPropM = opt.OBPropM
	RProp   = opt.RProp
)

// Errors
var (
	ErrOutOfMemory      = net.ErrOutOfMemory
	ErrInvalidTopology  = net.ErrInvalidTopology
	ErrInputSize        = net.ErrInputSize
	ErrDatasetShape     = net.ErrDatasetShape
	ErrUnknownOption    = net.ErrUnknownOption
	ErrDestroyed        = net.ErrDestroyed
	ErrMalformed        = net.ErrMalformed
	ErrInvalidAlgorithm = opt.ErrInvalidAlgorithm
)

// New creates a network; units lists the layer sizes from the output layer
// to the input layer.
func New(units []int, opts ...Option) (*Network, error) {
	return net.New(units, opts...)
}

// WithRand sets the source of the initial weights.
func WithRand(src layer.RandSource) Option {
	return net.WithRand(src)
}

// WithParams sets the initial hyperparameters.
func WithParams(p Params) Option {
	return net.WithParams(p)
}

func DefaultParams() Params {
	return opt.DefaultParams()
}

func ParseAlgorithm(name string) (Algorithm, error) {
	return opt.ParseAlgorithm(name)
}

// Model persistence
func Parse(text string) (*Network, error) {
	return net.Parse(text)
}

func Load(filename string) (*Network, error) {
	return net.Load(filename)
}

func LoadCSV(filename string, outputs int, hasHeader bool) (*Dataset, error) {
	return net.LoadCSV(filename, outputs, hasHeader)
}

// Tcl writes a Tcl procedure computing the forward pass of n.
func Tcl(w io.Writer, n *Network) error {
	return codegen.Tcl(w, n)
}

// Callbacks
func Logger(interval int) net.Logger {
	return net.Logger{Interval: interval}
}

func ModelCheckpoint(filename string) *net.ModelCheckpoint {
	return net.NewModelCheckpoint(filename)
}

func EarlyStopping(patience int, threshold float64) *net.EarlyStopping {
	return net.NewEarlyStopping(patience, threshold)
}

func CSVLogger(filename string, append bool) *net.CSVLogger {
	return net.NewCSVLogger(filename, append)
}

func SchedulerCallback(scheduler Scheduler) Callback {
	return net.NewSchedulerCallback(scheduler)
}

// Schedulers
func StepLR(n *Network, stepSize int, gamma float64) Scheduler {
	return opt.NewStepLR(n.Params(), stepSize, gamma)
}

func ExponentialLR(n *Network, gamma, minLR float64) Scheduler {
	return opt.NewExponentialLR(n.Params(), gamma, minLR)
}
