// Command anntrain trains a network on a CSV dataset and writes its text
// encoding.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gnegnu/gnegnu/internal/net"
	"github.com/gnegnu/gnegnu/internal/opt"
)

func main() {
	data := flag.String("data", "", "CSV training set, targets in the last columns")
	units := flag.String("units", "3", "hidden layer sizes, comma separated, output side first")
	outputs := flag.Int("outputs", 1, "number of target columns")
	header := flag.Bool("header", false, "skip the first CSV row")
	normalize := flag.Bool("normalize", false, "min-max normalize the inputs")
	holdout := flag.Float64("holdout", 0, "fraction of rows kept out of training for evaluation")
	algo := flag.String("algo", "rprop", "learning algorithm: bbprop, obprop, bbpropm, obpropm or rprop")
	maxEpochs := flag.Int("epochs", 10000, "maximum training epochs")
	maxErr := flag.Float64("maxerr", 0.001, "target max per-example error")
	lr := flag.Float64("lr", opt.DefaultLearnRate, "learning rate")
	momentum := flag.Float64("momentum", opt.DefaultMomentum, "momentum")
	decay := flag.Float64("decay", 0, "per-epoch learning rate decay factor, 0 disables")
	patience := flag.Int("patience", 0, "stop after this many epochs without improvement, 0 disables")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for the initial weights")
	out := flag.String("out", "", "write the trained network to this file")
	checkpoint := flag.String("checkpoint", "", "write the best network seen during training to this file")
	logEvery := flag.Int("log", 100, "print progress every n epochs, 0 disables")
	csvLog := flag.String("csvlog", "", "write per-epoch progress to this CSV file")
	flag.Parse()

	if *data == "" {
		flag.Usage()
		os.Exit(2)
	}

	ds, err := net.LoadCSV(*data, *outputs, *header)
	if err != nil {
		log.Fatalf("load %s: %v", *data, err)
	}
	if *normalize {
		ds.Normalize()
	}
	inputs := len(ds.Inputs[0])

	train, test, err := splitDataset(ds, *holdout, inputs, *outputs)
	if err != nil {
		log.Fatalf("training set: %v", err)
	}

	topology, err := parseUnits(*units, *outputs, inputs)
	if err != nil {
		log.Fatalf("units: %v", err)
	}

	a, err := opt.ParseAlgorithm(*algo)
	if err != nil {
		log.Fatal(err)
	}

	p := opt.DefaultParams()
	p.LearnRate = *lr
	p.Momentum = *momentum
	network, err := net.New(topology, net.WithRand(rand.New(rand.NewSource(*seed))), net.WithParams(p))
	if err != nil {
		log.Fatalf("create network: %v", err)
	}
	network.MustSetLearningAlgorithm(a)

	var callbacks []net.Callback
	if *logEvery > 0 {
		callbacks = append(callbacks, net.Logger{Interval: *logEvery})
	}
	if *csvLog != "" {
		callbacks = append(callbacks, net.NewCSVLogger(*csvLog, false))
	}
	if *decay > 0 {
		callbacks = append(callbacks, net.NewSchedulerCallback(opt.NewExponentialLR(network.Params(), *decay, 1e-6)))
	}
	if *patience > 0 {
		callbacks = append(callbacks, net.NewEarlyStopping(*patience, 0))
	}
	var cp *net.ModelCheckpoint
	if *checkpoint != "" {
		cp = net.NewModelCheckpoint(*checkpoint)
		callbacks = append(callbacks, cp)
	}

	fmt.Printf("Training %v network (%s) on %d examples...\n", topology, a, train.Len())
	start := time.Now()
	epochs := network.Train(train, *maxErr, *maxEpochs, callbacks...)
	if epochs == 0 {
		fmt.Printf("Did not converge (%s)\n", time.Since(start).Round(time.Millisecond))
	} else {
		fmt.Printf("Converged at epoch %d (%s)\n", epochs, time.Since(start).Round(time.Millisecond))
	}
	if cp != nil && cp.Err != nil {
		log.Printf("checkpoint: %v", cp.Err)
	}

	if test != nil && test.Len() > 0 {
		fmt.Printf("Holdout max error: %.6f\n", maxError(network, test))
	}

	if *out != "" {
		if err := network.Save(*out); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Network saved to %s\n", *out)
	}
}

// splitDataset keeps the holdout share of ds out of training and checks that
// the remaining training set is usable.
func splitDataset(ds *net.Dataset, holdout float64, inputs, outputs int) (train, test *net.Dataset, err error) {
	train = ds
	if holdout > 0 {
		train, test = ds.Split(1 - holdout)
	}
	if err := train.Validate(inputs, outputs); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// parseUnits builds the layer sizes from output to input around the hidden sizes.
func parseUnits(hidden string, outputs, inputs int) ([]int, error) {
	topology := []int{outputs}
	for _, f := range strings.Split(hidden, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		u, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		topology = append(topology, u)
	}
	return append(topology, inputs), nil
}

func maxError(n *net.Network, ds *net.Dataset) float64 {
	var m float64
	for i := range ds.Inputs {
		m = max(m, n.SimulateError(ds.Inputs[i], ds.Targets[i]))
	}
	return m
}
