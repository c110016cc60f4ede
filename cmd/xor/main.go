package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gnegnu/gnegnu/internal/codegen"
	"github.com/gnegnu/gnegnu/internal/net"
)

func main() {
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for the initial weights")
	maxEpochs := flag.Int("epochs", 100000, "maximum training epochs")
	maxErr := flag.Float64("maxerr", 1e-12, "target max per-example error")
	dump := flag.Bool("dump", false, "print the layers of the trained networks")
	flag.Parse()

	fmt.Println("=== XOR / AND Training Example ===")
	fmt.Println("Network architecture: 2-3-1, sigmoid units")
	fmt.Println("Algorithm: RPROP")

	sets := []struct {
		name string
		ds   *net.Dataset
	}{
		{"XOR", &net.Dataset{
			Inputs:  [][]float64{{0.1, 0.9}, {0.9, 0.1}, {0.1, 0.1}, {0.9, 0.9}},
			Targets: [][]float64{{0.9}, {0.9}, {0.1}, {0.1}},
		}},
		{"AND", &net.Dataset{
			Inputs:  [][]float64{{0.1, 0.1}, {0.1, 0.9}, {0.9, 0.1}, {0.9, 0.9}},
			Targets: [][]float64{{0.1}, {0.1}, {0.1}, {0.9}},
		}},
	}

	src := rand.New(rand.NewSource(*seed))
	var last *net.Network
	for _, set := range sets {
		network, err := net.New([]int{1, 3, 2}, net.WithRand(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating network: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\nTraining %s...\n", set.name)
		epochs := network.Train(set.ds, *maxErr, *maxEpochs, net.Logger{Interval: *maxEpochs / 10})
		if epochs == 0 {
			fmt.Printf("%s did not converge in %d epochs\n", set.name, *maxEpochs)
		} else {
			fmt.Printf("%s converged at epoch %d\n", set.name, epochs)
		}

		fmt.Println("Testing trained network:")
		for i, in := range set.ds.Inputs {
			pred, err := network.Predict(in)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Input: %v, Predicted: %.4f, Target: %v\n", in, pred[0], set.ds.Targets[i][0])
		}

		if *dump {
			clone, err := network.Clone()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error cloning network: %v\n", err)
				os.Exit(1)
			}
			clone.Dump(os.Stdout)
			clone.Destroy()
		}
		last = network
	}

	fmt.Println("\nTcl procedure for the AND network:")
	if err := codegen.Tcl(os.Stdout, last); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
