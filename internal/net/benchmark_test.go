// Package net provides benchmarks for neural network training.
package net

import (
	"math/rand"
	"testing"
)

// fillRandom fills a slice with random values.
func fillRandom(slice []float64) {
	for i := range slice {
		slice[i] = rand.Float64()
	}
}

func benchNetwork(b *testing.B) *Network {
	n, err := New([]int{10, 128, 256, 784}, WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		b.Fatal(err)
	}
	return n
}

// BenchmarkNetworkSimulate benchmarks a forward pass through a small network.
func BenchmarkNetworkSimulate(b *testing.B) {
	network := benchNetwork(b)
	input := make([]float64, 784)
	fillRandom(input)
	network.SetInput(input)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.Simulate()
	}
}

// BenchmarkNetworkGradients benchmarks a backward pass through a small network.
func BenchmarkNetworkGradients(b *testing.B) {
	network := benchNetwork(b)
	input := make([]float64, 784)
	desired := make([]float64, 10)
	fillRandom(input)
	fillRandom(desired)
	network.SetInput(input)
	network.Simulate()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.CalculateGradients(desired)
	}
}

// BenchmarkNetworkEpoch benchmarks an RPROP epoch over 32 examples.
func BenchmarkNetworkEpoch(b *testing.B) {
	network := benchNetwork(b)
	ds := &Dataset{}
	for i := 0; i < 32; i++ {
		in := make([]float64, 784)
		out := make([]float64, 10)
		fillRandom(in)
		fillRandom(out)
		ds.Inputs = append(ds.Inputs, in)
		ds.Targets = append(ds.Targets, out)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		network.Epoch(ds)
	}
}

// BenchmarkNetworkMarshalText benchmarks the text encoding.
func BenchmarkNetworkMarshalText(b *testing.B) {
	network := benchNetwork(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = network.MarshalText()
	}
}
