package net

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gnegnu/gnegnu/internal/layer"
)

// Dump writes a human readable picture of every layer to w: for weighted
// layers the weights W(..), gradients g[..], set-wise gradients G[..],
// previous gradients M[..] and deltas D|..| grouped by source unit, then
// for every layer the outputs and the errors /../.
func (n *Network) Dump(w io.Writer) error {
	if n.Destroyed() {
		return ErrDestroyed
	}

	bw := bufio.NewWriter(w)
	for i, l := range n.layers {
		if i > 0 {
			dumpMatrix(bw, 'W', "(", ")", l, l.Weight)
			dumpMatrix(bw, 'g', "[", "]", l, l.Gradient)
			dumpMatrix(bw, 'G', "[", "]", l, l.SGradient)
			dumpMatrix(bw, 'M', "[", "]", l, l.PGradient)
			dumpMatrix(bw, 'D', "|", "|", l, l.Delta)
		}
		for _, v := range l.Output {
			fmt.Fprintf(bw, "%f ", v)
		}
		bw.WriteString("\n\t\t/")
		for _, v := range l.Error {
			fmt.Fprintf(bw, "%f ", v)
		}
		bw.WriteString("/\n")
	}
	return bw.Flush()
}

func dumpMatrix(w *bufio.Writer, tag byte, open, close string, l *layer.Layer, m []float64) {
	w.WriteString("\t\t")
	w.WriteByte(tag)
	for k := 0; k < l.Units; k++ {
		w.WriteString(open)
		for j := 0; j < l.Below; j++ {
			if j > 0 {
				w.WriteByte(' ')
			}
			fmt.Fprintf(w, "%f", m[l.Index(k, j)])
		}
		w.WriteString(close)
		w.WriteByte(' ')
	}
	w.WriteByte('\n')
}
