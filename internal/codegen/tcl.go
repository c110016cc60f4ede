// Package codegen emits standalone programs that compute the forward pass of
// a trained network with its weights hard-coded.
package codegen

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gnegnu/gnegnu/internal/net"
)

// Tcl writes a Tcl procedure "ann" that takes the input list and returns the
// output list of n.
func Tcl(w io.Writer, n *net.Network) error {
	if n.Destroyed() {
		return net.ErrDestroyed
	}

	layers := n.Layers()
	last := len(layers) - 1
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "proc ann input {\n")
	fmt.Fprintf(bw, "    set output {%s}\n", strings.TrimSpace(strings.Repeat("0 ", n.OutputUnits())))

	for i := last; i > 0; i-- {
		l := layers[i]
		for j := 0; j < layers[i-1].Active(); j++ {
			terms := make([]string, l.Units)
			for k := range terms {
				wt := l.W(k, j)
				switch {
				case l.Bias && k == l.Units-1:
					terms[k] = fmt.Sprintf("(%.9f)", wt)
				case i == last:
					terms[k] = fmt.Sprintf("(%.9f*[lindex $input %d])", wt, k)
				default:
					terms[k] = fmt.Sprintf("(%.9f*$O_%d_%d)", wt, i, k)
				}
			}
			sum := strings.Join(terms, "+ \\\n        ")

			if i == 1 {
				fmt.Fprintf(bw, "    lset output %d [expr { \\\n        %s}]\n", j, sum)
				fmt.Fprintf(bw, "    lset output %d [expr {1/(1+exp(-[lindex $output %d]))}]\n", j, j)
			} else {
				fmt.Fprintf(bw, "    set O_%d_%d [expr { \\\n        %s}]\n", i-1, j, sum)
				fmt.Fprintf(bw, "    set O_%d_%d [expr {1/(1+exp(-$O_%d_%d))}]\n", i-1, j, i-1, j)
			}
		}
	}

	fmt.Fprintf(bw, "    return $output\n")
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}
