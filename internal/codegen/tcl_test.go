package codegen

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/gnegnu/gnegnu/internal/net"
	"github.com/pkg/errors"
)

func TestTclHandWeights(t *testing.T) {
	n, err := net.New([]int{1, 1, 2}, net.WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatal(err)
	}
	in := n.Layers()[2]
	in.SetW(0, 0, 0.3)
	in.SetW(1, 0, -0.7)
	in.SetW(2, 0, 0.2)
	n.Layers()[1].SetW(0, 0, 1.5)

	var buf bytes.Buffer
	if err := Tcl(&buf, n); err != nil {
		t.Fatal(err)
	}

	want := `proc ann input {
    set output {0}
    set O_1_0 [expr { \
        (0.300000000*[lindex $input 0])+ \
        (-0.700000000*[lindex $input 1])+ \
        (0.200000000)}]
    set O_1_0 [expr {1/(1+exp(-$O_1_0))}]
    lset output 0 [expr { \
        (1.500000000*$O_1_0)}]
    lset output 0 [expr {1/(1+exp(-[lindex $output 0]))}]
    return $output
}
`
	if buf.String() != want {
		t.Errorf("Tcl =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestTclStructure(t *testing.T) {
	n, err := net.New([]int{2, 3, 4, 3}, net.WithRand(rand.New(rand.NewSource(5))))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Tcl(&buf, n); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "proc ann input {\n    set output {0 0}\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.HasSuffix(out, "    return $output\n}\n") {
		t.Errorf("unexpected footer:\n%s", out)
	}

	// two statements per computed unit: weighted sum then sigmoid
	if got := strings.Count(out, "    lset output "); got != 2*2 {
		t.Errorf("%d output statements, want 4", got)
	}
	if got := strings.Count(out, "    set O_2_"); got != 2*4 {
		t.Errorf("%d layer 2 statements, want 8", got)
	}
	if got := strings.Count(out, "    set O_1_"); got != 2*3 {
		t.Errorf("%d layer 1 statements, want 6", got)
	}
	if got := strings.Count(out, "[lindex $input 3]"); got != 0 {
		t.Error("input bias slot referenced as an input")
	}
	if got := strings.Count(out, "[lindex $input 2]"); got != 4 {
		t.Errorf("input 2 used %d times, want 4", got)
	}
	if strings.Contains(out, "$O_2_4") || strings.Contains(out, "$O_1_3") {
		t.Error("bias slot referenced as a variable")
	}
}

func TestTclDestroyed(t *testing.T) {
	n, _ := net.New([]int{1, 1})
	n.Destroy()
	if err := Tcl(&bytes.Buffer{}, n); !errors.Is(err, net.ErrDestroyed) {
		t.Errorf("error = %v, want ErrDestroyed", err)
	}
}
