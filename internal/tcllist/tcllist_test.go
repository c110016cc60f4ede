package tcllist

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"a b c", []string{"a", "b", "c"}},
		{"  a\tb\n c ", []string{"a", "b", "c"}},
		{"{a b} c", []string{"a b", "c"}},
		{"{} x", []string{"", "x"}},
		{"{{1 2} {3}} rprop", []string{"{1 2} {3}", "rprop"}},
		{"{{0.1 0.6}}", []string{"{0.1 0.6}"}},
		{"-1.5e-07 +Inf NaN", []string{"-1.5e-07", "+Inf", "NaN"}},
	}

	for _, tt := range tests {
		got, err := Split(tt.in)
		if err != nil {
			t.Errorf("Split(%q) error: %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Split(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitErrors(t *testing.T) {
	for _, in := range []string{"{a b", "a}", "{a}b", "a{b", "{{a}"} {
		if _, err := Split(in); !errors.Is(err, ErrSyntax) {
			t.Errorf("Split(%q) error = %v, want ErrSyntax", in, err)
		}
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a", "b"}, "a b"},
		{[]string{"", "a b"}, "{} {a b}"},
		{[]string{"{x}"}, "{{x}}"},
	}
	for _, tt := range tests {
		if got := Join(tt.in); got != tt.want {
			t.Errorf("Join(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNestedRoundTrip(t *testing.T) {
	inner := []string{"0 1", "", "0.25 -0.5 3"}
	outer := []string{Join(inner), Join([]string{"0.1 0.6"}), "rprop"}
	text := Join(outer)

	got, err := Split(text)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if !reflect.DeepEqual(got, outer) {
		t.Fatalf("outer = %q, want %q", got, outer)
	}
	gotInner, err := Split(got[0])
	if err != nil {
		t.Fatalf("Split inner error: %v", err)
	}
	if !reflect.DeepEqual(gotInner, inner) {
		t.Errorf("inner = %q, want %q", gotInner, inner)
	}
}
