package net

import (
	"os"
	"strconv"
	"strings"

	"github.com/gnegnu/gnegnu/internal/layer"
	"github.com/gnegnu/gnegnu/internal/opt"
	"github.com/gnegnu/gnegnu/internal/tcllist"
	"github.com/pkg/errors"
)

// ErrMalformed is returned when decoding text that is not a network encoding.
var ErrMalformed = errors.New("malformed network encoding")

// layerFields is the number of arrays encoded per layer.
const layerFields = 7

// MarshalText encodes the complete state of the network as a brace-quoted
// list: one element per layer holding its outputs, errors, weights,
// gradients, previous gradients, deltas and set-wise gradients, then the
// hyperparameters, then the algorithm name.
func (n *Network) MarshalText() ([]byte, error) {
	if n.Destroyed() {
		return nil, ErrDestroyed
	}

	elems := make([]string, 0, len(n.layers)+2)
	for _, l := range n.layers {
		elems = append(elems, tcllist.Join([]string{
			formatFloats(l.Output),
			formatFloats(l.Error),
			formatFloats(l.Weight),
			formatFloats(l.Gradient),
			formatFloats(l.PGradient),
			formatFloats(l.Delta),
			formatFloats(l.SGradient),
		}))
	}

	p := n.params
	elems = append(elems, tcllist.Join([]string{formatFloats([]float64{
		p.LearnRate, p.Momentum, p.RPropNMinus, p.RPropNPlus, p.RPropMaxUpdate, p.RPropMinUpdate,
	})}))
	elems = append(elems, n.algo.String())

	return []byte(tcllist.Join(elems)), nil
}

// UnmarshalText replaces the network with the one encoded in text. Deltas and
// gradient memories are restored as encoded, not reset. On error the network
// is left unchanged.
func (n *Network) UnmarshalText(text []byte) error {
	elems, err := tcllist.Split(string(text))
	if err != nil {
		return errors.Wrap(ErrMalformed, err.Error())
	}
	if len(elems) < 4 {
		return errors.Wrapf(ErrMalformed, "%d elements, want at least 4", len(elems))
	}

	algo, err := opt.ParseAlgorithm(elems[len(elems)-1])
	if err != nil {
		return err
	}

	params, err := parseParams(elems[len(elems)-2])
	if err != nil {
		return err
	}

	layerElems := elems[:len(elems)-2]
	layers := make([]*layer.Layer, len(layerElems))
	below := 0
	for i, e := range layerElems {
		l, err := parseLayer(e, i > 1, below)
		if err != nil {
			return errors.Wrapf(err, "layer %d", i)
		}
		layers[i] = l
		below = l.Units
	}

	optimizer, err := opt.New(algo, &n.params)
	if err != nil {
		return err
	}

	if n.act == nil || n.loss == nil {
		*n = *newNetwork()
	}
	n.layers = layers
	n.params = params
	n.algo = algo
	n.optimizer = optimizer
	n.bind()
	return nil
}

// Parse decodes a network from its text encoding.
func Parse(text string) (*Network, error) {
	n := newNetwork()
	if err := n.UnmarshalText([]byte(text)); err != nil {
		return nil, err
	}
	return n, nil
}

// Save writes the text encoding of the network to filename.
func (n *Network) Save(filename string) error {
	text, err := n.MarshalText()
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(filename, text, 0644), "save network")
}

// Load reads a network saved with Save.
func Load(filename string) (*Network, error) {
	text, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "load network")
	}
	return Parse(string(text))
}

func parseParams(e string) (opt.Params, error) {
	outer, err := tcllist.Split(e)
	if err != nil || len(outer) != 1 {
		return opt.Params{}, errors.Wrap(ErrMalformed, "parameters")
	}
	v, err := parseFloats(outer[0])
	if err != nil {
		return opt.Params{}, err
	}
	if len(v) != 6 {
		return opt.Params{}, errors.Wrapf(ErrMalformed, "%d parameters, want 6", len(v))
	}
	return opt.Params{
		LearnRate:      v[0],
		Momentum:       v[1],
		RPropNMinus:    v[2],
		RPropNPlus:     v[3],
		RPropMaxUpdate: v[4],
		RPropMinUpdate: v[5],
	}, nil
}

func parseLayer(e string, bias bool, below int) (*layer.Layer, error) {
	fields, err := tcllist.Split(e)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	if len(fields) != layerFields {
		return nil, errors.Wrapf(ErrMalformed, "%d fields, want %d", len(fields), layerFields)
	}

	out, err := parseFloats(fields[0])
	if err != nil {
		return nil, err
	}
	units := len(out)
	if bias {
		units--
	}
	if units < 1 {
		return nil, errors.Wrap(ErrMalformed, "layer without units")
	}

	l := layer.New(units, bias, below)
	dsts := [][]float64{l.Output, l.Error, l.Weight, l.Gradient, l.PGradient, l.Delta, l.SGradient}
	for f, dst := range dsts {
		v, err := parseFloats(fields[f])
		if err != nil {
			return nil, err
		}
		if len(v) != len(dst) {
			return nil, errors.Wrapf(ErrMalformed, "field %d has %d values, want %d", f, len(v), len(dst))
		}
		copy(dst, v)
	}
	if bias && l.Output[l.Units-1] != 1 {
		return nil, errors.Wrapf(ErrMalformed, "bias output %v, want 1", l.Output[l.Units-1])
	}
	return l, nil
}

func formatFloats(v []float64) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(s, " ")
}

func parseFloats(s string) ([]float64, error) {
	words, err := tcllist.Split(s)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	v := make([]float64, len(words))
	for i, w := range words {
		if v[i], err = strconv.ParseFloat(w, 64); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
	}
	return v, nil
}
