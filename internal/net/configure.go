package net

import (
	"strconv"

	"github.com/gnegnu/gnegnu/internal/opt"
	"github.com/pkg/errors"
)

// ErrUnknownOption is returned by Configure for an unrecognized option name.
var ErrUnknownOption = errors.New("unknown configuration option")

// Configuration option names.
const (
	OptionLearnRate      = "learnRate"
	OptionMomentum       = "momentum"
	OptionRPropNMinus    = "rpropNMinus"
	OptionRPropNPlus     = "rpropNPlus"
	OptionRPropMaxUpdate = "rpropMaxUpdate"
	OptionRPropMinUpdate = "rpropMinUpdate"
	OptionAlgorithm      = "algorithm"
	OptionScaleWeights   = "scaleWeights"
)

// Options lists the option names accepted by Configure.
var Options = []string{
	OptionLearnRate,
	OptionMomentum,
	OptionRPropNMinus,
	OptionRPropNPlus,
	OptionRPropMaxUpdate,
	OptionRPropMinUpdate,
	OptionAlgorithm,
	OptionScaleWeights,
}

// Configure applies one named option. Hyperparameter options set the value,
// algorithm selects a learning algorithm by name and resets its state, and
// scaleWeights multiplies every weight by the value.
func (n *Network) Configure(name, value string) error {
	if n.Destroyed() {
		return ErrDestroyed
	}

	if name == OptionAlgorithm {
		a, err := opt.ParseAlgorithm(value)
		if err != nil {
			return err
		}
		return n.SetLearningAlgorithm(a)
	}

	var dst *float64
	switch name {
	case OptionLearnRate:
		dst = &n.params.LearnRate
	case OptionMomentum:
		dst = &n.params.Momentum
	case OptionRPropNMinus:
		dst = &n.params.RPropNMinus
	case OptionRPropNPlus:
		dst = &n.params.RPropNPlus
	case OptionRPropMaxUpdate:
		dst = &n.params.RPropMaxUpdate
	case OptionRPropMinUpdate:
		dst = &n.params.RPropMinUpdate
	case OptionScaleWeights:
	default:
		return errors.Wrapf(ErrUnknownOption, "option '%s'", name)
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.Wrapf(err, "option %s", name)
	}
	if dst == nil {
		n.ScaleWeights(v)
		return nil
	}
	*dst = v
	return nil
}
