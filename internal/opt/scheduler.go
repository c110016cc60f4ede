package opt

import "math"

// Scheduler adjusts the learning rate between epochs.
type Scheduler interface {
	Step()
	GetLR() float64
}

// StepLR decays the learning rate by gamma every stepSize epochs.
type StepLR struct {
	params    *Params
	stepSize  int
	gamma     float64
	lastEpoch int
}

func NewStepLR(params *Params, stepSize int, gamma float64) *StepLR {
	return &StepLR{
		params:   params,
		stepSize: stepSize,
		gamma:    gamma,
	}
}

func (s *StepLR) Step() {
	s.lastEpoch++
	if s.stepSize > 0 && s.lastEpoch%s.stepSize == 0 {
		s.params.LearnRate *= s.gamma
	}
}

func (s *StepLR) GetLR() float64 {
	return s.params.LearnRate
}

// ExponentialLR decays the learning rate by gamma every epoch, never below minLR.
type ExponentialLR struct {
	params    *Params
	gamma     float64
	minLR     float64
	initialLR float64
	lastEpoch int
}

func NewExponentialLR(params *Params, gamma, minLR float64) *ExponentialLR {
	return &ExponentialLR{
		params:    params,
		gamma:     gamma,
		minLR:     minLR,
		initialLR: params.LearnRate,
	}
}

func (s *ExponentialLR) Step() {
	s.lastEpoch++
	s.params.LearnRate = math.Max(s.initialLR*math.Pow(s.gamma, float64(s.lastEpoch)), s.minLR)
}

func (s *ExponentialLR) GetLR() float64 {
	return s.params.LearnRate
}
