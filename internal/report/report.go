// Package report renders a finished training run as text. It consumes only
// numbers the trainer already recorded and does no algorithmic work.
package report

import (
	"fmt"
	"io"

	"percept/internal/geom"
)

const line = "=================================================="

// Summary is the recorded outcome of one training run.
type Summary struct {
	ConvergenceEpoch int
	SampleCount      int
	ErrorHistory     []int
	AccuracyHistory  []float64
	Weights          geom.Point
	Bias             float64
}

// FinalErrors returns the mistake count of the last recorded epoch, or the
// sample count when no epoch was recorded.
func (s Summary) FinalErrors() int {
	if len(s.ErrorHistory) == 0 {
		return s.SampleCount
	}
	return s.ErrorHistory[len(s.ErrorHistory)-1]
}

// FinalAccuracy returns the fraction of correctly classified samples after
// the last recorded epoch.
func (s Summary) FinalAccuracy() float64 {
	if s.SampleCount == 0 {
		return 0
	}
	return float64(s.SampleCount-s.FinalErrors()) / float64(s.SampleCount)
}

// Write prints the run summary.
func Write(w io.Writer, s Summary) error {
	correct := s.SampleCount - s.FinalErrors()
	_, err := fmt.Fprintf(w,
		"%s\nTRAINING RESULTS\n%s\n"+
			"Epochs trained: %d\n"+
			"Final accuracy: %.1f%%\n"+
			"Final weights: %v\n"+
			"Final bias: %.4f\n\n"+
			"Correct: %d/%d\nIncorrect: %d/%d\n",
		line, line,
		s.ConvergenceEpoch,
		100*s.FinalAccuracy(),
		s.Weights,
		s.Bias,
		correct, s.SampleCount,
		s.SampleCount-correct, s.SampleCount,
	)
	if err != nil {
		return fmt.Errorf("unable to write summary: %w", err)
	}
	return nil
}
