package perceptron

import (
	"fmt"
	"math"

	"percept/internal/classifier"
	"percept/internal/geom"
)

// MarginBound is the Novikoff-style mistake bound of a sample set with
// respect to a reference separator.
type MarginBound struct {
	// Radius is the largest sample norm R.
	Radius float64
	// Margin is the minimum unsigned functional margin ρ.
	Margin float64
	// SeparatorNormSq is ‖w‖² of the reference separator.
	SeparatorNormSq float64
	// Bound is (R²/ρ²)·‖w‖².
	Bound float64
	// Steps is the observed update count the bound was checked against.
	Steps float64
	// Within reports whether Steps <= Bound.
	Within bool
}

// EvaluateMarginBound computes R = max ‖x_i‖, ρ = min |y_i·(x_i·w)| and the
// theoretical mistake bound (R²/ρ²)·‖w‖² for a reference separator w, then
// checks the observed steps against it. It never mutates model state. A
// zero minimum margin means some sample sits exactly on the hyperplane and
// yields ErrDegenerateMargin rather than a silent infinity.
func EvaluateMarginBound(samples []classifier.Sample, w geom.Point, steps float64) (*MarginBound, error) {
	if len(samples) == 0 {
		return nil, ErrEmptySampleSet
	}

	var radius float64
	rho := math.MaxFloat64
	for i := range samples {
		vec := geom.NewPoint(samples[i].Vector().Points())
		if m := vec.Magnitude(); m > radius {
			radius = m
		}
		score, err := vec.Dot(w)
		if err != nil {
			return nil, fmt.Errorf("unable to compute margin of sample %d: %w", i, err)
		}
		if margin := math.Abs(samples[i].Label() * score); margin < rho {
			rho = margin
		}
	}

	if rho == 0 {
		return nil, ErrDegenerateMargin
	}

	normSq := math.Pow(w.Magnitude(), 2)
	bound := radius * radius / (rho * rho) * normSq

	return &MarginBound{
		Radius:          radius,
		Margin:          rho,
		SeparatorNormSq: normSq,
		Bound:           bound,
		Steps:           steps,
		Within:          steps <= bound,
	}, nil
}
