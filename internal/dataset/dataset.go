// Package dataset is the inbound boundary of the classifier: cleaned
// tabular feature rows with {-1,+1} labels, produced elsewhere and handed
// over as CSV files or generated synthetically.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"percept/internal/classifier"
	"percept/internal/geom"
)

var _ classifier.Sample = Sample{}

// Sample is one labeled row of a set.
type Sample struct {
	Vec geom.Point
	Y   float64
}

func (s Sample) Vector() classifier.Vector {
	return s.Vec
}

func (s Sample) Label() float64 {
	return s.Y
}

// Set is an ordered, fixed-length sample set.
type Set struct {
	X []geom.Point
	Y []float64
	// Separator is the generating hyperplane of a synthetic set, nil for
	// loaded data. Kept for margin-bound evaluation.
	Separator geom.Point
}

// New pairs features with labels, checking that lengths match and that all
// rows share one dimensionality.
func New(x []geom.Point, y []float64) (*Set, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("features length got: %d, labels length got: %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("sample set is empty")
	}
	p := x[0].Dimensions()
	for i := range x {
		if x[i].Dimensions() != p {
			return nil, fmt.Errorf("row %d has %d features, expected %d: %w",
				i, x[i].Dimensions(), p, geom.ErrDimNotEqual)
		}
	}
	return &Set{X: x, Y: y}, nil
}

func (s *Set) Len() int {
	return len(s.X)
}

func (s *Set) Features() int {
	if len(s.X) == 0 {
		return 0
	}
	return s.X[0].Dimensions()
}

// Samples adapts the set to the classifier interfaces.
func (s *Set) Samples() []classifier.Sample {
	samples := make([]classifier.Sample, len(s.X))
	for i := range s.X {
		samples[i] = Sample{Vec: s.X[i], Y: s.Y[i]}
	}
	return samples
}

// LinearSeparable generates n uniform [-1,1] feature rows in p dimensions,
// labeled by the all-ones hyperplane: y = +1 where x·w >= 0, otherwise -1.
// The generating separator is retained on the set.
func LinearSeparable(n, p int, rnd *rand.Rand) *Set {
	w := make(geom.Point, p)
	for i := range w {
		w[i] = 1
	}
	x := make([]geom.Point, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		row := make(geom.Point, p)
		for j := range row {
			row[j] = rnd.Float64()*2 - 1
		}
		x[i] = row
		score, _ := row.Dot(w)
		if score >= 0 {
			y[i] = 1
		} else {
			y[i] = -1
		}
	}
	return &Set{X: x, Y: y, Separator: w}
}

// LoadCSV reads rows of the form f1,...,fp,label. Every field must parse as
// a float and every row must have the same width; the label domain itself
// is not validated.
func LoadCSV(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open dataset file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read dataset file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset file %s is empty", path)
	}

	x := make([]geom.Point, 0, len(records))
	y := make([]float64, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("row %d has %d fields, expected features and a label", i, len(record))
		}
		row := make(geom.Point, len(record)-1)
		for j, field := range record[:len(record)-1] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d field %d: %w", i, j, err)
			}
			row[j] = v
		}
		label, err := strconv.ParseFloat(record[len(record)-1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d label: %w", i, err)
		}
		x = append(x, row)
		y = append(y, label)
	}

	return New(x, y)
}
