package geom

import (
	"fmt"
	"math"
)

var ErrDimNotEqual = fmt.Errorf("vectors dimension is not equal")

type Point []float64

func NewPoint(vec []float64) Point {
	return vec
}

func (v Point) Dimensions() int {
	return len(v)
}

func (v Point) Dim(idx int) float64 {
	return v[idx]
}

func (v Point) Points() []float64 {
	return v
}

func (v Point) Copy() Point {
	var v1 = make(Point, len(v))
	copy(v1, v)
	return v1
}

// Dot returns the scalar product of two points of equal dimension.
func (v Point) Dot(vec Point) (float64, error) {
	if len(v) != len(vec) {
		return 0.0, ErrDimNotEqual
	}
	var s float64
	for i := range v {
		s += v[i] * vec[i]
	}
	return s, nil
}

// ScaledAdd adds a*vec to v in place.
func (v Point) ScaledAdd(a float64, vec Point) error {
	if len(v) != len(vec) {
		return ErrDimNotEqual
	}
	for i := range v {
		v[i] += a * vec[i]
	}
	return nil
}

func (v Point) Magnitude() float64 {
	result := 0.0
	for i := range v {
		result += math.Pow(v[i], 2)
	}
	return math.Sqrt(result)
}

func (v Point) SizeEqual(vec Point) bool {
	return len(v) == len(vec)
}

func (v Point) Equal(vec Point) bool {
	if len(v) != len(vec) {
		return false
	}
	for i, value := range v {
		if vec[i] != value {
			return false
		}
	}
	return true
}
