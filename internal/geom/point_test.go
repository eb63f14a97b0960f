package geom

import (
	"errors"
	"testing"
)

func TestPoint_Dimensions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		expected int
	}{
		{
			name:     "positive",
			p:        NewPoint([]float64{1, 2, 3, 4, 5}),
			expected: 5,
		},
		{
			name:     "empty",
			p:        NewPoint(nil),
			expected: 0,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			cmp := test.p.Dimensions()
			if cmp != test.expected {
				t.Errorf("the comparison is incorrect got: %v, expected: %v", cmp, test.expected)
			}
		})
	}
}

func TestPoint_Dot(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		p1       Point
		expected float64
		err      error
	}{
		{name: "orthogonal", p: Point{1, 0}, p1: Point{0, 1}, expected: 0},
		{name: "positive", p: Point{1, 2, 3}, p1: Point{4, 5, 6}, expected: 32},
		{name: "dim mismatch", p: Point{1, 2}, p1: Point{1}, err: ErrDimNotEqual},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := test.p.Dot(test.p1)
			if !errors.Is(err, test.err) {
				t.Fatalf("unexpected error got: %v, expected: %v", err, test.err)
			}
			if err == nil && got != test.expected {
				t.Errorf("the scalar product is incorrect got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestPoint_ScaledAdd(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		p1       Point
		a        float64
		expected Point
		err      error
	}{
		{name: "positive", p: Point{1, 1}, p1: Point{2, -2}, a: 0.5, expected: Point{2, 0}},
		{name: "zero scale", p: Point{1, 1}, p1: Point{2, 2}, a: 0, expected: Point{1, 1}},
		{name: "dim mismatch", p: Point{1, 1}, p1: Point{1}, a: 1, err: ErrDimNotEqual},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := test.p.ScaledAdd(test.a, test.p1)
			if !errors.Is(err, test.err) {
				t.Fatalf("unexpected error got: %v, expected: %v", err, test.err)
			}
			if err == nil && !test.p.Equal(test.expected) {
				t.Errorf("the updated point is incorrect got: %v, expected: %v", test.p, test.expected)
			}
		})
	}
}

func TestPoint_Magnitude(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		expected float64
	}{
		{name: "positive", p: Point{3, 4}, expected: 5},
		{name: "unit", p: Point{1}, expected: 1},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := test.p.Magnitude(); got != test.expected {
				t.Errorf("the magnitude is incorrect got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestPoint_Equal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		p1       Point
		expected bool
	}{
		{
			name:     "positive",
			p:        Point{10, 10},
			p1:       Point{10, 10},
			expected: true,
		},
		{
			name:     "negative",
			p:        Point{10, 10},
			p1:       Point{11, 10},
			expected: false,
		},
		{
			name:     "size mismatch",
			p:        Point{10, 10},
			p1:       Point{10},
			expected: false,
		},
	}
	for _, test := range tests {
		if test.p.Equal(test.p1) != test.expected {
			t.Errorf("the comparison of points, got: %v, expected: %v", test.p.Equal(test.p1), test.expected)
		}
	}
}

func TestPoint_Copy(t *testing.T) {
	t.Parallel()
	p := NewPoint([]float64{1, 2, 3})
	p1 := p.Copy()
	p1[0] = 10
	if p[0] != 1 {
		t.Errorf("copy shares memory with the source point, got: %v", p[0])
	}
}
