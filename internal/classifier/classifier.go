package classifier

import (
	"context"
	"time"
)

type ProvideFn func() (Trainer, error)

type Vector interface {
	Dim(idx int) float64
	Dimensions() int
	Points() []float64
}

// Sample is a single labeled observation. Label values are expected to be
// -1 or +1; the classifiers do not validate the label domain.
type Sample interface {
	Vector() Vector
	Label() float64
}

type DataPoint interface {
	Sample
	Time() time.Time
}

// Prediction is the outcome of classifying one vector.
type Prediction struct {
	// Label is the predicted class, -1 or +1.
	Label float64
	// Activation is the raw score the label was derived from.
	Activation float64
}

type Classifier interface {
	Predict(vec Vector) (*Prediction, error)
}

// Trainer is a classifier that learns from a labeled sample set.
type Trainer interface {
	Classifier
	Train(ctx context.Context, samples []Sample) (int, error)
}
