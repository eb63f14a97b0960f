package perceptron

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"percept/internal/classifier"
	"percept/internal/geom"
	"percept/internal/logging"
)

var _ classifier.Trainer = (*Perceptron)(nil)

var (
	// ErrDimensionMismatch is returned when a vector does not match the
	// weight dimensionality the model was constructed with.
	ErrDimensionMismatch = fmt.Errorf("vector dimension does not match model input size")
	// ErrDegenerateMargin is returned by EvaluateMarginBound when a sample
	// sits exactly on the separating hyperplane.
	ErrDegenerateMargin = fmt.Errorf("minimum functional margin is zero")
	// ErrEmptySampleSet is returned when training or bound evaluation is
	// given no samples.
	ErrEmptySampleSet = fmt.Errorf("sample set is empty")
)

const (
	DefaultLearningRate = 0.01
	DefaultEpochs       = 100
)

type Option func(*Perceptron)

// WithLearningRate sets the update step. The rate must be positive; the
// model does not validate it.
func WithLearningRate(eta float64) Option {
	return func(p *Perceptron) {
		p.eta = eta
	}
}

// WithEpochs sets the maximum number of passes over the sample set per
// Train call.
func WithEpochs(n int) Option {
	return func(p *Perceptron) {
		p.epochs = n
	}
}

// WithRand sets the source used for weight initialization. Injecting a
// seeded source makes construction reproducible.
func WithRand(rnd *rand.Rand) Option {
	return func(p *Perceptron) {
		p.rnd = rnd
	}
}

// WithVerbose enables epoch progress logging during Train.
func WithVerbose(v bool) Option {
	return func(p *Perceptron) {
		p.verbose = v
	}
}

// New returns a perceptron with weights and bias drawn from a standard
// normal distribution. The weights are never reset afterwards: repeated
// Train calls keep adjusting the same state and appending to the same
// histories, so a fresh run needs a fresh instance.
func New(inputSize int, opts ...Option) (*Perceptron, error) {
	if inputSize < 1 {
		return nil, fmt.Errorf("input size got: %d, expected >= 1", inputSize)
	}
	p := &Perceptron{
		eta:    DefaultLearningRate,
		epochs: DefaultEpochs,
	}
	for _, f := range opts {
		f(p)
	}
	if p.rnd == nil {
		p.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	p.w = make(geom.Point, inputSize)
	for i := range p.w {
		p.w[i] = p.rnd.NormFloat64()
	}
	p.b = p.rnd.NormFloat64()
	return p, nil
}

// Perceptron is a single-layer online binary classifier over {-1,+1}
// labels. It is not safe for concurrent use; callers either serialize
// access or use independent instances.
type Perceptron struct {
	w   geom.Point
	b   float64
	eta float64
	rnd *rand.Rand

	epochs  int
	verbose bool

	errorHistory    []int
	accuracyHistory []float64
	// non-owning reference to the sample set last passed to Train,
	// kept for post-hoc visualization only
	lastSamples []classifier.Sample
}

// Predict classifies a single vector against the current weights. It is a
// pure function of the model state: z = x·w + b, label +1 when z >= 0,
// otherwise -1. Non-finite feature values are an unchecked precondition.
func (p *Perceptron) Predict(vec classifier.Vector) (*classifier.Prediction, error) {
	if vec.Dimensions() != p.w.Dimensions() {
		return nil, fmt.Errorf("predict vector size %d, model size %d: %w",
			vec.Dimensions(), p.w.Dimensions(), ErrDimensionMismatch)
	}
	z, err := p.w.Dot(geom.NewPoint(vec.Points()))
	if err != nil {
		return nil, fmt.Errorf("unable to compute activation: %w", err)
	}
	z += p.b
	label := -1.0
	if z >= 0 {
		label = 1.0
	}
	return &classifier.Prediction{Label: label, Activation: z}, nil
}

// Train runs the classic online mistake-driven loop: every misclassified
// sample immediately adjusts the weights, so later samples within the same
// epoch are scored against state already modified by earlier ones. The
// per-sample error signal is e = y - ŷ ∈ {-2, 0, +2} and the update is
// w += η·e·x, b += η·e, twice the conventional η·y·x step.
//
// One errors counter and one accuracy value are appended to the histories
// per completed epoch. The loop stops at the first epoch with zero errors
// and returns its 1-indexed number, or the epoch budget when convergence
// was never reached. Labels outside {-1,+1} are an unchecked precondition.
func (p *Perceptron) Train(ctx context.Context, samples []classifier.Sample) (int, error) {
	logger := logging.FromContext(ctx)
	if len(samples) == 0 {
		return 0, ErrEmptySampleSet
	}
	p.lastSamples = samples

	n := len(samples)
	convergenceEpoch := p.epochs

	if p.verbose {
		logger.Debugf(
			"training started: samples=%d, features=%d, rate=%v, weights=%v, bias=%v",
			n, samples[0].Vector().Dimensions(), p.eta, p.w, p.b,
		)
	}

	for epoch := 0; epoch < p.epochs; epoch++ {
		errCount := 0
		correct := 0

		for i := range samples {
			result, err := p.Predict(samples[i].Vector())
			if err != nil {
				return 0, fmt.Errorf("unable to score sample %d: %w", i, err)
			}
			e := samples[i].Label() - result.Label
			if e != 0 {
				if err := p.w.ScaledAdd(p.eta*e, geom.NewPoint(samples[i].Vector().Points())); err != nil {
					return 0, fmt.Errorf("unable to update weights on sample %d: %w", i, err)
				}
				p.b += p.eta * e
				errCount++
			} else {
				correct++
			}
		}

		p.errorHistory = append(p.errorHistory, errCount)
		p.accuracyHistory = append(p.accuracyHistory, float64(correct)/float64(n))

		if p.verbose && (epoch%20 == 0 || epoch == p.epochs-1 || errCount == 0) {
			logger.Debugf("epoch %3d: errors=%3d, accuracy=%.1f%%",
				epoch, errCount, 100*float64(correct)/float64(n))
		}

		if errCount == 0 {
			convergenceEpoch = epoch + 1
			if p.verbose {
				logger.Debugf("converged at epoch %d", convergenceEpoch)
			}
			break
		}
	}

	return convergenceEpoch, nil
}

func (p *Perceptron) Weights() geom.Point {
	return p.w
}

func (p *Perceptron) Bias() float64 {
	return p.b
}

func (p *Perceptron) LearningRate() float64 {
	return p.eta
}

func (p *Perceptron) Epochs() int {
	return p.epochs
}

// ErrorHistory returns the number of mistakes recorded per completed epoch,
// across all Train calls on this instance.
func (p *Perceptron) ErrorHistory() []int {
	return p.errorHistory
}

// AccuracyHistory returns the fraction of correctly classified samples per
// completed epoch, across all Train calls on this instance.
func (p *Perceptron) AccuracyHistory() []float64 {
	return p.accuracyHistory
}

// TrainingSet returns the sample set last passed to Train, or nil before
// the first call.
func (p *Perceptron) TrainingSet() []classifier.Sample {
	return p.lastSamples
}
