package trainer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"percept/internal/classifier"
	"percept/internal/database"
	"percept/internal/logging"
	"percept/internal/observability"
	sampleDb "percept/internal/sample/database"
	"percept/internal/sample/model"
)

// Contract for returning the Manager instance
type ProvideFn func(chan<- error) (Manager, error)

// Manager is the background service of the daemon: it accepts labeled
// samples, persists them, retrains per-dataset models on a schedule and
// serves predictions from the latest trained model.
type Manager interface {
	CollectPredictor
	Run(context.Context) error
	Stop()
}

// Collector accepts labeled samples for storage and later training.
type Collector interface {
	Collect(in ...model.Sample) error
}

// Predictor classifies a vector with the dataset's latest trained model.
type Predictor interface {
	Predict(datasetID string, vec classifier.Vector) (*classifier.Prediction, error)
}

type CollectPredictor interface {
	Collector
	Predictor
}

// Abstractions for pulling storage dependencies
type (
	fetchSamplesFn   func(string, sampleDb.FilterFn) ([]model.Sample, error)
	appendSamplesFn  func(context.Context, []model.Sample) error
	fetchKeysFn      func() ([]string, error)
	countByDatasetFn func(string) (int, error)
)

type pullDependencies struct {
	fetchSamples   fetchSamplesFn
	appendSamples  appendSamplesFn
	fetchKeys      fetchKeysFn
	countByDataset countByDatasetFn
}

type Options struct {
	minSamples  int
	retrainTime time.Duration
	dbFlushTime time.Duration
	dbFlushSize int
	deps        pullDependencies
}

type Option func(*manager)

func WithMinSamples(n int) Option {
	return func(m *manager) {
		m.opts.minSamples = n
	}
}

func WithRetrainTime(t time.Duration) Option {
	return func(m *manager) {
		m.opts.retrainTime = t
	}
}

func WithDBFlushTime(t time.Duration) Option {
	return func(m *manager) {
		m.opts.dbFlushTime = t
	}
}

func WithDBFlushSize(n int) Option {
	return func(m *manager) {
		m.opts.dbFlushSize = n
	}
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *manager) {
		m.metrics = metrics
	}
}

const (
	defaultMinSamples  = 10
	defaultRetrainTime = time.Minute
	defaultDBFlushTime = 5 * time.Second
	defaultDBFlushSize = 100
)

// New returns a manager that trains a fresh model instance per run from the
// stored samples of each dataset. A fresh instance per run keeps runs
// independent: reusing one would keep accumulating its weights and
// histories.
func New(
	db *database.DB,
	provideTrainerFn classifier.ProvideFn,
	shutdownCh chan<- error,
	opts ...Option,
) (*manager, error) {
	if provideTrainerFn == nil {
		return nil, fmt.Errorf("trainer provide function is not created")
	}

	m := &manager{
		sampleDB:         sampleDb.New(db),
		collectCh:        make(chan model.Sample, 1),
		shutDownCh:       shutdownCh,
		trainerProvideFn: provideTrainerFn,
		models:           map[string]classifier.Classifier{},
		opts: Options{
			minSamples:  defaultMinSamples,
			retrainTime: defaultRetrainTime,
			dbFlushTime: defaultDBFlushTime,
			dbFlushSize: defaultDBFlushSize,
		},
	}

	for _, f := range opts {
		f(m)
	}

	m.opts.deps = pullDependencies{
		fetchSamples:   m.sampleDB.FindByDataset,
		appendSamples:  m.sampleDB.AppendMany,
		fetchKeys:      m.sampleDB.Keys,
		countByDataset: m.sampleDB.CountByDataset,
	}

	return m, nil
}

type manager struct {
	mtx sync.RWMutex

	opts Options
	// Labeled sample storage
	sampleDB *sampleDb.DB
	// Optional instrumentation
	metrics *observability.Metrics

	// New samples waiting for the next flush
	buf    []model.Sample
	bufMtx sync.Mutex

	// New data channel for processing
	collectCh chan model.Sample
	// Channel to shutdown the application
	shutDownCh chan<- error

	closed bool
	// The factory returns a fresh trainable model
	trainerProvideFn classifier.ProvideFn
	// Latest trained model per dataset
	models map[string]classifier.Classifier

	cancel func()
}

// Run starts the collect buffer, the flush loop and the retrain loop, then
// trains once from whatever storage already holds.
func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	go m.collector(ctx)
	go m.flusher(ctx)
	go m.retrainer(ctx)

	if err := m.bulkTrain(ctx); err != nil {
		return fmt.Errorf("can not start trainer manager: %w", err)
	}

	return nil
}

func (m *manager) Stop() {
	m.mtx.Lock()
	m.closed = true
	m.mtx.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

// Collect queues labeled samples for persistence and later training.
func (m *manager) Collect(data ...model.Sample) error {
	m.mtx.RLock()
	if m.closed {
		m.mtx.RUnlock()
		return fmt.Errorf("error send to collect, shutting down")
	}
	m.mtx.RUnlock()
	for i := range data {
		m.collectCh <- data[i]
	}
	return nil
}

// Predict classifies a vector with the dataset's latest trained model.
func (m *manager) Predict(datasetID string, vec classifier.Vector) (*classifier.Prediction, error) {
	m.mtx.RLock()
	mdl, ok := m.models[datasetID]
	closed := m.closed
	m.mtx.RUnlock()

	if closed {
		return nil, fmt.Errorf("error to predict, shutting down")
	}
	if !ok {
		return nil, fmt.Errorf("dataset %s has no trained model yet", datasetID)
	}

	result, err := mdl.Predict(vec)
	if m.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		m.metrics.Predictions.WithLabelValues(datasetID, outcome).Inc()
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *manager) collector(ctx context.Context) {
	for {
		select {
		case sample := <-m.collectCh:
			m.bufMtx.Lock()
			m.buf = append(m.buf, sample)
			size := len(m.buf)
			m.bufMtx.Unlock()
			if m.metrics != nil {
				m.metrics.SamplesCollected.WithLabelValues(sample.DatasetID).Inc()
			}
			if size >= m.opts.dbFlushSize {
				m.flush(ctx)
			}
		case <-ctx.Done():
			m.flush(context.Background())
			return
		}
	}
}

func (m *manager) flusher(ctx context.Context) {
	ticker := time.NewTicker(m.opts.dbFlushTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.flush(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *manager) flush(ctx context.Context) {
	m.bufMtx.Lock()
	if len(m.buf) == 0 {
		m.bufMtx.Unlock()
		return
	}
	pending := m.buf
	m.buf = nil
	m.bufMtx.Unlock()

	if err := m.opts.deps.appendSamples(ctx, pending); err != nil {
		select {
		case m.shutDownCh <- fmt.Errorf("unable to flush %d samples: %w", len(pending), err):
		default:
		}
	}
}

func (m *manager) retrainer(ctx context.Context) {
	ticker := time.NewTicker(m.opts.retrainTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := m.bulkTrain(ctx); err != nil {
				logging.FromContext(ctx).Errorf("retrain pass failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// bulkTrain retrains every dataset that has enough stored samples.
func (m *manager) bulkTrain(ctx context.Context) error {
	keys, err := m.opts.deps.fetchKeys()
	if err != nil {
		return fmt.Errorf("error fetching dataset keys: %w", err)
	}

	for _, key := range keys {
		if err := m.trainDataset(ctx, key); err != nil {
			logging.FromContext(ctx).Errorf("unable to train dataset %s: %v", key, err)
			if m.metrics != nil {
				m.metrics.TrainingRuns.WithLabelValues(key, "error").Inc()
			}
		}
	}

	return nil
}

func (m *manager) trainDataset(ctx context.Context, datasetID string) error {
	logger := logging.FromContext(ctx)

	count, err := m.opts.deps.countByDataset(datasetID)
	if err != nil {
		return fmt.Errorf("unable to count samples: %w", err)
	}
	if count < m.opts.minSamples {
		logger.Debugf("dataset %s has %d samples, need %d, skipping", datasetID, count, m.opts.minSamples)
		return nil
	}

	stored, err := m.opts.deps.fetchSamples(datasetID, nil)
	if err != nil {
		return fmt.Errorf("unable to fetch samples: %w", err)
	}
	samples := make([]classifier.Sample, len(stored))
	for i := range stored {
		samples[i] = stored[i]
	}

	mdl, err := m.trainerProvideFn()
	if err != nil {
		return fmt.Errorf("can not create trainer instance: %w", err)
	}

	started := time.Now()
	epoch, err := mdl.Train(ctx, samples)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	logger.Infof("dataset %s trained on %d samples, convergence epoch %d", datasetID, len(samples), epoch)

	if m.metrics != nil {
		m.metrics.TrainingDuration.Observe(time.Since(started).Seconds())
		m.metrics.ConvergenceEpoch.WithLabelValues(datasetID).Set(float64(epoch))
		m.metrics.TrainingRuns.WithLabelValues(datasetID, "ok").Inc()
	}

	m.mtx.Lock()
	m.models[datasetID] = mdl
	m.mtx.Unlock()

	return nil
}
