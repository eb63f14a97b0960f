package trainer

import (
	"context"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"percept/internal/classifier"
	"percept/internal/classifier/perceptron"
	db "percept/internal/database"
	"percept/internal/dataset"
	"percept/internal/geom"
	sampleDb "percept/internal/sample/database"
	"percept/internal/sample/model"
)

func newTestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "percept-trainer")
	if err != nil {
		t.Fatal(err)
	}
	conn, err := db.NewFromEnv(context.Background(), &db.Config{
		FileName: filepath.Join(dir, "test.db"),
	})
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	return conn, func() {
		_ = conn.Close(context.Background())
		os.RemoveAll(dir)
	}
}

func provideTestTrainer(features int, seed int64) classifier.ProvideFn {
	return func() (classifier.Trainer, error) {
		return perceptron.New(features,
			perceptron.WithRand(rand.New(rand.NewSource(seed))),
			perceptron.WithLearningRate(0.1),
			perceptron.WithEpochs(200),
		)
	}
}

// seedSamples stores n separable rows, skipping generated points that sit
// closer than 0.3 to the labeling hyperplane so training always converges
// within the test's epoch budget.
func seedSamples(t *testing.T, conn *db.DB, datasetID string, n int) []model.Sample {
	t.Helper()
	rnd := rand.New(rand.NewSource(4))
	now := time.Now().UTC()
	var samples []model.Sample
	for len(samples) < n {
		set := dataset.LinearSeparable(n, 2, rnd)
		for i := range set.X {
			score, err := set.X[i].Dot(set.Separator)
			if err != nil {
				t.Fatal(err)
			}
			if score > -0.3 && score < 0.3 {
				continue
			}
			samples = append(samples, model.NewSample(datasetID, set.X[i], set.Y[i], now))
			if len(samples) == n {
				break
			}
		}
	}
	if err := sampleDb.New(conn).AppendMany(context.Background(), samples); err != nil {
		t.Fatal(err)
	}
	return samples
}

func TestManager_TrainAndPredict(t *testing.T) {
	conn, done := newTestDB(t)
	defer done()
	seeded := seedSamples(t, conn, "fires", 40)

	shutdownCh := make(chan error, 1)
	m, err := New(conn, provideTestTrainer(2, 1), shutdownCh, WithMinSamples(10))
	if err != nil {
		t.Fatal(err)
	}

	if err := m.bulkTrain(context.Background()); err != nil {
		t.Fatal(err)
	}

	for i, sample := range seeded {
		result, err := m.Predict("fires", sample.Vec)
		if err != nil {
			t.Fatal(err)
		}
		if result.Label != sample.Class {
			t.Errorf("the prediction of sample %d got: %v, expected: %v", i, result.Label, sample.Class)
		}
	}
}

func TestManager_PredictUntrainedDataset(t *testing.T) {
	conn, done := newTestDB(t)
	defer done()

	shutdownCh := make(chan error, 1)
	m, err := New(conn, provideTestTrainer(2, 1), shutdownCh)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Predict("missing", geom.Point{1, 1}); err == nil {
		t.Error("expected an error for a dataset without a trained model")
	}
}

func TestManager_SkipsSmallDatasets(t *testing.T) {
	conn, done := newTestDB(t)
	defer done()
	seedSamples(t, conn, "tiny", 3)

	shutdownCh := make(chan error, 1)
	m, err := New(conn, provideTestTrainer(2, 1), shutdownCh, WithMinSamples(10))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.bulkTrain(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Predict("tiny", geom.Point{1, 1}); err == nil {
		t.Error("expected no model for a dataset below the sample threshold")
	}
}

func TestManager_CollectFlushesToStore(t *testing.T) {
	conn, done := newTestDB(t)
	defer done()

	shutdownCh := make(chan error, 1)
	m, err := New(conn, provideTestTrainer(2, 1), shutdownCh,
		WithDBFlushSize(2),
		WithDBFlushTime(time.Hour),
		WithRetrainTime(time.Hour),
	)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.collector(ctx)

	now := time.Now().UTC()
	if err := m.Collect(
		model.NewSample("fires", geom.Point{1, 1}, 1, now),
		model.NewSample("fires", geom.Point{-1, -1}, -1, now),
	); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		count, err := sampleDb.New(conn).CountByDataset("fires")
		if err != nil {
			t.Fatal(err)
		}
		if count == 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("calling the collect method, the stored count got: %v, expected: %v", count, 2)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestManager_CollectAfterStop(t *testing.T) {
	conn, done := newTestDB(t)
	defer done()

	shutdownCh := make(chan error, 1)
	m, err := New(conn, provideTestTrainer(2, 1), shutdownCh)
	if err != nil {
		t.Fatal(err)
	}
	m.Stop()

	if err := m.Collect(model.NewSample("fires", geom.Point{1, 1}, 1, time.Now().UTC())); err == nil {
		t.Error("expected an error collecting after shutdown")
	}
}
