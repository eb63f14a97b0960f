package database

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	db "percept/internal/database"
	"percept/internal/geom"
	"percept/internal/sample/model"
)

func newTestDB(t *testing.T) (*DB, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "percept-db")
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
	return New(conn), func() {
		_ = conn.Close(context.Background())
		os.RemoveAll(dir)
	}
}

func TestDB_StoreAndFindByDataset(t *testing.T) {
	sampleDB, done := newTestDB(t)
	defer done()

	ctx := context.Background()
	stored := model.NewSample("fires-2025", geom.Point{0.5, -0.5}, 1, time.Now().UTC())
	if err := sampleDB.Store(ctx, stored); err != nil {
		t.Fatal(err)
	}

	samples, err := sampleDB.FindByDataset("fires-2025", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Fatalf("the samples length got: %v, expected: %v", len(samples), 1)
	}
	if samples[0].ID != stored.ID {
		t.Errorf("the sample id got: %v, expected: %v", samples[0].ID, stored.ID)
	}
	if !samples[0].Vec.Equal(stored.Vec) {
		t.Errorf("the sample vector got: %v, expected: %v", samples[0].Vec, stored.Vec)
	}
	if samples[0].Class != 1 {
		t.Errorf("the sample label got: %v, expected: %v", samples[0].Class, 1)
	}
}

func TestDB_AppendManyAndCount(t *testing.T) {
	sampleDB, done := newTestDB(t)
	defer done()

	ctx := context.Background()
	now := time.Now().UTC()
	samples := []model.Sample{
		model.NewSample("a", geom.Point{1, 1}, 1, now),
		model.NewSample("a", geom.Point{-1, -1}, -1, now),
		model.NewSample("b", geom.Point{0, 1}, 1, now),
	}
	if err := sampleDB.AppendMany(ctx, samples); err != nil {
		t.Fatal(err)
	}

	count, err := sampleDB.CountByDataset("a")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("the count got: %v, expected: %v", count, 2)
	}

	keys, err := sampleDB.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Errorf("the keys length got: %v, expected: %v", len(keys), 2)
	}
}

func TestDB_FindByDatasetFilter(t *testing.T) {
	sampleDB, done := newTestDB(t)
	defer done()

	ctx := context.Background()
	now := time.Now().UTC()
	if err := sampleDB.AppendMany(ctx, []model.Sample{
		model.NewSample("a", geom.Point{1, 1}, 1, now),
		model.NewSample("a", geom.Point{-1, -1}, -1, now),
	}); err != nil {
		t.Fatal(err)
	}

	positives, err := sampleDB.FindByDataset("a", func(s model.Sample) bool {
		return s.Class > 0
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(positives) != 1 {
		t.Errorf("the filtered length got: %v, expected: %v", len(positives), 1)
	}
}

func TestDB_DeleteMany(t *testing.T) {
	sampleDB, done := newTestDB(t)
	defer done()

	ctx := context.Background()
	now := time.Now().UTC()
	samples := []model.Sample{
		model.NewSample("a", geom.Point{1, 1}, 1, now),
		model.NewSample("a", geom.Point{-1, -1}, -1, now),
	}
	if err := sampleDB.AppendMany(ctx, samples); err != nil {
		t.Fatal(err)
	}
	if err := sampleDB.DeleteMany(ctx, samples[:1]); err != nil {
		t.Fatal(err)
	}

	count, err := sampleDB.CountByDataset("a")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("the count got: %v, expected: %v", count, 1)
	}
}

func TestDB_FindByDatasetMissing(t *testing.T) {
	sampleDB, done := newTestDB(t)
	defer done()

	samples, err := sampleDB.FindByDataset("missing", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 0 {
		t.Errorf("the samples length got: %v, expected: %v", len(samples), 0)
	}
}
