package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"

	"percept/internal/database"
	"percept/internal/sample/model"
)

const (
	datasetKeys = "dataset:keys:"
	prefix      = "sample:"
)

// FilterFn narrows a fetch to the samples it returns true for; nil keeps
// everything.
type FilterFn func(sample model.Sample) bool

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

type DB struct {
	sDB *database.DB
}

func (db *DB) extractKey(key string) string {
	prefixPos := strings.Index(key, prefix)

	return key[prefixPos+len(prefix):]
}

// Keys returns the IDs of every dataset the store has seen.
func (db *DB) Keys() ([]string, error) {
	var bucketKeys []string
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(datasetKeys))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			bucketKeys = append(bucketKeys, db.extractKey(string(k)))
		}
		return nil
	})

	return bucketKeys, err
}

func (db *DB) Store(_ context.Context, sample model.Sample) error {
	var b *bolt.Bucket
	bytes, err := json.Marshal(sample)
	if err != nil {
		return err
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b = tx.Bucket([]byte(prefix + sample.DatasetID))
		if b == nil {
			b, err = tx.CreateBucket([]byte(prefix + sample.DatasetID))
			if err != nil {
				return fmt.Errorf("create bucket: %w", err)
			}
		}
		if err := b.Put([]byte(sample.ID.String()), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		b = tx.Bucket([]byte(datasetKeys))
		if b == nil {
			b, err = tx.CreateBucket([]byte(datasetKeys))
			if err != nil {
				return fmt.Errorf("unable create datasets bucket: %w", err)
			}
		}
		if err := b.Put([]byte(prefix+sample.DatasetID), []byte{0x0}); err != nil {
			return fmt.Errorf("unable put to datasets bucket: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

func (db *DB) AppendMany(_ context.Context, samples []model.Sample) error {
	var b *bolt.Bucket
	if err := db.sDB.DB.Batch(func(tx *bolt.Tx) error {
		for _, sample := range samples {
			b = tx.Bucket([]byte(prefix + sample.DatasetID))
			if b == nil {
				datasetBucket, err := tx.CreateBucket([]byte(prefix + sample.DatasetID))
				if err != nil {
					return fmt.Errorf("create bucket: %w", err)
				}
				b = datasetBucket
			}
			bytes, err := json.Marshal(sample)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(sample.ID.String()), bytes); err != nil {
				return fmt.Errorf("put to bucket error: %w", err)
			}
			keysBucket := tx.Bucket([]byte(datasetKeys))
			if keysBucket == nil {
				created, err := tx.CreateBucket([]byte(datasetKeys))
				if err != nil {
					return fmt.Errorf("unable create datasets bucket: %w", err)
				}
				keysBucket = created
			}
			if err := keysBucket.Put([]byte(prefix+sample.DatasetID), []byte{0x0}); err != nil {
				return fmt.Errorf("unable put to datasets bucket: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}

// FindByDataset returns the stored samples of one dataset, optionally
// narrowed by the filter.
func (db *DB) FindByDataset(datasetID string, filter FilterFn) ([]model.Sample, error) {
	var samples []model.Sample
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + datasetID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var sample model.Sample
			if err := json.Unmarshal(v, &sample); err != nil {
				return fmt.Errorf("unable unmarshal sample: %w", err)
			}
			if filter == nil || filter(sample) {
				samples = append(samples, sample)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}

	return samples, nil
}

func (db *DB) CountByDataset(datasetID string) (int, error) {
	var count int
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(prefix + datasetID))
		if b == nil {
			return nil
		}
		count = b.Stats().KeyN
		return nil
	})

	return count, err
}

func (db *DB) DeleteMany(_ context.Context, samples []model.Sample) error {
	var b *bolt.Bucket
	if err := db.sDB.DB.Batch(func(tx *bolt.Tx) error {
		for _, sample := range samples {
			b = tx.Bucket([]byte(prefix + sample.DatasetID))
			if b == nil {
				continue
			}
			if err := b.Delete([]byte(sample.ID.String())); err != nil {
				return fmt.Errorf("unable delete: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}

	return nil
}
