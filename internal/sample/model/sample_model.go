package model

import (
	"time"

	"github.com/google/uuid"

	"percept/internal/classifier"
	"percept/internal/geom"
)

var _ classifier.DataPoint = (*Sample)(nil)

// Sample is a labeled observation collected for a dataset. Label is
// expected to be -1 or +1 by the classifiers downstream.
type Sample struct {
	ID        uuid.UUID  `json:"id"`
	DatasetID string     `json:"datasetId"`
	Vec       geom.Point `json:"vector"`
	Class     float64    `json:"label"`
	CreatedAt time.Time  `json:"createdAt"`
}

func NewSample(datasetID string, vec geom.Point, label float64, createdAt time.Time) Sample {
	return Sample{
		ID:        uuid.New(),
		DatasetID: datasetID,
		Vec:       vec,
		Class:     label,
		CreatedAt: createdAt,
	}
}

func (s Sample) Vector() classifier.Vector {
	return s.Vec
}

func (s Sample) Label() float64 {
	return s.Class
}

func (s Sample) Time() time.Time {
	return s.CreatedAt
}
