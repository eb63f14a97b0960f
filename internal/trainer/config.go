package trainer

import "time"

type Config struct {
	MinSamples  int           `envconfig:"PERCEPT_TRAINER_MIN_SAMPLES" default:"10"`
	RetrainTime time.Duration `envconfig:"PERCEPT_TRAINER_RETRAIN_TIME" default:"60s"`
	DBFlushTime time.Duration `envconfig:"PERCEPT_TRAINER_DB_FLUSH_TIME" default:"5s"`
	DBFlushSize int           `envconfig:"PERCEPT_TRAINER_DB_FLUSH_SIZE" default:"100"`
}
