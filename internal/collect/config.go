package collect

import (
	"time"
)

type Config struct {
	RequestTimeout time.Duration `envconfig:"PERCEPT_COLLECT_REQUEST_TIMEOUT" default:"60s"`
}
