// Package experiment loads the declarative description of a single CLI
// training run: where the data comes from, how the model is tuned and
// which artifacts to produce.
package experiment

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	SourceSynthetic = "synthetic"
	SourceCSV       = "csv"
)

type Dataset struct {
	Source   string `toml:"source"`
	CSV      string `toml:"csv"`
	Samples  int    `toml:"samples"`
	Features int    `toml:"features"`
	Seed     int64  `toml:"seed"`
}

type Model struct {
	LearningRate float64 `toml:"learning_rate"`
	Epochs       int     `toml:"epochs"`
	Seed         int64   `toml:"seed"`
	Verbose      bool    `toml:"verbose"`
}

type Output struct {
	Dir         string `toml:"dir"`
	Plots       bool   `toml:"plots"`
	MarginBound bool   `toml:"margin_bound"`
}

type Experiment struct {
	Name    string  `toml:"name"`
	Dataset Dataset `toml:"dataset"`
	Model   Model   `toml:"model"`
	Output  Output  `toml:"output"`
}

// Load decodes and validates the experiment file at path. Fields absent from
// the file keep their defaults.
func Load(path string) (*Experiment, error) {
	exp := Experiment{
		Name: "experiment",
		Dataset: Dataset{
			Source:   SourceSynthetic,
			Samples:  50,
			Features: 2,
			Seed:     1,
		},
		Model: Model{
			LearningRate: 0.01,
			Epochs:       100,
			Seed:         1,
		},
		Output: Output{
			Dir:   "out",
			Plots: true,
		},
	}
	if _, err := toml.DecodeFile(path, &exp); err != nil {
		return nil, fmt.Errorf("unable to decode experiment %s: %w", path, err)
	}
	if err := exp.validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment %s: %w", path, err)
	}
	return &exp, nil
}

func (e *Experiment) validate() error {
	switch e.Dataset.Source {
	case SourceCSV:
		if e.Dataset.CSV == "" {
			return fmt.Errorf("dataset.csv must name a file for the csv source")
		}
	case SourceSynthetic:
		if e.Dataset.Samples < 1 {
			return fmt.Errorf("dataset.samples must be positive, got %d", e.Dataset.Samples)
		}
		if e.Dataset.Features < 1 {
			return fmt.Errorf("dataset.features must be positive, got %d", e.Dataset.Features)
		}
	default:
		return fmt.Errorf("unknown dataset source %q", e.Dataset.Source)
	}
	if e.Model.LearningRate <= 0 {
		return fmt.Errorf("model.learning_rate must be positive, got %v", e.Model.LearningRate)
	}
	if e.Model.Epochs < 1 {
		return fmt.Errorf("model.epochs must be positive, got %d", e.Model.Epochs)
	}
	if e.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}
	return nil
}
