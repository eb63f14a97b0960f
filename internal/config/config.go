package percept

import (
	"percept/internal/classifier/perceptron"
	"percept/internal/collect"
	"percept/internal/database"
	"percept/internal/predict"
	"percept/internal/setup"
	"percept/internal/trainer"
)

var (
	_ setup.DatabaseConfigProvider = (*Config)(nil)
	_ setup.ModelConfigProvider    = (*Config)(nil)
	_ setup.TrainerConfigProvider  = (*Config)(nil)
)

type Config struct {
	SrvAddr  string `envconfig:"PERCEPT_ADDR" default:":8787"`
	Trainer  trainer.Config
	Collect  collect.Config
	Predict  predict.Config
	Database database.Config
	Model    perceptron.Config
}

func (c Config) TrainerConfig() *trainer.Config {
	return &c.Trainer
}

func (c Config) CollectConfig() *collect.Config {
	return &c.Collect
}

func (c Config) PredictConfig() *predict.Config {
	return &c.Predict
}

func (c Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c Config) ModelConfig() *perceptron.Config {
	return &c.Model
}
