package setup

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/kelseyhightower/envconfig"

	"percept/internal/classifier"
	"percept/internal/classifier/perceptron"
	"percept/internal/database"
	"percept/internal/logging"
	"percept/internal/observability"
	"percept/internal/srvenv"
	"percept/internal/trainer"
)

type ModelConfigProvider interface {
	ModelConfig() *perceptron.Config
}

type TrainerConfigProvider interface {
	TrainerConfig() *trainer.Config
}

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

// Setup reads the environment into config and wires the server environment
// from whichever config sections the passed struct provides.
func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	metrics := observability.NewMetrics()
	serverEnvOpts = append(serverEnvOpts, srvenv.WithMetrics(metrics))

	var (
		db             *database.DB
		modelProvideFn classifier.ProvideFn
	)
	if dbConfigProvider, ok := config.(DatabaseConfigProvider); ok {
		logger.Info("Configuring db")
		dbFromEnv, err := database.NewFromEnv(ctx, dbConfigProvider.DatabaseConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %v", err)
		}
		db = dbFromEnv
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(db))
	}

	if modelConfigProvider, ok := config.(ModelConfigProvider); ok {
		logger.Info("Configuring model")
		provideFn, err := ProvideModelFor(modelConfigProvider)
		if err != nil {
			return nil, fmt.Errorf("unable create model provide function: %v", err)
		}
		modelProvideFn = provideFn
		serverEnvOpts = append(serverEnvOpts, srvenv.WithModel(modelProvideFn))
	}

	if trainerConfigProvider, ok := config.(TrainerConfigProvider); ok {
		logger.Info("Configuring trainer")
		provideFn, err := ProvideTrainerFor(trainerConfigProvider, modelProvideFn, db, metrics)
		if err != nil {
			return nil, fmt.Errorf("unable create trainer provide function: %v", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithTrainer(provideFn))
	}

	return srvenv.New(serverEnvOpts...), nil
}

// ProvideModelFor builds the factory handing out a fresh untrained model per
// training run.
func ProvideModelFor(provider ModelConfigProvider) (classifier.ProvideFn, error) {
	cfg := provider.ModelConfig()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("dont process model env: %w", err)
	}
	return func() (classifier.Trainer, error) {
		opts := []perceptron.Option{
			perceptron.WithLearningRate(cfg.LearningRate),
			perceptron.WithEpochs(cfg.Epochs),
		}
		if cfg.Seed != 0 {
			opts = append(opts, perceptron.WithRand(rand.New(rand.NewSource(cfg.Seed))))
		}
		return perceptron.New(cfg.Features, opts...)
	}, nil
}

func ProvideTrainerFor(
	provider TrainerConfigProvider,
	provideModelFn classifier.ProvideFn,
	db *database.DB,
	metrics *observability.Metrics,
) (trainer.ProvideFn, error) {
	cfg := provider.TrainerConfig()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("dont process trainer env: %w", err)
	}
	return func(shutdownCh chan<- error) (trainer.Manager, error) {
		return trainer.New(
			db,
			provideModelFn,
			shutdownCh,
			trainer.WithMinSamples(cfg.MinSamples),
			trainer.WithRetrainTime(cfg.RetrainTime),
			trainer.WithDBFlushTime(cfg.DBFlushTime),
			trainer.WithDBFlushSize(cfg.DBFlushSize),
			trainer.WithMetrics(metrics),
		)
	}, nil
}
