package srvenv

import (
	"context"

	"percept/internal/classifier"
	"percept/internal/database"
	"percept/internal/observability"
	"percept/internal/trainer"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

type SrvEnv struct {
	database *database.DB
	model    classifier.ProvideFn
	trainer  trainer.ProvideFn
	metrics  *observability.Metrics
}

func (s *SrvEnv) ProvideTrainer() trainer.ProvideFn {
	return s.trainer
}

func (s *SrvEnv) ProvideModel() classifier.ProvideFn {
	return s.model
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

func (s *SrvEnv) Metrics() *observability.Metrics {
	return s.metrics
}

func WithTrainer(fn trainer.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.trainer = fn
		return s
	}
}

func WithModel(fn classifier.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.model = fn
		return s
	}
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.metrics = m
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.database != nil {
		return s.database.Close(ctx)
	}
	return nil
}
