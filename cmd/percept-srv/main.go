package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"percept/internal/buildinfo"
	"percept/internal/collect"
	percept "percept/internal/config"
	"percept/internal/logging"
	"percept/internal/predict"
	"percept/internal/server"
	"percept/internal/setup"
	"percept/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	if err := run(ctx, done); err != nil {
		logger.Fatal(err)
	}

	defer done()
}

func run(ctx context.Context, cancel func()) error {
	config := percept.Config{}
	env, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer env.Close(context.Background())

	shutdownCh := make(chan error, 2)
	mgr, err := env.ProvideTrainer()(shutdownCh)
	if err != nil {
		return fmt.Errorf("trainer provider function error: %w", err)
	}
	if err := mgr.Run(ctx); err != nil {
		return fmt.Errorf("trainer.Run: %w", err)
	}
	defer mgr.Stop()

	srv, err := server.New(config.SrvAddr)
	if err != nil {
		return fmt.Errorf("sever.New: %w", err)
	}

	mux := http.NewServeMux()

	predictHandler, err := predict.NewHandler(&config.Predict, mgr)
	if err != nil {
		return fmt.Errorf("predict.NewHandler: %w", err)
	}
	collectHandler, err := collect.NewHandler(&config.Collect, mgr)
	if err != nil {
		return fmt.Errorf("collect.NewHandler: %w", err)
	}

	mux.Handle("/predict", predictHandler)
	mux.Handle("/collect", collectHandler)
	mux.Handle("/health", server.HandleHealth(ctx))
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := srv.ServeHTTPHandler(ctx, mux); err != nil {
			cancel()
		}
	}()

	go func() {
		if err := http.ListenAndServe("0.0.0.0:8080", nil); err != nil {
			cancel()
		}
	}()

	select {
	case err := <-shutdownCh:
		return err
	case <-ctx.Done():
		return nil
	}
}
