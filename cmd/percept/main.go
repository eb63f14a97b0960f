package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"percept/internal/buildinfo"
	"percept/internal/classifier/perceptron"
	"percept/internal/dataset"
	"percept/internal/experiment"
	"percept/internal/logging"
	"percept/internal/plot"
	"percept/internal/report"
	"percept/internal/shutdown"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)

	path := flag.String("experiment", "experiment.toml", "path to the experiment file")
	flag.Parse()

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	if err := run(ctx, *path); err != nil {
		logger.Fatal(err)
	}

	defer done()
}

func run(ctx context.Context, path string) error {
	logger := logging.FromContext(ctx)

	exp, err := experiment.Load(path)
	if err != nil {
		return fmt.Errorf("experiment.Load: %w", err)
	}
	logger.Infof("running experiment %s", exp.Name)

	set, err := buildDataset(exp)
	if err != nil {
		return fmt.Errorf("unable to build dataset: %w", err)
	}
	logger.Infof("dataset ready, %d samples with %d features", set.Len(), set.Features())

	opts := []perceptron.Option{
		perceptron.WithLearningRate(exp.Model.LearningRate),
		perceptron.WithEpochs(exp.Model.Epochs),
		perceptron.WithVerbose(exp.Model.Verbose),
	}
	if exp.Model.Seed != 0 {
		opts = append(opts, perceptron.WithRand(rand.New(rand.NewSource(exp.Model.Seed))))
	}
	model, err := perceptron.New(set.Features(), opts...)
	if err != nil {
		return fmt.Errorf("perceptron.New: %w", err)
	}

	epoch, err := model.Train(ctx, set.Samples())
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	summary := report.Summary{
		ConvergenceEpoch: epoch,
		SampleCount:      set.Len(),
		ErrorHistory:     model.ErrorHistory(),
		AccuracyHistory:  model.AccuracyHistory(),
		Weights:          model.Weights(),
		Bias:             model.Bias(),
	}
	if err := report.Write(os.Stdout, summary); err != nil {
		return err
	}

	if exp.Output.MarginBound {
		if err := writeMarginBound(set, model); err != nil {
			return err
		}
	}

	if exp.Output.Plots {
		if err := writePlots(exp.Output.Dir, model, set); err != nil {
			return err
		}
		logger.Infof("plots written to %s", exp.Output.Dir)
	}

	return nil
}

func buildDataset(exp *experiment.Experiment) (*dataset.Set, error) {
	if exp.Dataset.Source == experiment.SourceCSV {
		return dataset.LoadCSV(exp.Dataset.CSV)
	}
	rnd := rand.New(rand.NewSource(exp.Dataset.Seed))
	return dataset.LinearSeparable(exp.Dataset.Samples, exp.Dataset.Features, rnd), nil
}

// writeMarginBound prints the Novikoff mistake bound next to the number of
// updates the run actually made. The generating hyperplane is used as the
// reference separator when the set carries one, the trained weights
// otherwise.
func writeMarginBound(set *dataset.Set, model *perceptron.Perceptron) error {
	separator := set.Separator
	if separator == nil {
		separator = model.Weights()
	}
	var steps float64
	for _, n := range model.ErrorHistory() {
		steps += float64(n)
	}
	b, err := perceptron.EvaluateMarginBound(set.Samples(), separator, steps)
	if err != nil {
		return fmt.Errorf("unable to evaluate margin bound: %w", err)
	}
	_, err = fmt.Fprintf(os.Stdout,
		"\nMistake bound: %.1f (radius %.4f, margin %.4f)\nUpdates made: %.0f, within bound: %v\n",
		b.Bound, b.Radius, b.Margin, b.Steps, b.Within,
	)
	return err
}

func writePlots(dir string, model *perceptron.Perceptron, set *dataset.Set) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create output dir %s: %w", dir, err)
	}
	if err := plot.ErrorHistory(model.ErrorHistory(), filepath.Join(dir, "errors.png")); err != nil {
		return err
	}
	if err := plot.AccuracyHistory(model.AccuracyHistory(), filepath.Join(dir, "accuracy.png")); err != nil {
		return err
	}
	if set.Features() == 2 {
		if err := plot.DecisionBoundary(model, set.Samples(), filepath.Join(dir, "boundary.png")); err != nil {
			return err
		}
	}
	return nil
}
