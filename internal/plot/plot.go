// Package plot renders recorded training output as PNG charts. It is a
// presentation layer only: every number it draws was already computed by
// the trainer.
package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"percept/internal/classifier"
	"percept/internal/geom"
)

const (
	// decision boundary window and resolution
	gridMin  = -1.5
	gridMax  = 1.5
	gridStep = 0.01
)

// ErrorHistory draws the per-epoch mistake counts.
func ErrorHistory(history []int, path string) error {
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("unable to create plot: %w", err)
	}
	p.Title.Text = "Errors per epoch"
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Errors"

	xys := make(plotter.XYs, len(history))
	for i := range history {
		xys[i].X = float64(i)
		xys[i].Y = float64(history[i])
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("unable to create line: %w", err)
	}
	p.Add(plotter.NewGrid(), line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("unable to save plot %s: %w", path, err)
	}
	return nil
}

// AccuracyHistory draws the per-epoch accuracy.
func AccuracyHistory(history []float64, path string) error {
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("unable to create plot: %w", err)
	}
	p.Title.Text = "Accuracy per epoch"
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Accuracy"
	p.Y.Min, p.Y.Max = 0, 1

	xys := make(plotter.XYs, len(history))
	for i := range history {
		xys[i].X = float64(i)
		xys[i].Y = history[i]
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("unable to create line: %w", err)
	}
	p.Add(plotter.NewGrid(), line)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("unable to save plot %s: %w", path, err)
	}
	return nil
}

// labelGrid classifies every node of the fixed window and serves the result
// as a heat map grid.
type labelGrid struct {
	z []float64
	n int
}

func (g labelGrid) Dims() (int, int) { return g.n, g.n }

func (g labelGrid) Z(c, r int) float64 { return g.z[r*g.n+c] }

func (g labelGrid) X(c int) float64 { return gridMin + float64(c)*gridStep }

func (g labelGrid) Y(r int) float64 { return gridMin + float64(r)*gridStep }

// DecisionBoundary draws the model's predicted label over the [-1.5,1.5]²
// window with the training points scattered on top. Only defined for
// two-feature models.
func DecisionBoundary(model classifier.Classifier, samples []classifier.Sample, path string) error {
	if len(samples) == 0 {
		return fmt.Errorf("no training samples to visualize")
	}
	if samples[0].Vector().Dimensions() != 2 {
		return fmt.Errorf("decision boundary is only drawn for 2 features, got %d",
			samples[0].Vector().Dimensions())
	}

	n := int((gridMax-gridMin)/gridStep) + 1
	grid := labelGrid{z: make([]float64, n*n), n: n}
	vec := make(geom.Point, 2)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			vec[0] = grid.X(c)
			vec[1] = grid.Y(r)
			result, err := model.Predict(vec)
			if err != nil {
				return fmt.Errorf("unable to classify grid node: %w", err)
			}
			grid.z[r*n+c] = result.Label
		}
	}

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("unable to create plot: %w", err)
	}
	p.Title.Text = "Decision boundary"
	p.X.Label.Text = "Feature 1"
	p.Y.Label.Text = "Feature 2"

	heatMap := plotter.NewHeatMap(grid, moreland.SmoothBlueRed().Palette(2))
	p.Add(heatMap)

	var positive, negative plotter.XYs
	for _, s := range samples {
		xy := plotter.XY{X: s.Vector().Dim(0), Y: s.Vector().Dim(1)}
		if s.Label() >= 0 {
			positive = append(positive, xy)
		} else {
			negative = append(negative, xy)
		}
	}
	for _, class := range []plotter.XYs{positive, negative} {
		if len(class) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(class)
		if err != nil {
			return fmt.Errorf("unable to create scatter: %w", err)
		}
		p.Add(scatter)
	}

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("unable to save plot %s: %w", path, err)
	}
	return nil
}
