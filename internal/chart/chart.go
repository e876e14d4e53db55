// Package chart renders the dataset, the fitted line and the training cost
// curve as images.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/haskel/pricefit/internal/regression"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("chart: no data")

var (
	pointColor = color.RGBA{R: 220, A: 255}
	lineColor  = color.RGBA{G: 160, A: 255}
	costColor  = color.RGBA{B: 200, A: 255}
)

// Options controls the rendered image.
type Options struct {
	// DataOnly draws the observations without the fitted line.
	DataOnly bool
	// Width and Height are in inches.
	Width  float64
	Height float64
	// Format is the image format (png, svg, pdf...) used by WriteTo.
	// Empty means png. Save ignores it and follows the file extension.
	Format string
}

// DefaultOptions returns a 6.4x4.8 inch png without DataOnly.
func DefaultOptions() Options {
	return Options{Width: 6.4, Height: 4.8, Format: "png"}
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 6.4
	}
	if h <= 0 {
		h = 4.8
	}
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

func (o Options) format() string {
	if o.Format == "" {
		return "png"
	}
	return o.Format
}

// Regression builds the scatter plot of data with the line of params
// drawn across the observed mileage range.
func Regression(data []regression.Observation, params regression.Parameters, opts Options) (*plot.Plot, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Mileage-price linear regression"
	p.X.Label.Text = "Mileage (km)"
	p.Y.Label.Text = "Price"
	p.Add(plotter.NewGrid())

	points := make(plotter.XYs, len(data))
	for i, o := range data {
		points[i].X = o.Mileage
		points[i].Y = o.Price
	}

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.CrossGlyph{}
	scatter.GlyphStyle.Color = pointColor
	scatter.GlyphStyle.Radius = vg.Points(4)
	p.Add(scatter)
	p.Legend.Add("observations", scatter)

	if !opts.DataOnly {
		minX, maxX := mileageRange(data)
		fit, err := plotter.NewLine(plotter.XYs{
			{X: minX, Y: params.Predict(minX)},
			{X: maxX, Y: params.Predict(maxX)},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build line: %w", err)
		}
		fit.LineStyle.Color = lineColor
		fit.LineStyle.Width = vg.Points(2)
		p.Add(fit)
		p.Legend.Add(fmt.Sprintf("price = %.2f %+.6f * km", params.Theta0, params.Theta1), fit)
	}

	p.Legend.Top = true
	return p, nil
}

// CostCurve builds the line of cost per iteration.
func CostCurve(history []float64) (*plot.Plot, error) {
	if len(history) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Training cost"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Cost"
	p.Add(plotter.NewGrid())

	points := make(plotter.XYs, len(history))
	for i, c := range history {
		points[i].X = float64(i + 1)
		points[i].Y = c
	}

	curve, err := plotter.NewLine(points)
	if err != nil {
		return nil, fmt.Errorf("failed to build cost curve: %w", err)
	}
	curve.LineStyle.Color = costColor
	p.Add(curve)

	return p, nil
}

// WriteTo renders p into w.
func WriteTo(w io.Writer, p *plot.Plot, opts Options) error {
	width, height := opts.size()

	wt, err := p.WriterTo(width, height, opts.format())
	if err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// Save renders p to path. The format comes from the file extension, not
// from opts.Format.
func Save(path string, p *plot.Plot, opts Options) error {
	width, height := opts.size()

	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		return fmt.Errorf("chart: %s has no file extension", path)
	}

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

func mileageRange(data []regression.Observation) (lo, hi float64) {
	lo, hi = data[0].Mileage, data[0].Mileage
	for _, o := range data[1:] {
		if o.Mileage < lo {
			lo = o.Mileage
		}
		if o.Mileage > hi {
			hi = o.Mileage
		}
	}
	return lo, hi
}
