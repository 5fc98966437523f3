// Package chart draws the capital curve of closed months.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there is no closed month to draw.
var ErrNoData = errors.New("no closed month to draw")

// Options holds the chart layout.
type Options struct {
	Title         string
	Width, Height vg.Length
}

// DefaultOptions is a wide chart suitable for reports.
var DefaultOptions = Options{Title: "Capital", Width: 8 * vg.Inch, Height: 4 * vg.Inch}

// offset is the number of months from first to m.
func offset(first, m date.Month) int {
	return (m.Year()-first.Year())*12 + int(m.Month()-first.Month())
}

// New plots the capital base and the ending capital of each closed month. X
// values are months since the first close, so gaps in the history show.
func New(s capital.Summaries, opts Options) (*plot.Plot, error) {
	if len(s) == 0 {
		return nil, ErrNoData
	}
	base := make(plotter.XYs, len(s))
	ending := make(plotter.XYs, len(s))
	ticks := make([]plot.Tick, len(s))
	for i, sum := range s {
		x := float64(offset(s[0].Month, sum.Month))
		base[i].X, base[i].Y = x, sum.CapitalBase.Decimal().InexactFloat64()
		ending[i].X, ending[i].Y = x, sum.EndingCapital().Decimal().InexactFloat64()
		ticks[i] = plot.Tick{Value: x, Label: sum.Month.String()}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Month"
	p.Y.Label.Text = fmt.Sprintf("Capital (%s)", s[0].CapitalBase.Currency())
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Add(plotter.NewGrid())

	endingLine, points, err := plotter.NewLinePoints(ending)
	if err != nil {
		return nil, fmt.Errorf("cannot draw ending capital: %w", err)
	}
	endingLine.Color = color.RGBA{R: 0, G: 128, B: 255, A: 255}
	endingLine.Width = vg.Points(2)
	points.GlyphStyle.Color = endingLine.Color

	baseLine, err := plotter.NewLine(base)
	if err != nil {
		return nil, fmt.Errorf("cannot draw capital base: %w", err)
	}
	baseLine.Color = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	baseLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(baseLine, endingLine, points)
	p.Legend.Add("ending capital", endingLine)
	p.Legend.Add("capital base", baseLine)
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// Write draws the chart as PNG into w.
func Write(w io.Writer, s capital.Summaries, opts Options) error {
	p, err := New(s, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return fmt.Errorf("cannot render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write chart: %w", err)
	}
	return nil
}

// Save draws the chart as PNG into the file at path.
func Save(path string, s capital.Summaries, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
