// Package charts renders the run history as a grouped bar chart.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/aristath/sdnwatch/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmptyHistory is returned when there is nothing to draw
var ErrEmptyHistory = errors.New("no history to chart")

var (
	addedColor   = color.RGBA{R: 46, G: 160, B: 67, A: 255}
	removedColor = color.RGBA{R: 207, G: 34, B: 46, A: 255}
)

// Renderer draws additions and deletions per run as a PNG
type Renderer struct {
	width  vg.Length
	height vg.Length
	title  string
}

// NewRenderer creates a renderer with the default 8x4 inch canvas
func NewRenderer() *Renderer {
	return &Renderer{
		width:  8 * vg.Inch,
		height: 4 * vg.Inch,
		title:  "SDN list changes per run",
	}
}

// Render draws log, oldest run on the left
func (r *Renderer) Render(log domain.HistoryLog) ([]byte, error) {
	if len(log) == 0 {
		return nil, ErrEmptyHistory
	}

	additions := make(plotter.Values, len(log))
	deletions := make(plotter.Values, len(log))
	labels := make([]string, len(log))
	for i, entry := range log {
		additions[i] = float64(entry.AdditionsCount)
		deletions[i] = float64(entry.DeletionsCount)
		labels[i] = entry.Timestamp.UTC().Format("Jan 02 15:04")
	}

	p := plot.New()
	p.Title.Text = r.title
	p.Y.Label.Text = "Records"
	p.Y.Min = 0

	barWidth := vg.Points(16)

	added, err := plotter.NewBarChart(additions, barWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to build additions series: %w", err)
	}
	added.LineStyle.Width = vg.Length(0)
	added.Color = addedColor
	added.Offset = -barWidth / 2

	removed, err := plotter.NewBarChart(deletions, barWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to build deletions series: %w", err)
	}
	removed.LineStyle.Width = vg.Length(0)
	removed.Color = removedColor
	removed.Offset = barWidth / 2

	p.Add(added, removed)
	p.Legend.Add("Added", added)
	p.Legend.Add("Removed", removed)
	p.Legend.Top = true
	p.NominalX(labels...)

	writer, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
