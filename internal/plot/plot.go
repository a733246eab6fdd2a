package plot

import (
	"fmt"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/23skdu/longbow-probe/internal/logger"
	"github.com/23skdu/longbow-probe/internal/results"
)

// ciPoints adapts per-layer stats to the error-bar plotter: one point per
// bar at the bar's nominal x, with a symmetric confidence half-interval.
type ciPoints struct {
	stats []results.LayerStat
}

func (c ciPoints) Len() int { return len(c.stats) }

func (c ciPoints) XY(i int) (x, y float64) {
	return float64(i), c.stats[i].Mean
}

func (c ciPoints) YError(i int) (low, high float64) {
	return c.stats[i].CI, c.stats[i].CI
}

// SaveBarChart renders one bar per layer (mean metric value with a
// confidence-interval error bar) and writes it as a PNG under dir.
// Returns the written path.
func SaveBarChart(dir, task, method, metric string, stats []results.LayerStat) (string, error) {
	if len(stats) == 0 {
		return "", fmt.Errorf("no layer stats for %s/%s/%s", task, method, metric)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s (%s)", task, metric, method)
	p.X.Label.Text = "layer"
	p.Y.Label.Text = metric

	values := make(plotter.Values, len(stats))
	labels := make([]string, len(stats))
	for i, s := range stats {
		values[i] = s.Mean
		labels[i] = strconv.Itoa(s.Layer)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return "", fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	errBars, err := plotter.NewYErrorBars(ciPoints{stats: stats})
	if err != nil {
		return "", fmt.Errorf("failed to build error bars: %w", err)
	}
	p.Add(errBars)

	name := fmt.Sprintf("%s_%s_%s.png", task, method, metric)
	path := filepath.Join(dir, name)
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("failed to save plot: %w", err)
	}

	logger.Log.Debug("plot written", "path", path)
	return path, nil
}
