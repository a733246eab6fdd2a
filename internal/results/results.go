package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Record is one flattened probe run: the unit of the persisted table.
type Record struct {
	Layer             int
	Task              string
	Method            string
	Run               int
	MutualInformation float64
	Accuracy          float64
	F1                float64
	NFeatures         int
}

// Table accumulates records across the layer × task × method × run loop
// nest. Append-only, single writer.
type Table struct {
	records []Record
}

func (t *Table) Append(r Record) {
	t.records = append(t.records, r)
}

func (t *Table) Len() int          { return len(t.records) }
func (t *Table) Records() []Record { return t.records }

// Metric names addressable for aggregation and plotting.
const (
	MetricMI       = "mutual_information"
	MetricAccuracy = "accuracy"
	MetricF1       = "f1_score"
)

func (r *Record) metric(name string) (float64, error) {
	switch name {
	case MetricMI:
		return r.MutualInformation, nil
	case MetricAccuracy:
		return r.Accuracy, nil
	case MetricF1:
		return r.F1, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", name)
	}
}

// LayerStat is one aggregated bar: per-layer mean with a confidence
// half-interval over the per-run values.
type LayerStat struct {
	Layer int
	Mean  float64
	CI    float64
}

// PerLayer folds the per-run values of one (task, method, metric) into
// sorted per-layer mean ± CI rows.
func (t *Table) PerLayer(task, method, metric string, confidence float64) ([]LayerStat, error) {
	byLayer := make(map[int][]float64)
	for i := range t.records {
		r := &t.records[i]
		if r.Task != task || r.Method != method {
			continue
		}
		v, err := r.metric(metric)
		if err != nil {
			return nil, err
		}
		byLayer[r.Layer] = append(byLayer[r.Layer], v)
	}

	layers := make([]int, 0, len(byLayer))
	for l := range byLayer {
		layers = append(layers, l)
	}
	sort.Ints(layers)

	stats := make([]LayerStat, 0, len(layers))
	for _, l := range layers {
		mean, ci := MeanCI(byLayer[l], confidence)
		stats = append(stats, LayerStat{Layer: l, Mean: mean, CI: ci})
	}
	return stats, nil
}

// WriteCSV persists the table. Column order is fixed; n_features_used is
// always present and carries the realized subset or component count.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"layer", "task", "method", "run",
		"mutual_information", "accuracy", "f1_score", "n_features_used"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range t.records {
		row := []string{
			strconv.Itoa(r.Layer),
			r.Task,
			r.Method,
			strconv.Itoa(r.Run),
			formatFloat(r.MutualInformation),
			formatFloat(r.Accuracy),
			formatFloat(r.F1),
			strconv.Itoa(r.NFeatures),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
