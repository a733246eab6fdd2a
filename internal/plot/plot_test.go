package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/23skdu/longbow-probe/internal/results"
)

func TestSaveBarChart(t *testing.T) {
	stats := []results.LayerStat{
		{Layer: 1, Mean: 0.4, CI: 0.05},
		{Layer: 2, Mean: 0.6, CI: 0.03},
		{Layer: 3, Mean: 0.55, CI: 0.08},
	}

	dir := t.TempDir()
	path, err := SaveBarChart(dir, "pos", "pca", "accuracy", stats)
	if err != nil {
		t.Fatalf("SaveBarChart: %v", err)
	}
	if filepath.Base(path) != "pos_pca_accuracy.png" {
		t.Errorf("unexpected file name %q", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestSaveBarChartEmpty(t *testing.T) {
	if _, err := SaveBarChart(t.TempDir(), "pos", "pca", "accuracy", nil); err == nil {
		t.Fatal("expected error for empty stats")
	}
}
