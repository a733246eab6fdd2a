package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.LayerSpec != "1-11" {
		t.Errorf("expected LayerSpec 1-11, got %s", cfg.LayerSpec)
	}
	if cfg.NComponents != 10 {
		t.Errorf("expected NComponents 10, got %d", cfg.NComponents)
	}
	if cfg.NRuns != 3 {
		t.Errorf("expected NRuns 3, got %d", cfg.NRuns)
	}
	if cfg.Seed != 42 {
		t.Errorf("expected Seed 42, got %d", cfg.Seed)
	}
	if cfg.Policy != PolicyGaussian {
		t.Errorf("expected PolicyGaussian, got %v", cfg.Policy)
	}
	if cfg.Confidence != 0.95 {
		t.Errorf("expected Confidence 0.95, got %v", cfg.Confidence)
	}
	// Plurality showed no signal, so it is not in the default task list
	for _, task := range cfg.Tasks {
		if task == "plurality" {
			t.Error("plurality should not be a default task")
		}
	}
	if err := cfg.Resolve(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestParseLayers(t *testing.T) {
	tests := []struct {
		spec    string
		want    []int
		wantErr bool
	}{
		{"1-11", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, false},
		{"1,5,9", []int{1, 5, 9}, false},
		{"7", []int{7}, false},
		{"3-3", []int{3}, false},
		{" 2 - 4 ", []int{2, 3, 4}, false},
		{"", nil, true},
		{"a-b", nil, true},
		{"5-2", nil, true},
		{"1,x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseLayers(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLayers(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLayers(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Experiment {
		cfg := Default()
		cfg.Layers = []int{1, 2}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Experiment)
		wantErr bool
	}{
		{"valid", func(e *Experiment) {}, false},
		{"missing model", func(e *Experiment) { e.Model = "" }, true},
		{"bad hook", func(e *Experiment) { e.Hook = "mlp_out" }, true},
		{"no layers", func(e *Experiment) { e.Layers = nil }, true},
		{"negative layer", func(e *Experiment) { e.Layers = []int{-1} }, true},
		{"no tasks", func(e *Experiment) { e.Tasks = nil }, true},
		{"unknown task", func(e *Experiment) { e.Tasks = []string{"morphology"} }, true},
		{"plurality allowed", func(e *Experiment) { e.Tasks = []string{"plurality"} }, false},
		{"zero components", func(e *Experiment) { e.NComponents = 0 }, true},
		{"zero runs", func(e *Experiment) { e.NRuns = 0 }, true},
		{"zero subsets", func(e *Experiment) { e.NSubsets = 0 }, true},
		{"bad fixed ratio", func(e *Experiment) { e.Policy = PolicyFixed; e.FixedRatio = 0 }, true},
		{"bad confidence", func(e *Experiment) { e.Confidence = 1.5 }, true},
		{"both probes off", func(e *Experiment) { e.RunPCA = false; e.RunRandom = false }, true},
		{"missing output dir", func(e *Experiment) { e.OutputDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := `
model_name: gpt2-small
layers: "1,3,5"
n_components: 4
use_fixed_size: true
fixed_size_ratio: 10
confidence: 0.65
tasks: [pos, plurality]
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.MergeFile(path); err != nil {
		t.Fatalf("MergeFile failed: %v", err)
	}

	if cfg.Model != "gpt2-small" {
		t.Errorf("expected model gpt2-small, got %s", cfg.Model)
	}
	if cfg.LayerSpec != "1,3,5" {
		t.Errorf("expected layer spec 1,3,5, got %s", cfg.LayerSpec)
	}
	if cfg.NComponents != 4 {
		t.Errorf("expected 4 components, got %d", cfg.NComponents)
	}
	if cfg.Policy != PolicyFixed {
		t.Errorf("expected PolicyFixed, got %v", cfg.Policy)
	}
	if cfg.FixedRatio != 10 {
		t.Errorf("expected ratio 10, got %d", cfg.FixedRatio)
	}
	if cfg.Confidence != 0.65 {
		t.Errorf("expected confidence 0.65, got %v", cfg.Confidence)
	}
	if !reflect.DeepEqual(cfg.Tasks, []string{"pos", "plurality"}) {
		t.Errorf("unexpected tasks: %v", cfg.Tasks)
	}
	// Untouched fields keep their defaults
	if cfg.NRuns != 3 {
		t.Errorf("expected NRuns untouched at 3, got %d", cfg.NRuns)
	}
	if err := cfg.Resolve(); err != nil {
		t.Errorf("merged config should resolve: %v", err)
	}
	if !reflect.DeepEqual(cfg.Layers, []int{1, 3, 5}) {
		t.Errorf("unexpected layers: %v", cfg.Layers)
	}
}

func TestMergeFileConflicts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "use_fixed_size: true\nuse_uniform_size: true\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.MergeFile(path); err == nil {
		t.Error("expected error for mutually exclusive size policies")
	}
}

func TestMergeFileMissing(t *testing.T) {
	cfg := Default()
	if err := cfg.MergeFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestMergeFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("layers: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := cfg.MergeFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
