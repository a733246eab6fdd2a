package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SizePolicy selects how the random-baseline subset size is chosen per trial.
type SizePolicy int

const (
	PolicyGaussian SizePolicy = iota
	PolicyFixed
	PolicyUniform
)

func (p SizePolicy) String() string {
	switch p {
	case PolicyFixed:
		return "fixed"
	case PolicyUniform:
		return "uniform"
	default:
		return "gaussian"
	}
}

// Experiment holds the full configuration for one probing run. Values are
// resolved once at startup: file values override CLI defaults, explicitly
// set CLI flags override the file.
type Experiment struct {
	Model     string
	Hook      string
	LayerSpec string
	Layers    []int
	Tasks     []string
	OutputDir string

	NComponents int
	NRuns       int
	Seed        int64

	NSubsets       int
	Policy         SizePolicy
	FixedRatio     int
	RandomMean     int // 0 means d_model/20
	RandomStd      int // 0 means 5
	RunPCA         bool
	RunRandom      bool
	Confidence     float64
	MetricsAddr    string
	ExportAddr     string
	LogLevel       string
	LogFormat      string
}

// fileConfig mirrors the YAML document. Pointer fields distinguish
// "absent" from zero values during the merge.
type fileConfig struct {
	Model       *string  `yaml:"model_name"`
	Hook        *string  `yaml:"hook"`
	Layers      *string  `yaml:"layers"`
	Tasks       []string `yaml:"tasks"`
	OutputDir   *string  `yaml:"output_dir"`
	NComponents *int     `yaml:"n_components"`
	NRuns       *int     `yaml:"n_runs"`
	Seed        *int64   `yaml:"seed"`
	NSubsets    *int     `yaml:"n_subsets"`
	UseFixed    *bool    `yaml:"use_fixed_size"`
	FixedRatio  *int     `yaml:"fixed_size_ratio"`
	UseUniform  *bool    `yaml:"use_uniform_size"`
	RandomMean  *int     `yaml:"random_mean"`
	RandomStd   *int     `yaml:"random_std"`
	RunPCA      *bool    `yaml:"run_pca"`
	RunRandom   *bool    `yaml:"run_random"`
	Confidence  *float64 `yaml:"confidence"`
	ExportAddr  *string  `yaml:"export_addr"`
}

// Default returns the baseline experiment configuration.
func Default() Experiment {
	return Experiment{
		Model:       "smollm2:135m",
		Hook:        "resid_post",
		LayerSpec:   "1-11",
		Tasks:       []string{"pos", "sentiment", "ner", "word_length", "verb_tense"},
		OutputDir:   "outputs/linear_probe",
		NComponents: 10,
		NRuns:       3,
		Seed:        42,
		NSubsets:    3,
		Policy:      PolicyGaussian,
		FixedRatio:  20,
		RunPCA:      true,
		RunRandom:   true,
		Confidence:  0.95,
		LogLevel:    "info",
		LogFormat:   "console",
	}
}

// KnownTasks lists every dataset provider name, including plurality, which
// is off by default but selectable.
var KnownTasks = []string{"pos", "sentiment", "ner", "word_length", "verb_tense", "plurality"}

// MergeFile overlays values from a YAML config file onto e. Fields absent
// from the file are left untouched.
func (e *Experiment) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if fc.Model != nil {
		e.Model = *fc.Model
	}
	if fc.Hook != nil {
		e.Hook = *fc.Hook
	}
	if fc.Layers != nil {
		e.LayerSpec = *fc.Layers
	}
	if fc.Tasks != nil {
		e.Tasks = fc.Tasks
	}
	if fc.OutputDir != nil {
		e.OutputDir = *fc.OutputDir
	}
	if fc.NComponents != nil {
		e.NComponents = *fc.NComponents
	}
	if fc.NRuns != nil {
		e.NRuns = *fc.NRuns
	}
	if fc.Seed != nil {
		e.Seed = *fc.Seed
	}
	if fc.NSubsets != nil {
		e.NSubsets = *fc.NSubsets
	}
	if fc.UseFixed != nil && *fc.UseFixed {
		e.Policy = PolicyFixed
	}
	if fc.UseUniform != nil && *fc.UseUniform {
		e.Policy = PolicyUniform
	}
	if fc.FixedRatio != nil {
		e.FixedRatio = *fc.FixedRatio
	}
	if fc.RandomMean != nil {
		e.RandomMean = *fc.RandomMean
	}
	if fc.RandomStd != nil {
		e.RandomStd = *fc.RandomStd
	}
	if fc.RunPCA != nil {
		e.RunPCA = *fc.RunPCA
	}
	if fc.RunRandom != nil {
		e.RunRandom = *fc.RunRandom
	}
	if fc.Confidence != nil {
		e.Confidence = *fc.Confidence
	}
	if fc.ExportAddr != nil {
		e.ExportAddr = *fc.ExportAddr
	}

	if fc.UseFixed != nil && *fc.UseFixed && fc.UseUniform != nil && *fc.UseUniform {
		return fmt.Errorf("use_fixed_size and use_uniform_size are mutually exclusive")
	}

	return nil
}

// ParseLayers expands a layer spec like "1-11" or "1,5,9" or "7".
func ParseLayers(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty layer spec")
	}

	if strings.Contains(spec, "-") {
		parts := strings.SplitN(spec, "-", 2)
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid layer range %q: %w", spec, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid layer range %q: %w", spec, err)
		}
		if end < start {
			return nil, fmt.Errorf("invalid layer range %q: end before start", spec)
		}
		layers := make([]int, 0, end-start+1)
		for l := start; l <= end; l++ {
			layers = append(layers, l)
		}
		return layers, nil
	}

	var layers []int
	for _, part := range strings.Split(spec, ",") {
		l, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid layer %q: %w", part, err)
		}
		layers = append(layers, l)
	}
	return layers, nil
}

// Resolve parses derived fields and checks the configuration. A non-nil
// error here is fatal before any extraction begins.
func (e *Experiment) Resolve() error {
	layers, err := ParseLayers(e.LayerSpec)
	if err != nil {
		return err
	}
	e.Layers = layers
	return e.Validate()
}

func (e *Experiment) Validate() error {
	if e.Model == "" {
		return fmt.Errorf("model is required")
	}
	if e.Hook != "resid_pre" && e.Hook != "resid_post" {
		return fmt.Errorf("invalid hook %q (must be resid_pre or resid_post)", e.Hook)
	}
	if len(e.Layers) == 0 {
		return fmt.Errorf("no layers selected")
	}
	for _, l := range e.Layers {
		if l < 0 {
			return fmt.Errorf("invalid layer index: %d", l)
		}
	}
	if len(e.Tasks) == 0 {
		return fmt.Errorf("no tasks selected")
	}
	for _, task := range e.Tasks {
		if !knownTask(task) {
			return fmt.Errorf("unknown task %q (known: %s)", task, strings.Join(KnownTasks, ", "))
		}
	}
	if e.NComponents <= 0 {
		return fmt.Errorf("invalid n_components: %d (must be positive)", e.NComponents)
	}
	if e.NRuns <= 0 {
		return fmt.Errorf("invalid n_runs: %d (must be positive)", e.NRuns)
	}
	if e.NSubsets <= 0 {
		return fmt.Errorf("invalid n_subsets: %d (must be positive)", e.NSubsets)
	}
	if e.Policy == PolicyFixed && e.FixedRatio <= 0 {
		return fmt.Errorf("invalid fixed_size_ratio: %d (must be positive)", e.FixedRatio)
	}
	if e.RandomStd < 0 {
		return fmt.Errorf("invalid random_std: %d (must be non-negative)", e.RandomStd)
	}
	if e.Confidence <= 0 || e.Confidence >= 1 {
		return fmt.Errorf("invalid confidence: %v (must be in (0, 1))", e.Confidence)
	}
	if !e.RunPCA && !e.RunRandom {
		return fmt.Errorf("at least one of run_pca and run_random must be enabled")
	}
	if e.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	return nil
}

func knownTask(name string) bool {
	for _, t := range KnownTasks {
		if t == name {
			return true
		}
	}
	return false
}
