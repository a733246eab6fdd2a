package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/23skdu/longbow-probe/internal/config"
	"github.com/23skdu/longbow-probe/internal/dataset"
	"github.com/23skdu/longbow-probe/internal/export"
	"github.com/23skdu/longbow-probe/internal/logger"
	"github.com/23skdu/longbow-probe/internal/metrics"
	"github.com/23skdu/longbow-probe/internal/model"
	"github.com/23skdu/longbow-probe/internal/ollama"
	"github.com/23skdu/longbow-probe/internal/plot"
	"github.com/23skdu/longbow-probe/internal/probe"
	"github.com/23skdu/longbow-probe/internal/results"
)

func main() {
	defaults := config.Default()

	configPath := flag.String("config", "", "Optional YAML config file (overrides defaults; explicit flags override the file)")
	modelName := flag.String("model", defaults.Model, "Model name (ollama store) or direct GGUF path")
	hook := flag.String("hook", defaults.Hook, "Residual hook: resid_pre or resid_post")
	layers := flag.String("layers", defaults.LayerSpec, "Layer spec: range 1-11, list 1,5,9, or single index")
	tasks := flag.String("tasks", strings.Join(defaults.Tasks, ","), "Comma-separated task list")
	outputDir := flag.String("output", defaults.OutputDir, "Output directory for results, plots and the run log")
	nComponents := flag.Int("components", defaults.NComponents, "PCA component count")
	nRuns := flag.Int("runs", defaults.NRuns, "Classifier repetitions per PCA probe")
	seed := flag.Int64("seed", defaults.Seed, "Base random seed")
	nSubsets := flag.Int("subsets", defaults.NSubsets, "Random-baseline trial count")
	useFixed := flag.Bool("use-fixed-size", false, "Random baseline: fixed subset size D/ratio")
	useUniform := flag.Bool("use-uniform-size", false, "Random baseline: uniform subset size in [1, D]")
	fixedRatio := flag.Int("fixed-size-ratio", defaults.FixedRatio, "Divisor for the fixed size policy")
	randomMean := flag.Int("random-mean", defaults.RandomMean, "Gaussian size policy mean (0 = D/20)")
	randomStd := flag.Int("random-std", defaults.RandomStd, "Gaussian size policy std (0 = 5)")
	runPCA := flag.Bool("pca", defaults.RunPCA, "Run the PCA probe")
	runRandom := flag.Bool("random", defaults.RunRandom, "Run the random-subset baseline")
	confidence := flag.Float64("confidence", defaults.Confidence, "Confidence level for error bars")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus listen address (empty disables)")
	exportAddr := flag.String("export-addr", "", "Arrow Flight endpoint for activation export (empty disables)")
	logLevel := flag.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", defaults.LogFormat, "Log format: console or json")
	flag.Parse()

	cfg := defaults
	if *configPath != "" {
		if err := cfg.MergeFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
			os.Exit(1)
		}
	}

	// Explicitly set flags take precedence over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			cfg.Model = *modelName
		case "hook":
			cfg.Hook = *hook
		case "layers":
			cfg.LayerSpec = *layers
		case "tasks":
			cfg.Tasks = splitTasks(*tasks)
		case "output":
			cfg.OutputDir = *outputDir
		case "components":
			cfg.NComponents = *nComponents
		case "runs":
			cfg.NRuns = *nRuns
		case "seed":
			cfg.Seed = *seed
		case "subsets":
			cfg.NSubsets = *nSubsets
		case "use-fixed-size":
			if *useFixed {
				cfg.Policy = config.PolicyFixed
			}
		case "use-uniform-size":
			if *useUniform {
				cfg.Policy = config.PolicyUniform
			}
		case "fixed-size-ratio":
			cfg.FixedRatio = *fixedRatio
		case "random-mean":
			cfg.RandomMean = *randomMean
		case "random-std":
			cfg.RandomStd = *randomStd
		case "pca":
			cfg.RunPCA = *runPCA
		case "random":
			cfg.RunRandom = *runRandom
		case "confidence":
			cfg.Confidence = *confidence
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		case "export-addr":
			cfg.ExportAddr = *exportAddr
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		}
	})

	if *useFixed && *useUniform {
		fmt.Fprintln(os.Stderr, "configuration error: -use-fixed-size and -use-uniform-size are mutually exclusive")
		os.Exit(1)
	}

	if err := cfg.Resolve(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.SetupWithFile(cfg.LogLevel, cfg.LogFormat, cfg.OutputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open run log: %v\n", err)
		os.Exit(1)
	}
	defer logger.Log.Close()

	metrics.Serve(cfg.MetricsAddr)

	logger.Log.Info("experiment starting",
		"model", cfg.Model,
		"hook", cfg.Hook,
		"layers", cfg.Layers,
		"tasks", cfg.Tasks,
		"components", cfg.NComponents,
		"runs", cfg.NRuns,
		"subsets", cfg.NSubsets,
		"policy", cfg.Policy.String(),
		"seed", cfg.Seed,
		"output", cfg.OutputDir)

	if err := run(&cfg); err != nil {
		logger.Log.Error("experiment failed", "error", err)
		os.Exit(1)
	}
}

func splitTasks(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func run(cfg *config.Experiment) error {
	path, err := ollama.ResolveModelPath(cfg.Model)
	if err != nil {
		return fmt.Errorf("failed to resolve model %q: %w", cfg.Model, err)
	}
	eng, err := model.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load model: %w", err)
	}

	for _, l := range cfg.Layers {
		if l >= eng.NumLayers() {
			return fmt.Errorf("layer %d out of range: model has %d layers", l, eng.NumLayers())
		}
	}

	var exporter *export.Client
	if cfg.ExportAddr != "" {
		exporter = export.NewClient(cfg.ExportAddr)
		if err := exporter.Connect(); err != nil {
			logger.Log.Warn("activation export disabled", "error", err)
			exporter = nil
		} else {
			defer exporter.Close()
		}
	}

	var table results.Table

	for _, taskName := range cfg.Tasks {
		ds, err := dataset.ByName(taskName)
		if err != nil {
			return err
		}

		extracted, err := probe.Extract(eng, ds, cfg.Layers, cfg.Hook)
		if err != nil {
			logger.Log.Error("task failed, continuing", "task", taskName, "error", err)
			metrics.TasksFailed.Inc()
			continue
		}

		for _, layer := range cfg.Layers {
			ext := extracted[layer]
			probe.Diagnose(taskName, layer, ext, ds.NumClasses())

			if exporter != nil {
				if err := exporter.PutActivations(context.Background(), taskName, layer, ext); err != nil {
					logger.Log.Warn("activation export failed",
						"task", taskName, "layer", layer, "error", err)
				}
			}

			if cfg.RunPCA {
				out, err := probe.PCAProbe(taskName, ext.X, ext.Labels,
					ds.NumClasses(), cfg.NComponents, cfg.NRuns, cfg.Seed)
				if err != nil {
					logger.Log.Error("pca probe failed, continuing",
						"task", taskName, "layer", layer, "error", err)
					metrics.TasksFailed.Inc()
					continue
				}
				for run, r := range out.Runs {
					table.Append(results.Record{
						Layer: layer, Task: taskName, Method: "pca", Run: run,
						MutualInformation: r.MutualInformation,
						Accuracy:          r.Accuracy,
						F1:                r.F1,
						NFeatures:         r.NFeatures,
					})
				}
				logger.Log.Info("pca probe",
					"task", taskName,
					"layer", layer,
					"cumulative_variance", out.CumulativeVariance[len(out.CumulativeVariance)-1],
					"mean_accuracy", meanAccuracy(out.Runs))
			}

			if cfg.RunRandom {
				spec := probe.RandomSpec{
					NSubsets:   cfg.NSubsets,
					Policy:     cfg.Policy,
					FixedRatio: cfg.FixedRatio,
					Mean:       cfg.RandomMean,
					Std:        cfg.RandomStd,
				}
				runs, err := probe.RandomProbe(taskName, ext.X, ext.Labels,
					ds.NumClasses(), spec, cfg.Seed)
				if err != nil {
					logger.Log.Error("random probe failed, continuing",
						"task", taskName, "layer", layer, "error", err)
					metrics.TasksFailed.Inc()
					continue
				}
				for run, r := range runs {
					table.Append(results.Record{
						Layer: layer, Task: taskName, Method: "random", Run: run,
						MutualInformation: r.MutualInformation,
						Accuracy:          r.Accuracy,
						F1:                r.F1,
						NFeatures:         r.NFeatures,
					})
				}
				logger.Log.Info("random probe",
					"task", taskName,
					"layer", layer,
					"mean_accuracy", meanAccuracy(runs))
			}
		}
	}

	if table.Len() == 0 {
		return fmt.Errorf("no results produced: every task failed")
	}

	csvPath := filepath.Join(cfg.OutputDir, "results.csv")
	if err := table.WriteCSV(csvPath); err != nil {
		return err
	}
	arrowPath := filepath.Join(cfg.OutputDir, "results.arrow")
	if err := table.WriteArrow(arrowPath); err != nil {
		return err
	}
	logger.Log.Info("results written", "csv", csvPath, "arrow", arrowPath, "records", table.Len())

	writePlots(cfg, &table)

	logger.Log.Info("experiment complete")
	return nil
}

func meanAccuracy(runs []probe.Result) float64 {
	if len(runs) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range runs {
		sum += r.Accuracy
	}
	return sum / float64(len(runs))
}

// writePlots renders one bar chart per (task, method, metric). Plot
// failures only warn: the tabular results are already on disk.
func writePlots(cfg *config.Experiment, table *results.Table) {
	methods := []string{}
	if cfg.RunPCA {
		methods = append(methods, "pca")
	}
	if cfg.RunRandom {
		methods = append(methods, "random")
	}
	metricNames := []string{results.MetricMI, results.MetricAccuracy, results.MetricF1}

	for _, task := range cfg.Tasks {
		for _, method := range methods {
			for _, metric := range metricNames {
				stats, err := table.PerLayer(task, method, metric, cfg.Confidence)
				if err != nil || len(stats) == 0 {
					continue
				}
				if _, err := plot.SaveBarChart(cfg.OutputDir, task, method, metric, stats); err != nil {
					logger.Log.Warn("plot failed",
						"task", task, "method", method, "metric", metric, "error", err)
				}
			}
		}
	}
}
