package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/hupe1980/clustergo"
)

// Config holds the settings of a clustering job. It is read from a TOML file
// and then overridden by any flag given explicitly.
//
//	data = "s3://bucket/points.txt.zst"
//	k = 3
//	strategy = "kmeans++"
//	seed = 42
//	runs = 20
//	out = "results/run.result.zst"
//	plot_sizes = "sizes.html"
//	export = "points.txt"
//
//	[dataset]
//	skip_rows = 1
//	columns = [0, 1]
//
//	[resources]
//	workers = 4
//	io_limit_bytes_per_sec = 8388608
//
//	[log]
//	level = "debug"
//	json = true
type Config struct {
	Data          string  `toml:"data"`
	K             int     `toml:"k"`
	Strategy      string  `toml:"strategy"`
	Seed          uint64  `toml:"seed"`
	Epsilon       float64 `toml:"epsilon"`
	MaxIterations int     `toml:"max_iterations"`
	Runs          int     `toml:"runs"`
	Out           string  `toml:"out"`
	Plot          string  `toml:"plot"`
	PlotSizes     string  `toml:"plot_sizes"`
	Export        string  `toml:"export"`

	Dataset   DatasetConfig   `toml:"dataset"`
	Resources ResourcesConfig `toml:"resources"`
	Log       LogConfig       `toml:"log"`

	// seeded is set when a seed came from the file or the command line.
	seeded bool
}

// DatasetConfig controls parsing of the input file.
type DatasetConfig struct {
	SkipRows int   `toml:"skip_rows"`
	Columns  []int `toml:"columns"`
}

// ResourcesConfig bounds batch concurrency and read throughput.
type ResourcesConfig struct {
	Workers            int64 `toml:"workers"`
	IOLimitBytesPerSec int64 `toml:"io_limit_bytes_per_sec"`
}

// LogConfig selects the log format.
type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

// SetDefaultValues fills unset fields.
func (c *Config) SetDefaultValues() {
	if c.Strategy == "" {
		c.Strategy = clustergo.StrategyKMeansPlusPlus.String()
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = 300
	}
	if c.Runs == 0 {
		c.Runs = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the settings that Run would otherwise reject late.
func (c *Config) Validate() error {
	var errs []error
	if c.Data == "" {
		errs = append(errs, errors.New("data: required"))
	}
	if c.K < 1 {
		errs = append(errs, fmt.Errorf("k: must be at least 1, got %d", c.K))
	}
	if s, err := clustergo.ParseStrategy(c.Strategy); err != nil {
		errs = append(errs, err)
	} else if _, err := s.Initializer(); err != nil {
		errs = append(errs, err)
	}
	if c.Runs < 1 {
		errs = append(errs, fmt.Errorf("runs: must be at least 1, got %d", c.Runs))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// LoadConfig decodes the TOML file at path.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown keys %v", path, undecoded)
	}
	cfg.seeded = md.IsDefined("seed")
	return cfg, nil
}

// flags binds the command line. Values apply only when set explicitly so
// that they override, rather than reset, the config file.
type flags struct {
	fs *flag.FlagSet

	config        string
	data          string
	k             int
	strategy      string
	seed          uint64
	epsilon       float64
	maxIterations int
	runs          int
	out           string
	plot          string
	plotSizes     string
	export        string
	workers       int64
	logLevel      string
	logJSON       bool
}

func newFlags(name string) *flags {
	f := &flags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.StringVar(&f.config, "config", "", "TOML config file")
	f.fs.StringVar(&f.data, "data", "", "dataset path or URI (file://, s3://, minio://)")
	f.fs.IntVar(&f.k, "k", 0, "number of clusters")
	f.fs.StringVar(&f.strategy, "strategy", "", "seeding strategy: uniform or kmeans++")
	f.fs.Uint64Var(&f.seed, "seed", 0, "random seed (random if unset)")
	f.fs.Float64Var(&f.epsilon, "epsilon", 0, "convergence threshold on centroid movement")
	f.fs.IntVar(&f.maxIterations, "max-iter", 0, "maximum refinement passes (default 300)")
	f.fs.IntVar(&f.runs, "runs", 0, "independent runs; the lowest inertia wins (default 1)")
	f.fs.StringVar(&f.out, "out", "", "write the result to this path or URI")
	f.fs.StringVar(&f.plot, "plot", "", "write an HTML chart to this path")
	f.fs.StringVar(&f.plotSizes, "plot-sizes", "", "write an HTML bar chart of cluster sizes to this path")
	f.fs.StringVar(&f.export, "export", "", "write the parsed dataset to this path or URI")
	f.fs.Int64Var(&f.workers, "workers", 0, "concurrent runs (default GOMAXPROCS)")
	f.fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (default info)")
	f.fs.BoolVar(&f.logJSON, "log-json", false, "log as JSON")
	return f
}

// parse parses args and returns the resulting config.
func (f *flags) parse(args []string) (*Config, error) {
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if f.config != "" {
		loaded, err := LoadConfig(f.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "data":
			cfg.Data = f.data
		case "k":
			cfg.K = f.k
		case "strategy":
			cfg.Strategy = f.strategy
		case "seed":
			cfg.Seed = f.seed
			cfg.seeded = true
		case "epsilon":
			cfg.Epsilon = f.epsilon
		case "max-iter":
			cfg.MaxIterations = f.maxIterations
		case "runs":
			cfg.Runs = f.runs
		case "out":
			cfg.Out = f.out
		case "plot":
			cfg.Plot = f.plot
		case "plot-sizes":
			cfg.PlotSizes = f.plotSizes
		case "export":
			cfg.Export = f.export
		case "workers":
			cfg.Resources.Workers = f.workers
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-json":
			cfg.Log.JSON = f.logJSON
		}
	})

	cfg.SetDefaultValues()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
