package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/shapegrid/internal/app"
	"github.com/banshee-data/shapegrid/internal/config"
	"github.com/banshee-data/shapegrid/internal/fsutil"
	"github.com/banshee-data/shapegrid/internal/hebbian"
	"github.com/banshee-data/shapegrid/internal/monitoring"
	"github.com/banshee-data/shapegrid/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to run configuration JSON (default "+config.DefaultConfigPath+" if present)")
	outDir      = flag.String("out", config.DefaultOutputDir, "Directory for images, frames and plots")
	record      = flag.Bool("record", false, "Record weight snapshots as video frames")
	frames      = flag.Int("frames", hebbian.DefaultRecordFrames, "Number of leading iterations to record")
	shapeCount  = flag.Int("shapes", hebbian.DefaultTotalShapes, "Training iterations (one rectangle and one circle each)")
	testCount   = flag.Int("tests", hebbian.DefaultTotalTests, "Evaluation iterations")
	gridSize    = flag.Int("size", hebbian.DefaultSize, "Grid size in cells")
	seed        = flag.Uint64("seed", config.DefaultSeed, "Random seed")
	strategy    = flag.String("strategy", config.DefaultStrategy, "Placement strategy: centered or uniform")
	rangeRule   = flag.String("range-rule", config.DefaultRangeRule, "Random range rule: half-open or legacy")
	plots       = flag.Bool("plots", false, "Write training progress plots")
	heatmaps    = flag.Bool("heatmaps", false, "Write HTML heatmaps of the weights and test aggregates")
	colorScale  = flag.Bool("color-scale", false, "Write a reference image of the colour map")
	dbPath      = flag.String("db", "", "Record the run in this sqlite database")
	history     = flag.Int("history", 0, "List the N most recent runs from -db and exit")
	scores      = flag.Bool("scores", false, "Also print the mean raw score per class")
	verbose     = flag.Bool("v", false, "Log every training sample")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cfg *config.RunConfig) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.OutputDir = outDir
		case "record":
			cfg.Record = record
		case "frames":
			cfg.RecordFrames = frames
		case "shapes":
			cfg.TotalShapes = shapeCount
		case "tests":
			cfg.TotalTests = testCount
		case "size":
			cfg.Size = gridSize
		case "seed":
			cfg.Seed = seed
		case "strategy":
			cfg.Strategy = strategy
		case "range-rule":
			cfg.RangeRule = rangeRule
		case "plots":
			cfg.Plots = plots
		case "heatmaps":
			cfg.Heatmaps = heatmaps
		case "color-scale":
			cfg.ColorScale = colorScale
		case "db":
			cfg.DBPath = dbPath
		}
	})
}

// loadConfig reads path, or the checked-in defaults file when path is empty
// and that file exists, or falls back to the built-in defaults.
func loadConfig(fsys fsutil.FileSystem, path string) (*config.RunConfig, error) {
	if path == "" {
		if !fsys.Exists(config.DefaultConfigPath) {
			return config.DefaultRunConfig(), nil
		}
		path = config.DefaultConfigPath
	}
	return config.LoadRunConfig(path)
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	monitoring.SetVerbose(*verbose)

	cfg, err := loadConfig(fsutil.OSFileSystem{}, *configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyFlags(cfg)

	if *history > 0 {
		db := cfg.GetDBPath()
		if db == "" {
			log.Fatal("-history requires -db or db_path in the config")
		}
		if err := app.PrintHistory(os.Stdout, db, *history); err != nil {
			log.Fatalf("failed to list runs: %v", err)
		}
		return
	}

	res, err := app.Run(cfg, app.Env{})
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	app.PrintReport(os.Stdout, res.Report, *scores)
}
