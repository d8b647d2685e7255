// Package app runs one training and evaluation pass end to end and writes
// its artifacts. cmd/shapegrid is a thin flag wrapper around Run.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/banshee-data/shapegrid/internal/config"
	"github.com/banshee-data/shapegrid/internal/fsutil"
	"github.com/banshee-data/shapegrid/internal/grid"
	"github.com/banshee-data/shapegrid/internal/hebbian"
	"github.com/banshee-data/shapegrid/internal/monitoring"
	"github.com/banshee-data/shapegrid/internal/render"
	"github.com/banshee-data/shapegrid/internal/runstore"
	"github.com/banshee-data/shapegrid/internal/timeutil"
	"github.com/banshee-data/shapegrid/internal/trainplot"
	"github.com/banshee-data/shapegrid/internal/video"
)

// Artifact names written under the output directory.
const (
	WeightsImage    = "trainedWeights.ppm"
	RectTestImage   = "rectTest.ppm"
	CircleTestImage = "circleTest.ppm"
	ColorScaleImage = "colorScale.ppm"
	FrameManifest   = "frames.txt"
	PlotsDir        = "plots"
	HeatmapsDir     = "heatmaps"
)

// Env carries the collaborators a run writes through. Zero values select the
// real filesystem and clock.
type Env struct {
	FS    fsutil.FileSystem
	Clock timeutil.Clock
}

// Result is everything a run produced.
type Result struct {
	RunID     string // empty unless the run was stored
	Stats     hebbian.TrainStats
	Report    hebbian.Report
	TrainTime time.Duration
	EvalTime  time.Duration
	Files     []string
}

// Run trains and evaluates per cfg and writes the configured artifacts.
func Run(cfg *config.RunConfig, env Env) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if env.FS == nil {
		env.FS = fsutil.OSFileSystem{}
	}
	if env.Clock == nil {
		env.Clock = timeutil.RealClock{}
	}

	gen, err := cfg.NewGenerator()
	if err != nil {
		return nil, err
	}

	outDir := cfg.GetOutputDir()
	if err := env.FS.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var opts []hebbian.Option
	var recorder *video.Recorder
	if cfg.GetRecord() {
		recorder = video.NewRecorder(env.FS, outDir, cfg.GetExpectedRange())
		opts = append(opts, hebbian.WithFrameSink(recorder))
	}
	var progress *trainplot.Progress
	if cfg.GetPlots() {
		progress = trainplot.NewProgress(trainplot.DefaultWindow)
		opts = append(opts, hebbian.WithObserver(progress.Observe))
	}

	trainer, err := hebbian.NewTrainer(cfg.TrainerConfig(), gen, opts...)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	sw := timeutil.NewStopwatch(env.Clock)

	monitoring.Logf("training %dx%d grid on %d shapes (strategy=%s seed=%d)",
		cfg.GetSize(), cfg.GetSize(), cfg.GetTotalShapes(), cfg.GetStrategy(), cfg.GetSeed())
	res.Stats, err = trainer.Train()
	if err != nil {
		return nil, err
	}
	res.TrainTime = sw.Lap("train")
	monitoring.Logf("training done in %v: %d rect and %d circle accumulations",
		res.TrainTime, res.Stats.RectAccumulated, res.Stats.CircleAccumulated)

	res.Report = trainer.Evaluate()
	res.EvalTime = sw.Lap("evaluate")
	for _, name := range sw.Names() {
		monitoring.Logf("%s took %v", name, sw.Get(name))
	}

	outputs := []struct {
		name  string
		title string
		g     *grid.Grid
	}{
		{WeightsImage, "Trained weights", trainer.Weights()},
		{RectTestImage, "Rectangle test aggregate", res.Report.RectAggregate},
		{CircleTestImage, "Circle test aggregate", res.Report.CircleAggregate},
	}
	for _, o := range outputs {
		path := filepath.Join(outDir, o.name)
		if err := render.WritePPM(env.FS, path, o.g, cfg.GetExpectedRange()); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	if cfg.GetColorScale() {
		path := filepath.Join(outDir, ColorScaleImage)
		if err := render.WriteColorScale(env.FS, path, cfg.GetExpectedRange()); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	if recorder != nil {
		if err := recorder.WriteManifest(FrameManifest); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, filepath.Join(outDir, FrameManifest))
		monitoring.Logf("recorded %d frames", len(recorder.Entries()))
	}

	if progress != nil {
		dir := filepath.Join(outDir, PlotsDir)
		n, err := progress.GeneratePlots(env.FS, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to generate plots: %w", err)
		}
		if n > 0 {
			res.Files = append(res.Files,
				filepath.Join(dir, trainplot.ScoresFile),
				filepath.Join(dir, trainplot.AccumulationRateFile))
		}
	}

	if cfg.GetHeatmaps() {
		for _, o := range outputs {
			path := filepath.Join(outDir, HeatmapsDir, heatmapName(o.name))
			if err := render.WriteHeatmap(env.FS, path, o.title, o.g); err != nil {
				return nil, err
			}
			res.Files = append(res.Files, path)
		}
	}

	if dbPath := cfg.GetDBPath(); dbPath != "" {
		id, err := storeRun(dbPath, env.Clock, cfg, res)
		if err != nil {
			return nil, err
		}
		res.RunID = id
		monitoring.Logf("stored run %s in %s", id, dbPath)
	}

	return res, nil
}

func heatmapName(ppm string) string {
	return ppm[:len(ppm)-len(filepath.Ext(ppm))] + ".html"
}

func storeRun(path string, clock timeutil.Clock, cfg *config.RunConfig, res *Result) (string, error) {
	store, err := runstore.Open(path)
	if err != nil {
		return "", err
	}
	defer store.Close()
	store.SetClock(clock)

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	run := &runstore.Run{
		Size:              cfg.GetSize(),
		TotalShapes:       cfg.GetTotalShapes(),
		TotalTests:        cfg.GetTotalTests(),
		Strategy:          cfg.GetStrategy(),
		RangeRule:         cfg.GetRangeRule(),
		Seed:              cfg.GetSeed(),
		RectAccuracy:      res.Report.RectAccuracy,
		CircleAccuracy:    res.Report.CircleAccuracy,
		MeanRectScore:     res.Report.MeanRectScore,
		MeanCircleScore:   res.Report.MeanCircleScore,
		RectAccumulated:   res.Stats.RectAccumulated,
		CircleAccumulated: res.Stats.CircleAccumulated,
		TrainSeconds:      res.TrainTime.Seconds(),
		ConfigJSON:        cfgJSON,
	}
	if err := store.Insert(run); err != nil {
		return "", err
	}
	return run.RunID, nil
}

// PrintReport writes the two accuracy lines. With scores set it also writes
// the mean raw score per class.
func PrintReport(w io.Writer, r hebbian.Report, scores bool) {
	fmt.Fprintf(w, "Rect Test Accuracy: %.1f%%\n", r.RectAccuracy)
	fmt.Fprintf(w, "Circle Test Accuracy: %.1f%%\n", r.CircleAccuracy)
	if scores {
		fmt.Fprintf(w, "Rect Test Output: %g\n", r.MeanRectScore)
		fmt.Fprintf(w, "Circle Test Output: %g\n", r.MeanCircleScore)
	}
}

// PrintHistory lists stored runs newest first.
func PrintHistory(w io.Writer, dbPath string, limit int) error {
	store, err := runstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		created := time.Unix(0, r.CreatedAt).UTC().Format(time.RFC3339)
		fmt.Fprintf(w, "%s  %s  size=%d shapes=%d strategy=%s seed=%d  rect=%.1f%% circle=%.1f%%\n",
			r.RunID, created, r.Size, r.TotalShapes, r.Strategy, r.Seed, r.RectAccuracy, r.CircleAccuracy)
	}
	return nil
}
