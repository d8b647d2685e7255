// Package trainplot charts training progress with gonum/plot.
package trainplot

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/shapegrid/internal/fsutil"
	"github.com/banshee-data/shapegrid/internal/hebbian"
	"github.com/banshee-data/shapegrid/internal/shapes"
)

const (
	// DefaultWindow is the rolling window for the accumulation-rate curve.
	DefaultWindow = 500
	// maxPlotPoints caps points per line; longer series are strided.
	maxPlotPoints = 2000
)

// Output file names written by GeneratePlots.
const (
	ScoresFile           = "scores.png"
	AccumulationRateFile = "accumulation_rate.png"
)

var classColors = map[shapes.Kind]color.Color{
	shapes.KindRect:   color.RGBA{R: 230, G: 159, B: 0, A: 255},
	shapes.KindCircle: color.RGBA{R: 0, G: 114, B: 178, A: 255},
}

// Sample is one training event as recorded for plotting.
type Sample struct {
	Iteration   int
	Score       float64
	Accumulated bool
}

// Progress records per-class training samples. Attach Observe to a trainer
// with hebbian.WithObserver, then call GeneratePlots after training.
type Progress struct {
	mu      sync.Mutex
	window  int
	samples map[shapes.Kind][]Sample
}

// NewProgress creates a recorder. A window <= 0 selects DefaultWindow.
func NewProgress(window int) *Progress {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Progress{
		window: window,
		samples: map[shapes.Kind][]Sample{
			shapes.KindRect:   nil,
			shapes.KindCircle: nil,
		},
	}
}

// Observe records one training event. It has the hebbian.Observer signature.
func (p *Progress) Observe(ev hebbian.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samples[ev.Kind] = append(p.samples[ev.Kind], Sample{
		Iteration:   ev.Iteration,
		Score:       ev.Score,
		Accumulated: ev.Accumulated,
	})
}

// SampleCount returns the total number of samples collected.
func (p *Progress) SampleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, s := range p.samples {
		n += len(s)
	}
	return n
}

// ScoreSeries returns (iteration, score) points for kind, strided to at most
// maxPlotPoints.
func (p *Progress) ScoreSeries(kind shapes.Kind) plotter.XYs {
	p.mu.Lock()
	defer p.mu.Unlock()
	samples := p.samples[kind]
	stride := strideFor(len(samples))
	pts := make(plotter.XYs, 0, len(samples)/stride+1)
	for i := 0; i < len(samples); i += stride {
		pts = append(pts, plotter.XY{X: float64(samples[i].Iteration), Y: samples[i].Score})
	}
	return pts
}

// RateSeries returns the fraction of the trailing window of samples that were
// accumulated, per iteration, strided to at most maxPlotPoints.
func (p *Progress) RateSeries(kind shapes.Kind) plotter.XYs {
	p.mu.Lock()
	defer p.mu.Unlock()
	samples := p.samples[kind]
	stride := strideFor(len(samples))
	pts := make(plotter.XYs, 0, len(samples)/stride+1)

	inWindow := 0
	for i, s := range samples {
		if s.Accumulated {
			inWindow++
		}
		if i >= p.window && samples[i-p.window].Accumulated {
			inWindow--
		}
		if i%stride != 0 {
			continue
		}
		n := min(i+1, p.window)
		pts = append(pts, plotter.XY{X: float64(s.Iteration), Y: float64(inWindow) / float64(n)})
	}
	return pts
}

// GeneratePlots writes ScoresFile and AccumulationRateFile into dir and
// returns how many plots were written.
func (p *Progress) GeneratePlots(fsys fsutil.FileSystem, dir string) (int, error) {
	if dir == "" {
		return 0, fmt.Errorf("no output directory configured")
	}
	if p.SampleCount() == 0 {
		return 0, nil
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output dir: %w", err)
	}

	pScores := plot.New()
	pScores.Title.Text = "Feed-forward score per training sample"
	pScores.X.Label.Text = "Iteration"
	pScores.Y.Label.Text = "Score"

	pRate := plot.New()
	pRate.Title.Text = fmt.Sprintf("Accumulation rate (trailing %d samples)", p.window)
	pRate.X.Label.Text = "Iteration"
	pRate.Y.Label.Text = "Fraction accumulated"
	pRate.Y.Min = 0
	pRate.Y.Max = 1

	for _, kind := range []shapes.Kind{shapes.KindRect, shapes.KindCircle} {
		if err := addLine(pScores, kind, p.ScoreSeries(kind)); err != nil {
			return 0, err
		}
		if err := addLine(pRate, kind, p.RateSeries(kind)); err != nil {
			return 0, err
		}
	}

	for _, pl := range []*plot.Plot{pScores, pRate} {
		pl.Legend.Top = true
		pl.Legend.Left = false
		pl.Legend.XOffs = -10
		pl.Legend.YOffs = -10
	}

	if err := savePNG(fsys, pScores, filepath.Join(dir, ScoresFile)); err != nil {
		return 0, fmt.Errorf("save scores plot: %w", err)
	}
	if err := savePNG(fsys, pRate, filepath.Join(dir, AccumulationRateFile)); err != nil {
		return 1, fmt.Errorf("save accumulation plot: %w", err)
	}
	return 2, nil
}

func addLine(pl *plot.Plot, kind shapes.Kind, pts plotter.XYs) error {
	if len(pts) == 0 {
		return nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = classColors[kind]
	line.Width = vg.Points(1)
	pl.Add(line)
	pl.Legend.Add(kind.String(), line)
	return nil
}

func savePNG(fsys fsutil.FileSystem, pl *plot.Plot, path string) error {
	wt, err := pl.WriterTo(14*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return err
	}
	f, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func strideFor(n int) int {
	if n <= maxPlotPoints {
		return 1
	}
	return int(math.Ceil(float64(n) / float64(maxPlotPoints)))
}
