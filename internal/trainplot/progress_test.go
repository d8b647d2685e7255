package trainplot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/shapegrid/internal/fsutil"
	"github.com/banshee-data/shapegrid/internal/hebbian"
	"github.com/banshee-data/shapegrid/internal/shapes"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRateSeriesTrailingWindow(t *testing.T) {
	p := NewProgress(2)
	for i, acc := range []bool{true, true, false, false, true} {
		p.Observe(hebbian.Event{Iteration: i, Kind: shapes.KindRect, Accumulated: acc})
	}

	pts := p.RateSeries(shapes.KindRect)
	require.Len(t, pts, 5)
	got := make([]float64, len(pts))
	for i, pt := range pts {
		got[i] = pt.Y
	}
	assert.Equal(t, []float64{1, 1, 0.5, 0, 0.5}, got)
	assert.Empty(t, p.RateSeries(shapes.KindCircle))
}

func TestScoreSeriesStrides(t *testing.T) {
	p := NewProgress(0)
	for i := 0; i < 5000; i++ {
		p.Observe(hebbian.Event{Iteration: i, Kind: shapes.KindCircle, Score: float64(i)})
	}
	pts := p.ScoreSeries(shapes.KindCircle)
	assert.LessOrEqual(t, len(pts), maxPlotPoints)
	assert.Equal(t, 0.0, pts[0].Y)
	assert.Equal(t, 5000, p.SampleCount())
}

func TestGeneratePlotsFromTraining(t *testing.T) {
	gen := shapes.NewGenerator(16, shapes.CenteredBias, shapes.HalfOpen, 21)
	cfg := hebbian.DefaultConfig()
	cfg.Size = 16
	cfg.TotalShapes = 300
	cfg.TotalTests = 0

	progress := NewProgress(50)
	tr, err := hebbian.NewTrainer(cfg, gen, hebbian.WithObserver(progress.Observe))
	require.NoError(t, err)
	_, err = tr.Train()
	require.NoError(t, err)
	assert.Equal(t, 600, progress.SampleCount())

	fsys := fsutil.NewMemoryFileSystem()
	n, err := progress.GeneratePlots(fsys, "out/plots")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, name := range []string{"out/plots/" + ScoresFile, "out/plots/" + AccumulationRateFile} {
		data, err := fsys.ReadFile(name)
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, pngMagic), name)
	}
}

func TestGeneratePlotsEmpty(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	n, err := NewProgress(10).GeneratePlots(fsys, "out")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = NewProgress(10).GeneratePlots(fsys, "")
	assert.Error(t, err)
}
