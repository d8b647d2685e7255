package render

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/shapegrid/internal/fsutil"
	"github.com/banshee-data/shapegrid/internal/grid"
)

// Diverging palette: blue for negative (circle) weight, yellow for positive
// (rectangle) weight, matching the PPM colouring.
var heatmapPalette = []string{"#08306b", "#2171b5", "#6baed6", "#c6dbef", "#f7f7f7", "#fee391", "#fec44f", "#ec7014", "#993404"}

// NewHeatmap builds an echarts heatmap of g. Row 0 is drawn at the top.
func NewHeatmap(title string, g *grid.Grid) *charts.HeatMap {
	n := g.Size()
	xLabels := make([]string, n)
	yLabels := make([]string, n)
	for i := 0; i < n; i++ {
		xLabels[i] = strconv.Itoa(i)
		yLabels[i] = strconv.Itoa(n - 1 - i)
	}

	data := make([]opts.HeatMapData, 0, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{x, n - 1 - y, g.At(x, y)}})
		}
	}

	lo, hi := g.MinMax()
	// Symmetric range keeps zero at the palette midpoint.
	bound := max(-lo, hi)
	if bound == 0 {
		bound = 1
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("size=%d min=%.1f max=%.1f", n, lo, hi)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xLabels, Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yLabels, Name: "y"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(-bound),
			Max:        float32(bound),
			InRange:    &opts.VisualMapInRange{Color: heatmapPalette},
		}),
	)
	hm.SetXAxis(xLabels).AddSeries("cells", data)
	return hm
}

// WriteHeatmap renders g as an HTML heatmap page at path.
func WriteHeatmap(fsys fsutil.FileSystem, path, title string, g *grid.Grid) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create heatmap dir: %w", err)
		}
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := NewHeatmap(title, g).Render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render heatmap: %w", err)
	}
	return f.Close()
}
