package render

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/shapegrid/internal/fsutil"
	"github.com/banshee-data/shapegrid/internal/grid"
)

func TestSigmoidColor(t *testing.T) {
	r, g, b := SigmoidColor(0, 32)
	assert.Equal(t, [3]uint8{127, 127, 128}, [3]uint8{r, g, b})

	// Large positive values saturate toward yellow, negative toward blue.
	r, g, b = SigmoidColor(1e6, 32)
	assert.Equal(t, [3]uint8{255, 255, 0}, [3]uint8{r, g, b})
	r, g, b = SigmoidColor(-1e6, 32)
	assert.Equal(t, [3]uint8{0, 0, 255}, [3]uint8{r, g, b})

	// 255/(1+e^-1) = 186.4...
	r, _, b = SigmoidColor(32, 32)
	assert.Equal(t, uint8(186), r)
	assert.Equal(t, uint8(69), b)
}

func TestGridPPMAllZero(t *testing.T) {
	for _, s := range []int{1, 3, 64} {
		out := GridPPM(grid.New(s), 32)
		header := "P6 " + strconv.Itoa(s) + " " + strconv.Itoa(s) + " 255\n"
		require.True(t, bytes.HasPrefix(out, []byte(header)), "size %d", s)

		pix := out[len(header):]
		require.Len(t, pix, s*s*3)
		for i := 0; i < len(pix); i += 3 {
			assert.Equal(t, []byte{127, 127, 128}, pix[i:i+3])
		}
	}
}

func TestEncodePPMMatchesGridPPM(t *testing.T) {
	g := grid.New(4)
	g.FillRect(0, 0, 1, 1, 40)
	g.FillCircle(2, 2, 1, -40)

	var buf bytes.Buffer
	require.NoError(t, EncodePPM(&buf, 4, 4, g.ToImage(SigmoidColor, 32)))
	assert.Equal(t, GridPPM(g, 32), buf.Bytes())
}

func TestEncodePPMRejectsShortBuffer(t *testing.T) {
	var buf bytes.Buffer
	err := EncodePPM(&buf, 2, 2, make([]byte, 11))
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestWritePPM(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	g := grid.New(2)
	require.NoError(t, WritePPM(fsys, "out/weights.ppm", g, 32))
	assert.True(t, fsys.Exists("out"))

	data, err := fsys.ReadFile("out/weights.ppm")
	require.NoError(t, err)
	assert.Equal(t, GridPPM(g, 32), data)
	assert.Equal(t, "P6 2 2 255\n", string(data[:len(data)-2*2*3]))
}

func TestColorScale(t *testing.T) {
	pix := ColorScalePixels(32)
	require.Len(t, pix, ColorScaleSize*ColorScaleSize*3)

	row := func(y int) []byte { return pix[y*ColorScaleSize*3 : (y+1)*ColorScaleSize*3] }

	// Top row is value -256, the middle row is zero, the bottom row is 255.
	assert.Equal(t, []byte{0, 0, 255}, row(0)[:3])
	assert.Equal(t, []byte{127, 127, 128}, row(ColorScaleSize / 2)[:3])
	assert.Equal(t, []byte{254, 254, 1}, row(ColorScaleSize - 1)[:3])

	// Every column in a row carries the same colour.
	for _, y := range []int{0, 100, 256, 511} {
		first := row(y)[:3]
		for x := 1; x < ColorScaleSize; x++ {
			require.Equal(t, first, row(y)[x*3:x*3+3], "row %d col %d", y, x)
		}
	}

	fsys := fsutil.NewMemoryFileSystem()
	require.NoError(t, WriteColorScale(fsys, "out/colorScale.ppm", 32))
	data, err := fsys.ReadFile("out/colorScale.ppm")
	require.NoError(t, err)
	header := "P6 512 512 255\n"
	require.True(t, strings.HasPrefix(string(data), header))
	assert.Equal(t, pix, data[len(header):])
}

func TestWriteHeatmap(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	g := grid.New(4)
	g.FillRect(0, 0, 1, 1, 3)
	g.FillCircle(2, 2, 0, -2)

	require.NoError(t, WriteHeatmap(fsys, "out/weights.html", "Trained weights", g))
	data, err := fsys.ReadFile("out/weights.html")
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.Contains(html, "Trained weights"))
	assert.True(t, strings.Contains(html, "heatmap"))
}

func TestNewHeatmapAllZeroGrid(t *testing.T) {
	assert.NotPanics(t, func() { NewHeatmap("empty", grid.New(3)) })
}
