package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/shapegrid/internal/fsutil"
	"github.com/banshee-data/shapegrid/internal/grid"
)

// ColorScaleSize is the edge length of the image written by WriteColorScale.
const ColorScaleSize = 512

// EncodePPM writes a binary portable pixmap: the header "P6 <w> <h> 255\n"
// followed by width*height RGB triples, row-major.
func EncodePPM(w io.Writer, width, height int, pixels []byte) error {
	if len(pixels) != width*height*3 {
		return fmt.Errorf("ppm: have %d bytes for %dx%d image, want %d", len(pixels), width, height, width*height*3)
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6 %d %d 255\n", width, height); err != nil {
		return err
	}
	if _, err := bw.Write(pixels); err != nil {
		return err
	}
	return bw.Flush()
}

// GridPPM renders g with SigmoidColor and returns the complete PPM file.
func GridPPM(g *grid.Grid, expectedRange float64) []byte {
	var buf bytes.Buffer
	// Pixel length always matches, and bytes.Buffer writes do not fail.
	_ = EncodePPM(&buf, g.Size(), g.Size(), g.ToImage(SigmoidColor, expectedRange))
	return buf.Bytes()
}

// WritePPM renders g and writes it to path, creating parent directories.
func WritePPM(fsys fsutil.FileSystem, path string, g *grid.Grid, expectedRange float64) error {
	return writeImage(fsys, path, g.Size(), g.ToImage(SigmoidColor, expectedRange))
}

// ColorScalePixels renders SigmoidColor over values -256..255, one value per
// row from top to bottom, ColorScaleSize columns wide.
func ColorScalePixels(expectedRange float64) []byte {
	pix := make([]byte, 0, ColorScaleSize*ColorScaleSize*3)
	for y := 0; y < ColorScaleSize; y++ {
		r, g, b := SigmoidColor(float64(y-ColorScaleSize/2), expectedRange)
		for x := 0; x < ColorScaleSize; x++ {
			pix = append(pix, r, g, b)
		}
	}
	return pix
}

// WriteColorScale writes the reference colour scale for expectedRange to path.
func WriteColorScale(fsys fsutil.FileSystem, path string, expectedRange float64) error {
	return writeImage(fsys, path, ColorScaleSize, ColorScalePixels(expectedRange))
}

func writeImage(fsys fsutil.FileSystem, path string, size int, pixels []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create image dir: %w", err)
		}
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodePPM(f, size, size, pixels); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
