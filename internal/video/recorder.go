package video

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/shapegrid/internal/fsutil"
	"github.com/banshee-data/shapegrid/internal/grid"
	"github.com/banshee-data/shapegrid/internal/render"
)

// FramesDir is the subdirectory of the output directory holding frames.
const FramesDir = "frames"

// Entry is one line pair of the manifest.
type Entry struct {
	Path     string // relative to the manifest
	Duration float64
}

// Recorder writes each snapshot it receives as a PPM frame and remembers the
// manifest entry for it. It satisfies hebbian.FrameSink.
type Recorder struct {
	fs            fsutil.FileSystem
	dir           string
	expectedRange float64
	schedule      *Schedule
	entries       []Entry
}

// NewRecorder writes frames under dir/frames.
func NewRecorder(fsys fsutil.FileSystem, dir string, expectedRange float64) *Recorder {
	return &Recorder{
		fs:            fsys,
		dir:           dir,
		expectedRange: expectedRange,
		schedule:      NewSchedule(),
	}
}

// FrameName returns the file name for frame index.
func FrameName(index int) string {
	return fmt.Sprintf("frame_%05d.ppm", index)
}

// RecordFrame renders weights into the next frame file.
func (r *Recorder) RecordFrame(index int, weights *grid.Grid) error {
	if len(r.entries) == 0 {
		if err := r.fs.MkdirAll(filepath.Join(r.dir, FramesDir), 0o755); err != nil {
			return fmt.Errorf("failed to create frames dir: %w", err)
		}
	}

	name := FrameName(index)
	if err := render.WritePPM(r.fs, filepath.Join(r.dir, FramesDir, name), weights, r.expectedRange); err != nil {
		return err
	}
	r.entries = append(r.entries, Entry{
		Path:     path.Join(FramesDir, name),
		Duration: r.schedule.Next(),
	})
	return nil
}

// Entries returns the frames recorded so far.
func (r *Recorder) Entries() []Entry { return r.entries }

// WriteManifest writes the manifest for all recorded frames to dir/name.
func (r *Recorder) WriteManifest(name string) error {
	f, err := r.fs.Create(filepath.Join(r.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	if err := EncodeManifest(f, r.entries); err != nil {
		f.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return f.Close()
}

// EncodeManifest writes "file '<path>'\n" and "duration <seconds>\n" per entry.
func EncodeManifest(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "file '%s'\nduration %s\n", e.Path, strconv.FormatFloat(e.Duration, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
