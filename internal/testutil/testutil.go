// Package testutil provides shared test helpers for grid comparisons and
// diagnostic log capture.
package testutil

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/banshee-data/shapegrid/internal/grid"
	"github.com/banshee-data/shapegrid/internal/monitoring"
)

// GridFromRows builds a square grid from row-major values. Rows must all
// have the same length as the number of rows.
func GridFromRows(rows ...[]float64) *grid.Grid {
	g := grid.New(len(rows))
	for y, row := range rows {
		if len(row) != len(rows) {
			panic(fmt.Sprintf("testutil: row %d has %d cells, want %d", y, len(row), len(rows)))
		}
		for x, v := range row {
			g.Set(x, y, v)
		}
	}
	return g
}

// AssertGridsEqual fails the test if the grids differ in size or in any cell
// by more than tol.
func AssertGridsEqual(t testing.TB, want, got *grid.Grid, tol float64) {
	t.Helper()
	if want.Size() != got.Size() {
		t.Errorf("grid size = %d, want %d", got.Size(), want.Size())
		return
	}
	var opts []cmp.Option
	if tol > 0 {
		opts = append(opts, cmpopts.EquateApprox(0, tol))
	}
	if diff := cmp.Diff(want.Cells(), got.Cells(), opts...); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

// LogBuffer collects monitoring output. Safe for concurrent writers.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) logf(format string, v ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(&b.buf, format, v...)
	b.buf.WriteByte('\n')
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogs routes monitoring output into the returned buffer and turns on
// verbose output until the test ends. Not for parallel tests.
func CaptureLogs(t testing.TB) *LogBuffer {
	t.Helper()
	prev, prevVerbose := monitoring.Logf, monitoring.Verbose()
	lb := &LogBuffer{}
	monitoring.SetLogger(lb.logf)
	monitoring.SetVerbose(true)
	t.Cleanup(func() {
		monitoring.SetLogger(prev)
		monitoring.SetVerbose(prevVerbose)
	})
	return lb
}

// MuteLogs silences monitoring output until the test ends.
func MuteLogs(t testing.TB) {
	t.Helper()
	prev := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(prev) })
}
