// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/rent-vs-buy/pkg/mathutil"
)

// RelativeTolerance is the default agreement required between a computed
// figure and a reference value.
const RelativeTolerance = 1e-6

// AssertRelative fails the test when got and want differ by more than
// RelativeTolerance relative to want.
func AssertRelative(t testing.TB, name string, got, want float64) {
	t.Helper()
	if mathutil.RelativeError(got, want) > RelativeTolerance {
		t.Errorf("%s = %.10f, expected %.10f", name, got, want)
	}
}

// AssertWithin fails the test when got and want differ by more than tolerance.
func AssertWithin(t testing.TB, name string, got, want, tolerance float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, want, tolerance) {
		t.Errorf("%s = %.4f, expected %.4f (tolerance %.4f)", name, got, want, tolerance)
	}
}

// WriteFile writes contents to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
