package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectra/spectral"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireImageNearlyEqual fails t if the images differ in geometry or if
// any sample pair exceeds eps (absolute tolerance).
func RequireImageNearlyEqual(t *testing.T, got, want *spectral.Image, eps float64) {
	t.Helper()
	if got.Width() != want.Width() || got.Height() != want.Height() || got.Bins() != want.Bins() {
		t.Fatalf("geometry mismatch: got %dx%dx%d, want %dx%dx%d",
			got.Width(), got.Height(), got.Bins(), want.Width(), want.Height(), want.Bins())
	}
	RequireSliceNearlyEqual(t, got.Data(), want.Data(), eps)
}

// MaxAbsDiff returns the maximum absolute difference between two slices.
// Returns an error if the slices differ in length.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	maxDiff := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxDiff {
			maxDiff = d
		}
	}
	return maxDiff, nil
}
