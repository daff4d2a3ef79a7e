package spectra

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-spectra/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0); !errors.Is(err, ErrInvalidFFTSize) {
		t.Fatalf("New(0) = %v, want ErrInvalidFFTSize", err)
	}
	if _, err := New(-4); !errors.Is(err, ErrInvalidFFTSize) {
		t.Fatalf("New(-4) = %v, want ErrInvalidFFTSize", err)
	}
}

func TestEstimateGeometry(t *testing.T) {
	e, err := New(16, WithStep(16))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rf := [][]float64{
		testutil.DeterministicSine(2, 16, 1, 64),
		testutil.DeterministicSine(2, 16, 1, 64),
	}
	img, err := e.Estimate(rf)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	if img.Width() != 4 || img.Height() != 2 || img.Bins() != 9 {
		t.Fatalf("geometry %dx%dx%d, want 4x2x9", img.Width(), img.Height(), img.Bins())
	}
}

func TestEstimateSinePeakBin(t *testing.T) {
	const fftSize = 32

	e, err := New(fftSize, WithStep(fftSize))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// A sine at 4 cycles per FFT length lands exactly on bin 4.
	rf := [][]float64{testutil.DeterministicSine(4, fftSize, 1, fftSize)}
	img, err := e.Estimate(rf)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	s := img.Spectrum(0, 0)
	peak := 0
	for k, v := range s {
		if v > s[peak] {
			peak = k
		}
	}
	if peak != 4 {
		t.Fatalf("peak bin = %d, want 4", peak)
	}
}

func TestEstimateSideLineAveraging(t *testing.T) {
	const fftSize = 16

	sine := testutil.DeterministicSine(2, fftSize, 1, fftSize)
	silent := make([]float64, fftSize)

	solo, err := New(fftSize, WithStep(fftSize))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	soloImg, err := solo.Estimate([][]float64{sine})
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	averaged, err := New(fftSize, WithStep(fftSize), WithSideLines(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	avgImg, err := averaged.Estimate([][]float64{silent, sine, silent})
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	// The middle row averages the sine line with two silent neighbors.
	want := make([]float64, len(soloImg.Spectrum(0, 0)))
	for k, v := range soloImg.Spectrum(0, 0) {
		want[k] = v / 3
	}
	testutil.RequireSliceNearlyEqual(t, avgImg.Spectrum(0, 1), want, 1e-12)

	// The top row only sees its own silent line plus the sine line below.
	want2 := make([]float64, len(want))
	for k, v := range soloImg.Spectrum(0, 0) {
		want2[k] = v / 2
	}
	testutil.RequireSliceNearlyEqual(t, avgImg.Spectrum(0, 0), want2, 1e-12)
}

func TestEstimateTruncatedWindow(t *testing.T) {
	e, err := New(16, WithStep(16))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// 20 samples: a full window at origin 0 and a 4-sample truncated
	// window at origin 16, zero-padded to the FFT length.
	rf := [][]float64{testutil.DeterministicSine(2, 16, 1, 20)}
	img, err := e.Estimate(rf)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if img.Width() != 2 {
		t.Fatalf("width = %d, want 2", img.Width())
	}
}

func TestEstimateRaggedLines(t *testing.T) {
	e, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = e.Estimate([][]float64{make([]float64, 8), make([]float64, 7)})
	if !errors.Is(err, ErrRaggedLines) {
		t.Fatalf("Estimate = %v, want ErrRaggedLines", err)
	}
}

func TestEstimateEmpty(t *testing.T) {
	e, err := New(8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img, err := e.Estimate(nil)
	if err != nil {
		t.Fatalf("Estimate(nil): %v", err)
	}
	if img.Width() != 0 || img.Height() != 0 {
		t.Fatalf("geometry %dx%d, want 0x0", img.Width(), img.Height())
	}
	if img.Bins() != e.Bins() {
		t.Fatalf("bins = %d, want %d", img.Bins(), e.Bins())
	}
}
