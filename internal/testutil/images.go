package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-spectra/spectral"
)

// ConstImage returns an image in which every pixel holds the same spectrum.
func ConstImage(t *testing.T, width, height int, spectrum []float64) *spectral.Image {
	t.Helper()
	img, err := spectral.New(width, height, len(spectrum))
	if err != nil {
		t.Fatalf("New(%d, %d, %d): %v", width, height, len(spectrum), err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			copy(img.Spectrum(x, y), spectrum)
		}
	}
	return img
}

// RampImage returns an image whose sample at (x, y, k) equals
// base + x + 10*y + 100*k, so every sample is distinct and position errors
// show up as large differences.
func RampImage(t *testing.T, width, height, bins int, base float64) *spectral.Image {
	t.Helper()
	img, err := spectral.New(width, height, bins)
	if err != nil {
		t.Fatalf("New(%d, %d, %d): %v", width, height, bins, err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := img.Spectrum(x, y)
			for k := range s {
				s[k] = base + float64(x) + 10*float64(y) + 100*float64(k)
			}
		}
	}
	return img
}

// NoiseImage returns an image filled with deterministic noise in
// [-amplitude, amplitude] from a fixed seed.
func NoiseImage(t *testing.T, width, height, bins int, seed int64, amplitude float64) *spectral.Image {
	t.Helper()
	img, err := spectral.New(width, height, bins)
	if err != nil {
		t.Fatalf("New(%d, %d, %d): %v", width, height, bins, err)
	}
	rng := rand.New(rand.NewSource(seed))
	data := img.Data()
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return img
}

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}
