// Package spectra estimates local 1-D spectra from raw RF scan-line data,
// producing the spectral images that the average and normalize packages
// consume.
//
// For every output position, samples from a support window (a stretch of
// the scan line plus neighboring lines) are tapered with an analysis
// window, transformed with an FFT, and reduced to a one-sided magnitude
// spectrum. Spectra from the window's scan lines are averaged, which
// trades lateral resolution for variance reduction in the estimate.
package spectra

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-dsp/dsp/spectrum"
	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectra/spectral"
	"github.com/cwbudde/algo-spectra/support"
)

// Errors returned by the Estimator.
var (
	ErrInvalidFFTSize = errors.New("spectra: fft size must be positive")
	ErrRaggedLines    = errors.New("spectra: scan lines differ in length")
)

type config struct {
	step      int
	sideLines int
	winType   window.Type
}

// Option mutates the estimator configuration.
type Option func(*config)

// WithStep sets the number of samples between spectrum origins along the
// scan line. Values below 1 are ignored; the default is 1.
func WithStep(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.step = n
		}
	}
}

// WithSideLines sets the number of neighboring scan lines on either side
// whose spectra are averaged into each estimate. Negative values are
// ignored; the default is 0 (no lateral averaging).
func WithSideLines(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.sideLines = n
		}
	}
}

// WithWindow sets the analysis window type. The default is Hann.
func WithWindow(t window.Type) Option {
	return func(cfg *config) {
		cfg.winType = t
	}
}

// Estimator computes local spectra with a fixed FFT size and window. It is
// reusable across images but not safe for concurrent use; the FFT plan and
// scratch buffers are shared between calls.
type Estimator struct {
	fftSize   int
	step      int
	sideLines int
	coeffs    []float64
	plan      *algofft.Plan[complex128]

	buf []float64
	src []complex128
	dst []complex128
}

// New returns an Estimator for the given FFT size.
func New(fftSize int, opts ...Option) (*Estimator, error) {
	if fftSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	cfg := config{step: 1, winType: window.TypeHann}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectra: failed to create FFT plan: %w", err)
	}

	return &Estimator{
		fftSize:   fftSize,
		step:      cfg.step,
		sideLines: cfg.sideLines,
		coeffs:    window.Generate(cfg.winType, fftSize, window.WithPeriodic()),
		plan:      plan,
		buf:       make([]float64, fftSize),
		src:       make([]complex128, fftSize),
		dst:       make([]complex128, fftSize),
	}, nil
}

// Bins returns the spectrum length of estimated images: one-sided bins
// from DC to Nyquist.
func (e *Estimator) Bins() int {
	return e.fftSize/2 + 1
}

// Estimate computes the spectral image for the given RF data, indexed
// [line][depth sample]. All lines must have the same length. The output
// has one pixel per window origin along the depth axis (decimated by the
// configured step) and one row per scan line.
func (e *Estimator) Estimate(rf [][]float64) (*spectral.Image, error) {
	height := len(rf)
	if height == 0 {
		return spectral.New(0, 0, e.Bins())
	}
	width := len(rf[0])
	for y, line := range rf {
		if len(line) != width {
			return nil, fmt.Errorf("%w: line %d has %d samples, want %d", ErrRaggedLines, y, len(line), width)
		}
	}

	sideLines := make([][]int, height)
	for y := range sideLines {
		row := make([]int, width)
		for x := range row {
			row[x] = e.sideLines
		}
		sideLines[y] = row
	}
	windows, err := support.Windows(sideLines, support.Params{FFTSize: e.fftSize, Step: e.step})
	if err != nil {
		return nil, err
	}

	img, err := spectral.New(len(windows[0]), height, e.Bins())
	if err != nil {
		return nil, err
	}

	for y := 0; y < height; y++ {
		for ox, win := range windows[y] {
			if err := e.estimateWindow(rf, win, img.Spectrum(ox, y)); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

// estimateWindow accumulates the mean one-sided magnitude spectrum of the
// window's scan-line segments into acc.
func (e *Estimator) estimateWindow(rf [][]float64, win []support.Index, acc []float64) error {
	if len(win) == 0 {
		return nil
	}

	// Indices are line-major with an equal-length segment per line.
	x0 := win[0].X
	yLo := win[0].Y
	yHi := win[len(win)-1].Y
	segment := len(win) / (yHi - yLo + 1)

	for ly := yLo; ly <= yHi; ly++ {
		copy(e.buf, rf[ly][x0:x0+segment])
		for i := segment; i < e.fftSize; i++ {
			e.buf[i] = 0
		}
		vecmath.MulBlockInPlace(e.buf, e.coeffs)

		for i, v := range e.buf {
			e.src[i] = complex(v, 0)
		}
		if err := e.plan.Forward(e.dst, e.src); err != nil {
			return fmt.Errorf("spectra: forward FFT failed: %w", err)
		}

		vecmath.AddBlockInPlace(acc, spectrum.Magnitude(e.dst[:len(acc)]))
	}

	vecmath.ScaleBlockInPlace(acc, 1/float64(yHi-yLo+1))
	return nil
}
