// Package support computes local spectrum support windows: for each output
// position, the set of pixel indices whose samples contribute to the local
// spectrum estimate at that position.
//
// A window spans a nominal FFT length along the scan line, truncated at the
// deep edge of the image, and a per-pixel number of neighboring scan lines
// on either side, clamped at the lateral edges. Window origins may be
// decimated along the scan line with Step.
package support

import (
	"errors"
	"fmt"
)

// Errors returned by Windows.
var (
	ErrInvalidFFTSize    = errors.New("support: fft size must be positive")
	ErrInvalidStep       = errors.New("support: step must be non-negative")
	ErrRaggedRows        = errors.New("support: rows differ in width")
	ErrNegativeSideLines = errors.New("support: side line count must be non-negative")
)

// Index addresses one pixel: X along the scan line (depth), Y across lines.
type Index struct {
	X int
	Y int
}

// Params configures window generation.
type Params struct {
	// FFTSize is the nominal number of samples a window spans along the
	// scan line. Windows near the deep edge are truncated.
	FFTSize int

	// Step is the number of samples between window origins along the scan
	// line. Zero means 1 (a window at every sample).
	Step int
}

// Windows returns the support window for every output position.
//
// sideLines holds, per pixel, the nominal number of scan lines on either
// side of the pixel's own line to include; it is indexed [line][depth] and
// must be rectangular. The result is indexed [line][origin], where origins
// run 0, Step, 2*Step, ... along the scan line, and each entry lists the
// contributing pixel indices line by line.
func Windows(sideLines [][]int, p Params) ([][][]Index, error) {
	if p.FFTSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, p.FFTSize)
	}
	if p.Step < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStep, p.Step)
	}
	step := p.Step
	if step == 0 {
		step = 1
	}

	height := len(sideLines)
	if height == 0 {
		return nil, nil
	}
	width := len(sideLines[0])
	for y, row := range sideLines {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrRaggedRows, y, len(row), width)
		}
		for x, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("%w: %d at (%d,%d)", ErrNegativeSideLines, v, x, y)
			}
		}
	}

	out := make([][][]Index, height)
	for y := 0; y < height; y++ {
		var line [][]Index
		for x0 := 0; x0 < width; x0 += step {
			line = append(line, window(sideLines[y][x0], x0, y, width, height, p.FFTSize))
		}
		out[y] = line
	}
	return out, nil
}

// window builds the index list for one output position.
func window(side, x0, y, width, height, fftSize int) []Index {
	yLo := max(y-side, 0)
	yHi := min(y+side, height-1)
	xHi := min(x0+fftSize, width)

	w := make([]Index, 0, (yHi-yLo+1)*(xHi-x0))
	for ly := yLo; ly <= yHi; ly++ {
		for lx := x0; lx < xHi; lx++ {
			w = append(w, Index{X: lx, Y: ly})
		}
	}
	return w
}
