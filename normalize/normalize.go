// Package normalize divides spectral images by a reference spectrum line,
// typically a phantom or calibration acquisition, so that spectra from
// different transducers or gain settings become comparable.
package normalize

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectra/spectral"
)

// Errors returned by Divide.
var (
	ErrNilImage        = errors.New("normalize: nil image")
	ErrWidthMismatch   = errors.New("normalize: reference width mismatch")
	ErrBinsMismatch    = errors.New("normalize: reference spectrum length mismatch")
	ErrReferenceHeight = errors.New("normalize: reference must hold a single line")
)

// Divide returns input with every pixel's spectrum divided element-wise by
// the reference spectrum at the same depth. The reference holds one
// spectrum per depth sample: its width must equal the input width and its
// height must be 1. Samples where the reference is zero yield zero rather
// than Inf, matching the behavior of calibration workflows where an empty
// reference bin means "no information", not "infinite gain".
func Divide(input, reference *spectral.Image) (*spectral.Image, error) {
	if input == nil || reference == nil {
		return nil, ErrNilImage
	}
	if reference.Height() != 1 {
		return nil, fmt.Errorf("%w: height %d", ErrReferenceHeight, reference.Height())
	}
	if reference.Width() != input.Width() {
		return nil, fmt.Errorf("%w: reference %d, input %d", ErrWidthMismatch, reference.Width(), input.Width())
	}
	if reference.Bins() != input.Bins() {
		return nil, fmt.Errorf("%w: reference %d, input %d", ErrBinsMismatch, reference.Bins(), input.Bins())
	}

	out, err := spectral.New(input.Width(), input.Height(), input.Bins())
	if err != nil {
		return nil, err
	}

	for y := 0; y < input.Height(); y++ {
		for x := 0; x < input.Width(); x++ {
			in := input.Spectrum(x, y)
			ref := reference.Spectrum(x, 0)
			dst := out.Spectrum(x, y)
			for k, r := range ref {
				if r == 0 {
					dst[k] = 0
					continue
				}
				dst[k] = in[k] / r
			}
		}
	}
	return out, nil
}
