package spectral

import (
	"errors"
	"fmt"
)

// Errors returned by image construction and mutation.
var (
	ErrNegativeExtent = errors.New("spectral: image extent must be non-negative")
	ErrNegativeBins   = errors.New("spectral: bin count must be non-negative")
	ErrRaggedRows     = errors.New("spectral: pixel rows differ in width")
	ErrRaggedSpectra  = errors.New("spectral: pixel spectra differ in length")
	ErrSpectrumLength = errors.New("spectral: spectrum length mismatch")
	ErrDataLength     = errors.New("spectral: data length does not match image geometry")
)

// Image is a 2-D grid of spectra acquired along transducer scan lines.
//
// The x axis runs along a scan line (depth), the y axis across lines. Every
// pixel holds a spectrum of exactly Bins samples. Samples are stored in one
// row-major block with the spectrum of pixel (x, y) occupying
// Data()[((y*Width())+x)*Bins() : ...+Bins()].
type Image struct {
	width  int
	height int
	bins   int
	data   []float64
}

// New returns a zero-filled image of the given extent and spectrum length.
// Zero extents and a zero bin count are valid and yield an empty image.
func New(width, height, bins int) (*Image, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrNegativeExtent, width, height)
	}
	if bins < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeBins, bins)
	}
	return &Image{
		width:  width,
		height: height,
		bins:   bins,
		data:   make([]float64, width*height*bins),
	}, nil
}

// FromPixels builds an image from a [row][column][sample] grid, copying the
// samples. All rows must have the same width and all spectra the same
// length; ragged input is rejected here so later consumers never have to
// re-check per pixel.
func FromPixels(pixels [][][]float64) (*Image, error) {
	height := len(pixels)
	if height == 0 {
		return New(0, 0, 0)
	}

	width := len(pixels[0])
	for y, row := range pixels {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d pixels, want %d", ErrRaggedRows, y, len(row), width)
		}
	}
	if width == 0 {
		return New(0, height, 0)
	}

	bins := len(pixels[0][0])
	img, err := New(width, height, bins)
	if err != nil {
		return nil, err
	}

	for y, row := range pixels {
		for x, s := range row {
			if len(s) != bins {
				return nil, fmt.Errorf("%w: pixel (%d,%d) has %d samples, want %d", ErrRaggedSpectra, x, y, len(s), bins)
			}
			copy(img.Spectrum(x, y), s)
		}
	}
	return img, nil
}

// FromData wraps an existing flat sample block without copying. The slice
// length must equal width*height*bins. Mutations to the slice are visible
// through the image and vice versa.
func FromData(width, height, bins int, data []float64) (*Image, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrNegativeExtent, width, height)
	}
	if bins < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeBins, bins)
	}
	if len(data) != width*height*bins {
		return nil, fmt.Errorf("%w: have %d samples, want %d", ErrDataLength, len(data), width*height*bins)
	}
	return &Image{width: width, height: height, bins: bins, data: data}, nil
}

// Width returns the extent along a scan line (depth samples).
func (im *Image) Width() int { return im.width }

// Height returns the number of scan lines.
func (im *Image) Height() int { return im.height }

// Bins returns the spectrum length shared by all pixels.
func (im *Image) Bins() int { return im.bins }

// Pixels returns the number of pixels in the grid.
func (im *Image) Pixels() int { return im.width * im.height }

// Data returns the underlying flat sample block. The caller may read and
// write through it; the layout is documented on Image.
func (im *Image) Data() []float64 { return im.data }

// Spectrum returns the spectrum at pixel (x, y) as a view into the image
// data. Mutating the returned slice mutates the image. Out-of-range
// coordinates panic, like slice indexing.
func (im *Image) Spectrum(x, y int) []float64 {
	if x < 0 || x >= im.width || y < 0 || y >= im.height {
		panic(fmt.Sprintf("spectral: pixel (%d,%d) out of range %dx%d", x, y, im.width, im.height))
	}
	off := (y*im.width + x) * im.bins
	return im.data[off : off+im.bins : off+im.bins]
}

// SetSpectrum copies s into the spectrum at pixel (x, y). The length of s
// must equal Bins.
func (im *Image) SetSpectrum(x, y int, s []float64) error {
	if len(s) != im.bins {
		return fmt.Errorf("%w: have %d samples, want %d", ErrSpectrumLength, len(s), im.bins)
	}
	copy(im.Spectrum(x, y), s)
	return nil
}

// Clone returns a deep copy of the image.
func (im *Image) Clone() *Image {
	out := &Image{
		width:  im.width,
		height: im.height,
		bins:   im.bins,
		data:   make([]float64, len(im.data)),
	}
	copy(out.data, im.data)
	return out
}

// SameExtent reports whether both images share the same spatial extent.
func (im *Image) SameExtent(o *Image) bool {
	return im.width == o.width && im.height == o.height
}
