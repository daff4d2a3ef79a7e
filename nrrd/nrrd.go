package nrrd

import (
	"errors"
)

// Errors returned by the reader and writer.
var (
	ErrBadMagic             = errors.New("nrrd: bad magic")
	ErrMissingField         = errors.New("nrrd: missing required field")
	ErrInvalidField         = errors.New("nrrd: invalid field value")
	ErrUnsupportedType      = errors.New("nrrd: unsupported sample type")
	ErrUnsupportedDimension = errors.New("nrrd: unsupported dimension")
	ErrUnsupportedEncoding  = errors.New("nrrd: unsupported encoding")
	ErrDataSize             = errors.New("nrrd: data size does not match header")
)

// header holds the parsed NRRD fields this package understands.
type header struct {
	sampleType string // "float" or "double"
	dimension  int
	sizes      []int
	encoding   string // "raw" or "gzip"
	bigEndian  bool
}

func (h *header) sampleBytes() int {
	if h.sampleType == "float" {
		return 4
	}
	return 8
}

func (h *header) samples() int {
	n := 1
	for _, s := range h.sizes {
		n *= s
	}
	return n
}
