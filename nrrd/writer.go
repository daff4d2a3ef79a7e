package nrrd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/cwbudde/algo-spectra/spectral"
)

type writeConfig struct {
	gzip    bool
	float32 bool
	content string
}

// WriteOption mutates the writer configuration.
type WriteOption func(*writeConfig)

// WithGzip enables gzip encoding of the sample data.
func WithGzip() WriteOption {
	return func(cfg *writeConfig) {
		cfg.gzip = true
	}
}

// WithFloat32 stores samples as 32-bit floats, halving file size at the
// cost of precision.
func WithFloat32() WriteOption {
	return func(cfg *writeConfig) {
		cfg.float32 = true
	}
}

// WithContent sets the free-text content field in the header.
func WithContent(s string) WriteOption {
	return func(cfg *writeConfig) {
		cfg.content = s
	}
}

// WriteFile writes img as a NRRD file at path.
func WriteFile(path string, img *spectral.Image, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nrrd: %w", err)
	}
	if err := Write(f, img, opts...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("nrrd: %w", err)
	}
	return nil
}

// Write writes img to w as a dimension-3 NRRD with the spectrum axis
// first, little-endian, double precision unless WithFloat32 is given.
func Write(w io.Writer, img *spectral.Image, opts ...WriteOption) error {
	cfg := writeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	bw := bufio.NewWriter(w)

	sampleType := "double"
	if cfg.float32 {
		sampleType = "float"
	}
	encoding := "raw"
	if cfg.gzip {
		encoding = "gzip"
	}

	fmt.Fprintln(bw, "NRRD0004")
	fmt.Fprintln(bw, "# Complete NRRD file format specification at:")
	fmt.Fprintln(bw, "# http://teem.sourceforge.net/nrrd/format.html")
	if cfg.content != "" {
		fmt.Fprintf(bw, "content: %s\n", cfg.content)
	}
	fmt.Fprintf(bw, "type: %s\n", sampleType)
	fmt.Fprintln(bw, "dimension: 3")
	fmt.Fprintf(bw, "sizes: %d %d %d\n", img.Bins(), img.Width(), img.Height())
	fmt.Fprintln(bw, "kinds: vector domain domain")
	fmt.Fprintln(bw, "endian: little")
	fmt.Fprintf(bw, "encoding: %s\n", encoding)
	fmt.Fprintln(bw)

	var data io.Writer = bw
	var gz *gzip.Writer
	if cfg.gzip {
		gz = gzip.NewWriter(bw)
		data = gz
	}

	if err := writeSamples(data, img.Data(), cfg.float32); err != nil {
		return fmt.Errorf("nrrd: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("nrrd: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("nrrd: %w", err)
	}
	return nil
}

func writeSamples(w io.Writer, samples []float64, asFloat32 bool) error {
	var buf [8]byte
	if asFloat32 {
		for _, v := range samples {
			binary.LittleEndian.PutUint32(buf[:4], math.Float32bits(float32(v)))
			if _, err := w.Write(buf[:4]); err != nil {
				return err
			}
		}
		return nil
	}
	for _, v := range samples {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}
