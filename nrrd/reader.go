package nrrd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/cwbudde/algo-spectra/spectral"
)

// ReadFile reads a spectral image from the NRRD file at path.
func ReadFile(path string) (*spectral.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("nrrd: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read reads a spectral image from r.
//
// Dimension-3 files map their first axis to spectrum bins, the second to
// depth, the third to scan lines. Dimension-2 files are scalar images and
// yield an image with a single bin per pixel.
func Read(r io.Reader) (*spectral.Image, error) {
	br := bufio.NewReader(r)

	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	var data io.Reader = br
	if h.encoding == "gzip" {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("nrrd: %w", err)
		}
		defer gz.Close()
		data = gz
	}

	raw := make([]byte, h.samples()*h.sampleBytes())
	if _, err := io.ReadFull(data, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSize, err)
	}

	samples := decodeSamples(raw, h)

	switch h.dimension {
	case 2:
		return spectral.FromData(h.sizes[0], h.sizes[1], 1, samples)
	default:
		return spectral.FromData(h.sizes[1], h.sizes[2], h.sizes[0], samples)
	}
}

// readHeader consumes the header up to and including the blank line that
// separates it from the data.
func readHeader(br *bufio.Reader) (*header, error) {
	magic, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if !strings.HasPrefix(magic, "NRRD000") || len(magic) != 8 || magic[7] < '1' || magic[7] > '5' {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, magic)
	}

	h := &header{}
	seen := map[string]bool{}
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("%w: header not terminated", ErrMissingField)
		}
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ":=") {
			// Key/value pairs carry no geometry; skip them.
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, line)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		seen[name] = true

		if err := h.setField(name, value); err != nil {
			return nil, err
		}
	}

	for _, field := range []string{"type", "dimension", "sizes", "encoding"} {
		if !seen[field] {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}
	if len(h.sizes) != h.dimension {
		return nil, fmt.Errorf("%w: %d sizes for dimension %d", ErrInvalidField, len(h.sizes), h.dimension)
	}
	return h, nil
}

func (h *header) setField(name, value string) error {
	switch name {
	case "type":
		switch value {
		case "float":
			h.sampleType = "float"
		case "double":
			h.sampleType = "double"
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedType, value)
		}
	case "dimension":
		d, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: dimension %q", ErrInvalidField, value)
		}
		if d != 2 && d != 3 {
			return fmt.Errorf("%w: %d", ErrUnsupportedDimension, d)
		}
		h.dimension = d
	case "sizes":
		for _, field := range strings.Fields(value) {
			s, err := strconv.Atoi(field)
			if err != nil || s < 0 {
				return fmt.Errorf("%w: sizes %q", ErrInvalidField, value)
			}
			h.sizes = append(h.sizes, s)
		}
	case "encoding":
		switch value {
		case "raw":
			h.encoding = "raw"
		case "gzip", "gz":
			h.encoding = "gzip"
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedEncoding, value)
		}
	case "endian":
		switch value {
		case "little":
			h.bigEndian = false
		case "big":
			h.bigEndian = true
		default:
			return fmt.Errorf("%w: endian %q", ErrInvalidField, value)
		}
	}
	// Other fields (kinds, content, space directions, ...) carry no
	// information this package needs.
	return nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func decodeSamples(raw []byte, h *header) []float64 {
	var order binary.ByteOrder = binary.LittleEndian
	if h.bigEndian {
		order = binary.BigEndian
	}

	out := make([]float64, h.samples())
	if h.sampleType == "float" {
		for i := range out {
			out[i] = float64(math.Float32frombits(order.Uint32(raw[i*4:])))
		}
		return out
	}
	for i := range out {
		out[i] = math.Float64frombits(order.Uint64(raw[i*8:]))
	}
	return out
}
