// Command rfspectra computes local 1-D spectra from raw RF scan-line data
// and writes them as a spectral image, optionally normalized by a
// reference acquisition.
//
// Usage:
//
//	rfspectra -i rf.nrrd -o spectra.nrrd [-fft-size 64] [-step 16]
//	          [-side-lines 2] [-window hann] [-reference phantom.nrrd]
//
// The input must be a scalar (dimension-2) NRRD with depth samples along
// the first axis and scan lines along the second.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-dsp/dsp/window"

	"github.com/cwbudde/algo-spectra/normalize"
	"github.com/cwbudde/algo-spectra/nrrd"
	"github.com/cwbudde/algo-spectra/spectra"
	"github.com/cwbudde/algo-spectra/spectral"
)

var windowTypes = map[string]window.Type{
	"rectangular": window.TypeRectangular,
	"hann":        window.TypeHann,
	"hamming":     window.TypeHamming,
	"blackman":    window.TypeBlackman,
	"flat-top":    window.TypeFlatTop,
}

func main() {
	input := flag.String("i", "", "input RF image path (scalar NRRD)")
	output := flag.String("o", "", "output spectral image path")
	fftSize := flag.Int("fft-size", 64, "FFT length in depth samples")
	step := flag.Int("step", 1, "depth samples between spectrum origins")
	sideLines := flag.Int("side-lines", 0, "neighboring lines averaged on either side")
	windowName := flag.String("window", "hann", "analysis window (rectangular, hann, hamming, blackman, flat-top)")
	reference := flag.String("reference", "", "reference spectrum line to normalize by (optional)")
	compress := flag.Bool("compress", false, "gzip-encode the output data")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rfspectra -i rf.nrrd -o spectra.nrrd [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Computes local 1-D spectra along transducer scan lines.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		os.Exit(2)
	}

	winType, ok := windowTypes[*windowName]
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown window %q\n", *windowName)
		os.Exit(1)
	}

	if err := run(*input, *output, *reference, *fftSize, *step, *sideLines, winType, *compress); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output, reference string, fftSize, step, sideLines int, winType window.Type, compress bool) error {
	rfImage, err := nrrd.ReadFile(input)
	if err != nil {
		return err
	}
	if rfImage.Bins() != 1 {
		return fmt.Errorf("input %s holds %d-bin spectra, want scalar RF data", input, rfImage.Bins())
	}

	est, err := spectra.New(fftSize,
		spectra.WithStep(step),
		spectra.WithSideLines(sideLines),
		spectra.WithWindow(winType),
	)
	if err != nil {
		return err
	}

	img, err := est.Estimate(scanLines(rfImage))
	if err != nil {
		return err
	}

	if reference != "" {
		ref, err := nrrd.ReadFile(reference)
		if err != nil {
			return err
		}
		img, err = normalize.Divide(img, ref)
		if err != nil {
			return err
		}
	}

	var opts []nrrd.WriteOption
	if compress {
		opts = append(opts, nrrd.WithGzip())
	}
	return nrrd.WriteFile(output, img, opts...)
}

// scanLines unpacks a scalar image into per-line sample slices.
func scanLines(img *spectral.Image) [][]float64 {
	lines := make([][]float64, img.Height())
	data := img.Data()
	for y := range lines {
		lines[y] = data[y*img.Width() : (y+1)*img.Width()]
	}
	return lines
}
