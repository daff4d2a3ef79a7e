// Command spectraavg averages per-pixel spectra across a set of spectral
// images acquired along the same transducer scan lines.
//
// Usage:
//
//	spectraavg -i first.nrrd -i second.nrrd [-i ...] -o averaged.nrrd
//
// Each -i flag fills the next input slot. All inputs must share the same
// spatial extent and spectrum length; the output holds their per-pixel
// element-wise mean.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-spectra/average"
	"github.com/cwbudde/algo-spectra/nrrd"
)

// pathList collects repeatable string flags in order.
type pathList []string

func (p *pathList) String() string {
	return fmt.Sprint(*p)
}

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	var inputs pathList
	flag.Var(&inputs, "i", "input spectral image (repeatable, one per input slot)")
	output := flag.String("o", "", "output image path")
	compress := flag.Bool("compress", false, "gzip-encode the output data")
	workers := flag.Int("workers", 0, "averaging worker goroutines (0 = all CPUs)")
	quiet := flag.Bool("q", false, "suppress progress output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: spectraavg -i input.nrrd [-i ...] -o output.nrrd\n\n")
		fmt.Fprintf(os.Stderr, "Averages per-pixel spectra across spectral images.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if len(inputs) == 0 || *output == "" {
		flag.Usage()
		os.Exit(2)
	}

	progress := func(format string, args ...any) {
		if !*quiet {
			fmt.Printf(format+"\n", args...)
		}
	}

	avg := average.New(average.WithWorkers(*workers))
	for i, path := range inputs {
		progress("reading %s", path)
		img, err := nrrd.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := avg.SetInput(i, img); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	progress("averaging %d input(s)", len(inputs))
	if err := avg.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	out, err := avg.Output()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var opts []nrrd.WriteOption
	if *compress {
		opts = append(opts, nrrd.WithGzip())
	}
	progress("writing %s", *output)
	if err := nrrd.WriteFile(*output, out, opts...); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
