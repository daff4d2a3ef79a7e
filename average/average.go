// Package average implements per-pixel averaging of spectral images
// acquired along transducer scan lines.
//
// Multiple acquisitions of the same scan geometry produce one spectral
// image each. The Averager combines them into a single image in which every
// pixel's spectrum is the element-wise arithmetic mean of that pixel's
// spectra across all inputs. Inputs are collected by index, validated for
// identical extent and spectrum length, and consumed by a single Execute
// call.
//
// Summation over the input set is pairwise, so the floating-point error of
// the accumulated sum grows with O(log N) rather than O(N) when many
// acquisitions are averaged. Spectra routinely span several orders of
// magnitude, which makes naive left-to-right accumulation lossy.
package average

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectra/spectral"
)

// Errors returned by the Averager.
var (
	ErrNoInputs      = errors.New("average: no inputs set")
	ErrMissingInput  = errors.New("average: missing input index")
	ErrNegativeIndex = errors.New("average: input index must be non-negative")
	ErrNilInput      = errors.New("average: nil input image")
	ErrShapeMismatch = errors.New("average: spatial extent mismatch")
	ErrBinsMismatch  = errors.New("average: spectrum length mismatch")
	ErrNotExecuted   = errors.New("average: no output computed yet")
)

// Below this many samples Execute stays single-threaded; the goroutine
// fan-out costs more than it saves on small images.
const minParallel = 1 << 15

// Averager accumulates indexed input images and produces their per-pixel
// mean on Execute.
//
// The zero value is not ready for use; call New. An Averager must not be
// mutated while Execute is in progress, and input images must not be
// mutated between SetInput and Execute. It is otherwise reusable: inputs
// may be replaced and Execute called again.
type Averager struct {
	workers int
	inputs  map[int]*spectral.Image
	output  *spectral.Image
}

// Option mutates an Averager at construction time.
type Option func(*Averager)

// WithWorkers sets the number of goroutines used for the accumulation
// pass. Values below 1 are ignored; the default is runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(a *Averager) {
		if n > 0 {
			a.workers = n
		}
	}
}

// New returns an Averager with no inputs set.
func New(opts ...Option) *Averager {
	a := &Averager{
		inputs: make(map[int]*spectral.Image),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// SetInput stores img at the given input index, replacing any image
// previously stored there. Indices may be assigned sparsely and in any
// order; gaps are only rejected by Execute. The image is held by
// reference, not copied.
func (a *Averager) SetInput(index int, img *spectral.Image) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	}
	if img == nil {
		return fmt.Errorf("%w: index %d", ErrNilInput, index)
	}
	a.inputs[index] = img
	return nil
}

// Execute validates the input set and computes the per-pixel mean image.
//
// The input set must cover the contiguous index range 0..max without gaps,
// and all images must agree on spatial extent and spectrum length. On any
// validation failure the output of a previous successful Execute is left
// untouched.
//
// Execute is a pure function of the input set: repeated calls on unchanged
// inputs reproduce the same output.
func (a *Averager) Execute() error {
	ordered, err := a.orderedInputs()
	if err != nil {
		return err
	}

	first := ordered[0]
	for i, img := range ordered[1:] {
		if !img.SameExtent(first) {
			return fmt.Errorf("%w: input %d is %dx%d, input 0 is %dx%d",
				ErrShapeMismatch, i+1, img.Width(), img.Height(), first.Width(), first.Height())
		}
		if img.Bins() != first.Bins() {
			return fmt.Errorf("%w: input %d has %d bins, input 0 has %d",
				ErrBinsMismatch, i+1, img.Bins(), first.Bins())
		}
	}

	out, err := spectral.New(first.Width(), first.Height(), first.Bins())
	if err != nil {
		return err
	}

	if len(ordered) == 1 {
		// Mean of one image is the image itself, bit for bit.
		copy(out.Data(), first.Data())
		a.output = out
		return nil
	}

	bufs := make([][]float64, len(ordered))
	for i, img := range ordered {
		bufs[i] = img.Data()
	}
	meanBlocks(out.Data(), bufs, a.workerCount())

	a.output = out
	return nil
}

// Output returns the image produced by the most recent successful Execute.
// The Averager keeps no further interest in the returned image, but callers
// that Execute again should note that a new image is produced each time.
func (a *Averager) Output() (*spectral.Image, error) {
	if a.output == nil {
		return nil, ErrNotExecuted
	}
	return a.output, nil
}

// orderedInputs returns the inputs as a dense slice ordered by index, or an
// error if the set is empty or has gaps.
func (a *Averager) orderedInputs() ([]*spectral.Image, error) {
	if len(a.inputs) == 0 {
		return nil, ErrNoInputs
	}

	maxIndex := 0
	for i := range a.inputs {
		if i > maxIndex {
			maxIndex = i
		}
	}

	ordered := make([]*spectral.Image, maxIndex+1)
	for i := range ordered {
		img, ok := a.inputs[i]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrMissingInput, i)
		}
		ordered[i] = img
	}
	return ordered, nil
}

func (a *Averager) workerCount() int {
	if a.workers > 0 {
		return a.workers
	}
	return runtime.GOMAXPROCS(0)
}

// meanBlocks fills dst with the element-wise mean of the input buffers,
// splitting the sample range across workers. Every pixel depends only on
// the same flat offset in each input, so contiguous ranges of dst are
// independent and the workers need no synchronization beyond the join.
func meanBlocks(dst []float64, bufs [][]float64, workers int) {
	total := len(dst)
	if total == 0 {
		return
	}
	if total < minParallel || workers == 1 {
		meanBlock(dst, bufs, 0)
		return
	}
	if workers > total {
		workers = total
	}

	chunk := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for off := 0; off < total; off += chunk {
		end := min(off+chunk, total)
		wg.Add(1)
		go func(off int, dst []float64) {
			defer wg.Done()
			meanBlock(dst, bufs, off)
		}(off, dst[off:end])
	}
	wg.Wait()
}

// meanBlock computes the element-wise mean of bufs[*][off:off+len(dst)]
// into dst.
func meanBlock(dst []float64, bufs [][]float64, off int) {
	sumPairwise(dst, bufs, off)
	vecmath.ScaleBlockInPlace(dst, 1/float64(len(bufs)))
}

// sumPairwise writes the element-wise sum of bufs[*][off:off+len(dst)]
// into dst by recursively splitting the input set in half.
func sumPairwise(dst []float64, bufs [][]float64, off int) {
	n := len(dst)
	switch len(bufs) {
	case 1:
		copy(dst, bufs[0][off:off+n])
	case 2:
		vecmath.AddBlock(dst, bufs[0][off:off+n], bufs[1][off:off+n])
	default:
		mid := len(bufs) / 2
		sumPairwise(dst, bufs[:mid], off)
		tmp := make([]float64, n)
		sumPairwise(tmp, bufs[mid:], off)
		vecmath.AddBlockInPlace(dst, tmp)
	}
}
