// Package spectral provides the image container shared by the rest of the
// module: a 2-D grid of pixels where every pixel holds a one-dimensional
// spectrum of the same length.
//
// The container is deliberately dumb. It stores samples in one contiguous
// row-major block (spectrum samples adjacent per pixel) so that whole-image
// kernels can run directly over Data without per-pixel indirection, and it
// validates spectrum-length consistency once at construction rather than on
// every access.
package spectral
