// Package nrrd reads and writes spectral images as NRRD files, the format
// the surrounding ultrasound tooling exchanges.
//
// Only the subset needed for spectra interchange is supported: raw and
// gzip encodings, float and double sample types, and dimension 2 (scalar
// RF data) or 3 (per-pixel spectra, vector axis first). Unknown header
// fields are skipped so files written by richer toolkits remain readable.
package nrrd
