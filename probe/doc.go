// Package probe sniffs image dimensions and format from raw bytes without
// decoding pixel data.
//
// Probe is safe for concurrent use and performs no I/O. It is meant to run
// over untrusted input in bulk pipelines, so a miss is reported as a Result
// with OK false rather than as an error.
package probe
