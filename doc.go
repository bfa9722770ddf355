// Package main provides the mediakey command-line interface.
//
// mediakey derives content-addressed storage keys for image assets. Source
// URLs are normalized and hashed with XXH3 into a hex content code; the code
// is sliced into a sharded directory path (or assigned to one of an
// account's bins), and image files are probed for their dimensions and
// format straight from their headers.
//
// The main binary supports multiple subcommands:
//   - code: Compute content codes and keys for source URLs
//   - key: Print every key derived from a content code
//   - probe: Read image dimensions from file headers
//   - ingest: Copy files into a content-addressed store
//   - verify: Check that a store matches its layout
//   - count: Report file distribution across directories
//   - seed: Generate synthetic image files
package main
