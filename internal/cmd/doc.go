// Package cmd provides the command-line interface implementation for mediakey.
//
// This package contains all the subcommand implementations for the mediakey CLI tool.
// It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator, command groups and shared config flags
//   - code: Content codes, legacy codes and original keys for URLs
//   - key: Shard, bin, variant and temp keys for a hex digest
//   - probe: Header-only image probing, run concurrently
//   - ingest: Probe, hash and atomically store files under their keys
//   - verify: Store consistency checking
//   - count: Per-directory file counts
//   - seed: Synthetic image generation
//
// Each command is implemented as a separate file with its own constructor function
// that returns a *cobra.Command. Settings come from internal/config and can be
// overridden per invocation with the root's persistent flags.
package cmd
