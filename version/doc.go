// Package version provides version information and build metadata for mediakey.
//
// Version information is taken from compile-time variables (Version, Commit,
// Date) set via -ldflags when present, then from debug.ReadBuildInfo, and
// finally from development defaults.
//
// Build Integration:
//
//	-ldflags "-X github.com/dendrascience/mediakey/version.Version=v1.0.0 -X github.com/dendrascience/mediakey/version.Commit=abc123"
package version
