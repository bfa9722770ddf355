// Package util provides the content addressing core for mediakey.
//
// Everything in this package is a pure function over strings: no I/O, no
// shared mutable state, and no logging. Functions are safe to call from any
// number of goroutines and cheap enough to run inline in a request handler.
//
// Key Components:
//
// URL Normalization:
//   - Normalize lowercases scheme and host, drops default ports, sorts and
//     re-encodes the query, and discards the fragment
//   - Unparseable input degrades to the trimmed string instead of failing
//
// Content Codes:
//   - Code: 32 hex characters, XXH3-128 of the normalized URL
//   - CodeFromBytes: 32 hex characters, XXH3-128 of raw asset bytes
//   - LegacyCode: 16 hex characters, XXH3-64 of the raw URL plus account root,
//     kept so previously stored codes can still be reproduced
//
// Bin Layout (legacy):
//   - BinCount grows with the account's approximate asset count so that each
//     bin directory holds roughly 1000 files
//   - AssignBin and AccountPath produce "<prefix>/<code>" keys where the
//     prefix is drawn from the alphabet 0-9a-zA-Z
//
// Shard Layout:
//   - NormalizeHex validates 16 or 32 character digests (ErrInvalidHash)
//   - Layout slices a digest into fixed-width directory levels and builds
//     original, variant ("v/...") and temp ("tmp/....part") keys
//
// Addresser selects between the two layouts so the choice of scheme for new
// writes stays with the caller.
package util
