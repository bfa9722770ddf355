package util

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Code returns the 32 character content code for a URL: the XXH3-128 digest
// of Normalize(url), rendered as lowercase hex (high word first).
// New content must be addressed with Code.
func Code(url string) string {
	return formatHash128(xxh3.HashString128(Normalize(url)))
}

// CodeFromBytes returns the 32 character content code of raw asset bytes.
// It is used when an asset arrives without a source URL.
func CodeFromBytes(data []byte) string {
	return formatHash128(xxh3.Hash128(data))
}

// LegacyCode returns the 16 character code used by the first generation of
// stored assets: the XXH3-64 digest of the raw, unnormalized url with root
// appended. It matches codes already on disk and must not be used for new
// content.
func LegacyCode(url, root string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(url+root))
}

func formatHash128(h xxh3.Uint128) string {
	return fmt.Sprintf("%016x%016x", h.Hi, h.Lo)
}
