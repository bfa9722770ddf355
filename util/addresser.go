package util

import (
	"fmt"
	"strings"
)

// Scheme names one of the two storage layouts an original can be written
// under. Both stay supported because assets already exist under each.
type Scheme string

const (
	// SchemeShard keys originals by fixed-width hex slices (Layout).
	SchemeShard Scheme = "shard"
	// SchemeBins keys originals by a bin prefix sized from the account's
	// approximate asset count (AccountPath).
	SchemeBins Scheme = "bins"
)

// ParseScheme converts a scheme name, case-insensitively.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemeShard:
		return SchemeShard, nil
	case SchemeBins:
		return SchemeBins, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// Addresser computes original keys under a caller-chosen scheme. The zero
// value is not usable; set Scheme and, for SchemeShard, Layout.
type Addresser struct {
	Scheme Scheme
	Approx int
	Layout Layout
}

// OriginalKey returns the key an original with digest h is stored under.
// The bins layout stores names without extensions, so ext is ignored there.
func (a Addresser) OriginalKey(h, ext string) (string, error) {
	switch a.Scheme {
	case SchemeShard:
		return a.Layout.OriginalKey(h, ext)
	case SchemeBins:
		return AccountPath(a.Approx, h)
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, a.Scheme)
}

// Dir returns the directory portion of the original key for h.
func (a Addresser) Dir(h string) (string, error) {
	switch a.Scheme {
	case SchemeShard:
		sp, err := a.Layout.Shard(h)
		if err != nil {
			return "", err
		}
		return sp.Path, nil
	case SchemeBins:
		bin, err := AssignBin(a.Approx, h)
		if err != nil {
			return "", err
		}
		return bin.Prefix, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, a.Scheme)
}
