package util

import (
	"fmt"
	"strconv"
)

// BinSize is the approximate number of assets per bin directory. The
// divisor used by BinCount is BinSize+1, which is what the stored layouts
// were generated with.
const BinSize = 1000

// binNames orders digits, then lowercase, then uppercase letters. Existing
// bin prefixes depend on this exact order.
const binNames = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// BinAssignment is the bin an asset lands in and the directory prefix
// derived from it.
type BinAssignment struct {
	Index  int    `json:"index"`
	Prefix string `json:"prefix"`
}

// BinNames returns the 62 characters bin prefixes are built from, in order.
func BinNames() string {
	return binNames
}

// BinCount returns the number of bins for an account expected to hold
// approx assets: one per ~1000 assets, never fewer than one. Negative
// counts are treated as zero.
func BinCount(approx int) int {
	if approx < 0 {
		approx = 0
	}
	return approx/(BinSize+1) + 1
}

// AssignBin maps a content code onto one of BinCount(approx) bins using the
// first 8 hex characters of the code.
//
// Bins below 62 get a single character prefix and bins below 62*62 get two
// characters, as in existing layouts. Larger bins, which no existing layout
// contains, continue in base 62 with as many characters as needed.
func AssignBin(approx int, code string) (BinAssignment, error) {
	hex, err := NormalizeHex(code)
	if err != nil {
		return BinAssignment{}, err
	}
	num, err := strconv.ParseUint(hex[:8], 16, 32)
	if err != nil {
		return BinAssignment{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	bin := int(num % uint64(BinCount(approx)))
	return BinAssignment{Index: bin, Prefix: binPrefix(bin)}, nil
}

// AccountPath returns the legacy bin-based storage key "<prefix>/<code>".
func AccountPath(approx int, code string) (string, error) {
	hex, err := NormalizeHex(code)
	if err != nil {
		return "", err
	}
	bin, err := AssignBin(approx, hex)
	if err != nil {
		return "", err
	}
	return bin.Prefix + "/" + hex, nil
}

func binPrefix(bin int) string {
	base := len(binNames)
	if bin < base {
		return binNames[bin : bin+1]
	}
	var digits []byte
	for n := bin; n > 0; n /= base {
		digits = append(digits, binNames[n%base])
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
