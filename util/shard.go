package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex digest lengths accepted by NormalizeHex: XXH3-64 and XXH3-128.
const (
	ShortHexLen = 16
	LongHexLen  = 32
)

// Fixed prefixes of the non-original key trees.
const (
	VariantDir = "v"
	TempDir    = "tmp"
	TempSuffix = ".part"
)

// Layout describes how a hex digest is sliced into directory levels.
// Segments levels of SegmentLen characters each are taken from the start of
// the digest.
type Layout struct {
	Segments   int `json:"segments"`
	SegmentLen int `json:"segment_len"`
}

// DefaultLayout is a single directory level of three hex characters,
// giving 4096 leaf directories.
var DefaultLayout = Layout{Segments: 1, SegmentLen: 3}

// ShardPath is a sharded directory path together with the normalized digest
// it was derived from.
type ShardPath struct {
	Path string `json:"shard_path"`
	Hex  string `json:"hex"`
}

// NormalizeHex lowercases s and strips everything that is not a hex digit.
// The result must be exactly 16 or 32 characters long, otherwise an error
// wrapping ErrInvalidHash is returned.
func NormalizeHex(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') {
			b.WriteByte(c)
		}
	}
	h := b.String()
	switch len(h) {
	case 0:
		return "", fmt.Errorf("%w: empty", ErrInvalidHash)
	case ShortHexLen, LongHexLen:
		return h, nil
	default:
		return "", fmt.Errorf("%w: got %d hex characters, want %d or %d", ErrInvalidHash, len(h), ShortHexLen, LongHexLen)
	}
}

// Validate reports whether the layout can be applied to a digest of
// hexLen characters.
func (l Layout) Validate(hexLen int) error {
	if l.Segments < 1 || l.SegmentLen < 1 {
		return fmt.Errorf("%w: %d segments of %d characters", ErrInvalidLayout, l.Segments, l.SegmentLen)
	}
	if l.Segments*l.SegmentLen > hexLen {
		return fmt.Errorf("%w: %d segments of %d characters exceed a %d character hash",
			ErrInvalidLayout, l.Segments, l.SegmentLen, hexLen)
	}
	return nil
}

// Shard normalizes h and slices it into the layout's directory levels.
func (l Layout) Shard(h string) (ShardPath, error) {
	h, err := NormalizeHex(h)
	if err != nil {
		return ShardPath{}, err
	}
	if err := l.Validate(len(h)); err != nil {
		return ShardPath{}, err
	}
	parts := make([]string, l.Segments)
	for i := range parts {
		parts[i] = h[i*l.SegmentLen : (i+1)*l.SegmentLen]
	}
	return ShardPath{Path: strings.Join(parts, "/"), Hex: h}, nil
}

// OriginalKey returns "<shard>/<hex>[.<ext>]". Leading dots on ext are
// ignored; an empty ext yields no suffix.
func (l Layout) OriginalKey(h, ext string) (string, error) {
	sp, err := l.Shard(h)
	if err != nil {
		return "", err
	}
	key := sp.Path + "/" + sp.Hex
	if ext = strings.TrimLeft(ext, "."); ext != "" {
		key += "." + ext
	}
	return key, nil
}

// VariantKey returns "v/<preset>/<shard>/<hex>.<format>", the key of a
// derived rendition stored alongside its original's shard.
func (l Layout) VariantKey(h, preset, format string) (string, error) {
	preset = strings.TrimSpace(preset)
	format = strings.TrimLeft(format, ".")
	if preset == "" || format == "" || strings.Contains(preset, "/") {
		return "", fmt.Errorf("%w: preset %q, format %q", ErrInvalidVariant, preset, format)
	}
	sp, err := l.Shard(h)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/%s.%s", VariantDir, preset, sp.Path, sp.Hex, format), nil
}

// TempKey returns "tmp/<shard>/<hex>/<random>.part" for an in-flight
// download. The 8 character suffix comes from crypto/rand, so concurrent
// writers of the same asset never share a temp file. Every call returns a
// fresh key.
func (l Layout) TempKey(h string) (string, error) {
	sp, err := l.Shard(h)
	if err != nil {
		return "", err
	}
	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("failed to read random suffix: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s/%s%s", TempDir, sp.Path, sp.Hex, hex.EncodeToString(suffix[:]), TempSuffix), nil
}

// Shard slices h using DefaultLayout.
func Shard(h string) (ShardPath, error) {
	return DefaultLayout.Shard(h)
}

// OriginalKey builds an original key using DefaultLayout.
func OriginalKey(h, ext string) (string, error) {
	return DefaultLayout.OriginalKey(h, ext)
}

// VariantKey builds a variant key using DefaultLayout.
func VariantKey(h, preset, format string) (string, error) {
	return DefaultLayout.VariantKey(h, preset, format)
}

// TempKey builds a temp key using DefaultLayout.
func TempKey(h string) (string, error) {
	return DefaultLayout.TempKey(h)
}
