package util

import (
	"strings"
	"testing"
)

func isLowerHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

func TestCode(t *testing.T) {
	urls := []string{
		"",
		"https://example.com/image.jpg",
		"http://EXAMPLE.com:80/a?b=1&a=2#frag",
		"not a url",
	}

	for _, u := range urls {
		got := Code(u)
		if len(got) != LongHexLen {
			t.Errorf("Code(%q) length = %d, want %d", u, len(got), LongHexLen)
		}
		if !isLowerHex(got) {
			t.Errorf("Code(%q) = %q, want lowercase hex", u, got)
		}
		if again := Code(u); again != got {
			t.Errorf("Code(%q) not deterministic: %q then %q", u, got, again)
		}
	}
}

func TestCode_KnownAnswers(t *testing.T) {
	// XXH3-128 digests rendered high word first. Inputs are hashed after
	// normalization, so the spellings below hash as "", "https://x.com/" and
	// "https://example.com/a.png?a=1&b=2".
	tests := []struct {
		url  string
		want string
	}{
		{"", "99aa06d3014798d86001c324468d497f"},
		{"  \t", "99aa06d3014798d86001c324468d497f"},
		{"https://x.com/", "23faad701f3aae9f1fe9e9a23ac873fe"},
		{"HTTPS://X.com:443#top", "23faad701f3aae9f1fe9e9a23ac873fe"},
		{"https://example.com/a.png?a=1&b=2", "9aae8a00f30d427fc2dca05801ebfdac"},
		{"https://Example.COM:443/a.png?b=2&a=1#frag", "9aae8a00f30d427fc2dca05801ebfdac"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Code(tt.url); got != tt.want {
				t.Errorf("Code(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}

	if got := CodeFromBytes(nil); got != "99aa06d3014798d86001c324468d497f" {
		t.Errorf("CodeFromBytes(nil) = %q", got)
	}
}

func TestCode_EquivalentURLs(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"query order", "https://x.com/a?b=1&a=2", "https://x.com/a?a=2&b=1"},
		{"default http port", "http://x.com:80/p", "http://x.com/p"},
		{"default https port", "https://x.com:443/p", "https://x.com/p"},
		{"host case", "https://X.COM/p", "https://x.com/p"},
		{"fragment", "https://x.com/p#top", "https://x.com/p"},
		{"surrounding space", "  https://x.com/p ", "https://x.com/p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Code(tt.a) != Code(tt.b) {
				t.Errorf("Code(%q) != Code(%q)", tt.a, tt.b)
			}
		})
	}
}

func TestCode_DistinctURLs(t *testing.T) {
	if Code("https://x.com/a.jpg") == Code("https://x.com/b.jpg") {
		t.Error("Code() collided for different paths")
	}
	if Code("https://x.com/p") == Code("https://x.com:8443/p") {
		t.Error("Code() ignored a non-default port")
	}
}

func TestCodeFromBytes(t *testing.T) {
	a := CodeFromBytes([]byte("hello world"))
	b := CodeFromBytes([]byte("hello world"))
	c := CodeFromBytes([]byte("hello world!"))

	if len(a) != LongHexLen || !isLowerHex(a) {
		t.Errorf("CodeFromBytes() = %q, want 32 lowercase hex characters", a)
	}
	if a != b {
		t.Errorf("CodeFromBytes() not deterministic: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("CodeFromBytes() collided for different inputs")
	}
	if CodeFromBytes([]byte("https://x.com/")) != Code("https://x.com/") {
		t.Errorf("CodeFromBytes() and Code() disagree on an already normalized URL")
	}
}

func TestLegacyCode(t *testing.T) {
	// XXH3-64 of the empty input.
	if got := LegacyCode("", ""); got != "2d06800538d394c2" {
		t.Errorf("LegacyCode(\"\", \"\") = %q, want %q", got, "2d06800538d394c2")
	}

	u := "https://x.com/a?b=1&a=2"
	got := LegacyCode(u, "museum")
	if len(got) != ShortHexLen || !isLowerHex(got) {
		t.Errorf("LegacyCode() = %q, want 16 lowercase hex characters", got)
	}
	if got != LegacyCode(u+"museum", "") {
		t.Errorf("LegacyCode() should hash url and root concatenated")
	}
	// Legacy codes hash the raw URL, so query order matters.
	if got == LegacyCode("https://x.com/a?a=2&b=1", "museum") {
		t.Errorf("LegacyCode() should not normalize the URL")
	}
	if _, err := NormalizeHex(got); err != nil {
		t.Errorf("NormalizeHex(LegacyCode()) error = %v", err)
	}
	if strings.ToLower(got) != got {
		t.Errorf("LegacyCode() = %q, want lowercase", got)
	}
}
