package util

import "testing"

func TestNewMedia(t *testing.T) {
	u := "https://example.com/a.jpg?b=1&a=2"
	m := NewMedia(u, "")
	if m.Code != Code(u) {
		t.Errorf("NewMedia() code = %q, want %q", m.Code, Code(u))
	}
	if m.OriginalURL != u {
		t.Errorf("NewMedia() url = %q, want %q", m.OriginalURL, u)
	}

	m = NewMedia(u, "custom")
	if m.Code != "custom" {
		t.Errorf("NewMedia() code = %q, want explicit code kept", m.Code)
	}
}

func TestMediaURLs(t *testing.T) {
	if got, want := MediaInfoURL("https://sais.example/", "abc"), "https://sais.example/media/abc"; got != want {
		t.Errorf("MediaInfoURL() = %q, want %q", got, want)
	}

	tests := []struct {
		filter string
		path   string
		want   string
	}{
		{"", "0/abc", "https://sais.example/media/cache/small/0/abc"},
		{"medium", "/e3b/abc.jpg", "https://sais.example/media/cache/medium/e3b/abc.jpg"},
	}
	for _, tt := range tests {
		if got := FilterURL("https://sais.example", tt.filter, tt.path); got != tt.want {
			t.Errorf("FilterURL(%q, %q) = %q, want %q", tt.filter, tt.path, got, tt.want)
		}
	}
}
