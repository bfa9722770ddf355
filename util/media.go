package util

import "strings"

// DefaultFilter is the thumbnail preset used when none is requested.
const DefaultFilter = "small"

// Media describes a remote asset as it is registered with the media service.
type Media struct {
	OriginalURL string `json:"original_url"`
	Code        string `json:"code"`
	Path        string `json:"path,omitempty"` // storage key relative to the account root
	Size        int64  `json:"size,omitempty"`
}

// NewMedia returns a Media for originalURL. An empty code is derived with
// Code(originalURL).
func NewMedia(originalURL, code string) Media {
	if code == "" {
		code = Code(originalURL)
	}
	return Media{OriginalURL: originalURL, Code: code}
}

// MediaInfoURL returns "<endpoint>/media/<code>".
func MediaInfoURL(endpoint, code string) string {
	return strings.TrimRight(endpoint, "/") + "/media/" + code
}

// FilterURL returns "<endpoint>/media/cache/<filter>/<path>", the URL of a
// resized rendition. An empty filter means DefaultFilter.
func FilterURL(endpoint, filter, path string) string {
	if filter == "" {
		filter = DefaultFilter
	}
	return strings.TrimRight(endpoint, "/") + "/media/cache/" + filter + "/" + strings.TrimLeft(path, "/")
}
