package util

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// defaultPorts maps a scheme to the port that is implied when none is given.
var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
}

// Normalize canonicalizes a URL so that equivalent spellings hash alike.
//
// Scheme and host are lowercased, a default port is dropped, query
// parameters are sorted by key and re-encoded RFC 3986 style, and the
// fragment is discarded. Userinfo is not part of the result. An empty path
// becomes "/".
//
// Normalize never fails: input that does not parse into at least a scheme
// and a host is returned trimmed and otherwise unchanged.
func Normalize(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return trimmed
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(host)

	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return trimmed
		}
		if port != 0 && port != defaultPorts[scheme] {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(port))
		}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	b.WriteString(path)

	if q := normalizeQuery(u.RawQuery); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	return b.String()
}

// normalizeQuery parses a raw query into key/value pairs, sorts them by key
// and re-encodes them. A repeated key keeps its last value.
func normalizeQuery(raw string) string {
	if raw == "" {
		return ""
	}

	params := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescapeQuery(key)
		if key == "" {
			continue
		}
		params[key] = unescapeQuery(value)
	}
	if len(params) == 0 {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, rawURLEncode(k)+"="+rawURLEncode(params[k]))
	}
	return strings.Join(parts, "&")
}

// unescapeQuery decodes a form-encoded query component. Malformed escapes
// are kept verbatim.
func unescapeQuery(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// rawURLEncode percent-encodes everything outside the RFC 3986 unreserved
// set, using uppercase hex digits.
func rawURLEncode(s string) string {
	const hexDigits = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
