package headers

import (
	"strconv"
	"strings"
)

// Separator splits a header fragment into name and value.
const Separator = ": "

// Headers represents a simple HTTP headers map.
// Keys are stored exactly as received; a repeated name overwrites the
// previous value.
type Headers map[string]string

// NewHeaders creates an empty Headers map.
func NewHeaders() Headers {
	return make(Headers)
}

// ParseLine consumes one header fragment (without its CRLF).
// The fragment is split at the first ": " only, so values may contain
// further separators. It reports false and leaves h untouched when the
// fragment carries no separator.
func (h Headers) ParseLine(line string) bool {
	name, value, ok := strings.Cut(line, Separator)
	if !ok {
		return false
	}
	h[name] = value
	return true
}

// Get returns the value stored under name exactly as received.
func (h Headers) Get(name string) (string, bool) {
	v, ok := h[name]
	return v, ok
}

// Set stores value under name, replacing any previous value.
func (h Headers) Set(name, value string) {
	h[name] = value
}

// ContentLength looks up Content-Length. The exact spelling wins; other
// casings are only used when they all agree, so the result never depends
// on map order. It is only used for framing, so a missing, conflicting or
// malformed value reports false.
func (h Headers) ContentLength() (int, bool) {
	if v, ok := h["Content-Length"]; ok {
		return parseLength(v)
	}
	var (
		value string
		seen  bool
	)
	for k, v := range h {
		if !strings.EqualFold(k, "Content-Length") {
			continue
		}
		if seen && v != value {
			return 0, false
		}
		value, seen = v, true
	}
	if !seen {
		return 0, false
	}
	return parseLength(value)
}

func parseLength(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
