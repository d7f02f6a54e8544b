package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xaitan80/minihttpd/internal/headers"
)

const (
	// MinBufferSize is the smallest read buffer a connection gets.
	MinBufferSize = 512
	// DefaultBufferSize bounds a request when nothing else is configured.
	DefaultBufferSize = 4096
)

var (
	// ErrConnectionClosed means the peer went away before sending a byte.
	ErrConnectionClosed = errors.New("connection closed before request")
	// ErrMalformedRequestLine means line 1 had fewer than two tokens.
	ErrMalformedRequestLine = errors.New("malformed request line")
)

var (
	crlf       = []byte("\r\n")
	headEnd    = []byte("\r\n\r\n")
	nulPadding = "\x00"
)

// Request is the parsed form of a single request. It is built once per
// connection and not modified afterwards.
type Request struct {
	Method  string
	Path    string
	Headers headers.Headers
	Body    []byte
}

// Header returns a header value exactly as it was received.
func (r *Request) Header(name string) (string, bool) {
	return r.Headers.Get(name)
}

// Payload returns the request body. A payload counts as present when the
// body is non-empty or the client declared a Content-Length, so an
// explicit zero-length upload is still a payload.
func (r *Request) Payload() ([]byte, bool) {
	if len(r.Body) > 0 {
		return r.Body, true
	}
	if _, ok := r.Headers.ContentLength(); ok {
		return []byte{}, true
	}
	return nil, false
}

// RequestFromReader reads one request from reader into a buffer of at most
// max bytes and parses it.
func RequestFromReader(reader io.Reader, max int) (*Request, error) {
	data, err := ReadRaw(reader, max)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ReadRaw reads from reader until a complete request is buffered: a head
// terminated by an empty line followed by Content-Length body bytes. It
// stops early when the buffer of max bytes is full or the peer stops
// sending, and returns whatever arrived.
func ReadRaw(reader io.Reader, max int) ([]byte, error) {
	if max < MinBufferSize {
		max = MinBufferSize
	}
	buf := make([]byte, 0, max)

	for len(buf) < max {
		n, err := reader.Read(buf[len(buf):max])
		buf = buf[:len(buf)+n]
		if n > 0 && complete(buf) {
			return buf, nil
		}
		if errors.Is(err, io.EOF) {
			if len(buf) == 0 {
				return nil, ErrConnectionClosed
			}
			return buf, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read request: %w", err)
		}
	}
	return buf, nil
}

// complete reports whether data holds a full head plus the body the head
// announces. Without a usable Content-Length the body is whatever already
// arrived.
func complete(data []byte) bool {
	idx := bytes.Index(data, headEnd)
	if idx == -1 {
		return false
	}
	h := headers.NewHeaders()
	for _, line := range bytes.Split(data[:idx], crlf)[1:] {
		h.ParseLine(string(line))
	}
	want, ok := h.ContentLength()
	if !ok {
		return true
	}
	return len(data)-(idx+len(headEnd)) >= want
}

// isASCIISpace matches the request-line separators: space, tab, LF, FF
// and CR. Other Unicode spaces are part of the token.
func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// Parse builds a Request from raw bytes. The head is decoded leniently:
// invalid UTF-8 is replaced and never rejected. The body stays as raw
// bytes.
func Parse(data []byte) (*Request, error) {
	head, body, _ := bytes.Cut(data, headEnd)
	text := strings.ToValidUTF8(string(head), "\uFFFD")
	lines := strings.Split(text, "\r\n")

	parts := strings.FieldsFunc(lines[0], isASCIISpace)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, lines[0])
	}

	r := &Request{
		Method:  parts[0],
		Path:    parts[1],
		Headers: headers.NewHeaders(),
	}

	// A head fragment that is not a header is taken as a body fragment;
	// the last one seen wins.
	var fragment string
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		if r.Headers.ParseLine(line) {
			continue
		}
		if cleaned := strings.Trim(line, nulPadding); cleaned != "" {
			fragment = cleaned
		}
	}

	// A declared length is authoritative; otherwise NUL padding is noise.
	if n, ok := r.Headers.ContentLength(); ok {
		if n < len(body) {
			body = body[:n]
		}
	} else {
		body = bytes.Trim(body, nulPadding)
	}
	switch {
	case len(body) > 0:
		r.Body = body
	case fragment != "":
		r.Body = []byte(fragment)
	}
	return r, nil
}
