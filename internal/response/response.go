package response

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/xaitan80/minihttpd/internal/headers"
)

// StatusCode is a limited set of HTTP status codes we support.
type StatusCode int

const (
	StatusOK         StatusCode = 200
	StatusCreated    StatusCode = 201
	StatusBadRequest StatusCode = 400
	StatusNotFound   StatusCode = 404
)

// Reason returns the phrase sent after the code. 201 is answered with
// "OK", which existing clients of this server expect.
func (s StatusCode) Reason() string {
	switch s {
	case StatusOK, StatusCreated:
		return "OK"
	case StatusBadRequest:
		return "Bad Request"
	case StatusNotFound:
		return "Not Found"
	default:
		return ""
	}
}

// String renders the status line without the protocol, e.g. "404 Not Found".
func (s StatusCode) String() string {
	if reason := s.Reason(); reason != "" {
		return fmt.Sprintf("%d %s", int(s), reason)
	}
	return strconv.Itoa(int(s))
}

// Response describes what a handler wants sent back. A body always comes
// with a content type.
type Response struct {
	Status      StatusCode
	ContentType string
	Body        []byte
	hasBody     bool
}

// Empty returns a response made of the status line alone.
func Empty(status StatusCode) Response {
	return Response{Status: status}
}

// DefaultContentType is sent when a body is given without a type.
const DefaultContentType = "application/octet-stream"

// WithBody returns a response carrying body, which may be empty. An empty
// contentType falls back to DefaultContentType so the header line is never
// blank.
func WithBody(status StatusCode, contentType string, body []byte) Response {
	if contentType == "" {
		contentType = DefaultContentType
	}
	return Response{
		Status:      status,
		ContentType: contentType,
		Body:        body,
		hasBody:     true,
	}
}

// HasBody reports whether Content-Type and Content-Length are sent.
func (r Response) HasBody() bool {
	return r.hasBody
}

// WriteStatusLine writes the HTTP/1.1 status line for the given status code.
func WriteStatusLine(w io.Writer, statusCode StatusCode) error {
	_, err := fmt.Fprintf(w, "HTTP/1.1 %s\r\n", statusCode)
	return err
}

// GetHeaders returns the headers that frame r.
func GetHeaders(r Response) headers.Headers {
	h := headers.NewHeaders()
	if !r.hasBody {
		return h
	}
	h.Set("Content-Type", r.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	return h
}

// WriteHeaders writes headers as "Key: Value\r\n" lines and a final CRLF.
func WriteHeaders(w io.Writer, h headers.Headers) error {
	order := []string{"Content-Type", "Content-Length"}
	written := make(map[string]struct{}, len(h))
	for _, k := range order {
		if v, ok := h[k]; ok {
			if _, err := fmt.Fprintf(w, "%s: %s\r\n", k, v); err != nil {
				return err
			}
			written[k] = struct{}{}
		}
	}
	// Anything else goes out in sorted order.
	var rest []string
	for k := range h {
		if _, ok := written[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", k, h[k]); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// Serialize renders r as the exact bytes put on the wire.
func Serialize(r Response) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	_ = WriteStatusLine(&buf, r.Status)
	_ = WriteHeaders(&buf, GetHeaders(r))
	if r.hasBody {
		buf.Write(r.Body)
	}
	return buf.Bytes()
}

// Write sends r to w in a single write.
func Write(w io.Writer, r Response) error {
	out := Serialize(r)
	n, err := w.Write(out)
	if err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if n < len(out) {
		return fmt.Errorf("write response: %w", io.ErrShortWrite)
	}
	return nil
}
