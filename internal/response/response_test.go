package response

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortWriter accepts at most limit bytes per call.
type shortWriter struct {
	limit int
}

func (sw *shortWriter) Write(p []byte) (int, error) {
	if len(p) > sw.limit {
		return sw.limit, nil
	}
	return len(p), nil
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func Test_Status_Lines(t *testing.T) {
	assert.Equal(t, "200 OK", StatusOK.String())
	assert.Equal(t, "201 OK", StatusCreated.String())
	assert.Equal(t, "400 Bad Request", StatusBadRequest.String())
	assert.Equal(t, "404 Not Found", StatusNotFound.String())
	assert.Equal(t, "418", StatusCode(418).String())
}

func Test_Empty_Response(t *testing.T) {
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n", string(Serialize(Empty(StatusOK))))
	assert.Equal(t, "HTTP/1.1 404 Not Found\r\n\r\n", string(Serialize(Empty(StatusNotFound))))
	assert.Equal(t, "HTTP/1.1 201 OK\r\n\r\n", string(Serialize(Empty(StatusCreated))))
}

func Test_Body_Response(t *testing.T) {
	got := Serialize(WithBody(StatusOK, "text/plain", []byte("abc123")))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 6\r\n\r\nabc123", string(got))
}

// An empty body still announces its type and a zero length
func Test_Empty_Body_Response(t *testing.T) {
	r := WithBody(StatusOK, "text/plain", nil)
	assert.True(t, r.HasBody())
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 0\r\n\r\n", string(Serialize(r)))
}

// A body without a type is labelled as raw bytes
func Test_Missing_Content_Type_Defaults(t *testing.T) {
	r := WithBody(StatusOK, "", []byte("abc"))
	assert.Equal(t, DefaultContentType, r.ContentType)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: application/octet-stream\r\nContent-Length: 3\r\n\r\nabc", string(Serialize(r)))
	assert.NotContains(t, string(Serialize(r)), "Content-Type: \r\n")
}

// Content-Length counts bytes, not characters
func Test_Content_Length_Is_Byte_Length(t *testing.T) {
	body := "héllo wörld ✓"
	r := WithBody(StatusOK, "text/plain", []byte(body))
	h := GetHeaders(r)
	assert.Equal(t, "17", h["Content-Length"])
	assert.NotEqual(t, len([]rune(body)), len(body))
}

func Test_Write_Headers_Order(t *testing.T) {
	var buf bytes.Buffer
	h := GetHeaders(WithBody(StatusOK, "application/octet-stream", []byte("x")))
	h.Set("X-B", "2")
	h.Set("X-A", "1")
	require.NoError(t, WriteHeaders(&buf, h))
	assert.Equal(t, "Content-Type: application/octet-stream\r\nContent-Length: 1\r\nX-A: 1\r\nX-B: 2\r\n\r\n", buf.String())
}

func Test_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, WithBody(StatusOK, "text/plain", []byte("hi"))))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 2\r\n\r\nhi", buf.String())
}

func Test_Write_Short(t *testing.T) {
	err := Write(&shortWriter{limit: 4}, Empty(StatusOK))
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func Test_Write_Error(t *testing.T) {
	err := Write(brokenWriter{}, Empty(StatusOK))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}
