package response

import (
	"bytes"
	"io"
	"strconv"

	"github.com/nhdewitt/tcp-http-server/internal/headers"
)

const (
	Version = "HTTP/1.1"

	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"

	ContentTypeText        = "text/plain"
	ContentTypeOctetStream = "application/octet-stream"
)

// Response is built once per request and serialized once. A nil Body means
// the response has no body section at all.
type Response struct {
	Status  Status
	Headers headers.Headers
	Body    []byte
}

func New(status Status, h headers.Headers, body []byte) Response {
	if h == nil {
		h = headers.NewHeaders()
	}
	return Response{
		Status:  status,
		Headers: h,
		Body:    body,
	}
}

// NotFound is the bare 404 used for every failure the server reports.
func NotFound() Response {
	return New(StatusNotFound, nil, nil)
}

// WithBody returns a response carrying body together with the matching
// Content-Type and Content-Length headers.
func WithBody(status Status, contentType string, body []byte) Response {
	h := GetDefaultHeaders(len(body))
	h.Set(HeaderContentType, contentType)
	return New(status, h, body)
}

func GetDefaultHeaders(contentLen int) headers.Headers {
	h := headers.NewHeaders()
	h.Set(HeaderContentLength, strconv.Itoa(contentLen))

	return h
}

func (r Response) HasBody() bool {
	return r.Body != nil
}

// WriteTo serializes the response onto w:
//
//	HTTP/1.1 <code> <reason>\r\n
//	<name>: <value>\r\n   (sorted by name)
//	\r\n
//	<body>\r\n\r\n        (body present only)
func (r Response) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	rw := NewWriter(cw)

	if err := rw.WriteStatusLine(r.Status); err != nil {
		return cw.n, err
	}
	if err := rw.WriteHeaders(r.Headers); err != nil {
		return cw.n, err
	}
	if r.HasBody() {
		if _, err := rw.WriteBody(r.Body); err != nil {
			return cw.n, err
		}
	}

	return cw.n, nil
}

// Bytes returns the exact wire form of the response.
func (r Response) Bytes() []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail
	_, _ = r.WriteTo(&buf)
	return buf.Bytes()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
