package response

import (
	"errors"
	"fmt"
	"io"

	"github.com/nhdewitt/tcp-http-server/internal/headers"
)

type writerState int

const (
	StateWritingStatusLine writerState = iota
	StateWritingHeaders
	StateWritingBody
	StateDone
)

const crlf = "\r\n"

var ErrWriterState = errors.New("writer state out-of-order")

// Writer emits one response in order: status line, header block, then an
// optional body. Calls out of that order fail with ErrWriterState.
type Writer struct {
	writer io.Writer
	state  writerState
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: w,
		state:  StateWritingStatusLine,
	}
}

func (w *Writer) WriteStatusLine(status Status) error {
	if w.state != StateWritingStatusLine {
		return ErrWriterState
	}

	if _, err := io.WriteString(w.writer, Version+" "+status.String()+crlf); err != nil {
		return fmt.Errorf("error writing status line: %w", err)
	}

	w.state = StateWritingHeaders
	return nil
}

// WriteHeaders writes every header followed by the line that ends the
// header block. Names are written verbatim, in sorted order.
func (w *Writer) WriteHeaders(h headers.Headers) error {
	if w.state != StateWritingHeaders {
		return ErrWriterState
	}

	for _, k := range h.Keys() {
		if _, err := io.WriteString(w.writer, k+": "+h[k]+crlf); err != nil {
			return fmt.Errorf("error writing headers: %w", err)
		}
	}
	if _, err := io.WriteString(w.writer, crlf); err != nil {
		return fmt.Errorf("error writing headers: %w", err)
	}

	w.state = StateWritingBody
	return nil
}

// WriteBody writes p followed by two CRLFs. The returned count covers p
// only.
func (w *Writer) WriteBody(p []byte) (int, error) {
	if w.state != StateWritingBody {
		return 0, ErrWriterState
	}

	w.state = StateDone
	n, err := w.writer.Write(p)
	if err != nil {
		return n, fmt.Errorf("error writing body: %w", err)
	}
	if _, err := io.WriteString(w.writer, crlf+crlf); err != nil {
		return n, fmt.Errorf("error writing body: %w", err)
	}
	return n, nil
}
