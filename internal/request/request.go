package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nhdewitt/tcp-http-server/internal/headers"
)

type requestState int

const (
	bufferSize = 8
	crlf       = "\r\n"

	contentLengthHeader = "Content-Length"
)

const (
	stateInitialized requestState = iota
	stateParsingHeaders
	stateParsingBody
	stateDone
)

var (
	ErrEarlyEOF             = errors.New("early EOF")
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrMalformedHeader      = errors.New("malformed header")
	ErrInvalidContentLength = errors.New("invalid Content-Length")
	errParseAfterDone       = errors.New("trying to read data in a done state")
	errUnknownParserState   = errors.New("unknown parser state")
)

type Request struct {
	RequestLine RequestLine
	Headers     headers.Headers

	// Body is nil unless a Content-Length header was present, in which case
	// it holds exactly that many bytes (possibly zero).
	Body []byte

	state         requestState
	contentLength int
}

type RequestLine struct {
	HttpVersion   string
	RequestTarget string
	Method        Method
}

// HasBody reports whether the request carried a Content-Length framed body.
func (r *Request) HasBody() bool {
	return r.Body != nil
}

// RequestFromReader parses exactly one request from reader. Bytes following
// the request (or following the header block when there is no
// Content-Length) are left unread.
func RequestFromReader(reader io.Reader) (*Request, error) {
	buf := make([]byte, bufferSize)
	readToIndex := 0

	r := Request{
		Headers: headers.NewHeaders(),
		state:   stateInitialized,
	}

	for r.state != stateDone {
		if readToIndex == len(buf) {
			tmpBuf := make([]byte, len(buf)*2)
			copy(tmpBuf, buf[:readToIndex])
			buf = tmpBuf
		}

		n, err := reader.Read(buf[readToIndex:])
		if n > 0 {
			readToIndex += n

			bytesParsed, perr := r.parse(buf[:readToIndex])
			if perr != nil {
				return nil, perr
			}

			copy(buf, buf[bytesParsed:readToIndex])
			readToIndex -= bytesParsed
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				if r.state != stateDone {
					return nil, fmt.Errorf("error parsing data: %w", ErrEarlyEOF)
				}
				break
			}
			return nil, err
		}
	}

	return &r, nil
}

// parse advances the state machine as far as data allows and returns the
// number of bytes consumed.
func (r *Request) parse(data []byte) (int, error) {
	total := 0
	for r.state != stateDone {
		prev := r.state
		n, err := r.parseSingle(data[total:])
		if err != nil {
			return 0, err
		}
		total += n
		if n == 0 && r.state == prev {
			break
		}
	}
	return total, nil
}

func (r *Request) parseSingle(data []byte) (int, error) {
	switch r.state {
	case stateInitialized:
		parsed, parsedRequest, err := parseRequestLine(data)
		if err != nil {
			return 0, fmt.Errorf("error parsing data: %w", err)
		}
		if parsed == 0 {
			return 0, nil
		}

		r.RequestLine = parsedRequest
		r.state = stateParsingHeaders

		return parsed, nil
	case stateParsingHeaders:
		n, done, err := r.Headers.Parse(data)
		if err != nil {
			return 0, fmt.Errorf("error parsing data: %w: %v", ErrMalformedHeader, err)
		}
		if done {
			if err := r.startBody(); err != nil {
				return 0, err
			}
		}
		return n, nil
	case stateParsingBody:
		if len(data) < r.contentLength {
			return 0, nil
		}
		r.Body = make([]byte, r.contentLength)
		copy(r.Body, data[:r.contentLength])
		r.state = stateDone
		return r.contentLength, nil
	case stateDone:
		return 0, fmt.Errorf("error: %w", errParseAfterDone)
	default:
		return 0, fmt.Errorf("error: %w", errUnknownParserState)
	}
}

func (r *Request) startBody() error {
	raw, ok := r.Headers.Get(contentLengthHeader)
	if !ok {
		r.state = stateDone
		return nil
	}

	length, err := parseContentLength(raw)
	if err != nil {
		return fmt.Errorf("error parsing data: %w", err)
	}
	r.contentLength = length
	r.state = stateParsingBody

	return nil
}

func parseContentLength(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentLength, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentLength, s)
	}
	return n, nil
}

func parseRequestLine(req []byte) (int, RequestLine, error) {
	idx := bytes.Index(req, []byte(crlf))
	if idx == -1 {
		return 0, RequestLine{}, nil
	}
	line := string(req[:idx])
	consumed := idx + len(crlf)

	rl, err := requestLineFromString(line)
	if err != nil {
		return 0, RequestLine{}, err
	}

	return consumed, *rl, nil
}

func requestLineFromString(s string) (*RequestLine, error) {
	parts := strings.Fields(s)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, s)
	}

	rl := &RequestLine{
		Method:        ParseMethod(parts[0]),
		RequestTarget: parts[1],
	}
	if len(parts) > 2 {
		rl.HttpVersion = strings.TrimPrefix(parts[2], "HTTP/")
	}

	return rl, nil
}
