package headers

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	crlf      = "\r\n"
	separator = ": "
)

// Headers maps a case-sensitive field name to its trimmed value. A repeated
// name replaces the earlier value.
type Headers map[string]string

func NewHeaders() Headers {
	return map[string]string{}
}

// Parse consumes at most one header line from data. It reports done once the
// empty line terminating the header block has been consumed. A return of
// (0, false, nil) means data does not yet hold a full line.
func (h Headers) Parse(data []byte) (n int, done bool, err error) {
	idx := bytes.Index(data, []byte(crlf))
	if idx == -1 {
		return 0, false, nil
	}
	if idx == 0 {
		return len(crlf), true, nil
	}

	line := string(data[:idx])
	name, value, ok := strings.Cut(line, separator)
	if !ok {
		return 0, false, fmt.Errorf("malformed header line (no %q): %q", separator, line)
	}

	h.Set(name, strings.TrimSpace(value))

	return idx + len(crlf), false, nil
}

func (h Headers) Set(key, value string) {
	h[key] = value
}

func (h Headers) Get(key string) (value string, ok bool) {
	value, ok = h[key]
	return value, ok
}

func (h Headers) Del(key string) {
	delete(h, key)
}

// Keys returns the field names in sorted order.
func (h Headers) Keys() []string {
	return slices.Sorted(maps.Keys(h))
}
