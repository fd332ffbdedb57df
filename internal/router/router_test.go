package router

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhdewitt/tcp-http-server/internal/headers"
	"github.com/nhdewitt/tcp-http-server/internal/request"
	"github.com/nhdewitt/tcp-http-server/internal/response"
)

type fakeFS struct {
	files  map[string][]byte
	reads  []string
	writes []string
	err    error
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: map[string][]byte{}}
}

func (f *fakeFS) read(path string) ([]byte, error) {
	f.reads = append(f.reads, path)
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

func (f *fakeFS) write(path string, data []byte) error {
	f.writes = append(f.writes, path)
	if f.err != nil {
		return f.err
	}
	f.files[path] = bytes.Clone(data)
	return nil
}

func newRequest(method request.Method, target string, h headers.Headers, body []byte) *request.Request {
	if h == nil {
		h = headers.NewHeaders()
	}
	return &request.Request{
		RequestLine: request.RequestLine{Method: method, RequestTarget: target, HttpVersion: "1.1"},
		Headers:     h,
		Body:        body,
	}
}

func assertBareStatus(t *testing.T, want response.Status, resp response.Response) {
	t.Helper()
	assert.Equal(t, want, resp.Status)
	assert.Empty(t, resp.Headers)
	assert.False(t, resp.HasBody())
}

func TestRoot(t *testing.T) {
	rt := New("/srv/", nil, nil)
	assertBareStatus(t, response.StatusOK, rt.Route(newRequest(request.MethodGet, "/", nil, nil)))
}

func TestUnmatchedRoutes(t *testing.T) {
	fs := newFakeFS()
	rt := New("/srv/", fs.read, fs.write)
	cases := []struct {
		method request.Method
		target string
	}{
		{request.MethodGet, "/index.html"},
		{request.MethodGet, "/echo"},
		{request.MethodGet, "/files"},
		{request.MethodGet, "/user-agent/extra"},
		{request.MethodGet, ""},
		{request.MethodPost, "/"},
		{request.MethodPost, "/echo/abc"},
		{request.MethodPut, "/files/a.txt"},
		{request.MethodDelete, "/files/a.txt"},
		{request.MethodPut, "/"},
		{request.MethodUnknown, "/"},
		{request.MethodUnknown, "/echo/abc"},
	}
	for _, c := range cases {
		resp := rt.Route(newRequest(c.method, c.target, nil, []byte("body")))
		assertBareStatus(t, response.StatusNotFound, resp)
	}
	assert.Empty(t, fs.reads)
	assert.Empty(t, fs.writes)
}

func TestNilRequest(t *testing.T) {
	rt := New("", nil, nil)
	assertBareStatus(t, response.StatusNotFound, rt.Route(nil))
}

func TestUserAgent(t *testing.T) {
	rt := New("", nil, nil)

	h := headers.NewHeaders()
	h.Set("User-Agent", "curl/7.64.1")
	resp := rt.Route(newRequest(request.MethodGet, "/user-agent", h, nil))
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Equal(t, "curl/7.64.1", string(resp.Body))
	assert.Equal(t, "11", resp.Headers["Content-Length"])
	assert.Equal(t, "text/plain", resp.Headers["Content-Type"])
	assert.Len(t, resp.Headers, 2)

	resp = rt.Route(newRequest(request.MethodGet, "/user-agent", nil, nil))
	assertBareStatus(t, response.StatusNotFound, resp)

	// header names are case-sensitive
	h = headers.NewHeaders()
	h.Set("user-agent", "curl/7.64.1")
	resp = rt.Route(newRequest(request.MethodGet, "/user-agent", h, nil))
	assertBareStatus(t, response.StatusNotFound, resp)
}

func TestEcho(t *testing.T) {
	rt := New("", nil, nil)

	for _, s := range []string{"abc", "héllo wörld", "a/b/c", "%20"} {
		resp := rt.Route(newRequest(request.MethodGet, "/echo/"+s, nil, nil))
		assert.Equal(t, response.StatusOK, resp.Status)
		assert.Equal(t, []byte(s), resp.Body)
		assert.Equal(t, "text/plain", resp.Headers["Content-Type"])
		assert.Equal(t, strconv.Itoa(len([]byte(s))), resp.Headers["Content-Length"])
	}

	// empty suffix is a bare 200
	resp := rt.Route(newRequest(request.MethodGet, "/echo/", nil, nil))
	assertBareStatus(t, response.StatusOK, resp)
}

func TestGetFile(t *testing.T) {
	fs := newFakeFS()
	fs.files["/srv/foo.txt"] = []byte("file content")
	rt := New("/srv/", fs.read, fs.write)

	resp := rt.Route(newRequest(request.MethodGet, "/files/foo.txt", nil, nil))
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Equal(t, "file content", string(resp.Body))
	assert.Equal(t, "application/octet-stream", resp.Headers["Content-Type"])
	assert.Equal(t, "12", resp.Headers["Content-Length"])
	assert.Equal(t, []string{"/srv/foo.txt"}, fs.reads)

	// missing file
	resp = rt.Route(newRequest(request.MethodGet, "/files/missing.txt", nil, nil))
	assertBareStatus(t, response.StatusNotFound, resp)

	// empty name never reaches the filesystem
	fs.reads = nil
	resp = rt.Route(newRequest(request.MethodGet, "/files/", nil, nil))
	assertBareStatus(t, response.StatusNotFound, resp)
	assert.Empty(t, fs.reads)

	// non-UTF-8 content
	fs.files["/srv/bin"] = []byte{0xff, 0xfe, 0x00}
	resp = rt.Route(newRequest(request.MethodGet, "/files/bin", nil, nil))
	assertBareStatus(t, response.StatusNotFound, resp)

	// any other read error
	fs.err = errors.New("permission denied")
	resp = rt.Route(newRequest(request.MethodGet, "/files/foo.txt", nil, nil))
	assertBareStatus(t, response.StatusNotFound, resp)
}

func TestPostFile(t *testing.T) {
	fs := newFakeFS()
	rt := New("/srv/", fs.read, fs.write)

	resp := rt.Route(newRequest(request.MethodPost, "/files/new.txt", nil, []byte("hello")))
	assertBareStatus(t, response.StatusCreated, resp)
	assert.Equal(t, []byte("hello"), fs.files["/srv/new.txt"])

	// empty body that was explicitly framed is still written
	resp = rt.Route(newRequest(request.MethodPost, "/files/empty.txt", nil, []byte{}))
	assertBareStatus(t, response.StatusCreated, resp)
	assert.Contains(t, fs.writes, "/srv/empty.txt")
	require.Contains(t, fs.files, "/srv/empty.txt")
	assert.NotNil(t, fs.files["/srv/empty.txt"])
	assert.Empty(t, fs.files["/srv/empty.txt"])

	// write failure
	fs.err = errors.New("read-only file system")
	resp = rt.Route(newRequest(request.MethodPost, "/files/new.txt", nil, []byte("hello")))
	assertBareStatus(t, response.StatusNotFound, resp)
}

func TestPostFileRejectedWithoutWrite(t *testing.T) {
	fs := newFakeFS()
	rt := New("/srv/", fs.read, fs.write)

	resp := rt.Route(newRequest(request.MethodPost, "/files/", nil, []byte("hello")))
	assertBareStatus(t, response.StatusNotFound, resp)

	resp = rt.Route(newRequest(request.MethodPost, "/files/foo.txt", nil, nil))
	assertBareStatus(t, response.StatusNotFound, resp)

	assert.Empty(t, fs.writes)
}

func TestFileRoundTripOnDisk(t *testing.T) {
	dir := t.TempDir() + string(filepath.Separator)
	rt := NewOS(dir)

	body := []byte("line one\nline two\n")
	resp := rt.Route(newRequest(request.MethodPost, "/files/foo.txt", nil, body))
	require.Equal(t, response.StatusCreated, resp.Status)

	onDisk, err := os.ReadFile(filepath.Join(dir, "foo.txt"))
	require.NoError(t, err)
	assert.Equal(t, body, onDisk)

	resp = rt.Route(newRequest(request.MethodGet, "/files/foo.txt", nil, nil))
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Equal(t, body, resp.Body)
	assert.Equal(t, "application/octet-stream", resp.Headers["Content-Type"])

	// overwrite truncates
	resp = rt.Route(newRequest(request.MethodPost, "/files/foo.txt", nil, []byte("x")))
	require.Equal(t, response.StatusCreated, resp.Status)
	resp = rt.Route(newRequest(request.MethodGet, "/files/foo.txt", nil, nil))
	assert.Equal(t, []byte("x"), resp.Body)

	// writing into a directory that does not exist fails as 404
	resp = rt.Route(newRequest(request.MethodPost, "/files/nope/foo.txt", nil, body))
	assertBareStatus(t, response.StatusNotFound, resp)
}
