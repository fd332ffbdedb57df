// Package router maps a parsed request onto one of the server's fixed
// routes. It performs no I/O of its own; file access goes through the
// ReadFunc and WriteFunc it was built with.
package router

import (
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/nhdewitt/tcp-http-server/internal/request"
	"github.com/nhdewitt/tcp-http-server/internal/response"
)

const (
	rootPath      = "/"
	userAgentPath = "/user-agent"
	echoPrefix    = "/echo/"
	filesPrefix   = "/files/"

	userAgentHeader = "User-Agent"

	fileMode = 0o644
)

type (
	ReadFunc  func(path string) ([]byte, error)
	WriteFunc func(path string, data []byte) error
)

type Router struct {
	baseDir string
	read    ReadFunc
	write   WriteFunc
}

// New returns a Router serving /files/ from baseDir. baseDir is joined to
// file names by plain concatenation, so it normally ends in a separator.
func New(baseDir string, read ReadFunc, write WriteFunc) *Router {
	return &Router{
		baseDir: baseDir,
		read:    read,
		write:   write,
	}
}

// NewOS returns a Router backed by the local filesystem.
func NewOS(baseDir string) *Router {
	return New(baseDir, os.ReadFile, writeFile)
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, fileMode)
}

// Route never fails: anything that does not resolve to a defined route,
// including every filesystem error, becomes a bare 404.
func (rt *Router) Route(req *request.Request) response.Response {
	if req == nil {
		return response.NotFound()
	}

	target := req.RequestLine.RequestTarget
	switch req.RequestLine.Method {
	case request.MethodGet:
		switch {
		case target == rootPath:
			return response.New(response.StatusOK, nil, nil)
		case target == userAgentPath:
			return userAgent(req)
		case strings.HasPrefix(target, echoPrefix):
			return echo(strings.TrimPrefix(target, echoPrefix))
		case strings.HasPrefix(target, filesPrefix):
			return rt.serveFile(strings.TrimPrefix(target, filesPrefix))
		}
	case request.MethodPost:
		if strings.HasPrefix(target, filesPrefix) {
			return rt.saveFile(strings.TrimPrefix(target, filesPrefix), req)
		}
	}

	return response.NotFound()
}

func userAgent(req *request.Request) response.Response {
	ua, ok := req.Headers.Get(userAgentHeader)
	if !ok {
		return response.NotFound()
	}
	return response.WithBody(response.StatusOK, response.ContentTypeText, []byte(ua))
}

// echo answers an empty suffix with a bare 200, not a 404.
func echo(suffix string) response.Response {
	if suffix == "" {
		return response.New(response.StatusOK, nil, nil)
	}
	return response.WithBody(response.StatusOK, response.ContentTypeText, []byte(suffix))
}

func (rt *Router) serveFile(name string) response.Response {
	if name == "" || rt.read == nil {
		return response.NotFound()
	}

	content, err := rt.read(rt.baseDir + name)
	if err != nil {
		return response.NotFound()
	}
	if !validUTF8(content) {
		return response.NotFound()
	}

	return response.WithBody(response.StatusOK, response.ContentTypeOctetStream, content)
}

func (rt *Router) saveFile(name string, req *request.Request) response.Response {
	if name == "" || !req.HasBody() || rt.write == nil {
		return response.NotFound()
	}

	if err := rt.write(rt.baseDir+name, req.Body); err != nil {
		return response.NotFound()
	}

	return response.New(response.StatusCreated, nil, nil)
}

// validUTF8 reports whether file content can be served as a text body.
func validUTF8(b []byte) bool {
	_, _, err := transform.Bytes(encoding.UTF8Validator, b)
	return err == nil
}
