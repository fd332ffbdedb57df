package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"github.com/nhdewitt/tcp-http-server/internal/request"
	"github.com/nhdewitt/tcp-http-server/internal/response"
)

const (
	lingerTimeout  = 500 * time.Millisecond
	lingerMaxBytes = 256 << 10
)

type Options struct {
	Addr string

	// MaxConns caps connections served at once; 0 means unbounded.
	MaxConns int

	// ReadTimeout bounds reading the request; 0 means no deadline.
	ReadTimeout time.Duration
}

type Server struct {
	listener    net.Listener
	isListening atomic.Bool
	handler     Handler
	readTimeout time.Duration
	log         zerolog.Logger
}

func Serve(opts Options, handler Handler, log zerolog.Logger) (*Server, error) {
	listener, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", opts.Addr, err)
	}
	if opts.MaxConns > 0 {
		listener = netutil.LimitListener(listener, opts.MaxConns)
	}

	s := &Server{
		listener:    listener,
		handler:     handler,
		readTimeout: opts.ReadTimeout,
		log:         log,
	}
	s.isListening.Store(true)
	go s.listen()

	return s, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Close() error {
	if !s.isListening.CompareAndSwap(true, false) {
		return nil
	}

	if s.listener != nil {
		return s.listener.Close()
	}

	return nil
}

func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.isListening.Load() {
				return
			}
			s.log.Error().Err(err).Msg("error accepting connection")
			continue
		}

		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	log := s.log.With().
		Str("conn", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	if err := s.serveConn(conn, log); err != nil {
		log.Warn().Err(err).Msg("error writing response")
		return
	}
	closeWriteAndDrain(conn)
}

// closeWriteAndDrain sends FIN and discards unread client bytes; closing with
// unread data pending resets the connection under the response.
func closeWriteAndDrain(conn net.Conn) {
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err != nil {
			return
		}
	}
	if err := conn.SetReadDeadline(time.Now().Add(lingerTimeout)); err != nil {
		return
	}
	_, _ = io.CopyN(io.Discard, conn, lingerMaxBytes)
}

// serveConn runs exactly one request/response exchange. Only a failure to
// write the response is returned.
func (s *Server) serveConn(conn net.Conn, log zerolog.Logger) error {
	if s.readTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout)); err != nil {
			log.Debug().Err(err).Msg("error setting read deadline")
		}
	}

	var resp response.Response
	req, err := request.RequestFromReader(conn)
	if err != nil {
		log.Debug().Err(err).Msg("error parsing request")
		resp = response.NotFound()
	} else {
		log.Debug().
			Stringer("method", req.RequestLine.Method).
			Str("target", req.RequestLine.RequestTarget).
			Msg("request parsed")
		resp = s.handler(req)
	}

	w := bufio.NewWriter(conn)
	if _, err := resp.WriteTo(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	log.Info().Int("status", resp.Status.Code()).Msg("response sent")
	return nil
}
