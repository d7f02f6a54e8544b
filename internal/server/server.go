package server

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/xaitan80/minihttpd/internal/config"
	"github.com/xaitan80/minihttpd/internal/request"
	"github.com/xaitan80/minihttpd/internal/response"
)

// Dispatcher turns a parsed request into a response.
type Dispatcher interface {
	Serve(req *request.Request) response.Response
}

// state is a step of a connection's single request/response cycle.
type state int

const (
	stateReading state = iota
	stateParsing
	stateRouting
	stateWriting
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateReading:
		return "reading"
	case stateParsing:
		return "parsing"
	case stateRouting:
		return "routing"
	case stateWriting:
		return "writing"
	case stateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Server struct {
	ln          net.Listener
	closed      atomic.Bool
	d           Dispatcher
	log         zerolog.Logger
	bufSize     int
	readTimeout time.Duration
	nextConn    atomic.Uint64
}

// Serve binds cfg.Address and begins accepting connections in a
// background goroutine.
func Serve(cfg config.ServerConfig, d Dispatcher, logger zerolog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Address, err)
	}
	s := &Server{
		ln:          ln,
		d:           d,
		log:         logger,
		bufSize:     cfg.ReadBufferSize,
		readTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
	}
	go s.listen()
	return s, nil
}

// Addr returns the address the listener is bound to.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Close stops the server and closes the underlying listener. Connections
// already accepted run to completion.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	s.closed.Store(true)
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}

// listen accepts connections until the server is closed, handling each in a goroutine.
func (s *Server) listen() {
	var delay time.Duration
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if s.closed.Load() {
				return
			}
			// Back off so a persistent failure (e.g. EMFILE) does not spin.
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > time.Second {
				delay = time.Second
			}
			s.log.Error().Err(err).Dur("retry_in", delay).Msg("accept failed")
			time.Sleep(delay)
			continue
		}
		delay = 0
		go s.handle(conn)
	}
}

// handle runs one request/response cycle and closes the connection. Any
// failure drops the connection without a response.
func (s *Server) handle(conn net.Conn) {
	log := s.log.With().
		Uint64("conn", s.nextConn.Add(1)).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	st := stateReading

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Stringer("state", st).Msg("connection handler panicked")
		}
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Debug().Err(err).Msg("close failed")
		}
		log.Debug().Stringer("state", stateClosed).Msg("connection closed")
	}()

	if s.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}
	data, err := request.ReadRaw(conn, s.bufSize)
	if err != nil {
		if errors.Is(err, request.ErrConnectionClosed) {
			log.Debug().Msg("peer closed before sending a request")
			return
		}
		log.Warn().Err(err).Stringer("state", st).Msg("read failed")
		return
	}

	st = stateParsing
	req, err := request.Parse(data)
	if err != nil {
		log.Warn().Err(err).Stringer("state", st).Msg("dropping malformed request")
		return
	}

	st = stateRouting
	resp := s.d.Serve(req)

	st = stateWriting
	if err := response.Write(conn, resp); err != nil {
		log.Warn().Err(err).Stringer("state", st).Msg("write failed")
		return
	}

	log.Info().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", int(resp.Status)).
		Msg("request served")
}
