package topper

import (
	"net"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// numWorkerReactors is K from spec.md section 4.7 ("K I/O reactors, K=4 in
// the source"), grounded on original_source/src/server_impl.cc's kBases.
const numWorkerReactors = 4

// serverState is the lifecycle state machine of spec.md section 7:
// configured -> running -> stopped.
type serverState int

const (
	stateConfigured serverState = iota
	stateRunning
	stateStopped
)

// Server is the control plane: address validation, resource registration,
// the reactor pool, and the optional admin server. Grounded on
// original_source/src/server.cc (construction, address validation) and
// src/server_impl.cc (reactor pool, round-robin accept dispatch, startup
// banner).
type Server struct {
	ip    net.IP
	port  int
	state serverState

	registry *Registry
	cache    Cache

	workers  [numWorkerReactors]*reactor
	listener *reactor
	next     atomic.Uint64

	ln net.Listener

	adminStarted bool
	adminLn      net.Listener
}

// SetCache attaches an optional response cache consulted before dispatch
// and populated after a successful GET, per spec.md's response-cache
// enrichment (see cache.go).
func (s *Server) SetCache(c Cache) {
	s.cache = c
}

// NewServer validates ip and returns a configured, not-yet-started Server.
// An unparseable ip yields ErrInvalidAddress, the Go rendering of the
// original's inet_aton validation in server.cc's constructor.
func NewServer(ip string, port int) (*Server, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, newError(ErrInvalidAddress, "invalid listen address: "+ip)
	}
	return &Server{
		ip:       parsed,
		port:     port,
		registry: NewRegistry(),
	}, nil
}

// RegisterResource binds r at its declared path. Valid before Start only in
// spirit (the matcher holds no lock, spec.md section 5) but callers should
// register all resources before calling Start.
func (s *Server) RegisterResource(r Resource) error {
	return s.registry.Add(r)
}

// Start validates the server is not already running, opens the listen
// socket, starts the reactor pool plus the listener reactor, and begins
// accepting connections. It fails with ErrAlreadyStarted if called more
// than once.
func (s *Server) Start() error {
	if s.state != stateConfigured {
		return newError(ErrAlreadyStarted, "server already started")
	}

	addr := net.JoinHostPort(s.ip.String(), strconv.Itoa(s.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return newError(ErrInvalidAddress, err.Error())
	}
	s.ln = ln
	s.state = stateRunning

	for i := range s.workers {
		s.workers[i] = newReactor(64)
	}
	s.listener = newReactor(1)

	log.WithFields(logrus.Fields{
		"address":   addr,
		"resources": s.registry.Paths(),
	}).Info("server starting")

	s.listener.Schedule(func() { s.acceptLoop(s.ln, s) })
	return nil
}

// acceptLoop runs on the listener reactor, dispatching each accepted
// connection to a worker reactor in round-robin order via an atomic
// counter, exactly as original_source/src/server_impl.cc's chooseBase.
func (s *Server) acceptLoop(ln net.Listener, srv *Server) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		idx := srv.next.Add(1) % numWorkerReactors
		worker := srv.workers[idx]
		worker.Schedule(func() {
			newConnContext(conn, srv).serve()
		})
	}
}

// StartAdminServer starts a second listener, sharing the same worker
// reactor pool, that serves only GET /ping -> "pong\n". Grounded on
// original_source/example/hello_server.cc's
// server.startAdminServer("127.0.0.1", 0) call (port 0 requests an
// ephemeral port). It fails with ErrAlreadyStarted if called twice.
func (s *Server) StartAdminServer(ip string, port int) error {
	if s.adminStarted {
		return newError(ErrAlreadyStarted, "admin server already started")
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return newError(ErrInvalidAddress, "invalid admin listen address: "+ip)
	}

	addr := net.JoinHostPort(parsed.String(), strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return newError(ErrInvalidAddress, err.Error())
	}
	s.adminLn = ln
	s.adminStarted = true

	log.WithField("address", ln.Addr().String()).Info("admin server starting")

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			idx := s.next.Add(1) % numWorkerReactors
			worker := s.workers[idx]
			worker.Schedule(func() { servePing(conn) })
		}
	}()
	return nil
}

// servePing answers a bare GET /ping with 200 "pong\n" and any other
// request on the admin listener with a 404.
func servePing(conn net.Conn) {
	defer conn.Close()
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}
	fields := strings.Fields(string(buf[:n]))
	resp := NotFound()
	if len(fields) >= 2 && fields[0] == "GET" && fields[1] == "/ping" {
		resp = NewResponse(StatusOK, MediaText, "pong\n")
	}
	conn.Write([]byte(resp.Serialize()))
}

// AdminAddr returns the admin listener's bound address, useful when
// StartAdminServer was called with an ephemeral port.
func (s *Server) AdminAddr() string {
	if s.adminLn == nil {
		return ""
	}
	return s.adminLn.Addr().String()
}

// StopAndWait closes the listener and every reactor, blocking until all
// have drained. It fails with ErrNotStarted if the server was never
// started; a second call after a first success is a no-op, per spec.md
// section 4.7 ("idempotent after first success").
func (s *Server) StopAndWait() error {
	if s.state == stateConfigured {
		return newError(ErrNotStarted, "server not started")
	}
	if s.state == stateStopped {
		return nil
	}
	s.ln.Close()
	if s.adminLn != nil {
		s.adminLn.Close()
	}
	s.listener.Stop()
	for _, w := range s.workers {
		w.Stop()
	}
	s.state = stateStopped
	log.Info("server stopped")
	return nil
}

// Wait blocks until the server reaches the stopped state, i.e. until
// StopAndWait is called from another goroutine. Per spec.md section 4.7,
// it returns immediately (nil) if called while still configured, and
// immediately (nil) if called after the server has already stopped; it
// only blocks while running. This is a thin wrapper used by the CLI to
// keep the process alive.
func (s *Server) Wait() error {
	if s.state != stateRunning {
		return nil
	}
	<-s.listener.done
	return nil
}
