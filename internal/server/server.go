package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ipeirotis/callbackd/internal/shared"
)

// State describes the lifecycle of a [CallbackServer].
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	default:
		return "stopped"
	}
}

// shutdownTimeout bounds how long graceful shutdown waits for in-flight responses.
const shutdownTimeout = 5 * time.Second

// CallbackServer is a process-local HTTP server that serves until a handler
// posts a stop signal, then shuts down gracefully and unblocks Start.
//
// Handlers never reach into the serving loop directly: routes that terminate
// the server do so by calling [CallbackServer.Stop], which posts a signal the
// loop observes after the in-flight response is flushed.
type CallbackServer struct {
	cfg    shared.ServerConfig
	logger *log.Logger
	router *BasicRouter

	visits atomic.Int64

	mu     sync.Mutex
	state  State
	addr   string
	stopCh chan struct{}
}

// New creates a [CallbackServer] with the default greeting and visitor routes
// registered per the server configuration.
func New(cfg shared.ServerConfig, logger *log.Logger) *CallbackServer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &CallbackServer{
		cfg:    cfg,
		logger: logger,
		router: NewBasicRouter(),
	}

	s.router.Use(RequestID(), RequestLogger(logger), Throttle(cfg.RateLimit, cfg.Burst))
	s.router.Handler(NewGreetingHandler(cfg.GreetingName, s.Stop, cfg.ShutdownOnRoot))
	s.router.Handler(NewVisitorHandler(s.visit, s.Stop, cfg.ShutdownOnVisit))

	return s
}

// Handler registers an additional [Handler] on the server's router.
//
// Routes are immutable once the server is running.
func (s *CallbackServer) Handler(h Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Running {
		return shared.ErrServerRunning
	}
	s.router.Handler(h)
	return nil
}

// Start binds the configured host:port, resets the visitor counter, and
// blocks until a handler (or an external caller) posts the stop signal.
//
// A bind failure is returned immediately and never retried. Control returns
// to the caller only after the serving loop has shut down.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	if s.state == Running {
		s.mu.Unlock()
		return shared.ErrServerRunning
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to bind %s: %w", s.cfg.Addr(), err)
	}

	s.visits.Store(0)
	s.stopCh = make(chan struct{})
	s.state = Running
	s.addr = ln.Addr().String()
	stopCh := s.stopCh
	s.mu.Unlock()

	s.logger.Infof("listening on %v", ln.Addr())

	httpSrv := &http.Server{Handler: s.router}
	serveErr := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	var runErr error
	select {
	case <-stopCh:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			runErr = fmt.Errorf("shutdown failed: %w", err)
		}
	case err := <-serveErr:
		runErr = err
	}

	s.mu.Lock()
	s.state = Stopped
	s.addr = ""
	s.mu.Unlock()

	s.logger.Info("server stopped", "visits", s.visits.Load())
	return runErr
}

// Stop posts the stop signal observed by the serving loop.
//
// Safe to call from inside a request handler or from another goroutine; the
// in-flight response is flushed before the listener closes. Calling Stop when
// the server is not running is a no-op.
func (s *CallbackServer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}

// State returns the current lifecycle state.
func (s *CallbackServer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Addr returns the bound address while running, or the empty string.
//
// Useful when the configured port is 0 and the OS picks one.
func (s *CallbackServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Visits returns the number of requests served on the visitor route this run.
func (s *CallbackServer) Visits() int64 {
	return s.visits.Load()
}

func (s *CallbackServer) visit() int64 {
	return s.visits.Add(1)
}
