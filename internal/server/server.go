package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/block/hello-server-go/internal/config"
	"github.com/block/hello-server-go/internal/server/middleware"
	"github.com/block/hello-server-go/internal/server/routes"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/rs/zerolog"
)

// ErrServerClosed is returned by Start once Shutdown has been called
var ErrServerClosed = errors.New("server closed")

const bindPollInterval = 10 * time.Millisecond

// Server represents the hello HTTP server
type Server struct {
	config *config.Config
	logger zerolog.Logger

	mu     sync.Mutex
	hertz  *server.Hertz
	port   int
	closed bool

	ready chan struct{} // closed once the socket accepts connections
	done  chan struct{} // closed when the engine stops running
}

// New creates a new server instance
func New(cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(h *server.Hertz) {
	// Global middleware
	h.Use(middleware.RequestID())
	h.Use(middleware.Logger(s.logger))
	h.Use(middleware.Recovery(s.logger))

	h.GET("/status", routes.Status(s.logger))
	h.GET("/hello", routes.Hello(s.logger))
	h.GET("/secret", routes.Secret(s.config))

	s.logger.Debug().Msg("Routes configured")
}

// Start binds the configured port and serves until the server is shut down.
// A bind failure is returned without retrying.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrServerClosed
	}
	if s.hertz != nil {
		s.mu.Unlock()
		return errors.New("server already started")
	}

	port, err := resolvePort(s.config.Port)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", port)),
		server.WithDisablePrintRoute(true),
	)
	s.setupRoutes(h)

	// OnRun hooks fire right before the engine listens
	h.OnRun = append(h.OnRun, func(ctx context.Context) error {
		go s.awaitBind(port)
		return nil
	})

	s.hertz = h
	s.port = port
	s.mu.Unlock()

	err = h.Run()
	close(s.done)

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to serve on port %d: %w", port, err)
	}
	return nil
}

// resolvePort checks that the port can be bound and picks a free one for port 0
func resolvePort(port int) (int, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	bound := ln.Addr().(*net.TCPAddr).Port
	if err := ln.Close(); err != nil {
		return 0, err
	}
	return bound, nil
}

// awaitBind waits until the engine accepts connections, then reports readiness
func (s *Server) awaitBind(port int) {
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	ticker := time.NewTicker(bindPollInterval)
	defer ticker.Stop()

	for {
		conn, err := net.DialTimeout("tcp", addr, bindPollInterval)
		if err == nil {
			conn.Close()
			s.logger.Info().Int("port", port).Msg("Listening on port")
			close(s.ready)
			return
		}

		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
	}
}

// Ready is closed once the server accepts connections
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or nil until the server is ready
func (s *Server) Addr() net.Addr {
	select {
	case <-s.ready:
	default:
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return &net.TCPAddr{IP: net.IPv4zero, Port: s.port}
}

// Shutdown stops the server. A server that is still starting is stopped once it
// accepts connections; Start called after Shutdown returns ErrServerClosed.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	h := s.hertz
	s.mu.Unlock()

	if h == nil {
		return nil
	}

	select {
	case <-s.ready:
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	return h.Shutdown(ctx)
}
