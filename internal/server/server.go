/**
 * Copyright (c) 2026, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Package server runs the HTTP server hosting the GraphQL endpoint together with health and
// metrics endpoints.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/botobag/bookshelf/internal/config"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Errors returned by Start
var (
	ErrAlreadyStarted = errors.New("server: already started")
	ErrStopped        = errors.New("server: stopped servers cannot be restarted")
)

// Server manages the HTTP server of the GraphQL endpoint.
type Server struct {
	config     config.Config
	logger     *zap.Logger
	gatherer   prometheus.Gatherer
	mux        *http.ServeMux
	httpServer *http.Server

	// Lifecycle
	mu       sync.RWMutex
	running  bool
	listener net.Listener
	stopChan chan struct{}
	stopOnce sync.Once
}

// Option configures a Server.
type Option func(s *Server)

// Gatherer sets the source of metrics exposed at /metrics. prometheus.DefaultGatherer is used if
// not specified.
func Gatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// New creates a Server serving h at the GraphQL path in cfg.
func New(cfg config.Config, h http.Handler, logger *zap.Logger, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errors.New("server: GraphQL handler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:   cfg,
		logger:   logger,
		gatherer: prometheus.DefaultGatherer,
		mux:      http.NewServeMux(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.Handle(cfg.Path, h)
	s.mux.HandleFunc("/health", s.handleHealth)
	if cfg.Metrics {
		s.mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Handler:      s.mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the handler serving all routes of s.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Addr returns the address the server is listening on, or an empty string if it is not running.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the URL of the GraphQL endpoint. The port is taken from the listener once the server
// is running so it is correct when the configured port is 0.
func (s *Server) URL() string {
	host, port := s.config.Host, strconv.Itoa(s.config.Port)
	if addr := s.Addr(); len(addr) > 0 {
		if _, p, err := net.SplitHostPort(addr); err == nil {
			port = p
		}
	}
	if len(host) == 0 || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(host, port), s.config.Path)
}

// Start listens on the configured address and serves requests until ctx is cancelled or Stop is
// called. ready is closed once the listener is bound.
func (s *Server) Start(ctx context.Context, ready chan<- struct{}) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	select {
	case <-s.stopChan:
		s.mu.Unlock()
		return ErrStopped
	default:
	}
	listener, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		s.mu.Unlock()
		return errors.Wrapf(err, "server: listen on %s", s.config.Addr())
	}
	s.running = true
	s.listener = listener
	server := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Running a GraphQL API server at " + s.URL())
	if ready != nil {
		close(ready)
	}

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Server context cancelled, shutting down")
		return s.Stop(s.config.ShutdownTimeout)

	case <-s.stopChan:
		return nil

	case err, ok := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		if !ok {
			return nil
		}
		return errors.Wrap(err, "server: serve")
	}
}

// Stop gracefully shuts down the server. It is safe to call Stop more than once.
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	server := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Server stopping")

	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shutdown server gracefully", zap.Error(err))
		return errors.Wrap(err, "server: shutdown")
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Server stopped")
	return nil
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.IsRunning() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
