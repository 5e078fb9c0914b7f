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

package gateway

import (
	"net/http"
	"time"

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/handler"
	"go.uber.org/zap"
)

// Default settings
const (
	DefaultMaxBodySize        = 10 << 20 // 10MB
	DefaultOperationCacheSize = 512
)

// config contains settings to set up a gateway.
type config struct {
	graphiql           bool
	logger             *zap.Logger
	metrics            *Metrics
	maxBodySize        uint
	operationCacheSize uint
}

// Option configures a gateway.
type Option func(c *config)

// GraphiQL enables or disables serving GraphiQL to browsers. It is enabled by default.
func GraphiQL(enabled bool) Option {
	return func(c *config) {
		c.graphiql = enabled
	}
}

// Logger sets the logger for request logs.
func Logger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records request metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// MaxBodySize sets the maximum number of bytes to be read from a request body.
func MaxBodySize(size uint) Option {
	return func(c *config) {
		c.maxBodySize = size
	}
}

// OperationCacheSize sets the number of prepared operations kept in the LRU cache.
func OperationCacheSize(size uint) Option {
	return func(c *config) {
		c.operationCacheSize = size
	}
}

// gateway implements http.Handler. It answers browsers with GraphiQL and passes everything else
// to an artemis HTTP handler.
type gateway struct {
	config  config
	graphql http.Handler
}

// New creates a http.Handler serving queries against schema.
func New(schema graphql.Schema, opts ...Option) (http.Handler, error) {
	c := config{
		graphiql:           true,
		maxBodySize:        DefaultMaxBodySize,
		operationCacheSize: DefaultOperationCacheSize,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.operationCacheSize == 0 {
		c.operationCacheSize = DefaultOperationCacheSize
	}

	cache, err := handler.NewLRUOperationCache(c.operationCacheSize)
	if err != nil {
		return nil, err
	}

	results := resultPresenter{}
	h, err := handler.New(schema,
		handler.MaxBodySize(c.maxBodySize),
		handler.OverrideOperationCache(cache),
		handler.OverrideResultPresenter(results),
		handler.OverrideErrorPresenter(errorPresenter{
			logger: c.logger,
		}),
	)
	if err != nil {
		return nil, err
	}

	return &gateway{
		config:  c,
		graphql: h,
	}, nil
}

func (g *gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rw := &responseWriter{
		ResponseWriter: w,
	}

	switch {
	case r.Method != http.MethodGet && r.Method != http.MethodPost:
		rw.Header().Set("Allow", "GET, POST")
		writeErrors(rw, http.StatusMethodNotAllowed,
			graphql.ErrorsOf("GraphQL only supports GET and POST requests."))
		rw.outcome = OutcomeBadRequest

	case g.config.graphiql && shouldRenderGraphiQL(r):
		renderGraphiQL(rw, r, g.config.logger)
		rw.outcome = OutcomeGraphiQL

	default:
		g.graphql.ServeHTTP(rw, r)
	}

	elapsed := time.Since(start)
	g.config.metrics.observe(rw.outcome, elapsed)

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rw.Status()),
		zap.String("outcome", rw.outcome),
		zap.Duration("duration", elapsed),
	}
	if rw.outcome == OutcomeBadRequest {
		g.config.logger.Info("rejected GraphQL request", fields...)
	} else {
		g.config.logger.Debug("served GraphQL request", fields...)
	}
}

// responseWriter records the status code and the outcome determined by presenters.
type responseWriter struct {
	http.ResponseWriter
	status  int
	outcome string
}

func (w *responseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the status code written to the response.
func (w *responseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// setOutcome records outcome on w if w was created by gateway.
func setOutcome(w http.ResponseWriter, outcome string) {
	if rw, ok := w.(*responseWriter); ok {
		rw.outcome = outcome
	}
}
