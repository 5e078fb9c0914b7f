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

// Package app assembles the bookshelf server from its configuration.
package app

import (
	"github.com/botobag/bookshelf/catalog"
	"github.com/botobag/bookshelf/gateway"
	"github.com/botobag/bookshelf/internal/config"
	"github.com/botobag/bookshelf/internal/server"
	"github.com/botobag/bookshelf/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// LoadCatalog returns the catalog named by cfg: the seed file if one is configured, or the
// built-in books otherwise.
func LoadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if len(cfg.CatalogFile) == 0 {
		return catalog.Default(), nil
	}
	return catalog.Load(cfg.CatalogFile)
}

// NewRegistry creates a registry with the Go runtime and process collectors registered.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// New builds a server serving the catalog from cfg. Request metrics are registered in registry
// which is also exposed at /metrics when cfg enables it.
func New(cfg config.Config, logger *zap.Logger, registry *prometheus.Registry) (*server.Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = NewRegistry()
	}

	books, err := LoadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded catalog",
		zap.String("file", cfg.CatalogFile),
		zap.Int("books", books.Len()))

	s, err := schema.New(books)
	if err != nil {
		return nil, err
	}

	opts := []gateway.Option{
		gateway.GraphiQL(cfg.GraphiQL),
		gateway.Logger(logger.Named("gateway")),
		gateway.MaxBodySize(cfg.MaxBodySize),
		gateway.OperationCacheSize(cfg.OperationCacheSize),
	}
	if cfg.Metrics {
		metrics, err := gateway.NewMetrics(registry)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gateway.WithMetrics(metrics))
	}

	h, err := gateway.New(s, opts...)
	if err != nil {
		return nil, err
	}

	return server.New(cfg, h, logger.Named("server"), server.Gatherer(registry))
}
