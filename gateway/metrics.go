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
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects request metrics of a gateway.
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates Metrics and registers its collectors with registerer. Collectors that have
// been registered by an earlier call are reused.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookshelf",
		Subsystem: "graphql",
		Name:      "requests_total",
		Help:      "Number of requests served by the GraphQL endpoint, by outcome.",
	}, []string{"outcome"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bookshelf",
		Subsystem: "graphql",
		Name:      "request_duration_seconds",
		Help:      "Time taken to serve requests to the GraphQL endpoint.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	if err := registerer.Register(requests); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if !errors.As(err, &alreadyRegistered) {
			return nil, errors.Wrap(err, "register requests counter")
		}
		requests = alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
	}

	if err := registerer.Register(duration); err != nil {
		var alreadyRegistered prometheus.AlreadyRegisteredError
		if !errors.As(err, &alreadyRegistered) {
			return nil, errors.Wrap(err, "register duration histogram")
		}
		duration = alreadyRegistered.ExistingCollector.(prometheus.Histogram)
	}

	return &Metrics{
		requests: requests,
		duration: duration,
	}, nil
}

// observe records one request. It is a no-op on nil Metrics.
func (m *Metrics) observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}
