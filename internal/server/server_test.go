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

package server_test

import (
	"context"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/botobag/bookshelf/internal/config"
	"github.com/botobag/bookshelf/internal/server"
	"github.com/botobag/bookshelf/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var echoHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"data":{"echo":"` + r.URL.Path + `"}}`))
})

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = 5 * time.Second
	return cfg
}

func get(url string) (int, string) {
	resp, err := http.Get(url)
	Expect(err).ShouldNot(HaveOccurred())
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	Expect(err).ShouldNot(HaveOccurred())
	return resp.StatusCode, string(body)
}

var _ = Describe("Server", func() {
	var (
		cfg     config.Config
		logs    *observer.ObservedLogs
		logger  *zap.Logger
		ctx     context.Context
		cancel  context.CancelFunc
	)

	BeforeEach(func() {
		cfg = testConfig()
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		logger = zap.New(core)
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		cancel()
	})

	// start runs s in the background and returns the channel receiving the result of Start.
	start := func(s *server.Server) <-chan error {
		ctx, ready, done := ctx, make(chan struct{}), make(chan error, 1)
		go func() {
			done <- s.Start(ctx, ready)
		}()
		Eventually(ready).Should(BeClosed())
		return done
	}

	It("rejects invalid config", func() {
		cfg.Path = "graphql"
		_, err := server.New(cfg, echoHandler, logger)
		Expect(err).Should(HaveOccurred())
	})

	It("requires a handler", func() {
		_, err := server.New(cfg, nil, logger)
		Expect(err).Should(MatchError("server: GraphQL handler is required"))
	})

	It("serves the GraphQL handler at the configured path", func() {
		cfg.Path = "/api/graphql"
		s, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(s.Addr()).Should(BeEmpty())

		start(s)
		Expect(s.IsRunning()).Should(BeTrue())
		Expect(s.Addr()).ShouldNot(BeEmpty())

		status, body := get("http://" + s.Addr() + "/api/graphql")
		Expect(status).Should(Equal(http.StatusOK))
		Expect(body).Should(MatchJSON(`{"data":{"echo":"/api/graphql"}}`))

		status, _ = get("http://" + s.Addr() + "/graphql")
		Expect(status).Should(Equal(http.StatusNotFound))
	})

	It("logs the endpoint once it is listening", func() {
		s, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())
		start(s)

		Expect(s.URL()).Should(HavePrefix("http://127.0.0.1:"))
		Expect(s.URL()).Should(HaveSuffix("/graphql"))
		Expect(s.URL()).ShouldNot(HaveSuffix(":0/graphql"))

		entries := logs.FilterMessageSnippet("Running a GraphQL API server at").All()
		Expect(entries).Should(HaveLen(1))
		Expect(entries[0].Message).Should(Equal("Running a GraphQL API server at " + s.URL()))
	})

	It("reports localhost in the URL for the default host", func() {
		cfg := config.Default()
		s, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(s.URL()).Should(Equal("http://localhost:4000/graphql"))
	})

	It("listens on all interfaces by default", func() {
		cfg := config.Default()
		cfg.Port = 0
		s, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())
		start(s)

		host, port, err := net.SplitHostPort(s.Addr())
		Expect(err).ShouldNot(HaveOccurred())
		Expect(net.ParseIP(host).IsUnspecified()).Should(BeTrue())
		Expect(s.URL()).Should(Equal("http://localhost:" + port + "/graphql"))

		status, _ := get("http://127.0.0.1:" + port + "/health")
		Expect(status).Should(Equal(http.StatusOK))
	})

	It("reports health", func() {
		s, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())

		r := testutil.Serve(s.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil))
		Expect(r.Code).Should(Equal(http.StatusServiceUnavailable))
		Expect(r.Body.String()).Should(MatchJSON(`{"status":"unavailable"}`))

		start(s)
		status, body := get("http://" + s.Addr() + "/health")
		Expect(status).Should(Equal(http.StatusOK))
		Expect(body).Should(MatchJSON(`{"status":"healthy"}`))
	})

	It("exposes metrics from the gatherer", func() {
		registry := prometheus.NewRegistry()
		counter := prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookshelf_test_total",
			Help: "Counter for tests.",
		})
		registry.MustRegister(counter)
		counter.Inc()

		s, err := server.New(cfg, echoHandler, logger, server.Gatherer(registry))
		Expect(err).ShouldNot(HaveOccurred())
		start(s)

		status, body := get("http://" + s.Addr() + "/metrics")
		Expect(status).Should(Equal(http.StatusOK))
		Expect(body).Should(ContainSubstring("bookshelf_test_total 1"))
	})

	It("does not mount /metrics when metrics are disabled", func() {
		cfg.Metrics = false
		s, err := server.New(cfg, echoHandler, logger, server.Gatherer(prometheus.NewRegistry()))
		Expect(err).ShouldNot(HaveOccurred())

		r := testutil.Serve(s.Handler(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(r.Code).Should(Equal(http.StatusNotFound))
	})

	It("refuses to start twice", func() {
		s, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())
		start(s)

		Expect(s.Start(ctx, nil)).Should(Equal(server.ErrAlreadyStarted))
	})

	It("stops when the context is cancelled", func() {
		s, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())
		done := start(s)

		cancel()
		Eventually(done).Should(Receive(BeNil()))
		Expect(s.IsRunning()).Should(BeFalse())
	})

	It("stops once when Stop is called repeatedly", func() {
		s, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())
		done := start(s)

		Expect(s.Stop(time.Second)).Should(Succeed())
		Eventually(done).Should(Receive(BeNil()))
		Expect(s.IsRunning()).Should(BeFalse())
		Expect(s.Stop(time.Second)).Should(Succeed())

		Expect(logs.FilterMessage("Server stopped").Len()).Should(Equal(1))
	})

	It("cannot be restarted after it stopped", func() {
		s, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())
		done := start(s)

		Expect(s.Stop(time.Second)).Should(Succeed())
		Eventually(done).Should(Receive(BeNil()))

		Expect(s.Start(ctx, nil)).Should(Equal(server.ErrStopped))
		Expect(s.IsRunning()).Should(BeFalse())
	})

	It("fails to start when the address is in use", func() {
		first, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())
		start(first)

		port := first.Addr()[strings.LastIndex(first.Addr(), ":")+1:]
		cfg.Port, err = strconv.Atoi(port)
		Expect(err).ShouldNot(HaveOccurred())
		second, err := server.New(cfg, echoHandler, logger)
		Expect(err).ShouldNot(HaveOccurred())

		err = second.Start(ctx, nil)
		Expect(err).Should(HaveOccurred())
		Expect(err.Error()).Should(HavePrefix("server: listen on 127.0.0.1:" + port))
		Expect(second.IsRunning()).Should(BeFalse())
	})
})
