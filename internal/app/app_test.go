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

package app_test

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/botobag/bookshelf/internal/app"
	"github.com/botobag/bookshelf/internal/config"
	"github.com/botobag/bookshelf/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const booksQuery = "{ books { title author } }"

var _ = Describe("App", func() {
	var (
		cfg      config.Config
		registry *prometheus.Registry
		ctx      context.Context
		cancel   context.CancelFunc
	)

	BeforeEach(func() {
		cfg = config.Default()
		cfg.Host = "127.0.0.1"
		cfg.Port = 0
		registry = app.NewRegistry()
		ctx, cancel = context.WithCancel(context.Background())
	})

	AfterEach(func() {
		cancel()
	})

	start := func() *server.Server {
		s, err := app.New(cfg, nil, registry)
		Expect(err).ShouldNot(HaveOccurred())

		ready := make(chan struct{})
		go s.Start(ctx, ready)
		Eventually(ready).Should(BeClosed())
		return s
	}

	query := func(s *server.Server, query string) (int, string) {
		resp, err := http.Post(s.URL(), "application/json",
			strings.NewReader(`{"query":`+strconv.Quote(query)+`}`))
		Expect(err).ShouldNot(HaveOccurred())
		defer resp.Body.Close()
		body, err := ioutil.ReadAll(resp.Body)
		Expect(err).ShouldNot(HaveOccurred())
		return resp.StatusCode, string(body)
	}

	It("serves the built-in books", func() {
		s := start()

		status, body := query(s, booksQuery)
		Expect(status).Should(Equal(http.StatusOK))
		Expect(body).Should(MatchJSON(`{
			"data": {
				"books": [
					{"title": "The Hobbit", "author": "J.R.R. Tolkien"},
					{"title": "Harry Potter and the Philosopher's Stone", "author": "J.K. Rowling"}
				]
			}
		}`))
	})

	It("serves books from a seed file", func() {
		cfg.CatalogFile = "../../catalog/testdata/books.yaml"
		s := start()

		status, body := query(s, "{ books { title } }")
		Expect(status).Should(Equal(http.StatusOK))
		Expect(body).Should(MatchJSON(`{
			"data": {
				"books": [
					{"title": "Dune"},
					{"title": "The Left Hand of Darkness"},
					{"title": "Neuromancer"}
				]
			}
		}`))
	})

	It("fails on bad seed files", func() {
		cfg.CatalogFile = "../../catalog/testdata/books.csv"
		_, err := app.New(cfg, nil, registry)
		Expect(err).Should(HaveOccurred())
		Expect(err.Error()).Should(HavePrefix("catalog: unsupported seed file"))
	})

	It("rejects unknown fields", func() {
		s := start()

		status, body := query(s, "{ books { isbn } }")
		Expect(status).Should(Equal(http.StatusBadRequest))
		Expect(body).Should(ContainSubstring(`Cannot query field \"isbn\" on type \"Book\".`))
		Expect(body).ShouldNot(ContainSubstring(`"data"`))
	})

	It("serves GraphiQL to browsers when enabled", func() {
		s := start()

		req, err := http.NewRequest(http.MethodGet, s.URL(), nil)
		Expect(err).ShouldNot(HaveOccurred())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		resp, err := http.DefaultClient.Do(req)
		Expect(err).ShouldNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).Should(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).Should(HavePrefix("text/html"))
	})

	It("does not serve GraphiQL when disabled", func() {
		cfg.GraphiQL = false
		s := start()

		req, err := http.NewRequest(http.MethodGet, s.URL()+"?query="+url.QueryEscape(booksQuery), nil)
		Expect(err).ShouldNot(HaveOccurred())
		req.Header.Set("Accept", "text/html")
		resp, err := http.DefaultClient.Do(req)
		Expect(err).ShouldNot(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).Should(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).Should(HavePrefix("application/json"))
	})

	It("records request metrics", func() {
		s := start()

		query(s, booksQuery)
		query(s, booksQuery)
		query(s, "{")

		resp, err := http.Get("http://" + s.Addr() + "/metrics")
		Expect(err).ShouldNot(HaveOccurred())
		defer resp.Body.Close()
		body, err := ioutil.ReadAll(resp.Body)
		Expect(err).ShouldNot(HaveOccurred())

		Expect(string(body)).Should(ContainSubstring(`bookshelf_graphql_requests_total{outcome="ok"} 2`))
		Expect(string(body)).Should(ContainSubstring(`bookshelf_graphql_requests_total{outcome="bad_request"} 1`))
		Expect(string(body)).Should(ContainSubstring("go_goroutines"))
	})

	It("skips request metrics when metrics are disabled", func() {
		cfg.Metrics = false
		s := start()
		query(s, booksQuery)

		count, err := testutil.GatherAndCount(registry, "bookshelf_graphql_requests_total")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(count).Should(Equal(0))
	})
})
