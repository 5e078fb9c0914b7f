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

package main

import (
	"os"

	"github.com/botobag/bookshelf/schema"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("bookshelf", func() {
	Describe("schema", func() {
		It("prints the SDL", func() {
			out, err := execute("schema")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(out).Should(Equal(schema.SDL))
			Expect(out).Should(ContainSubstring("books: [Book]"))
		})

		It("takes no arguments", func() {
			_, err := execute("schema", "Book")
			Expect(err).Should(MatchError(`bookshelf schema: unexpected arguments ["Book"]`))
		})
	})

	Describe("books", func() {
		AfterEach(func() {
			os.Unsetenv("BOOKSHELF_CATALOG")
		})

		It("prints the built-in books", func() {
			out, err := execute("books")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(out).Should(MatchJSON(`[
				{"title": "The Hobbit", "author": "J.R.R. Tolkien"},
				{"title": "Harry Potter and the Philosopher's Stone", "author": "J.K. Rowling"}
			]`))
		})

		It("prints books from a seed file", func() {
			out, err := execute("books", "--catalog", "../../catalog/testdata/books.json")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(out).Should(MatchJSON(`[
				{"title": "Dune", "author": "Frank Herbert"},
				{"title": "The Left Hand of Darkness", "author": "Ursula K. Le Guin"},
				{"title": "Neuromancer", "author": "William Gibson"}
			]`))
		})

		It("reads the seed file from the environment", func() {
			os.Setenv("BOOKSHELF_CATALOG", "../../catalog/testdata/books.yaml")

			out, err := execute("books")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(out).Should(ContainSubstring("Neuromancer"))
		})

		It("reports bad seed files", func() {
			_, err := execute("books", "--catalog", "../../catalog/testdata/unknown_field.yaml")
			Expect(err).Should(HaveOccurred())
			Expect(err.Error()).Should(HavePrefix("catalog: load"))
		})
	})

	Describe("serve", func() {
		It("rejects invalid settings before listening", func() {
			_, err := execute("serve", "--port", "70000")
			Expect(err).Should(MatchError("config: port 70000 out of range"))
		})

		It("takes the serve flags on the root command", func() {
			_, err := execute("--port", "70000")
			Expect(err).Should(MatchError("config: port 70000 out of range"))

			_, err = execute("-p", "4001", "--path", "graphql")
			Expect(err).Should(MatchError(`config: path "graphql" must start with /`))
		})

		It("does not give serve flags to other subcommands", func() {
			_, err := execute("schema", "--port", "5000")
			Expect(err).Should(HaveOccurred())
			Expect(err.Error()).Should(ContainSubstring("unknown flag: --port"))
		})

		It("rejects unknown log levels from the root command", func() {
			_, err := execute("--log-level", "verbose")
			Expect(err).Should(HaveOccurred())
			Expect(err.Error()).Should(HavePrefix(`config: unknown log level "verbose"`))
		})

		It("reports unreadable config files", func() {
			_, err := execute("serve", "--config", "testdata/missing.yaml")
			Expect(err).Should(HaveOccurred())
			Expect(err.Error()).Should(HavePrefix("config: read testdata/missing.yaml"))
		})
	})

	It("rejects unknown commands", func() {
		_, err := execute("shelve")
		Expect(err).Should(HaveOccurred())
	})
})
