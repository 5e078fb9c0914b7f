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

// Package schema defines the GraphQL type system served by bookshelf.
package schema

import (
	"context"

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/bookshelf/catalog"
)

// SDL describes the schema built by New in GraphQL schema definition language.
const SDL = `type Query {
  books: [Book]
}

type Book {
  title: String
  author: String
}
`

// bookType defines the Book object. Field values are read from catalog.Book by the default field
// resolver through the graphql struct tags.
var bookType = &graphql.ObjectConfig{
	Name:        "Book",
	Description: "A book in the catalog.",
	Fields: graphql.Fields{
		"title": {
			Type: graphql.T(graphql.String()),
		},
		"author": {
			Type: graphql.T(graphql.String()),
		},
	},
}

// BooksResolver returns a resolver for Query.books which yields every book in c.
func BooksResolver(c *catalog.Catalog) graphql.FieldResolver {
	return graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
		return c, nil
	})
}

// New builds the schema with Query.books resolved from c.
func New(c *catalog.Catalog) (graphql.Schema, error) {
	query, err := graphql.NewObject(&graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"books": {
				Type:     graphql.ListOf(bookType),
				Resolver: BooksResolver(c),
			},
		},
	})
	if err != nil {
		return nil, err
	}

	return graphql.NewSchema(&graphql.SchemaConfig{
		Query: query,
	})
}

// MustNew is a convenience function equivalent to New but panics on failure instead of returning an
// error.
func MustNew(c *catalog.Catalog) graphql.Schema {
	schema, err := New(c)
	if err != nil {
		panic(err)
	}
	return schema
}
