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

package catalog

import (
	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/iterator"
)

// defaultBooks is the built-in data set.
var defaultBooks = []Book{
	{Title: "The Hobbit", Author: "J.R.R. Tolkien"},
	{Title: "Harry Potter and the Philosopher's Stone", Author: "J.K. Rowling"},
}

// Catalog is an ordered, immutable sequence of books.
type Catalog struct {
	books []Book
}

// Catalog can be returned directly from a resolver for a field of List type. The executor then
// walks it with Iterator instead of falling back to reflection.
var _ graphql.SizedIterable = (*Catalog)(nil)

// New creates a Catalog containing the given books in order. The books are copied so later changes
// to the caller's slice are not visible through the catalog.
func New(books ...Book) *Catalog {
	c := &Catalog{
		books: make([]Book, len(books)),
	}
	copy(c.books, books)
	return c
}

// Default returns a Catalog with the built-in data set.
func Default() *Catalog {
	return New(defaultBooks...)
}

// Len returns the number of books in the catalog.
func (c *Catalog) Len() int {
	return len(c.books)
}

// At returns the i-th book. It panics if i is out of range.
func (c *Catalog) At(i int) Book {
	return c.books[i]
}

// Slice returns a copy of the books in the catalog.
func (c *Catalog) Slice() []Book {
	books := make([]Book, len(c.books))
	copy(books, c.books)
	return books
}

// Books returns an iterator over the books in the catalog.
func (c *Catalog) Books() *BookIterator {
	return &BookIterator{
		books: c.books,
	}
}

// Iterator implements graphql.Iterable.
func (c *Catalog) Iterator() graphql.Iterator {
	return valueIterator{c.Books()}
}

// Size implements graphql.SizedIterable.
func (c *Catalog) Size() int {
	return c.Len()
}

// BookIterator iterates over the books in a Catalog.
type BookIterator struct {
	books []Book
	next  int
}

// Next returns the next book in the iteration. It returns iterator.Done when there're no more books.
func (iter *BookIterator) Next() (Book, error) {
	if iter.next >= len(iter.books) {
		return Book{}, iterator.Done
	}
	book := iter.books[iter.next]
	iter.next++
	return book, nil
}

// valueIterator adapts BookIterator to graphql.Iterator.
type valueIterator struct {
	iter *BookIterator
}

// Next implements graphql.Iterator.
func (v valueIterator) Next() (interface{}, error) {
	book, err := v.iter.Next()
	if err != nil {
		return nil, err
	}
	return book, nil
}
