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

package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// GraphQLGet builds a GET request to path carrying query in the URL.
func GraphQLGet(path string, query string) *http.Request {
	values := url.Values{}
	values.Set("query", query)
	return httptest.NewRequest(http.MethodGet, path+"?"+values.Encode(), nil)
}

// PostBody builds a POST request to path with the given content type and body.
func PostBody(path string, contentType string, body string) *http.Request {
	var reader io.Reader = strings.NewReader(body)
	r := httptest.NewRequest(http.MethodPost, path, reader)
	if len(contentType) > 0 {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

// Serve runs r through h and returns the recorded response.
func Serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	h.ServeHTTP(recorder, r)
	return recorder
}
