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
	"html/template"
	"net/http"
	"strings"

	"github.com/elnormous/contenttype"
	"go.uber.org/zap"
)

// GraphiQL version loaded from the CDN.
const graphiqlVersion = "3.8.3"

var graphiqlTemplate = template.Must(template.New("graphiql").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>GraphiQL</title>
  <meta name="robots" content="noindex" />
  <meta name="referrer" content="origin" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    body { margin: 0; height: 100vh; overflow: hidden; }
    #graphiql { height: 100vh; }
  </style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@{{.Version}}/graphiql.min.css" />
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@{{.Version}}/graphiql.min.js"></script>
</head>
<body>
  <div id="graphiql">Loading...</div>
  <script>
    var fetcher = GraphiQL.createFetcher({ url: {{.Endpoint}} });
    var root = ReactDOM.createRoot(document.getElementById("graphiql"));
    root.render(React.createElement(GraphiQL, {
      fetcher: fetcher,
      defaultEditorToolsVisibility: true,
      query: {{.Query}},
      variables: {{.Variables}},
      operationName: {{.OperationName}}
    }));
  </script>
</body>
</html>
`))

// graphiqlData fills graphiqlTemplate. Empty strings are rendered as undefined so GraphiQL falls
// back to its own defaults.
type graphiqlData struct {
	Version       string
	Endpoint      string
	Query         interface{}
	Variables     interface{}
	OperationName interface{}
}

func stringOrUndefined(s string) interface{} {
	if len(s) == 0 {
		return template.JS("undefined")
	}
	return s
}

// renderGraphiQL writes the GraphiQL page prefilled with the parameters in the URL of r. GraphiQL
// sends its queries back to the path of r.
func renderGraphiQL(w http.ResponseWriter, r *http.Request, logger *zap.Logger) {
	params := r.URL.Query()
	data := graphiqlData{
		Version:       graphiqlVersion,
		Endpoint:      r.URL.Path,
		Query:         stringOrUndefined(params.Get("query")),
		Variables:     stringOrUndefined(params.Get("variables")),
		OperationName: stringOrUndefined(params.Get("operationName")),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := graphiqlTemplate.Execute(w, data); err != nil {
		logger.Debug("failed to write GraphiQL page", zap.Error(err))
	}
}

// shouldRenderGraphiQL returns true for GET requests without "raw" parameter whose Accept header
// prefers HTML over JSON.
func shouldRenderGraphiQL(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if _, raw := r.URL.Query()["raw"]; raw {
		return false
	}
	return prefersHTML(r.Header.Get("Accept"))
}

var (
	jsonMediaType = contenttype.NewMediaType("application/json")
	htmlMediaType = contenttype.NewMediaType("text/html")

	// JSON comes first so it is chosen when both types are equally acceptable to a client.
	offeredMediaTypes = []contenttype.MediaType{jsonMediaType, htmlMediaType}
)

// prefersHTML negotiates between application/json and text/html. A tie goes to the type listed
// first in accept, or to JSON when a wildcard matches both. Malformed entries are skipped.
func prefersHTML(accept string) bool {
	mediaType, _, err := contenttype.GetAcceptableMediaTypeFromHeader(accept, offeredMediaTypes)
	if err != nil && err != contenttype.ErrNoAcceptableTypeFound {
		mediaType, _, err = contenttype.GetAcceptableMediaTypeFromHeader(
			wellFormedMediaRanges(accept), offeredMediaTypes)
	}
	return err == nil && mediaType.EqualsMIME(htmlMediaType)
}

// wellFormedMediaRanges drops the entries of accept that cannot be parsed.
func wellFormedMediaRanges(accept string) string {
	var ranges []string
	for _, r := range strings.Split(accept, ",") {
		_, _, err := contenttype.GetAcceptableMediaTypeFromHeader(r, offeredMediaTypes)
		if err == nil || err == contenttype.ErrNoAcceptableTypeFound {
			ranges = append(ranges, r)
		}
	}
	return strings.Join(ranges, ",")
}
