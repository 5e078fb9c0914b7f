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

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/executor"
	"github.com/botobag/artemis/graphql/handler"
	"go.uber.org/zap"
)

// Outcomes of serving a request; used as metric label and log field.
const (
	OutcomeOK             = "ok"
	OutcomeExecutionError = "execution_error"
	OutcomeBadRequest     = "bad_request"
	OutcomeGraphiQL       = "graphiql"
)

// Message of the error returned by artemis' request parser when the body exceeds the limit.
const requestBodyTooLargeMessage = "request body is too large"

// writeErrors writes errs in a GraphQL response without data.
func writeErrors(w http.ResponseWriter, status int, errs graphql.Errors) {
	writeResult(w, status, &executor.ExecutionResult{
		Errors: errs,
	})
}

func writeResult(w http.ResponseWriter, status int, result *executor.ExecutionResult) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	result.MarshalJSONTo(w)
}

// resultPresenter implements handler.ResultPresenter. Executed operations are always answered with
// 200; errors raised by resolvers appear next to the (partial) data.
type resultPresenter struct{}

var _ handler.ResultPresenter = resultPresenter{}

// Write implements handler.ResultPresenter.
func (resultPresenter) Write(
	w http.ResponseWriter,
	httpRequest *http.Request,
	graphqlRequest *handler.Request,
	result *executor.ExecutionResult) {

	if result.Errors.HaveOccurred() {
		setOutcome(w, OutcomeExecutionError)
	} else {
		setOutcome(w, OutcomeOK)
	}
	writeResult(w, http.StatusOK, result)
}

// errorPresenter implements handler.ErrorPresenter. Every failure that prevents an operation from
// being executed is a client error and is answered with a 4xx status and a JSON body containing
// only "errors".
type errorPresenter struct {
	logger *zap.Logger
}

var _ handler.ErrorPresenter = errorPresenter{}

// Write implements handler.ErrorPresenter.
func (presenter errorPresenter) Write(w http.ResponseWriter, err error) {
	setOutcome(w, OutcomeBadRequest)

	switch err := err.(type) {
	case *handler.HTTPRequestParseError:
		status := http.StatusBadRequest
		if err.Err != nil && err.Err.Error() == requestBodyTooLargeMessage {
			status = http.StatusRequestEntityTooLarge
		}
		writeErrors(w, status, graphql.ErrorsOf(err.Error()))

	case handler.ErrEmptyQuery:
		writeErrors(w, http.StatusBadRequest, graphql.ErrorsOf("Must provide query string."))

	case *handler.ErrParseQuery:
		if syntaxErr, ok := err.Err.(*graphql.Error); ok {
			writeErrors(w, http.StatusBadRequest, graphql.ErrorsOf(syntaxErr))
		} else {
			writeErrors(w, http.StatusBadRequest, graphql.ErrorsOf(err.Error()))
		}

	case *handler.ErrPrepare:
		writeErrors(w, http.StatusBadRequest, err.Errs)

	default:
		presenter.logger.Error("unexpected error while preparing GraphQL request", zap.Error(err))
		writeErrors(w, http.StatusInternalServerError, graphql.ErrorsOf("Internal server error."))
	}
}
