// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"context"
	"errors"

	"github.com/tomtom215/perfectpitch/internal/catalog"
	"github.com/tomtom215/perfectpitch/internal/recommend"
	"github.com/tomtom215/perfectpitch/internal/reviews"
	"github.com/tomtom215/perfectpitch/internal/validation"
)

// writeServiceError maps domain errors onto the response envelope.
func writeServiceError(rw *ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
	case errors.Is(err, recommend.ErrInvalidRequest):
		rw.ValidationError(err.Error(), nil)
	case errors.Is(err, recommend.ErrMovieNotFound),
		errors.Is(err, reviews.ErrMovieNotFound),
		errors.Is(err, catalog.ErrNotFound):
		rw.NotFound(err.Error())
	case errors.Is(err, recommend.ErrNotReady):
		rw.ServiceUnavailable("Recommendation artifacts are not loaded")
	case errors.Is(err, reviews.ErrClassifierUnavailable):
		rw.ServiceUnavailable("Sentiment model is not loaded")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Timeout(err)
	case errors.Is(err, recommend.ErrUpstream):
		rw.UpstreamError("tmdb", err)
	default:
		rw.InternalError(err)
	}
}
