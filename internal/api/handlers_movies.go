// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/perfectpitch/internal/recommend"
	"github.com/tomtom215/perfectpitch/internal/validation"
)

// SearchMovies handles GET /movies?q=&limit=&offset=. Titles starting with
// q come before titles containing it; an empty q pages the whole catalog.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, err := getIntParam(r, "limit", 20)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	offset, err := getIntParam(r, "offset", 0)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	req := searchRequest{Query: r.URL.Query().Get("q"), Limit: limit, Offset: offset}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeServiceError(rw, verr)
		return
	}

	snap := h.engine.Snapshot()
	if snap == nil {
		writeServiceError(rw, recommend.ErrNotReady)
		return
	}

	res := snap.Catalog.Search(req.Query, req.Limit, req.Offset)
	rw.SuccessWithPagination(res.Movies, &PaginationMeta{
		Total:   res.Total,
		Count:   len(res.Movies),
		Offset:  req.Offset,
		Limit:   req.Limit,
		HasMore: req.Offset+len(res.Movies) < res.Total,
	})
}

// GetMovie handles GET /movies/{id}: the catalog movie plus TMDB details.
// A TMDB failure here is a 502 because details are the point of the call.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := movieIDParam(r)
	if err != nil {
		writeParamError(rw, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	sel, err := h.engine.Details(ctx, id)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(sel)
}
