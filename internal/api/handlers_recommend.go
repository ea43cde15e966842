// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/perfectpitch/internal/logging"
	"github.com/tomtom215/perfectpitch/internal/recommend"
	"github.com/tomtom215/perfectpitch/internal/validation"
)

// MovieRecommendations handles GET /movies/{id}/recommendations?k=&enrich=.
func (h *Handler) MovieRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := movieIDParam(r)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	q, err := parseRecommendQuery(r)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	enrich, err := getBoolParam(r, "enrich", true)
	if err != nil {
		writeParamError(rw, err)
		return
	}

	h.recommend(rw, r, recommend.Request{MovieID: id, K: q.K, Enrich: enrich})
}

// TitleRecommendations handles GET /recommendations?title=&k=, the
// pick-a-title flow. Results are enriched unless enrich=false.
func (h *Handler) TitleRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q, err := parseRecommendQuery(r)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	if q.Title == "" {
		rw.ValidationError("title is required", map[string]interface{}{"field": "title"})
		return
	}
	enrich, err := getBoolParam(r, "enrich", true)
	if err != nil {
		writeParamError(rw, err)
		return
	}

	h.recommend(rw, r, recommend.Request{Title: q.Title, K: q.K, Enrich: enrich})
}

func parseRecommendQuery(r *http.Request) (recommendQuery, error) {
	k, err := getIntParam(r, "k", 0)
	if err != nil {
		return recommendQuery{}, err
	}
	q := recommendQuery{Title: r.URL.Query().Get("title"), K: k}
	if verr := validation.ValidateStruct(&q); verr != nil {
		return q, verr
	}
	return q, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handler) recommend(rw *ResponseWriter, r *http.Request, req recommend.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, req)
	if err != nil {
		writeServiceError(rw, err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("title", resp.Selected.Title).
		Int("results", len(resp.Recommendations)).
		Int("dropped", resp.Dropped).
		Bool("cached", resp.Cached).
		Msg("Recommendations served")

	rw.SuccessWithMeta(resp, &APIMeta{Cached: resp.Cached})
}
