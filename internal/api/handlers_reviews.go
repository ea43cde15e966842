// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"net/http"

	"github.com/tomtom215/perfectpitch/internal/reviews"
	"github.com/tomtom215/perfectpitch/internal/validation"
)

// ScoreSentiment handles POST /sentiment. The text is scored per sentence
// and as a whole; nothing is stored.
func (h *Handler) ScoreSentiment(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var in reviews.ScoreInput
	if err := decodeBody(w, r, &in); err != nil {
		writeParamError(rw, err)
		return
	}

	res, err := h.reviews.Score(r.Context(), in)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(res)
}

// SubmitReview handles POST /movies/{id}/reviews.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := movieIDParam(r)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	var body reviewBody
	if err := decodeBody(w, r, &body); err != nil {
		writeParamError(rw, err)
		return
	}

	review, err := h.reviews.Submit(r.Context(), reviews.SubmitInput{MovieID: id, Text: body.Text})
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Created(review)
}

// ListReviews handles GET /movies/{id}/reviews?limit=, newest first.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := movieIDParam(r)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	req := listReviewsRequest{Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeServiceError(rw, verr)
		return
	}

	list, err := h.reviews.List(r.Context(), id, req.Limit)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	if list == nil {
		list = []reviews.Review{}
	}
	rw.Success(list)
}

// ReviewSummary handles GET /movies/{id}/reviews/summary.
func (h *Handler) ReviewSummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := movieIDParam(r)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	sum, err := h.reviews.Summary(r.Context(), id)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(sum)
}
