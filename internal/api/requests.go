// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// searchRequest is the validated query of GET /movies.
type searchRequest struct {
	Query  string `json:"q" validate:"maxrunes=200"`
	Limit  int    `json:"limit" validate:"gte=1,lte=100"`
	Offset int    `json:"offset" validate:"gte=0"`
}

// recommendQuery is the validated query of the recommendation endpoints.
type recommendQuery struct {
	Title string `json:"title" validate:"omitempty,maxrunes=300"`
	K     int    `json:"k" validate:"gte=0,lte=100"`
}

// listReviewsRequest is the validated query of GET /movies/{id}/reviews.
type listReviewsRequest struct {
	Limit int `json:"limit" validate:"gte=0"`
}

// reviewBody is the JSON body of POST /movies/{id}/reviews.
type reviewBody struct {
	Text string `json:"text"`
}

// paramError is a malformed query or path parameter.
type paramError struct {
	Field   string
	Message string
}

func (e *paramError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *paramError) details() map[string]interface{} {
	return map[string]interface{}{"field": e.Field}
}

// getIntParam parses an optional integer query parameter.
func getIntParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{Field: name, Message: "must be an integer"}
	}
	return v, nil
}

// getBoolParam parses an optional boolean query parameter.
func getBoolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &paramError{Field: name, Message: "must be true or false"}
	}
	return v, nil
}

// movieIDParam parses the {id} path parameter.
func movieIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &paramError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

// decodeBody decodes a size-limited JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return &paramError{Field: "body", Message: "request body is empty"}
		case errors.As(err, &maxErr):
			return &paramError{Field: "body", Message: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
		default:
			return &paramError{Field: "body", Message: "invalid JSON"}
		}
	}
	return nil
}

// writeParamError writes a 400 for a paramError, or maps any other error.
func writeParamError(rw *ResponseWriter, err error) {
	var pe *paramError
	if errors.As(err, &pe) {
		rw.ValidationError(pe.Error(), pe.details())
		return
	}
	writeServiceError(rw, err)
}
