// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/perfectpitch/internal/logging"
)

// APIResponse is the envelope around every JSON body. Exactly one of Data
// and Error is set.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError carries a machine-readable Code and a message safe to show users.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// APIMeta is filled in on every response. Handlers only set Cached and
// Pagination.
type APIMeta struct {
	RequestID  string          `json:"request_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	DurationMs int64           `json:"duration_ms"`
	Cached     bool            `json:"cached,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

// PaginationMeta describes one page of a list.
type PaginationMeta struct {
	Total   int  `json:"total"`
	Count   int  `json:"count"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}

const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeUpstream           = "UPSTREAM_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeTimeout            = "TIMEOUT"
)

// ResponseWriter writes enveloped responses for one request. Create it at
// the top of the handler so duration_ms covers the handler's work.
type ResponseWriter struct {
	w       http.ResponseWriter
	r       *http.Request
	started time.Time
}

func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, started: time.Now()}
}

func (rw *ResponseWriter) Success(data any) {
	rw.send(http.StatusOK, APIResponse{Success: true, Data: data}, nil)
}

// SuccessWithMeta writes 200 with handler-supplied metadata; the common
// fields are filled in here.
func (rw *ResponseWriter) SuccessWithMeta(data any, meta *APIMeta) {
	rw.send(http.StatusOK, APIResponse{Success: true, Data: data}, meta)
}

func (rw *ResponseWriter) SuccessWithPagination(data any, page *PaginationMeta) {
	rw.send(http.StatusOK, APIResponse{Success: true, Data: data}, &APIMeta{Pagination: page})
}

func (rw *ResponseWriter) Created(data any) {
	rw.send(http.StatusCreated, APIResponse{Success: true, Data: data}, nil)
}

func (rw *ResponseWriter) Error(status int, code, message string) {
	rw.ErrorWithDetails(status, code, message, nil)
}

func (rw *ResponseWriter) ErrorWithDetails(status int, code, message string, details any) {
	rw.send(status, APIResponse{Error: &APIError{Code: code, Message: message, Details: details}}, nil)
}

func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

func (rw *ResponseWriter) ValidationError(message string, details any) {
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation, message, details)
}

func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// Timeout answers 504 when the request ran out of time. err is logged only.
func (rw *ResponseWriter) Timeout(err error) {
	logging.Ctx(rw.r.Context()).Warn().Err(err).Str("path", rw.r.URL.Path).Msg("Request deadline exceeded")
	rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "The request timed out")
}

// UpstreamError answers 502 naming the failed dependency. err is logged only.
func (rw *ResponseWriter) UpstreamError(service string, err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Str("service", service).Msg("Upstream service error")
	rw.Error(http.StatusBadGateway, ErrCodeUpstream, "Upstream service unavailable: "+service)
}

// InternalError answers 500 with a generic message. err is logged only.
func (rw *ResponseWriter) InternalError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Str("path", rw.r.URL.Path).Msg("Internal error")
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "An internal error occurred")
}

func (rw *ResponseWriter) send(status int, body APIResponse, meta *APIMeta) {
	if meta == nil {
		meta = &APIMeta{}
	}
	meta.RequestID = logging.RequestIDFromContext(rw.r.Context())
	meta.Timestamp = time.Now().UTC()
	meta.DurationMs = time.Since(rw.started).Milliseconds()
	body.Meta = meta
	if body.Error != nil {
		body.Error.RequestID = meta.RequestID
	}

	h := rw.w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	rw.w.WriteHeader(status)
	if err := json.NewEncoder(rw.w).Encode(body); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode JSON response")
	}
}
