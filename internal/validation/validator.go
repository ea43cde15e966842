// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

// Package validation wraps go-playground/validator v10 for request and
// service input checks.
//
// Field names in messages come from json tags, so clients see the names
// they sent. Two custom rules are registered:
//
//	notblank   at least one non-whitespace character
//	maxrunes=N at most N characters (not bytes)
//
// Typical use:
//
//	type SubmitInput struct {
//	    MovieID int64  `json:"movie_id" validate:"required,gt=0"`
//	    Text    string `json:"text" validate:"required,notblank"`
//	}
//
//	if verr := validation.ValidateStruct(&in); verr != nil {
//	    return verr // the api layer maps it to 400 VALIDATION_ERROR
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   any
	Message string
}

// RequestValidationError collects every failed rule of one input.
type RequestValidationError struct {
	Fields []FieldError
}

// Errors returns the individual failures.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.Fields
}

func (ve *RequestValidationError) Error() string {
	if len(ve.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// APIError is the VALIDATION_ERROR body. It is declared here rather than
// taken from the api package, which imports this one.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError shapes the failures for the API envelope. A single failure
// reports its field and tag; several are listed under "fields".
func (ve *RequestValidationError) ToAPIError() *APIError {
	out := &APIError{Code: "VALIDATION_ERROR", Message: "Validation failed"}

	switch len(ve.Fields) {
	case 0:
	case 1:
		f := ve.Fields[0]
		out.Message = f.Message
		out.Details = map[string]any{"field": f.Field, "tag": f.Tag}
	default:
		fields := make([]map[string]any, len(ve.Fields))
		msgs := make([]string, len(ve.Fields))
		for i, f := range ve.Fields {
			fields[i] = map[string]any{"field": f.Field, "tag": f.Tag, "message": f.Message}
			msgs[i] = f.Field + ": " + f.Message
		}
		out.Message = strings.Join(msgs, "; ")
		out.Details = map[string]any{"fields": fields}
	}
	return out
}

// GetValidator returns the shared validator, building it on first use.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("maxrunes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return utf8.RuneCountInString(fl.Field().String()) <= limit
		})

		validate = v
	})
	return validate
}

// ValidateStruct checks s against its validate tags.
func ValidateStruct(s any) *RequestValidationError {
	if err := GetValidator().Struct(s); err != nil {
		return convert(err, "")
	}
	return nil
}

// ValidateField checks a single value against tag and reports failures under
// field. Use it for limits only known at runtime.
func ValidateField(field string, value any, tag string) *RequestValidationError {
	if err := GetValidator().Var(value, tag); err != nil {
		return convert(err, field)
	}
	return nil
}

// convert translates validator errors. A non-empty field overrides the
// reported name.
func convert(err error, field string) *RequestValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}

	out := &RequestValidationError{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		name := field
		if name == "" {
			name = fe.Field()
		}
		out.Fields[i] = FieldError{
			Field:   name,
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe, name),
		}
	}
	return out
}

func message(fe validator.FieldError, field string) string {
	p := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, p)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, p)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, p)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, p)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, p)
	case "maxrunes":
		return fmt.Sprintf("%s must be at most %s characters", field, p)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, p)
		}
		return fmt.Sprintf("%s must be at least %s", field, p)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, p)
		}
		return fmt.Sprintf("%s must be at most %s", field, p)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
