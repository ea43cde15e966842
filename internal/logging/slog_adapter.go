// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// NewSlogLogger returns an *slog.Logger that writes through the global
// zerolog logger. sutureslog needs one.
func NewSlogLogger() *slog.Logger {
	return SlogFor(Logger())
}

// SlogFor returns an *slog.Logger that writes through l.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func SlogFor(l zerolog.Logger) *slog.Logger {
	return slog.New(zerologHandler{logger: l})
}

// zerologHandler is a slog.Handler. Attributes from WithAttrs are baked
// into the zerolog context immediately; groups become dotted key prefixes.
type zerologHandler struct {
	logger zerolog.Logger
	prefix string
}

func (h zerologHandler) Enabled(_ context.Context, level slog.Level) bool {
	zl := slogToZerologLevel(level)
	return zl >= h.logger.GetLevel() && zl >= zerolog.GlobalLevel()
}

//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h zerologHandler) Handle(_ context.Context, record slog.Record) error {
	event := h.logger.WithLevel(slogToZerologLevel(record.Level))
	if event == nil {
		return nil
	}

	fields := make([]any, 0, 2*record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, h.prefix, a)
		return true
	})
	event.Fields(fields).Msg(record.Message)
	return nil
}

func (h zerologHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var fields []any
	for _, a := range attrs {
		fields = appendAttr(fields, h.prefix, a)
	}
	return zerologHandler{logger: h.logger.With().Fields(fields).Logger(), prefix: h.prefix}
}

func (h zerologHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return zerologHandler{logger: h.logger, prefix: h.prefix + name + "."}
}

// appendAttr flattens a into key/value pairs for zerolog's Fields.
func appendAttr(dst []any, prefix string, a slog.Attr) []any {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range v.Group() {
			dst = appendAttr(dst, prefix, ga)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	return append(dst, prefix+a.Key, v.Any())
}

func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
