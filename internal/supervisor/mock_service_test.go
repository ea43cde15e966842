// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

var errSimulated = errors.New("simulated failure")

// stubService is a suture.Service that counts runs and can fail a fixed
// number of times before settling into a normal run.
type stubService struct {
	name     string
	starts   atomic.Int32
	failures atomic.Int32
	failFor  int32
}

func newStubService(name string) *stubService {
	return &stubService{name: name}
}

// failing makes the first n calls to Serve return errSimulated.
func (s *stubService) failing(n int32) *stubService {
	s.failFor = n
	return s
}

func (s *stubService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	if s.failFor > 0 && s.failures.Add(1) <= s.failFor {
		return errSimulated
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) Starts() int32 { return s.starts.Load() }

func (s *stubService) String() string { return s.name }
