// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/log"
)

var (
	dockerOnce sync.Once
	dockerUp   bool
)

// RequireDocker skips t when no Docker daemon answers. The probe runs once
// per test binary.
func RequireDocker(t testing.TB) {
	t.Helper()

	dockerOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		dockerUp = exec.CommandContext(ctx, "docker", "info").Run() == nil
	})
	if !dockerUp {
		t.Skip("docker daemon not reachable")
	}
}

// testLog sends testcontainers output to the test log.
type testLog struct{ tb testing.TB }

func (l testLog) Printf(format string, v ...any) { l.tb.Logf(format, v...) }

// TestLogger returns a testcontainers logger bound to tb.
func TestLogger(tb testing.TB) log.Logger {
	return testLog{tb: tb}
}

// Describe summarizes a running container for test logs, e.g.
// "3f2a9c1b7d4e mongo:7 running 27017/tcp->32771".
func Describe(ctx context.Context, c testcontainers.Container) string {
	var b strings.Builder
	b.WriteString(shortID(c))

	if inspect, err := c.Inspect(ctx); err == nil && inspect.Config != nil {
		b.WriteString(" " + inspect.Config.Image)
	}
	if state, err := c.State(ctx); err == nil {
		b.WriteString(" " + state.Status)
	}
	if ports, err := c.Ports(ctx); err == nil {
		mapped := make([]string, 0, len(ports))
		for port, bindings := range ports {
			if len(bindings) > 0 {
				mapped = append(mapped, fmt.Sprintf("%s->%s", port, bindings[0].HostPort))
			}
		}
		sort.Strings(mapped)
		if len(mapped) > 0 {
			b.WriteString(" " + strings.Join(mapped, ","))
		}
	}
	return b.String()
}

func shortID(c testcontainers.Container) string {
	id := c.GetContainerID()
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
