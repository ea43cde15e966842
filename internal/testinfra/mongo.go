// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// MongoImage is the server image integration tests run against.
const MongoImage = "mongo:7"

const mongoPort = "27017/tcp"

// MongoContainer is a throwaway mongod.
type MongoContainer struct {
	testcontainers.Container

	// URI is a connection string reachable from the test process.
	URI string
}

type mongoSettings struct {
	timeout time.Duration
}

// MongoOption adjusts StartMongo.
type MongoOption func(*mongoSettings)

// WithStartTimeout bounds the wait for mongod to accept connections.
// Default: 60s
func WithStartTimeout(d time.Duration) MongoOption {
	return func(s *mongoSettings) { s.timeout = d }
}

// StartMongo runs a mongod container for the lifetime of tb. It skips tb when
// Docker is unavailable and fails it when the container cannot start.
func StartMongo(ctx context.Context, tb testing.TB, opts ...MongoOption) *MongoContainer {
	tb.Helper()
	RequireDocker(tb)

	s := mongoSettings{timeout: 60 * time.Second}
	for _, opt := range opts {
		opt(&s)
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        MongoImage,
			ExposedPorts: []string{mongoPort},
			WaitingFor: wait.ForAll(
				wait.ForLog("Waiting for connections"),
				wait.ForListeningPort(mongoPort),
			).WithStartupTimeout(s.timeout),
		},
		Started: true,
		Logger:  TestLogger(tb),
	})
	testcontainers.CleanupContainer(tb, c)
	if err != nil {
		tb.Fatalf("start %s: %v", MongoImage, err)
	}

	uri, err := mongoURI(ctx, c)
	if err != nil {
		tb.Fatalf("resolve mongo endpoint: %v", err)
	}
	tb.Logf("mongo container %s", Describe(ctx, c))

	return &MongoContainer{Container: c, URI: uri}
}

func mongoURI(ctx context.Context, c testcontainers.Container) (string, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := c.MappedPort(ctx, mongoPort)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port()), nil
}
