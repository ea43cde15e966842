// Perfect Pitch - Movie Recommendations and Review Sentiment
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/perfectpitch

package main

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWaitForTree(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name        string
		cancelFirst bool
		treeErr     error
		wantErr     error
	}{
		{name: "tree stops on its own", treeErr: boom, wantErr: boom},
		{name: "tree stops cleanly", treeErr: nil, wantErr: nil},
		{name: "shutdown signal", cancelFirst: true, treeErr: context.Canceled, wantErr: nil},
		{name: "wrapped cancellation", cancelFirst: true, treeErr: fmt.Errorf("root: %w", context.Canceled), wantErr: nil},
		{name: "shutdown with failure", cancelFirst: true, treeErr: boom, wantErr: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Buffered and never closed, like suture's ServeBackground channel.
			errCh := make(chan error, 1)
			if tt.cancelFirst {
				cancel()
				go func() {
					time.Sleep(10 * time.Millisecond)
					errCh <- tt.treeErr
				}()
			} else {
				errCh <- tt.treeErr
			}

			done := make(chan error, 1)
			go func() { done <- waitForTree(ctx, errCh) }()

			select {
			case err := <-done:
				if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
					t.Errorf("waitForTree() = %v, want %v", err, tt.wantErr)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("waitForTree() did not return after the tree stopped")
			}
		})
	}
}
