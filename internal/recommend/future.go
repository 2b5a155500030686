// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package recommend

import (
	"context"
	"sync"

	"github.com/reelpick/reelpick/internal/recommend/genetic"
)

// Future is the pending result of a search started with StartSearch.
type Future struct {
	done   chan struct{}
	once   sync.Once
	result *genetic.Result
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) complete(res *genetic.Result, err error) {
	f.once.Do(func() {
		f.result, f.err = res, err
		close(f.done)
	})
}

// Done is closed when the search has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the search has finished.
func (f *Future) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the search finishes or ctx is done. Giving up on ctx does
// not stop the search.
func (f *Future) Wait(ctx context.Context) (*genetic.Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
