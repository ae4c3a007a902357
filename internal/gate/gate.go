// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gate bounds the number of outbound requests in flight and paces
// how quickly new requests may start.
package gate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Gate is a scoped-acquisition concurrency bound. Callers beyond the limit
// wait in FIFO order until a slot is released.
type Gate struct {
	sem     *semaphore.Weighted
	pacer   *rate.Limiter
	limit   int
	current atomic.Int64
	peak    atomic.Int64
}

// New returns a Gate admitting at most limit concurrent holders. When
// perSecond is positive, slot grants are additionally spaced so that no
// more than perSecond requests start per second.
func New(limit int, perSecond float64) (*Gate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("concurrency limit must be positive, got %d", limit)
	}
	if perSecond < 0 {
		return nil, fmt.Errorf("requests per second must not be negative, got %v", perSecond)
	}

	pacer := rate.NewLimiter(rate.Inf, limit)
	if perSecond > 0 {
		pacer = rate.NewLimiter(rate.Limit(perSecond), 1)
	}

	return &Gate{
		sem:   semaphore.NewWeighted(int64(limit)),
		pacer: pacer,
		limit: limit,
	}, nil
}

// Acquire blocks until a slot is free and the pacer allows another start.
// The returned release func must be called exactly once when the request
// finishes; extra calls are no-ops. If ctx ends while waiting, Acquire
// returns ctx.Err() and holds no slot.
func (g *Gate) Acquire(ctx context.Context) (release func(), err error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	if err := g.pacer.Wait(ctx); err != nil {
		g.sem.Release(1)
		return nil, err
	}

	n := g.current.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.current.Add(-1)
			g.sem.Release(1)
		})
	}, nil
}

// Limit returns the configured maximum number of concurrent holders.
func (g *Gate) Limit() int { return g.limit }

// InFlight returns the number of slots currently held.
func (g *Gate) InFlight() int { return int(g.current.Load()) }

// Peak returns the highest number of slots held at once since creation.
func (g *Gate) Peak() int { return int(g.peak.Load()) }
