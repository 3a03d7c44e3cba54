// Package ratelimit provides the token bucket the router waits on before
// accepting each connection.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Bucket is a single token bucket rate limiter.
// It is safe for concurrent use.
type Bucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	rate       float64 // tokens per second
	lastUpdate time.Time
	now        func() time.Time
}

// NewBucket creates a bucket refilling at rate tokens per second and holding
// at most burst tokens. A burst below 1 defaults to max(rate, 1). The bucket
// starts full.
func NewBucket(rate float64, burst int) *Bucket {
	maxTokens := float64(burst)
	if maxTokens < 1 {
		maxTokens = max(rate, 1)
	}
	b := &Bucket{
		maxTokens: maxTokens,
		tokens:    maxTokens,
		rate:      rate,
		now:       time.Now,
	}
	b.lastUpdate = b.now()
	return b
}

// refill adds tokens based on elapsed time. Caller must hold b.mu.
func (b *Bucket) refill(now time.Time) {
	b.tokens = min(b.maxTokens, b.tokens+now.Sub(b.lastUpdate).Seconds()*b.rate)
	b.lastUpdate = now
}

// reserve takes a token if one is available, otherwise it reports how long
// until the next one will be.
func (b *Bucket) reserve() (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(b.now())
	if b.tokens >= 1 {
		b.tokens--
		return 0, true
	}
	if b.rate <= 0 {
		return time.Second, false
	}
	return time.Duration((1 - b.tokens) / b.rate * float64(time.Second)), false
}

// Allow consumes one token if available.
func (b *Bucket) Allow() bool {
	_, ok := b.reserve()
	return ok
}

// Wait blocks until a token is consumed or ctx is done.
func (b *Bucket) Wait(ctx context.Context) error {
	for {
		wait, ok := b.reserve()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Available returns the current number of tokens including time-based refill.
func (b *Bucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill(b.now())
	return b.tokens
}
