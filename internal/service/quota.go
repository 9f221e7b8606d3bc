package service

import (
	"sync"
	"time"
)

// Quota is a per-key token bucket backing the X-RateLimit response headers.
// The fixture reports consumption but never rejects a request; callers read
// the remaining count and surface it as a header. Safe for concurrent use;
// stale buckets are cleaned up in the background.
type Quota struct {
	mu       sync.Mutex
	buckets  map[string]*quotaBucket
	rate     float64 // tokens added per second
	capacity float64
}

type quotaBucket struct {
	tokens float64
	last   time.Time
}

// NewQuota creates a quota tracker with the given refill rate (tokens per
// second) and capacity.
func NewQuota(rate, capacity float64) *Quota {
	q := &Quota{
		buckets:  make(map[string]*quotaBucket),
		rate:     rate,
		capacity: capacity,
	}
	go q.cleanup()
	return q
}

// Limit returns the bucket capacity as a whole number.
func (q *Quota) Limit() int {
	return int(q.capacity)
}

// Take consumes one token for key and returns the number of whole tokens
// left. An empty bucket stays at zero; the caller is not blocked.
func (q *Quota) Take(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	b, ok := q.buckets[key]
	if !ok {
		b = &quotaBucket{tokens: q.capacity, last: time.Now()}
		q.buckets[key] = b
	}

	now := time.Now()
	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*q.rate, q.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
	}
	return int(b.tokens)
}

// cleanup runs periodically and removes buckets that have not been touched in
// 10 minutes.
func (q *Quota) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		q.mu.Lock()
		cutoff := time.Now().Add(-10 * time.Minute)
		for key, b := range q.buckets {
			if b.last.Before(cutoff) {
				delete(q.buckets, key)
			}
		}
		q.mu.Unlock()
	}
}
