package rate

import (
	"context"
	"fmt"
	"time"
)

// Preset is the budget one action grants each identifier: Limit requests
// per fixed Window.
type Preset struct {
	Limit  int
	Window time.Duration
}

// Decision is the outcome of a limiter check. RetryAfter is only set on
// denial and is always at least one second.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds the retry hint up to whole seconds for the
// Retry-After header and error payload.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed || d.RetryAfter <= 0 {
		return 0
	}
	secs := int((d.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Store is the shared counter arena. Incr atomically advances the counter
// for key within its current fixed window, starting a fresh window when the
// previous one has elapsed, and reports the post-increment count together
// with the time left until the window resets. The check-then-increment of a
// key must form a single critical section; distinct keys need no mutual
// ordering.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int64, remaining time.Duration, err error)
}

// Limiter applies per-action presets on top of a Store.
type Limiter struct {
	store Store
}

// NewLimiter wraps the given counter store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Check consumes one request from the (action, identifier) budget and
// decides whether it may proceed. Store failures are wrapped in
// ErrStoreUnavailable and never silently allow the request.
func (l *Limiter) Check(ctx context.Context, action, identifier string, preset Preset) (Decision, error) {
	count, remaining, err := l.store.Incr(ctx, limitKey(action, identifier), preset.Window)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if count <= int64(preset.Limit) {
		return Decision{
			Allowed:   true,
			Remaining: preset.Limit - int(count),
		}, nil
	}

	retry := remaining
	if retry < time.Second {
		retry = time.Second
	}
	return Decision{RetryAfter: retry}, nil
}

func limitKey(action, identifier string) string {
	return action + ":" + identifier
}
