package core

// check_limiter.go bounds how many project checks run at once.
//
// Each check holds a dedicated database connection for its whole duration,
// so the number of parallel checks is capped below the pool size. When every
// slot is taken a caller waits up to maxWait, then fails with
// ErrTooManyChecks. WaitForDrain lets shutdown wait for running checks.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyChecks is returned when no check slot frees up in time.
var ErrTooManyChecks = errors.New("too many concurrent checks")

// DefaultMaxConcurrentChecks is used when a limiter is created without a limit.
const DefaultMaxConcurrentChecks = 4

// DefaultCheckWait is how long Acquire waits for a slot by default.
const DefaultCheckWait = 30 * time.Second

// CheckLimiter is a counting semaphore for project checks.
type CheckLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// CheckLimiterStatus is a snapshot of a limiter.
type CheckLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// NewCheckLimiter creates a limiter admitting maxConcurrent checks at once.
func NewCheckLimiter(maxConcurrent int, maxWait time.Duration) *CheckLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentChecks
	}
	if maxWait <= 0 {
		maxWait = DefaultCheckWait
	}
	return &CheckLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to the limiter's max wait.
// A successful Acquire must be paired with Release.
func (l *CheckLimiter) Acquire(ctx context.Context) error {
	if l.TryAcquire() {
		return nil
	}

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyChecks
	}
}

// TryAcquire takes a slot only if one is free right now.
func (l *CheckLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *CheckLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// ActiveCount returns the number of running checks.
func (l *CheckLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *CheckLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Status returns the current slot usage.
func (l *CheckLimiter) Status() CheckLimiterStatus {
	return CheckLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}

// WaitForDrain blocks until no check is running or ctx is done.
func (l *CheckLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
