// Package lock provides the per-resource mutual-exclusion boundary that
// serializes booking and patient-upsert writes. Keys name a logical
// resource: one provider's day of slots, or one patient identity.
package lock

import (
	"context"
	"errors"
)

var ErrLockNotAcquired = errors.New("resource lock not acquired")

// Locker guards a critical section per resource key. Implementations must
// guarantee that two callers holding the same key never run concurrently.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// ScheduleKey names the lock for one provider's day of slots.
func ScheduleKey(provider, date string) string {
	return "schedule:" + provider + ":" + date
}

// PatientKey names the lock for one patient identity tuple.
func PatientKey(identity string) string {
	return "patient:" + identity
}
