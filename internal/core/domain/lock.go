package domain

import "time"

const (
	// DefaultLockTimeout bounds how long a build waits for a concurrent build of the same fingerprint.
	DefaultLockTimeout = 10 * time.Minute

	// DefaultLockPollInterval is how often a waiting build retries the lock.
	DefaultLockPollInterval = 100 * time.Millisecond
)

// LockPolicy controls what happens when another process is building the same environment.
type LockPolicy struct {
	// Timeout bounds the wait. Non-positive values behave like FailFast.
	Timeout time.Duration
	// FailFast returns ErrBuildLockTimeout immediately on contention.
	FailFast bool
	// PollInterval is the retry interval while waiting. Zero uses DefaultLockPollInterval.
	PollInterval time.Duration
}

// DefaultLockPolicy returns the policy used when nothing is configured.
func DefaultLockPolicy() LockPolicy {
	return LockPolicy{
		Timeout:      DefaultLockTimeout,
		PollInterval: DefaultLockPollInterval,
	}
}

// ShouldWait reports whether contention should be waited out.
func (p LockPolicy) ShouldWait() bool {
	return !p.FailFast && p.Timeout > 0
}

// Interval returns the effective poll interval.
func (p LockPolicy) Interval() time.Duration {
	if p.PollInterval <= 0 {
		return DefaultLockPollInterval
	}
	return p.PollInterval
}
