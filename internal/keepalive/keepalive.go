// Package keepalive provides scoped leases that keep the system awake while
// speech is playing, so audio continues when the app is not in focus.
package keepalive

// Lease is a held keep-alive; Release returns the system to normal idling.
// Release is safe to call more than once.
type Lease interface {
	Release()
}

// Acquirer hands out leases. Acquisition failure is non-fatal: playback
// proceeds without the lease.
type Acquirer interface {
	Acquire(reason string) (Lease, error)
}

// Noop is an Acquirer for platforms without an inhibit facility.
type Noop struct{}

func (Noop) Acquire(string) (Lease, error) { return noopLease{}, nil }

type noopLease struct{}

func (noopLease) Release() {}
