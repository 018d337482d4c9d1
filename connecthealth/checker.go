package connecthealth

import (
	"context"
	"errors"
)

var (
	// ErrTransport indicates a network-level failure: connection refused,
	// DNS failure, per-call timeout or a cancelled context.
	ErrTransport = errors.New("transport error")
	// ErrProtocol indicates a non-success HTTP status or a response body
	// that does not match the expected schema.
	ErrProtocol = errors.New("protocol error")
	// ErrNotFound indicates that the connector no longer exists.
	ErrNotFound = errors.New("connector not found")
	// ErrUnhealthy indicates that a dependency responded but reported an unhealthy state.
	ErrUnhealthy = errors.New("unhealthy")
)

// Check is an additional health check run after the connector fold,
// for example a Kafka broker reachability check.
type Check interface {
	// Check returns nil if the dependency is healthy.
	// The context carries the evaluation deadline.
	Check(ctx context.Context) error

	// Name returns the diagnostic label used for a failure.
	Name() string
}
