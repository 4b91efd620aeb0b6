package dynamo

import "errors"

var (
	ErrStopped    = errors.New("dynamo: simulation stopped")
	ErrNoViewport = errors.New("dynamo: viewport has no area")
	// ErrSpawnDisabled is returned when the pool capacity is zero.
	ErrSpawnDisabled = errors.New("dynamo: spawning disabled")
)
