package gas

import "errors"

// Domain errors for the collision engine.
var (
	// ErrStalled indicates no future collision is geometrically possible:
	// every entry in the collision table is +Inf. Fatal for the run.
	ErrStalled = errors.New("gas: simulation stalled (no future collision exists)")

	// ErrBadBall indicates a ball with non-finite or non-positive physical
	// parameters.
	ErrBadBall = errors.New("gas: invalid ball parameters")

	// ErrNoBalls indicates an engine built from an empty configuration.
	ErrNoBalls = errors.New("gas: no balls in initial configuration")

	// ErrBadContainer indicates a non-finite or non-positive container radius.
	ErrBadContainer = errors.New("gas: invalid container radius")
)
