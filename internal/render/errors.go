package render

import "errors"

var (
	// ErrDestroyed indicates use of a primitive after Destroy.
	ErrDestroyed = errors.New("render: primitive destroyed")

	// ErrUnknownInstance indicates an id that is not part of a batch.
	ErrUnknownInstance = errors.New("render: unknown geometry instance")

	// ErrNoInstances indicates a batch built from an empty instance list.
	ErrNoInstances = errors.New("render: batch needs at least one geometry instance")

	// ErrTooFewPositions indicates an outline with fewer than three vertices.
	ErrTooFewPositions = errors.New("render: polygon needs at least three positions")
)
