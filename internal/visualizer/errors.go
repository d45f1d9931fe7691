package visualizer

import "errors"

// Domain errors for visualizer operations.
var (
	// ErrSceneRequired indicates a visualizer constructed without a scene.
	ErrSceneRequired = errors.New("visualizer: scene is required")

	// ErrTimeRequired indicates an update requested for the zero time.
	ErrTimeRequired = errors.New("visualizer: time is required")

	// ErrDestroyed indicates use of a visualizer after Destroy.
	ErrDestroyed = errors.New("visualizer: used after destroy")
)
