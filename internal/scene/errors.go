package scene

import "errors"

// Domain errors for the scene package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, scene.ErrSceneNotFound) {
//	    // handle not found case
//	}
var (
	// ErrSceneNotFound is returned when a scene name does not exist.
	ErrSceneNotFound = errors.New("scene: not found")

	// ErrSceneExists is returned when creating a scene whose name is taken.
	ErrSceneExists = errors.New("scene: already exists")

	// ErrInvalidScene is returned when scene validation fails.
	ErrInvalidScene = errors.New("scene: invalid")

	// ErrNoSettings is returned when a scene has no settings defined.
	ErrNoSettings = errors.New("scene: no settings")

	// ErrInvalidSetting is returned when a scene setting is invalid.
	ErrInvalidSetting = errors.New("scene: invalid setting")
)
