package capability

import "errors"

// Domain errors for the capability package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, capability.ErrUnknownAttribute) {
//	    // handle unknown attribute case
//	}
var (
	// ErrUnknownCapability is returned when a capability name is not in the catalog.
	ErrUnknownCapability = errors.New("capability: unknown capability")

	// ErrUnknownAttribute is returned when no capability declares the attribute.
	ErrUnknownAttribute = errors.New("capability: unknown attribute")

	// ErrUnknownCommand is returned when no capability declares the command.
	ErrUnknownCommand = errors.New("capability: unknown command")

	// ErrInvalidValue is returned when a value falls outside its declared domain.
	ErrInvalidValue = errors.New("capability: invalid value")
)
