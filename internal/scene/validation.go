package scene

import (
	"fmt"
	"strings"

	"github.com/hearthd/hearth-core/internal/capability"
	"github.com/hearthd/hearth-core/internal/device"
)

// Validation constants.
const (
	maxNameLength        = 100
	maxDescriptionLength = 500
	maxSettings          = 100
)

// DeviceLookup is the slice of the device registry that validation and
// checking need.
type DeviceLookup interface {
	Get(id string) (*device.Device, error)
	Attribute(deviceID, attribute string) (any, bool, error)
}

// Validate checks a scene definition against the capability catalog and
// the current device population. Invalid scenes are rejected before they
// are ever persisted.
func Validate(s *Scene, devices DeviceLookup, catalog *capability.Catalog) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidScene)
	}
	if len(s.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidScene, maxNameLength)
	}
	if len(s.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidScene, maxDescriptionLength)
	}

	if len(s.Settings) == 0 {
		return ErrNoSettings
	}
	if len(s.Settings) > maxSettings {
		return fmt.Errorf("%w: exceeds maximum of %d settings", ErrInvalidSetting, maxSettings)
	}

	for i, setting := range s.Settings {
		if err := validateSetting(setting, devices, catalog); err != nil {
			return fmt.Errorf("setting[%d]: %w", i, err)
		}
	}
	return nil
}

func validateSetting(setting Setting, devices DeviceLookup, catalog *capability.Catalog) error {
	if setting.DeviceID == "" {
		return fmt.Errorf("%w: device_id is required", ErrInvalidSetting)
	}
	if setting.Attribute == "" {
		return fmt.Errorf("%w: attribute is required", ErrInvalidSetting)
	}

	dev, err := devices.Get(setting.DeviceID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}

	domain, err := catalog.AttributeDomain(dev.Capabilities, setting.Attribute)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}

	if err := capability.CheckValue(domain, setting.Value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	return nil
}
