package rule

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
	maxConditions        = 20
	maxActions           = 50
	maxConditionalDepth  = 5
	maxWaitSeconds       = 24 * 60 * 60
	maxHour              = 23
	maxMinute            = 59
)

// DeviceLookup is the slice of the device registry that validation and
// condition evaluation need.
type DeviceLookup interface {
	Get(id string) (*device.Device, error)
	Attribute(deviceID, attribute string) (any, bool, error)
}

// Validate checks a complete rule definition against the capability
// catalog and the current device population. This runs once at install
// time; an installed rule is never re-validated per event, so nothing
// invalid may get past this point.
func Validate(r *Rule, devices DeviceLookup, catalog *capability.Catalog) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidRule)
	}
	if len(r.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidRule, maxNameLength)
	}
	if len(r.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidRule, maxDescriptionLength)
	}

	if err := validateTrigger(r.Trigger, devices, catalog); err != nil {
		return err
	}

	if len(r.Conditions) > maxConditions {
		return fmt.Errorf("%w: exceeds maximum of %d conditions", ErrInvalidCondition, maxConditions)
	}
	for i, cond := range r.Conditions {
		if err := validateCondition(cond, devices, catalog); err != nil {
			return fmt.Errorf("condition[%d]: %w", i, err)
		}
	}

	if len(r.Actions) == 0 {
		return ErrNoActions
	}
	return ValidateActions(r.Actions, devices, catalog)
}

// ValidateActions checks an action sequence, including nested
// conditional branches. It is exported separately because ad hoc
// execute_actions calls carry a bare sequence with no enclosing rule.
func ValidateActions(actions []Action, devices DeviceLookup, catalog *capability.Catalog) error {
	return validateActions(actions, devices, catalog, 0)
}

func validateTrigger(t Trigger, devices DeviceLookup, catalog *capability.Catalog) error {
	switch t.Type {
	case TriggerDeviceEvent:
		if t.DeviceEvent == nil || t.TimeOfDay != nil {
			return fmt.Errorf("%w: device_event trigger must set exactly the device_event variant", ErrInvalidTrigger)
		}
		cond := Condition(*t.DeviceEvent)
		if err := validateCondition(cond, devices, catalog); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTrigger, err)
		}
		return nil

	case TriggerTimeOfDay:
		if t.TimeOfDay == nil || t.DeviceEvent != nil {
			return fmt.Errorf("%w: time_of_day trigger must set exactly the time_of_day variant", ErrInvalidTrigger)
		}
		tod := t.TimeOfDay
		if tod.Hour < 0 || tod.Hour > maxHour {
			return fmt.Errorf("%w: hour must be 0-%d", ErrInvalidTrigger, maxHour)
		}
		if tod.Minute < 0 || tod.Minute > maxMinute {
			return fmt.Errorf("%w: minute must be 0-%d", ErrInvalidTrigger, maxMinute)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown trigger type %q", ErrInvalidTrigger, t.Type)
	}
}

func validateCondition(c Condition, devices DeviceLookup, catalog *capability.Catalog) error {
	if c.DeviceID == "" {
		return fmt.Errorf("%w: device_id is required", ErrInvalidCondition)
	}
	if c.Attribute == "" {
		return fmt.Errorf("%w: attribute is required", ErrInvalidCondition)
	}

	dev, err := devices.Get(c.DeviceID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}

	domain, err := catalog.AttributeDomain(dev.Capabilities, c.Attribute)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}

	switch c.Operator {
	case OpEquals, OpChangedTo:
		// Any domain supports equality.
	case OpGreaterThan, OpLessThan:
		if !domain.Ordered() {
			return fmt.Errorf("%w: operator %q requires a numeric attribute, %q is %s",
				ErrInvalidCondition, c.Operator, c.Attribute, domain.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidCondition, c.Operator)
	}

	if err := capability.CheckValue(domain, c.Value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}
	return nil
}

func validateActions(actions []Action, devices DeviceLookup, catalog *capability.Catalog, depth int) error {
	if depth > maxConditionalDepth {
		return fmt.Errorf("%w: conditional nesting exceeds depth %d", ErrInvalidAction, maxConditionalDepth)
	}
	if len(actions) > maxActions {
		return fmt.Errorf("%w: exceeds maximum of %d actions", ErrInvalidAction, maxActions)
	}

	for i, a := range actions {
		if err := validateAction(a, devices, catalog, depth); err != nil {
			return fmt.Errorf("action[%d]: %w", i, err)
		}
	}
	return nil
}

func validateAction(a Action, devices DeviceLookup, catalog *capability.Catalog, depth int) error { //nolint:gocognit // one case per action variant
	switch a.Type {
	case ActionSetAttribute:
		if a.SetAttribute == nil {
			return fmt.Errorf("%w: set_attribute variant missing", ErrInvalidAction)
		}
		set := a.SetAttribute
		dev, err := devices.Get(set.DeviceID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		domain, err := catalog.AttributeDomain(dev.Capabilities, set.Attribute)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		if err := capability.CheckValue(domain, set.Value); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		return nil

	case ActionRunCommand:
		if a.RunCommand == nil {
			return fmt.Errorf("%w: run_command variant missing", ErrInvalidAction)
		}
		run := a.RunCommand
		dev, err := devices.Get(run.DeviceID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		specs, err := catalog.CommandSpec(dev.Capabilities, run.Command)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		return validateParams(run.Params, specs)

	case ActionWait:
		if a.Wait == nil {
			return fmt.Errorf("%w: wait variant missing", ErrInvalidAction)
		}
		if a.Wait.DurationSeconds <= 0 || a.Wait.DurationSeconds > maxWaitSeconds {
			return fmt.Errorf("%w: wait duration must be in (0, %d] seconds", ErrInvalidAction, maxWaitSeconds)
		}
		return nil

	case ActionRunScene:
		if a.RunScene == nil || a.RunScene.Scene == "" {
			return fmt.Errorf("%w: run_scene requires a scene name", ErrInvalidAction)
		}
		// Scene existence is resolved at execution time so rules and
		// the scenes they reference can be installed in either order.
		return nil

	case ActionConditional:
		if a.Conditional == nil {
			return fmt.Errorf("%w: conditional variant missing", ErrInvalidAction)
		}
		cond := a.Conditional
		if err := validateCondition(cond.Condition, devices, catalog); err != nil {
			return err
		}
		if len(cond.Then) == 0 && len(cond.Else) == 0 {
			return fmt.Errorf("%w: conditional has no branch actions", ErrInvalidAction)
		}
		if err := validateActions(cond.Then, devices, catalog, depth+1); err != nil {
			return fmt.Errorf("then: %w", err)
		}
		if err := validateActions(cond.Else, devices, catalog, depth+1); err != nil {
			return fmt.Errorf("else: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, a.Type)
	}
}

func validateParams(params map[string]any, specs []capability.ParameterSpec) error {
	known := make(map[string]capability.ParameterSpec, len(specs))
	for _, spec := range specs {
		known[spec.Name] = spec
		if spec.Required {
			if _, present := params[spec.Name]; !present {
				return fmt.Errorf("%w: missing required parameter %q", ErrInvalidAction, spec.Name)
			}
		}
	}
	for name, value := range params {
		spec, ok := known[name]
		if !ok {
			return fmt.Errorf("%w: unknown parameter %q", ErrInvalidAction, name)
		}
		if err := capability.CheckValue(spec.Domain, value); err != nil {
			return fmt.Errorf("%w: parameter %q: %v", ErrInvalidAction, name, err)
		}
	}
	return nil
}
