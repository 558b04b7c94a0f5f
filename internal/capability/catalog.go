package capability

import (
	"fmt"
	"sort"
)

// ValueKind classifies the values an attribute or parameter may hold.
type ValueKind string

const (
	KindString  ValueKind = "string"
	KindNumber  ValueKind = "number"
	KindBoolean ValueKind = "boolean"
	KindEnum    ValueKind = "enum"
)

// ValueDomain describes the set of legal values for an attribute or
// command parameter. Enum domains list their members; number domains
// may carry optional bounds.
type ValueDomain struct {
	Kind   ValueKind `json:"kind"`
	Values []string  `json:"values,omitempty"` // Enum members (Kind == enum)
	Min    *float64  `json:"min,omitempty"`    // Lower bound (Kind == number)
	Max    *float64  `json:"max,omitempty"`    // Upper bound (Kind == number)
}

// ParameterSpec describes a single command parameter.
type ParameterSpec struct {
	Name     string      `json:"name"`
	Domain   ValueDomain `json:"domain"`
	Required bool        `json:"required"`
}

// Capability is a static descriptor of a named device capability:
// the attributes it exposes for reading and the commands it accepts.
// Capabilities are immutable once the catalog is built.
type Capability struct {
	Name       string                     `json:"name"`
	Attributes map[string]ValueDomain     `json:"attributes"`
	Commands   map[string][]ParameterSpec `json:"commands"`
}

// Catalog holds the full set of known capabilities. It is built once at
// process start and never mutated afterwards, so lookups need no locking.
type Catalog struct {
	caps map[string]Capability
}

// NewCatalog builds a catalog from the given capability descriptors.
// Later descriptors with duplicate names replace earlier ones.
func NewCatalog(caps ...Capability) *Catalog {
	m := make(map[string]Capability, len(caps))
	for _, c := range caps {
		m[c.Name] = c
	}
	return &Catalog{caps: m}
}

// Get returns the capability with the given name.
func (c *Catalog) Get(name string) (Capability, error) {
	cap, ok := c.caps[name]
	if !ok {
		return Capability{}, fmt.Errorf("%w: %q", ErrUnknownCapability, name)
	}
	return cap, nil
}

// Names returns all capability names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.caps))
	for name := range c.caps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AttributeDomain resolves an attribute's value domain across a device's
// capability set. The first capability declaring the attribute wins;
// capability authors keep attribute names disjoint so order does not matter.
func (c *Catalog) AttributeDomain(capabilities []string, attribute string) (ValueDomain, error) {
	for _, name := range capabilities {
		cap, ok := c.caps[name]
		if !ok {
			continue
		}
		if domain, ok := cap.Attributes[attribute]; ok {
			return domain, nil
		}
	}
	return ValueDomain{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, attribute)
}

// CommandSpec resolves a command's parameter specs across a device's
// capability set.
func (c *Catalog) CommandSpec(capabilities []string, command string) ([]ParameterSpec, error) {
	for _, name := range capabilities {
		cap, ok := c.caps[name]
		if !ok {
			continue
		}
		if spec, ok := cap.Commands[command]; ok {
			return spec, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
}

// CheckValue verifies that a value (as decoded from JSON: string, float64,
// int, or bool) is a member of the domain.
func CheckValue(domain ValueDomain, value any) error {
	switch domain.Kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, value)
		}
		return nil

	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: expected boolean, got %T", ErrInvalidValue, value)
		}
		return nil

	case KindNumber:
		n, ok := AsNumber(value)
		if !ok {
			return fmt.Errorf("%w: expected number, got %T", ErrInvalidValue, value)
		}
		if domain.Min != nil && n < *domain.Min {
			return fmt.Errorf("%w: %v below minimum %v", ErrInvalidValue, n, *domain.Min)
		}
		if domain.Max != nil && n > *domain.Max {
			return fmt.Errorf("%w: %v above maximum %v", ErrInvalidValue, n, *domain.Max)
		}
		return nil

	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: expected enum string, got %T", ErrInvalidValue, value)
		}
		for _, member := range domain.Values {
			if member == s {
				return nil
			}
		}
		return fmt.Errorf("%w: %q not in %v", ErrInvalidValue, s, domain.Values)

	default:
		return fmt.Errorf("%w: unknown value kind %q", ErrInvalidValue, domain.Kind)
	}
}

// Ordered reports whether values in the domain support greater-than and
// less-than comparison. Only numeric domains are ordered.
func (d ValueDomain) Ordered() bool {
	return d.Kind == KindNumber
}

// AsNumber converts JSON-decoded numeric representations to float64.
func AsNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
