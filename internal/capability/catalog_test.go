package capability

import (
	"errors"
	"sort"
	"testing"
)

func TestCatalog_Get(t *testing.T) {
	catalog := Default()

	cap, err := catalog.Get("switch")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cap.Name != "switch" {
		t.Errorf("Name = %q, want switch", cap.Name)
	}
	if _, ok := cap.Attributes["switch"]; !ok {
		t.Error("switch capability missing its switch attribute")
	}
	if _, ok := cap.Commands["on"]; !ok {
		t.Error("switch capability missing its on command")
	}
}

func TestCatalog_Get_Unknown(t *testing.T) {
	catalog := Default()

	_, err := catalog.Get("teleporter")
	if !errors.Is(err, ErrUnknownCapability) {
		t.Errorf("Get() error = %v, want ErrUnknownCapability", err)
	}
}

func TestCatalog_Names_Sorted(t *testing.T) {
	catalog := Default()

	names := catalog.Names()
	if len(names) == 0 {
		t.Fatal("Names() returned empty slice")
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("Names() not sorted: %v", names)
	}

	found := false
	for _, name := range names {
		if name == "thermostat" {
			found = true
		}
	}
	if !found {
		t.Error("Names() missing thermostat")
	}
}

func TestCatalog_DuplicateNameReplaces(t *testing.T) {
	catalog := NewCatalog(
		Capability{Name: "switch", Attributes: map[string]ValueDomain{
			"switch": {Kind: KindEnum, Values: []string{"on", "off"}},
		}},
		Capability{Name: "switch", Attributes: map[string]ValueDomain{
			"switch": {Kind: KindEnum, Values: []string{"on", "off", "toggle"}},
		}},
	)

	cap, err := catalog.Get("switch")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(cap.Attributes["switch"].Values) != 3 {
		t.Errorf("later duplicate did not replace earlier descriptor: %v",
			cap.Attributes["switch"].Values)
	}
}

func TestCatalog_AttributeDomain(t *testing.T) {
	catalog := Default()

	domain, err := catalog.AttributeDomain([]string{"switch", "switch_level"}, "level")
	if err != nil {
		t.Fatalf("AttributeDomain() error = %v", err)
	}
	if domain.Kind != KindNumber {
		t.Errorf("Kind = %q, want number", domain.Kind)
	}
	if domain.Min == nil || *domain.Min != 0 || domain.Max == nil || *domain.Max != 100 {
		t.Errorf("level bounds = [%v, %v], want [0, 100]", domain.Min, domain.Max)
	}
}

func TestCatalog_AttributeDomain_Unknown(t *testing.T) {
	catalog := Default()

	_, err := catalog.AttributeDomain([]string{"switch"}, "level")
	if !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("AttributeDomain() error = %v, want ErrUnknownAttribute", err)
	}
}

func TestCatalog_AttributeDomain_SkipsUnknownCapabilities(t *testing.T) {
	catalog := Default()

	// A device reporting an unrecognised capability alongside known ones
	// still resolves attributes the known ones declare.
	domain, err := catalog.AttributeDomain([]string{"quantum_flux", "lock"}, "lock")
	if err != nil {
		t.Fatalf("AttributeDomain() error = %v", err)
	}
	if domain.Kind != KindEnum {
		t.Errorf("Kind = %q, want enum", domain.Kind)
	}
}

func TestCatalog_CommandSpec(t *testing.T) {
	catalog := Default()

	spec, err := catalog.CommandSpec([]string{"switch", "switch_level"}, "set_level")
	if err != nil {
		t.Fatalf("CommandSpec() error = %v", err)
	}
	if len(spec) != 1 {
		t.Fatalf("CommandSpec() returned %d params, want 1", len(spec))
	}
	if spec[0].Name != "level" || !spec[0].Required {
		t.Errorf("param = %+v, want required level", spec[0])
	}
}

func TestCatalog_CommandSpec_Unknown(t *testing.T) {
	catalog := Default()

	_, err := catalog.CommandSpec([]string{"switch"}, "set_level")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("CommandSpec() error = %v, want ErrUnknownCommand", err)
	}
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		name    string
		domain  ValueDomain
		value   any
		wantErr bool
	}{
		{name: "string ok", domain: ValueDomain{Kind: KindString}, value: "hello", wantErr: false},
		{name: "string wrong type", domain: ValueDomain{Kind: KindString}, value: 42, wantErr: true},
		{name: "boolean ok", domain: ValueDomain{Kind: KindBoolean}, value: true, wantErr: false},
		{name: "boolean wrong type", domain: ValueDomain{Kind: KindBoolean}, value: "true", wantErr: true},
		{name: "number ok float", domain: ValueDomain{Kind: KindNumber}, value: 21.5, wantErr: false},
		{name: "number ok int", domain: ValueDomain{Kind: KindNumber}, value: 21, wantErr: false},
		{name: "number wrong type", domain: ValueDomain{Kind: KindNumber}, value: "21", wantErr: true},
		{
			name:    "number below min",
			domain:  ValueDomain{Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100)},
			value:   -1.0,
			wantErr: true,
		},
		{
			name:    "number above max",
			domain:  ValueDomain{Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100)},
			value:   150,
			wantErr: true,
		},
		{
			name:    "number at bounds",
			domain:  ValueDomain{Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100)},
			value:   100,
			wantErr: false,
		},
		{
			name:    "enum member",
			domain:  ValueDomain{Kind: KindEnum, Values: []string{"on", "off"}},
			value:   "on",
			wantErr: false,
		},
		{
			name:    "enum non-member",
			domain:  ValueDomain{Kind: KindEnum, Values: []string{"on", "off"}},
			value:   "dim",
			wantErr: true,
		},
		{
			name:    "enum wrong type",
			domain:  ValueDomain{Kind: KindEnum, Values: []string{"on", "off"}},
			value:   1,
			wantErr: true,
		},
		{name: "unknown kind", domain: ValueDomain{Kind: "blob"}, value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckValue(tt.domain, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidValue) {
				t.Errorf("CheckValue() error = %v, want ErrInvalidValue", err)
			}
		})
	}
}

func TestValueDomain_Ordered(t *testing.T) {
	if !(ValueDomain{Kind: KindNumber}).Ordered() {
		t.Error("number domain should be ordered")
	}
	if (ValueDomain{Kind: KindEnum}).Ordered() {
		t.Error("enum domain should not be ordered")
	}
	if (ValueDomain{Kind: KindString}).Ordered() {
		t.Error("string domain should not be ordered")
	}
}

func TestAsNumber(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{name: "float64", value: 42.5, want: 42.5, ok: true},
		{name: "float32", value: float32(2), want: 2, ok: true},
		{name: "int", value: 7, want: 7, ok: true},
		{name: "int64", value: int64(9), want: 9, ok: true},
		{name: "string", value: "7", ok: false},
		{name: "bool", value: true, ok: false},
		{name: "nil", value: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsNumber(tt.value)
			if ok != tt.ok {
				t.Fatalf("AsNumber(%v) ok = %v, want %v", tt.value, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("AsNumber(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
