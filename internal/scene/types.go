package scene

import "time"

// Scene is a named, reusable bundle of target device settings. Applying
// a scene drives every setting out to the hub; checking a scene compares
// the registry's current values against the targets without issuing
// commands.
type Scene struct {
	// Name is the unique, user-facing identifier.
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Settings execute (and report) in declared order.
	Settings []Setting `json:"settings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting is one target device-attribute value within a scene.
type Setting struct {
	DeviceID  string `json:"device_id"`
	Attribute string `json:"attribute"`
	Value     any    `json:"value"`
}

// Summary is the listing form of a scene.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// SettingResult records the outcome of issuing one setting's command
// during Apply. A failed setting never aborts the rest of the scene.
type SettingResult struct {
	Index     int    `json:"index"`
	DeviceID  string `json:"device_id"`
	Attribute string `json:"attribute"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// ApplyResult is the per-setting outcome of a scene application.
type ApplyResult struct {
	Scene    string          `json:"scene"`
	Results  []SettingResult `json:"results"`
	Failed   int             `json:"failed"`
	IssuedAt time.Time       `json:"issued_at"`
}

// CheckResult reports whether a scene is currently in effect: one
// boolean per setting, in declared order, plus the AND of them all.
type CheckResult struct {
	Scene      string `json:"scene"`
	Overall    bool   `json:"overall"`
	PerSetting []bool `json:"per_setting"`
}

// DeepCopy creates an independent copy of the Scene for cache isolation.
func (s *Scene) DeepCopy() *Scene {
	if s == nil {
		return nil
	}
	cpy := *s
	if s.Settings != nil {
		cpy.Settings = make([]Setting, len(s.Settings))
		copy(cpy.Settings, s.Settings)
	}
	return &cpy
}
