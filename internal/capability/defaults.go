package capability

// floatPtr is a convenience for building bounded number domains.
func floatPtr(f float64) *float64 { return &f }

// Default builds the standard Hearth capability catalog.
//
// The set mirrors the capabilities reported by common residential hubs:
// switches, dimmers, sensors, locks, and thermostats. Installations with
// bespoke hardware extend this at wiring time by passing extra
// capabilities to NewCatalog.
func Default() *Catalog {
	return NewCatalog(
		Capability{
			Name: "switch",
			Attributes: map[string]ValueDomain{
				"switch": {Kind: KindEnum, Values: []string{"on", "off"}},
			},
			Commands: map[string][]ParameterSpec{
				"on":  {},
				"off": {},
			},
		},
		Capability{
			Name: "switch_level",
			Attributes: map[string]ValueDomain{
				"level": {Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100)},
			},
			Commands: map[string][]ParameterSpec{
				"set_level": {
					{Name: "level", Domain: ValueDomain{Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100)}, Required: true},
				},
			},
		},
		Capability{
			Name: "motion_sensor",
			Attributes: map[string]ValueDomain{
				"motion": {Kind: KindEnum, Values: []string{"active", "inactive"}},
			},
			Commands: map[string][]ParameterSpec{},
		},
		Capability{
			Name: "contact_sensor",
			Attributes: map[string]ValueDomain{
				"contact": {Kind: KindEnum, Values: []string{"open", "closed"}},
			},
			Commands: map[string][]ParameterSpec{},
		},
		Capability{
			Name: "temperature_sensor",
			Attributes: map[string]ValueDomain{
				"temperature": {Kind: KindNumber},
			},
			Commands: map[string][]ParameterSpec{},
		},
		Capability{
			Name: "humidity_sensor",
			Attributes: map[string]ValueDomain{
				"humidity": {Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100)},
			},
			Commands: map[string][]ParameterSpec{},
		},
		Capability{
			Name: "illuminance_sensor",
			Attributes: map[string]ValueDomain{
				"illuminance": {Kind: KindNumber, Min: floatPtr(0)},
			},
			Commands: map[string][]ParameterSpec{},
		},
		Capability{
			Name: "presence_sensor",
			Attributes: map[string]ValueDomain{
				"presence": {Kind: KindEnum, Values: []string{"present", "not_present"}},
			},
			Commands: map[string][]ParameterSpec{},
		},
		Capability{
			Name: "lock",
			Attributes: map[string]ValueDomain{
				"lock": {Kind: KindEnum, Values: []string{"locked", "unlocked"}},
			},
			Commands: map[string][]ParameterSpec{
				"lock":   {},
				"unlock": {},
			},
		},
		Capability{
			Name: "thermostat",
			Attributes: map[string]ValueDomain{
				"thermostat_mode":     {Kind: KindEnum, Values: []string{"off", "heat", "cool", "auto"}},
				"heating_setpoint":    {Kind: KindNumber, Min: floatPtr(5), Max: floatPtr(35)},
				"cooling_setpoint":    {Kind: KindNumber, Min: floatPtr(5), Max: floatPtr(35)},
				"thermostat_state":    {Kind: KindEnum, Values: []string{"idle", "heating", "cooling"}},
				"ambient_temperature": {Kind: KindNumber},
			},
			Commands: map[string][]ParameterSpec{
				"set_mode": {
					{Name: "mode", Domain: ValueDomain{Kind: KindEnum, Values: []string{"off", "heat", "cool", "auto"}}, Required: true},
				},
				"set_heating_setpoint": {
					{Name: "setpoint", Domain: ValueDomain{Kind: KindNumber, Min: floatPtr(5), Max: floatPtr(35)}, Required: true},
				},
				"set_cooling_setpoint": {
					{Name: "setpoint", Domain: ValueDomain{Kind: KindNumber, Min: floatPtr(5), Max: floatPtr(35)}, Required: true},
				},
			},
		},
		Capability{
			Name: "window_covering",
			Attributes: map[string]ValueDomain{
				"position": {Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100)},
			},
			Commands: map[string][]ParameterSpec{
				"open":  {},
				"close": {},
				"set_position": {
					{Name: "position", Domain: ValueDomain{Kind: KindNumber, Min: floatPtr(0), Max: floatPtr(100)}, Required: true},
				},
			},
		},
		Capability{
			Name: "colour_temperature",
			Attributes: map[string]ValueDomain{
				"colour_temperature": {Kind: KindNumber, Min: floatPtr(2000), Max: floatPtr(6500)},
			},
			Commands: map[string][]ParameterSpec{
				"set_colour_temperature": {
					{Name: "kelvin", Domain: ValueDomain{Kind: KindNumber, Min: floatPtr(2000), Max: floatPtr(6500)}, Required: true},
				},
			},
		},
	)
}
