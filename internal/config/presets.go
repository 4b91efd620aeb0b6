package config

import "sort"

// Presets maps a name to a function tweaking the defaults.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"bouncy": func(c *Config) {
		c.Physics.Restitution = 0.95
		c.Physics.Friction = 0.05
		c.Physics.LinearDamping = 0.01
	},
	"moon": func(c *Config) {
		c.Physics.Gravity = Vec3{0, -1.62, 0}
		c.Physics.SpawnHeight = 4.5
	},
	"rain": func(c *Config) {
		c.Physics.Restitution = 0.5
		c.Physics.SphereRadius = 0.08
		c.Physics.SphereMass = 0.05
		c.Limits.MaxSpheres = 400
	},
	"sparse": func(c *Config) {
		c.Limits.MaxSpheres = 20
	},
	// Small substep budget for a fine step: frames routinely hit the cap
	// and shed their leftover time.
	"overload": func(c *Config) {
		c.Physics.FixedTimeStep = 1.0 / 240.0
		c.Physics.MaxSubSteps = 2
	},
	"frozen": func(c *Config) {
		c.Limits.MaxSpheres = 0
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := Default()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
