package config

import (
	"fmt"
	"sort"
)

// params exposes the numeric knobs sweeps and searches may turn. Integer
// fields are rounded on Set.
var params = map[string]func(*Config) *float64{
	"physics.friction":        func(c *Config) *float64 { return &c.Physics.Friction },
	"physics.restitution":     func(c *Config) *float64 { return &c.Physics.Restitution },
	"physics.sphere_radius":   func(c *Config) *float64 { return &c.Physics.SphereRadius },
	"physics.sphere_mass":     func(c *Config) *float64 { return &c.Physics.SphereMass },
	"physics.spawn_height":    func(c *Config) *float64 { return &c.Physics.SpawnHeight },
	"physics.linear_damping":  func(c *Config) *float64 { return &c.Physics.LinearDamping },
	"physics.angular_damping": func(c *Config) *float64 { return &c.Physics.AngularDamping },
	"physics.fixed_time_step": func(c *Config) *float64 { return &c.Physics.FixedTimeStep },
	"physics.gravity":         func(c *Config) *float64 { return &c.Physics.Gravity[1] },
}

var intParams = map[string]func(*Config) *int{
	"physics.max_sub_steps": func(c *Config) *int { return &c.Physics.MaxSubSteps },
	"limits.max_spheres":    func(c *Config) *int { return &c.Limits.MaxSpheres },
}

// Set assigns a numeric parameter by its dotted YAML path. It does not
// validate the result.
func (c *Config) Set(name string, v float64) error {
	if f, ok := params[name]; ok {
		*f(c) = v
		return nil
	}
	if f, ok := intParams[name]; ok {
		*f(c) = int(v + 0.5)
		if v < 0 {
			*f(c) = int(v - 0.5)
		}
		return nil
	}
	return fmt.Errorf("unknown parameter: %s", name)
}

func (c *Config) Get(name string) (float64, error) {
	if f, ok := params[name]; ok {
		return *f(c), nil
	}
	if f, ok := intParams[name]; ok {
		return float64(*f(c)), nil
	}
	return 0, fmt.Errorf("unknown parameter: %s", name)
}

// ParamNames lists the names Set accepts. physics.gravity is the vertical
// component only.
func ParamNames() []string {
	names := make([]string, 0, len(params)+len(intParams))
	for k := range params {
		names = append(names, k)
	}
	for k := range intParams {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
