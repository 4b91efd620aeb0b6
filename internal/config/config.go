package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spherefall/internal/integrators"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFixedTimeStep = 1.0 / 60.0
	DefaultMaxSubSteps   = 4
	DefaultMaxSpheres    = 200
	DefaultIntegrator    = "symplectic"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Vec3 is a YAML friendly [x, y, z] triple.
type Vec3 [3]float64

func (v Vec3) Mgl() mgl64.Vec3 { return mgl64.Vec3{v[0], v[1], v[2]} }

// Color is a 0xRRGGBB value.
type Color uint32

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

type Config struct {
	Scene   Scene   `yaml:"scene"`
	Physics Physics `yaml:"physics"`
	Limits  Limits  `yaml:"limits"`
}

type Scene struct {
	Background Color        `yaml:"background"`
	Camera     CameraConfig `yaml:"camera"`
	Cube       CubeConfig   `yaml:"cube"`
	Floor      FloorConfig  `yaml:"floor"`
	Sphere     SphereLook   `yaml:"sphere"`
	Lights     LightsConfig `yaml:"lights"`
}

type CameraConfig struct {
	Fov      float64 `yaml:"fov"`
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
	Position Vec3    `yaml:"position"`
	LookAt   Vec3    `yaml:"look_at"`
}

type CubeConfig struct {
	Color         Color   `yaml:"color"`
	Roughness     float64 `yaml:"roughness"`
	Position      Vec3    `yaml:"position"`
	RotationSpeed float64 `yaml:"rotation_speed"`
}

type FloorConfig struct {
	Size      float64 `yaml:"size"`
	Y         float64 `yaml:"y"`
	Color     Color   `yaml:"color"`
	Roughness float64 `yaml:"roughness"`
}

type SphereLook struct {
	Color     Color   `yaml:"color"`
	Roughness float64 `yaml:"roughness"`
	Metalness float64 `yaml:"metalness"`
	Segments  int     `yaml:"segments"`
}

type LightsConfig struct {
	DirectionalIntensity float64 `yaml:"directional_intensity"`
	DirectionalPosition  Vec3    `yaml:"directional_position"`
	AmbientIntensity     float64 `yaml:"ambient_intensity"`
	ShadowMapSize        int     `yaml:"shadow_map_size"`
	ShadowBounds         float64 `yaml:"shadow_bounds"`
	ShadowNear           float64 `yaml:"shadow_near"`
	ShadowFar            float64 `yaml:"shadow_far"`
}

type Physics struct {
	Gravity        Vec3    `yaml:"gravity"`
	Friction       float64 `yaml:"friction"`
	Restitution    float64 `yaml:"restitution"`
	SphereRadius   float64 `yaml:"sphere_radius"`
	SphereMass     float64 `yaml:"sphere_mass"`
	SpawnHeight    float64 `yaml:"spawn_height"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
	FixedTimeStep  float64 `yaml:"fixed_time_step"`
	MaxSubSteps    int     `yaml:"max_sub_steps"`
	Integrator     string  `yaml:"integrator"`
	AllowSleep     bool    `yaml:"allow_sleep"`
}

type Limits struct {
	MaxSpheres int `yaml:"max_spheres"`
}

// SpawnPlaneY is the height pointer rays are intersected with: a sphere
// resting on the floor has its centre there.
func (c *Config) SpawnPlaneY() float64 {
	return c.Scene.Floor.Y + c.Physics.SphereRadius
}

func Default() *Config {
	return &Config{
		Scene: Scene{
			Background: 0xf3f4f6,
			Camera: CameraConfig{
				Fov:      55,
				Near:     0.1,
				Far:      1000,
				Position: Vec3{0, 1.8, 5.5},
				LookAt:   Vec3{0, 0.2, 0},
			},
			Cube: CubeConfig{
				Color:         0x3b82f6,
				Roughness:     0.4,
				Position:      Vec3{0, 0.8, 0},
				RotationSpeed: 0.01,
			},
			Floor: FloorConfig{
				Size:      14,
				Y:         -1.5,
				Color:     0xe5e7eb,
				Roughness: 0.95,
			},
			Sphere: SphereLook{
				Color:     0xf97316,
				Roughness: 0.45,
				Metalness: 0.05,
				Segments:  18,
			},
			Lights: LightsConfig{
				DirectionalIntensity: 1.2,
				DirectionalPosition:  Vec3{4, 8, 4},
				AmbientIntensity:     0.35,
				ShadowMapSize:        2048,
				ShadowBounds:         8,
				ShadowNear:           1,
				ShadowFar:            24,
			},
		},
		Physics: Physics{
			Gravity:        Vec3{0, -9.82, 0},
			Friction:       0.2,
			Restitution:    0.82,
			SphereRadius:   0.16,
			SphereMass:     0.25,
			SpawnHeight:    3.2,
			LinearDamping:  0.08,
			AngularDamping: 0.1,
			FixedTimeStep:  DefaultFixedTimeStep,
			MaxSubSteps:    DefaultMaxSubSteps,
			Integrator:     DefaultIntegrator,
			AllowSleep:     true,
		},
		Limits: Limits{
			MaxSpheres: DefaultMaxSpheres,
		},
	}
}

// Clone returns a deep copy. Config holds no reference types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// FieldError names the offending field of a failed validation.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: %s = %v: %s", e.Field, e.Value, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalid }

// Validate checks signs and ranges only. A zero fixed step or a substep cap
// below one would make the scheduler spin forever or never step.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, field string, value any, reason string) {
		if !ok {
			errs = append(errs, &FieldError{Field: field, Value: value, Reason: reason})
		}
	}

	p := c.Physics
	check(p.FixedTimeStep > 0 && !math.IsInf(p.FixedTimeStep, 0), "physics.fixed_time_step", p.FixedTimeStep, "must be positive and finite")
	check(p.MaxSubSteps >= 1, "physics.max_sub_steps", p.MaxSubSteps, "must be at least 1")
	check(c.Limits.MaxSpheres >= 0, "limits.max_spheres", c.Limits.MaxSpheres, "must not be negative")
	check(p.SphereRadius > 0, "physics.sphere_radius", p.SphereRadius, "must be positive")
	check(p.SphereMass > 0, "physics.sphere_mass", p.SphereMass, "must be positive")
	check(p.Friction >= 0, "physics.friction", p.Friction, "must not be negative")
	check(p.Restitution >= 0 && p.Restitution <= 1, "physics.restitution", p.Restitution, "must be within [0, 1]")
	check(p.LinearDamping >= 0 && p.LinearDamping <= 1, "physics.linear_damping", p.LinearDamping, "must be within [0, 1]")
	check(p.AngularDamping >= 0 && p.AngularDamping <= 1, "physics.angular_damping", p.AngularDamping, "must be within [0, 1]")
	_, err := integrators.Get(p.Integrator)
	check(err == nil, "physics.integrator", p.Integrator, "must be one of "+strings.Join(integrators.Names(), ", "))
	check(c.Scene.Camera.Fov > 0 && c.Scene.Camera.Fov < 180, "scene.camera.fov", c.Scene.Camera.Fov, "must be within (0, 180)")

	l := c.Scene.Lights
	check(l.DirectionalIntensity >= 0, "scene.lights.directional_intensity", l.DirectionalIntensity, "must not be negative")
	check(l.AmbientIntensity >= 0, "scene.lights.ambient_intensity", l.AmbientIntensity, "must not be negative")
	check(l.ShadowMapSize > 0, "scene.lights.shadow_map_size", l.ShadowMapSize, "must be positive")
	check(l.ShadowBounds > 0, "scene.lights.shadow_bounds", l.ShadowBounds, "must be positive")
	check(l.ShadowNear >= 0 && l.ShadowNear < l.ShadowFar, "scene.lights.shadow_near", l.ShadowNear, "must be non-negative and below shadow_far")

	return errors.Join(errs...)
}
