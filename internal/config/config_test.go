package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Physics.FixedTimeStep <= 0 {
		t.Error("fixed step should be positive")
	}
	if cfg.Physics.MaxSubSteps != 4 {
		t.Errorf("expected 4 substeps, got %d", cfg.Physics.MaxSubSteps)
	}
	if cfg.Limits.MaxSpheres != 200 {
		t.Errorf("expected 200 spheres, got %d", cfg.Limits.MaxSpheres)
	}
	if got := cfg.SpawnPlaneY(); got != -1.5+0.16 {
		t.Errorf("expected spawn plane at %.2f, got %.4f", -1.5+0.16, got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero fixed step", func(c *Config) { c.Physics.FixedTimeStep = 0 }, "physics.fixed_time_step"},
		{"negative fixed step", func(c *Config) { c.Physics.FixedTimeStep = -0.01 }, "physics.fixed_time_step"},
		{"zero substeps", func(c *Config) { c.Physics.MaxSubSteps = 0 }, "physics.max_sub_steps"},
		{"negative spheres", func(c *Config) { c.Limits.MaxSpheres = -1 }, "limits.max_spheres"},
		{"zero radius", func(c *Config) { c.Physics.SphereRadius = 0 }, "physics.sphere_radius"},
		{"restitution above one", func(c *Config) { c.Physics.Restitution = 1.5 }, "physics.restitution"},
		{"unknown integrator", func(c *Config) { c.Physics.Integrator = "rk4" }, "physics.integrator"},
		{"damping above one", func(c *Config) { c.Physics.LinearDamping = 2 }, "physics.linear_damping"},
		{"negative light", func(c *Config) { c.Scene.Lights.DirectionalIntensity = -1 }, "scene.lights.directional_intensity"},
		{"negative ambient", func(c *Config) { c.Scene.Lights.AmbientIntensity = -0.1 }, "scene.lights.ambient_intensity"},
		{"zero shadow map", func(c *Config) { c.Scene.Lights.ShadowMapSize = 0 }, "scene.lights.shadow_map_size"},
		{"zero shadow bounds", func(c *Config) { c.Scene.Lights.ShadowBounds = 0 }, "scene.lights.shadow_bounds"},
		{"shadow near past far", func(c *Config) { c.Scene.Lights.ShadowNear = 30 }, "scene.lights.shadow_near"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FieldError, got %T", err)
			}
			if fe.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, fe.Field)
			}
		})
	}
}

func TestValidateZeroSpheresAllowed(t *testing.T) {
	cfg := Default()
	cfg.Limits.MaxSpheres = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("max_spheres = 0 should be accepted: %v", err)
	}
}

func TestValidateCollectsAllFields(t *testing.T) {
	cfg := Default()
	cfg.Physics.FixedTimeStep = 0
	cfg.Physics.MaxSubSteps = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("expected 2 errors, got %d", n)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte(`
physics:
  restitution: 0.5
  max_sub_steps: 8
limits:
  max_spheres: 12
scene:
  background: 0x101010
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Physics.Restitution != 0.5 {
		t.Errorf("expected restitution 0.5, got %f", cfg.Physics.Restitution)
	}
	if cfg.Physics.MaxSubSteps != 8 {
		t.Errorf("expected 8 substeps, got %d", cfg.Physics.MaxSubSteps)
	}
	if cfg.Limits.MaxSpheres != 12 {
		t.Errorf("expected 12 spheres, got %d", cfg.Limits.MaxSpheres)
	}
	if cfg.Scene.Background != 0x101010 {
		t.Errorf("expected background 0x101010, got %#x", cfg.Scene.Background)
	}
	if cfg.Physics.SphereRadius != 0.16 {
		t.Errorf("untouched fields should keep defaults, radius = %f", cfg.Physics.SphereRadius)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Physics.Gravity = Vec3{0, -1.62, 0}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("moon")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Physics.Gravity[1] != -1.62 {
		t.Errorf("expected moon gravity, got %v", cfg.Physics.Gravity)
	}
	if Default().Physics.Gravity[1] != -9.82 {
		t.Error("preset must not mutate defaults")
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestColorRGB(t *testing.T) {
	r, g, b := Color(0xf97316).RGB()
	if r != 0xf9 || g != 0x73 || b != 0x16 {
		t.Errorf("unexpected rgb %x %x %x", r, g, b)
	}
}

func TestSetParam(t *testing.T) {
	cfg := Default()
	if err := cfg.Set("physics.restitution", 0.3); err != nil {
		t.Fatal(err)
	}
	if cfg.Physics.Restitution != 0.3 {
		t.Errorf("restitution = %f", cfg.Physics.Restitution)
	}
	if err := cfg.Set("physics.max_sub_steps", 6.6); err != nil {
		t.Fatal(err)
	}
	if cfg.Physics.MaxSubSteps != 7 {
		t.Errorf("expected rounding to 7, got %d", cfg.Physics.MaxSubSteps)
	}
	if err := cfg.Set("physics.gravity", -3); err != nil {
		t.Fatal(err)
	}
	if cfg.Physics.Gravity != (Vec3{0, -3, 0}) {
		t.Errorf("gravity = %v", cfg.Physics.Gravity)
	}
	if err := cfg.Set("scene.nope", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestGetParam(t *testing.T) {
	cfg := Default()
	for _, name := range ParamNames() {
		if _, err := cfg.Get(name); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	v, _ := cfg.Get("limits.max_spheres")
	if v != 200 {
		t.Errorf("max_spheres = %v", v)
	}
	if _, err := cfg.Get("missing"); err == nil {
		t.Error("expected error")
	}
}
