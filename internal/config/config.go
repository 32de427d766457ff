// Package config loads and validates boxarena settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/taigrr/boxarena/pkg/math3d"
	"github.com/taigrr/boxarena/pkg/render"
	"gopkg.in/yaml.v3"
)

// Validation errors.
var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalidColor  = errors.New("invalid color")
	ErrInvalidValue  = errors.New("invalid value")
)

// Config holds all boxarena configuration.
type Config struct {
	// Preset names the built-in parameter set the file started from.
	Preset string `yaml:"preset"`

	// Seed fixes the box layout; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`

	Scene    SceneConfig    `yaml:"scene"`
	Boxes    BoxesConfig    `yaml:"boxes"`
	Lighting LightingConfig `yaml:"lighting"`
	Player   PlayerConfig   `yaml:"player"`
	Weapon   WeaponConfig   `yaml:"weapon"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
	Stats    StatsConfig    `yaml:"stats"`
}

// SceneConfig configures the background, fog and floor.
type SceneConfig struct {
	Background string  `yaml:"background"`
	FogNear    float64 `yaml:"fog_near"`
	FogFar     float64 `yaml:"fog_far"` // fog_far <= fog_near disables fog
	FloorSize  float64 `yaml:"floor_size"`
	FloorColor string  `yaml:"floor_color"`
}

// BoxesConfig configures the obstacle boxes.
type BoxesConfig struct {
	Count    int        `yaml:"count"`
	Size     [3]float64 `yaml:"size,flow"` // width, height, depth
	Spread   float64    `yaml:"spread"`
	Color    string     `yaml:"color"`
	HitColor string     `yaml:"hit_color"`
	Model    string     `yaml:"model"` // optional GLB drawn in place of each box
}

// LightingConfig configures ambient plus one key light.
type LightingConfig struct {
	Ambient   float64    `yaml:"ambient"`
	Type      string     `yaml:"type"` // point, directional, none
	Position  [3]float64 `yaml:"position,flow"`
	Direction [3]float64 `yaml:"direction,flow"`
	Intensity float64    `yaml:"intensity"`
	Distance  float64    `yaml:"distance"`
}

// PlayerConfig configures first-person movement.
type PlayerConfig struct {
	EyeHeight    float64 `yaml:"eye_height"`
	Acceleration float64 `yaml:"acceleration"`
	Friction     float64 `yaml:"friction"`
	Sensitivity  float64 `yaml:"sensitivity"` // radians per mouse cell
	KeyHold      string  `yaml:"key_hold"`    // how long a repeat keeps a key held without a release
	KeyDelay     string  `yaml:"key_delay"`   // how long a fresh press waits for the first repeat
	Collision    bool    `yaml:"collision"`
	Radius       float64 `yaml:"radius"`
}

// WeaponConfig configures the shoot action.
type WeaponConfig struct {
	Enabled       bool    `yaml:"enabled"`
	Range         float64 `yaml:"range"` // 0 = unlimited
	Cooldown      string  `yaml:"cooldown"`
	RemoveOnHit   bool    `yaml:"remove_on_hit"`
	Flash         bool    `yaml:"flash"`
	FlashDuration string  `yaml:"flash_duration"`
}

// RenderConfig configures the frame loop and projection.
type RenderConfig struct {
	FPS  int     `yaml:"fps"`
	FOV  float64 `yaml:"fov"` // vertical, degrees
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty disables logging
}

// StatsConfig configures the session database.
type StatsConfig struct {
	Path string `yaml:"path"` // empty disables recording
}

// DefaultConfig returns the classic preset.
func DefaultConfig() *Config {
	cfg, _ := Preset(PresetClassic)
	return cfg
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := cfg.unmarshal(data); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// unmarshal decodes data over the preset the document names, so a file that
// only sets `preset: shooter` gets every shooter value.
func (c *Config) unmarshal(data []byte) error {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if head.Preset != "" && head.Preset != c.Preset {
		base, err := Preset(head.Preset)
		if err != nil {
			return err
		}
		*c = *base
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides. The preset
// override replaces the whole config before the others apply.
func (c *Config) applyEnvOverrides() error {
	if name := os.Getenv("BOXARENA_PRESET"); name != "" {
		if err := c.ApplyPreset(name); err != nil {
			return fmt.Errorf("BOXARENA_PRESET: %w", err)
		}
	}
	if s := os.Getenv("BOXARENA_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("BOXARENA_SEED: %w", err)
		}
		c.Seed = seed
	}
	if level := os.Getenv("BOXARENA_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// ApplyPreset replaces the gameplay settings with a preset while keeping
// seed, logging, stats and render settings.
func (c *Config) ApplyPreset(name string) error {
	p, err := Preset(name)
	if err != nil {
		return err
	}
	p.Seed = c.Seed
	p.Logging = c.Logging
	p.Stats = c.Stats
	p.Render = c.Render
	*c = *p
	return nil
}

// Validate checks ranges and colors.
func (c *Config) Validate() error {
	if !IsPreset(c.Preset) {
		return fmt.Errorf("%w: %q (valid: %v)", ErrUnknownPreset, c.Preset, Presets)
	}

	for name, s := range map[string]string{
		"scene.background":  c.Scene.Background,
		"scene.floor_color": c.Scene.FloorColor,
		"boxes.color":       c.Boxes.Color,
		"boxes.hit_color":   c.Boxes.HitColor,
	} {
		if _, err := render.ParseColor(s); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidColor, name, err)
		}
	}

	switch {
	case c.Boxes.Count < 0:
		return fmt.Errorf("%w: boxes.count must be >= 0", ErrInvalidValue)
	case c.Boxes.Size[0] <= 0 || c.Boxes.Size[1] <= 0 || c.Boxes.Size[2] <= 0:
		return fmt.Errorf("%w: boxes.size must be positive", ErrInvalidValue)
	case c.Boxes.Spread < 0:
		return fmt.Errorf("%w: boxes.spread must be >= 0", ErrInvalidValue)
	case c.Scene.FloorSize <= 0:
		return fmt.Errorf("%w: scene.floor_size must be positive", ErrInvalidValue)
	case c.Player.Friction < 0 || c.Player.Acceleration < 0:
		return fmt.Errorf("%w: player friction and acceleration must be >= 0", ErrInvalidValue)
	case c.Player.EyeHeight <= 0:
		return fmt.Errorf("%w: player.eye_height must be positive", ErrInvalidValue)
	case c.Player.Sensitivity <= 0:
		return fmt.Errorf("%w: player.sensitivity must be positive", ErrInvalidValue)
	case c.Player.Radius < 0:
		return fmt.Errorf("%w: player.radius must be >= 0", ErrInvalidValue)
	case c.Weapon.Range < 0:
		return fmt.Errorf("%w: weapon.range must be >= 0", ErrInvalidValue)
	case c.Render.FPS <= 0:
		return fmt.Errorf("%w: render.fps must be positive", ErrInvalidValue)
	case c.Render.FOV <= 0 || c.Render.FOV >= 180:
		return fmt.Errorf("%w: render.fov must be in (0, 180)", ErrInvalidValue)
	case c.Render.Near <= 0 || c.Render.Far <= c.Render.Near:
		return fmt.Errorf("%w: render clip planes need 0 < near < far", ErrInvalidValue)
	}

	switch c.Lighting.Type {
	case "point", "directional", "none", "":
	default:
		return fmt.Errorf("%w: lighting.type %q (valid: point, directional, none)", ErrInvalidValue, c.Lighting.Type)
	}

	for name, s := range map[string]string{
		"player.key_hold":       c.Player.KeyHold,
		"player.key_delay":      c.Player.KeyDelay,
		"weapon.cooldown":       c.Weapon.Cooldown,
		"weapon.flash_duration": c.Weapon.FlashDuration,
	} {
		if s == "" {
			continue
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, name, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, name)
		}
	}

	return nil
}

// GetKeyHold returns the key hold timeout as a duration.
func (c *Config) GetKeyHold() time.Duration {
	return parseDuration(c.Player.KeyHold, 150*time.Millisecond)
}

// GetKeyDelay returns how long a fresh press waits for auto-repeat.
func (c *Config) GetKeyDelay() time.Duration {
	return parseDuration(c.Player.KeyDelay, 500*time.Millisecond)
}

// GetCooldown returns the weapon cooldown as a duration.
func (c *Config) GetCooldown() time.Duration {
	return parseDuration(c.Weapon.Cooldown, 150*time.Millisecond)
}

// GetFlashDuration returns how long the weapon flash lasts.
func (c *Config) GetFlashDuration() time.Duration {
	return parseDuration(c.Weapon.FlashDuration, 100*time.Millisecond)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// BackgroundColor returns the clear and fog color.
func (c *Config) BackgroundColor() render.Color {
	return mustColor(c.Scene.Background)
}

// FloorColor returns the floor color.
func (c *Config) FloorColor() render.Color {
	return mustColor(c.Scene.FloorColor)
}

// BoxColor returns the untouched box color.
func (c *Config) BoxColor() render.Color {
	return mustColor(c.Boxes.Color)
}

// HitColor returns the color a shot box turns.
func (c *Config) HitColor() render.Color {
	return mustColor(c.Boxes.HitColor)
}

// mustColor parses a color already checked by Validate; bad input is black.
func mustColor(s string) render.Color {
	col, err := render.ParseColor(s)
	if err != nil {
		return render.ColorBlack
	}
	return col
}

// BoxSize returns the box dimensions as a vector.
func (c *Config) BoxSize() math3d.Vec3 {
	return math3d.V3(c.Boxes.Size[0], c.Boxes.Size[1], c.Boxes.Size[2])
}

// Fog returns the scene fog.
func (c *Config) Fog() render.Fog {
	return render.Fog{Color: c.BackgroundColor(), Near: c.Scene.FogNear, Far: c.Scene.FogFar}
}

// Light returns the rasterizer lighting.
func (c *Config) Light() render.Lighting {
	l := render.Lighting{
		Ambient:   c.Lighting.Ambient,
		Intensity: c.Lighting.Intensity,
		Distance:  c.Lighting.Distance,
		Position:  math3d.V3(c.Lighting.Position[0], c.Lighting.Position[1], c.Lighting.Position[2]),
		Direction: math3d.V3(c.Lighting.Direction[0], c.Lighting.Direction[1], c.Lighting.Direction[2]),
	}
	switch c.Lighting.Type {
	case "point":
		l.Kind = render.LightPoint
	case "directional":
		l.Kind = render.LightDirectional
	default:
		l.Kind = render.LightNone
	}
	return l
}
