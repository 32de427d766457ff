package config

import (
	"fmt"
	"slices"
)

// Built-in presets.
const (
	PresetClassic = "classic" // gray fog, tall red pillars, no weapon
	PresetShooter = "shooter" // dark fog, cubes, raycast recolor
	PresetFlash   = "flash"   // shooter plus the muzzle flash overlay
)

// Presets lists the valid preset names.
var Presets = []string{PresetClassic, PresetShooter, PresetFlash}

// Preset returns a fresh config for a named preset.
func Preset(name string) (*Config, error) {
	cfg := &Config{
		Preset: PresetClassic,
		Scene: SceneConfig{
			Background: "#333333",
			FogNear:    0,
			FogFar:     50,
			FloorSize:  100,
			FloorColor: "#222222",
		},
		Boxes: BoxesConfig{
			Count:    20,
			Size:     [3]float64{2, 4, 2},
			Spread:   50,
			Color:    "#880000",
			HitColor: "#00ff00",
		},
		Lighting: LightingConfig{
			Ambient:   0.5,
			Type:      "point",
			Position:  [3]float64{5, 10, 5},
			Direction: [3]float64{-1, -2, -1},
			Intensity: 0.5,
		},
		Player: PlayerConfig{
			EyeHeight:    1.6,
			Acceleration: 100,
			Friction:     10,
			Sensitivity:  0.02,
			KeyHold:      "150ms",
			KeyDelay:     "500ms",
			Radius:       0.4,
		},
		Weapon: WeaponConfig{
			Cooldown:      "150ms",
			FlashDuration: "100ms",
		},
		Render: RenderConfig{
			FPS:  60,
			FOV:  75,
			Near: 0.1,
			Far:  1000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	switch name {
	case PresetClassic, "":
	case PresetShooter, PresetFlash:
		cfg.Preset = name
		cfg.Scene.Background = "#111111"
		cfg.Scene.FogFar = 40
		cfg.Boxes.Count = 30
		cfg.Boxes.Size = [3]float64{2, 2, 2}
		cfg.Lighting.Ambient = 0.4
		cfg.Lighting.Type = "directional"
		cfg.Lighting.Intensity = 0.8
		cfg.Weapon.Enabled = true
		cfg.Weapon.Flash = name == PresetFlash
	default:
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownPreset, name, Presets)
	}

	return cfg, nil
}

// IsPreset reports whether name is a built-in preset.
func IsPreset(name string) bool {
	return slices.Contains(Presets, name)
}
