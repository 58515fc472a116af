package tuning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is a partial tuning file. Fields left out keep the value of the
// tuning it is applied to, so small override files are safe.
type Config struct {
	Speed              *float64 `json:"speed,omitempty"`
	Acceleration       *float64 `json:"acceleration,omitempty"`
	CornerSlowdown     *float64 `json:"corner_slowdown,omitempty"`
	CurveStrength      *float64 `json:"curve_strength,omitempty"`
	CollisionRadius    *float64 `json:"collision_radius,omitempty"`
	DeflectionStrength *float64 `json:"deflection_strength,omitempty"`
	LookAheadTime      *float64 `json:"look_ahead_time,omitempty"`

	// Host loop overrides
	FixedDt     *float64 `json:"fixed_dt,omitempty"`
	MaxSubSteps *int     `json:"max_sub_steps,omitempty"`
}

const maxConfigSize = 1 * 1024 * 1024 // 1MB

// LoadConfig reads a tuning override file
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tuning file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tuning JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	return cfg, nil
}

// Validate rejects host settings that cannot drive a loop. Motion fields are
// never rejected here; they are clamped by Sanitize instead.
func (c *Config) Validate() error {
	if c.FixedDt != nil && (*c.FixedDt <= 0 || *c.FixedDt > 0.1) {
		return fmt.Errorf("fixed_dt must be in (0, 0.1], got %v", *c.FixedDt)
	}
	if c.MaxSubSteps != nil && *c.MaxSubSteps < 1 {
		return fmt.Errorf("max_sub_steps must be at least 1, got %d", *c.MaxSubSteps)
	}
	return nil
}

// Apply overlays the set fields on base and sanitizes the result
func (c *Config) Apply(base MotionTuning) (MotionTuning, []string) {
	if c == nil {
		return base.Sanitize()
	}
	out := base
	overlay(&out.Speed, c.Speed)
	overlay(&out.Acceleration, c.Acceleration)
	overlay(&out.CornerSlowdown, c.CornerSlowdown)
	overlay(&out.CurveStrength, c.CurveStrength)
	overlay(&out.CollisionRadius, c.CollisionRadius)
	overlay(&out.DeflectionStrength, c.DeflectionStrength)
	overlay(&out.LookAheadTime, c.LookAheadTime)
	return out.Sanitize()
}

// ApplyPlayback overlays the host loop settings
func (c *Config) ApplyPlayback(base Playback) Playback {
	if c == nil {
		return base
	}
	if c.FixedDt != nil {
		base.FixedDt = *c.FixedDt
	}
	if c.MaxSubSteps != nil {
		base.MaxSubSteps = *c.MaxSubSteps
	}
	return base
}

func overlay(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
