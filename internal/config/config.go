package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"anim-exporter/internal/track"
)

// Angle units for exported rotation values.
const (
	UnitDegrees = "degrees"
	UnitRadians = "radians"
)

// Config holds all run settings. One immutable record per run, validated
// once at start; pointer fields distinguish "unset" from an explicit false
// or zero so the default can be true.
type Config struct {
	// Inputs and outputs
	Scene   string   `json:"scene"`
	Output  string   `json:"output"`
	Objects []string `json:"objects"` // empty = all scene objects

	// Frame range
	StartFrame int `json:"start_frame"`
	EndFrame   int `json:"end_frame"`
	Step       int `json:"step"`

	UseWorldSpace bool `json:"use_world_space"`
	Workers       int  `json:"workers"`

	// Rotation channel
	ExportRotation  *bool  `json:"export_rotation"`
	AngleUnit       string `json:"angle_unit"`
	InvertX         bool   `json:"invert_x"`
	InvertY         bool   `json:"invert_y"`
	InvertZ         bool   `json:"invert_z"`
	AxisPermutation string `json:"axis_permutation"`
	ZeroAtStart     bool   `json:"zero_at_start"`
	UseUnwrap       *bool  `json:"use_unwrap"`
	UnwrapMaxShift  *int   `json:"unwrap_max_shift"`

	// Position channel
	ExportPosition      bool    `json:"export_position"`
	PosMultiplier       float64 `json:"pos_multiplier"`
	InvertPosX          bool    `json:"invert_pos_x"`
	InvertPosY          bool    `json:"invert_pos_y"`
	InvertPosZ          bool    `json:"invert_pos_z"`
	PositionPermutation string  `json:"position_permutation"`

	// Scale channel
	ExportScale           bool   `json:"export_scale"`
	NormalizeScaleAtStart bool   `json:"normalize_scale_at_start"`
	ScalePermutation      string `json:"scale_permutation"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene   string
	Output  string
	Start   int
	End     int
	Step    int
	Workers int
}

// Resolve applies CLI overrides and fills empty fields with defaults.
// An inverted frame range is corrected by swapping, not reported as an
// error; step and the unwrap search bound are clamped into their
// contracts (step >= 1, shift in 0–3).
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Start != 0 {
		c.StartFrame = flags.Start
	}
	if flags.End != 0 {
		c.EndFrame = flags.End
	}
	if flags.Step != 0 {
		c.Step = flags.Step
	}
	if flags.Workers != 0 {
		c.Workers = flags.Workers
	}

	if c.Output == "" {
		c.Output = "animation.json"
	}
	if c.StartFrame == 0 && c.EndFrame == 0 {
		c.StartFrame, c.EndFrame = 1, 250
	}
	if c.EndFrame < c.StartFrame {
		c.StartFrame, c.EndFrame = c.EndFrame, c.StartFrame
	}
	if c.Step < 1 {
		c.Step = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	if c.AngleUnit == "" {
		c.AngleUnit = UnitDegrees
	}
	if c.ExportRotation == nil {
		t := true
		c.ExportRotation = &t
	}
	if c.UseUnwrap == nil {
		t := true
		c.UseUnwrap = &t
	}
	if c.UnwrapMaxShift == nil {
		one := 1
		c.UnwrapMaxShift = &one
	}
	if *c.UnwrapMaxShift < 0 {
		*c.UnwrapMaxShift = 0
	}
	if *c.UnwrapMaxShift > 3 {
		*c.UnwrapMaxShift = 3
	}
	if c.PosMultiplier == 0 {
		c.PosMultiplier = 1
	}
}

// TrackOptions validates the channel settings and maps the config onto the
// assembler's options. Call after Resolve.
func (c Config) TrackOptions() (track.Options, error) {
	if c.AngleUnit != UnitDegrees && c.AngleUnit != UnitRadians {
		return track.Options{}, fmt.Errorf("config: invalid angle unit %q", c.AngleUnit)
	}

	rotPerm, err := track.ParsePermutation(c.AxisPermutation)
	if err != nil {
		return track.Options{}, fmt.Errorf("config: rotation: %w", err)
	}
	posPerm, err := track.ParsePermutation(c.PositionPermutation)
	if err != nil {
		return track.Options{}, fmt.Errorf("config: position: %w", err)
	}
	scalePerm, err := track.ParsePermutation(c.ScalePermutation)
	if err != nil {
		return track.Options{}, fmt.Errorf("config: scale: %w", err)
	}

	return track.Options{
		Start:      c.StartFrame,
		End:        c.EndFrame,
		Step:       c.Step,
		WorldSpace: c.UseWorldSpace,
		Workers:    c.Workers,

		Rotation:    *c.ExportRotation,
		Degrees:     c.AngleUnit == UnitDegrees,
		Invert:      [3]bool{c.InvertX, c.InvertY, c.InvertZ},
		Permutation: rotPerm,
		ZeroAtStart: c.ZeroAtStart,
		UseUnwrap:   *c.UseUnwrap,
		MaxShift:    *c.UnwrapMaxShift,

		Position:       c.ExportPosition,
		PosMultiplier:  c.PosMultiplier,
		InvertPos:      [3]bool{c.InvertPosX, c.InvertPosY, c.InvertPosZ},
		PosPermutation: posPerm,

		Scale:            c.ExportScale,
		NormalizeScale:   c.NormalizeScaleAtStart,
		ScalePermutation: scalePerm,
	}, nil
}
