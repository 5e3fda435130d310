// Package config loads the orrery's tuning from TOML or YAML files and maps it onto the
// engine's functional options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/orrery/engine/animator"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/input"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config is the complete runtime configuration. Fields missing from a file keep their defaults.
type Config struct {
	Engine    EngineConfig    `toml:"engine" yaml:"engine"`
	Camera    CameraConfig    `toml:"camera" yaml:"camera"`
	Animation AnimationConfig `toml:"animation" yaml:"animation"`
	Input     InputConfig     `toml:"input" yaml:"input"`
}

// EngineConfig sizes the window and the frame loop.
type EngineConfig struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`

	// TickRate is the number of frames per second.
	TickRate int `toml:"tick_rate" yaml:"tick_rate"`

	// Renderer names the renderer backend ("null", "log" or "wgpu").
	Renderer string `toml:"renderer" yaml:"renderer"`
	LogEvery uint64 `toml:"log_every" yaml:"log_every"`

	CullingDisabled bool `toml:"culling_disabled" yaml:"culling_disabled"`
	PresentWorkers  int  `toml:"present_workers" yaml:"present_workers"`

	Profile         bool    `toml:"profile" yaml:"profile"`
	ProfileInterval float64 `toml:"profile_interval" yaml:"profile_interval"`
}

// CameraConfig holds the camera defaults, feel and bounds. Angles are in degrees.
type CameraConfig struct {
	Fov      float32    `toml:"fov" yaml:"fov"`
	Distance float32    `toml:"distance" yaml:"distance"`
	Target   [3]float32 `toml:"target" yaml:"target"`
	Near     float32    `toml:"near" yaml:"near"`
	Far      float32    `toml:"far" yaml:"far"`
	Step     float32    `toml:"step" yaml:"step"`
	Moving   bool       `toml:"moving" yaml:"moving"`

	DrainRate   float32 `toml:"drain_rate" yaml:"drain_rate"`
	Epsilon     float32 `toml:"epsilon" yaml:"epsilon"`
	WheelFactor float32 `toml:"wheel_factor" yaml:"wheel_factor"`
	DragScale   float32 `toml:"drag_scale" yaml:"drag_scale"`
	AngleStep   float32 `toml:"angle_step" yaml:"angle_step"`

	FovMin           float32 `toml:"fov_min" yaml:"fov_min"`
	FovMax           float32 `toml:"fov_max" yaml:"fov_max"`
	DistanceMin      float32 `toml:"distance_min" yaml:"distance_min"`
	DistanceMax      float32 `toml:"distance_max" yaml:"distance_max"`
	ZoomPrecision    float32 `toml:"zoom_precision" yaml:"zoom_precision"`
	TargetMin        float32 `toml:"target_min" yaml:"target_min"`
	TargetMax        float32 `toml:"target_max" yaml:"target_max"`
	FreePitchMin     float32 `toml:"free_pitch_min" yaml:"free_pitch_min"`
	FreePitchMax     float32 `toml:"free_pitch_max" yaml:"free_pitch_max"`
	AnchoredPitchMin float32 `toml:"anchored_pitch_min" yaml:"anchored_pitch_min"`
	AnchoredPitchMax float32 `toml:"anchored_pitch_max" yaml:"anchored_pitch_max"`
}

// AnimationConfig holds the animator's rates and the sun's shine cycle.
type AnimationConfig struct {
	Enabled         bool    `toml:"enabled" yaml:"enabled"`
	SpeedMultiplier float32 `toml:"speed_multiplier" yaml:"speed_multiplier"`
	BaseRevolution  float32 `toml:"base_revolution" yaml:"base_revolution"`
	BaseRotation    float32 `toml:"base_rotation" yaml:"base_rotation"`
	ShineMin        float32 `toml:"shine_min" yaml:"shine_min"`
	ShineMax        float32 `toml:"shine_max" yaml:"shine_max"`
	ShineStep       float32 `toml:"shine_step" yaml:"shine_step"`
}

// InputConfig rebinds keys. Keys are names accepted by input.ParseKey, values are action
// names accepted by input.ParseAction; "none" unbinds a key. Unlisted keys keep their default.
type InputConfig struct {
	Keys map[string]string `toml:"bindings" yaml:"bindings"`
}

// Default returns the stock configuration.
func Default() *Config {
	t := camera.DefaultTuning()
	return &Config{
		Engine: EngineConfig{
			Title:           "orrery",
			Width:           1280,
			Height:          720,
			TickRate:        60,
			Renderer:        renderer.BackendTypeLog.String(),
			LogEvery:        60,
			PresentWorkers:  2,
			ProfileInterval: 1,
		},
		Camera: CameraConfig{
			Fov:              camera.DefaultFov,
			Distance:         camera.DefaultDistance,
			Near:             camera.DefaultNear,
			Far:              camera.DefaultFar,
			Step:             camera.DefaultStep,
			Moving:           true,
			DrainRate:        t.DrainRate,
			Epsilon:          t.Epsilon,
			WheelFactor:      t.WheelFactor,
			DragScale:        t.DragScale,
			AngleStep:        t.AngleStep,
			FovMin:           t.Limits.FovMin,
			FovMax:           t.Limits.FovMax,
			DistanceMin:      t.Limits.DistanceMin,
			DistanceMax:      t.Limits.DistanceMax,
			ZoomPrecision:    t.Limits.ZoomPrecision,
			TargetMin:        t.Limits.TargetMin,
			TargetMax:        t.Limits.TargetMax,
			FreePitchMin:     t.Limits.FreePitchMin,
			FreePitchMax:     t.Limits.FreePitchMax,
			AnchoredPitchMin: t.Limits.AnchoredPitchMin,
			AnchoredPitchMax: t.Limits.AnchoredPitchMax,
		},
		Animation: AnimationConfig{
			Enabled:         true,
			SpeedMultiplier: 1,
			BaseRevolution:  animator.DefaultBaseRevolution,
			BaseRotation:    animator.DefaultBaseRotation,
			ShineMin:        animator.DefaultShineMin,
			ShineMax:        animator.DefaultShineMax,
			ShineStep:       animator.DefaultShineStep,
		},
	}
}

// Load reads a TOML (.toml) or YAML (.yaml, .yml) file over the defaults and validates it.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - *Config: the loaded configuration, nil if the file cannot be read or decoded
//   - error: the read or decode error, or the naming errors Validate reported alongside a usable config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config bytes over the defaults. ext selects the format and may be given with
// or without the leading dot.
//
// Parameters:
//   - data: the encoded config
//   - ext: "toml", "yaml" or "yml"
//
// A config whose only faults are unknown names is still returned, repaired, together with the
// naming errors; the valid entries apply.
//
// Returns:
//   - *Config: the decoded configuration, nil if decoding fails
//   - error: the decode error, or the naming errors reported by Validate
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return cfg, cfg.Validate()
}

// Validate repairs out-of-range numbers in place, falling back to the defaults, and reports
// unknown renderer, key and action names.
//
// Returns:
//   - error: the joined naming errors, or nil
func (c *Config) Validate() error {
	d := Default()

	e := &c.Engine
	if e.Width <= 0 || e.Height <= 0 {
		e.Width, e.Height = d.Engine.Width, d.Engine.Height
	}
	if e.TickRate <= 0 {
		e.TickRate = d.Engine.TickRate
	}
	if e.LogEvery == 0 {
		e.LogEvery = d.Engine.LogEvery
	}
	if e.PresentWorkers < 1 {
		e.PresentWorkers = 1
	}
	if e.ProfileInterval <= 0 {
		e.ProfileInterval = d.Engine.ProfileInterval
	}

	cam := &c.Camera
	if cam.Near <= 0 || cam.Far <= cam.Near {
		cam.Near, cam.Far = d.Camera.Near, d.Camera.Far
	}
	if cam.Step < camera.MinStep {
		cam.Step = camera.MinStep
	}
	if cam.WheelFactor <= 0 {
		cam.WheelFactor = d.Camera.WheelFactor
	}
	if cam.DragScale <= 0 {
		cam.DragScale = d.Camera.DragScale
	}
	if cam.AngleStep <= 0 {
		cam.AngleStep = d.Camera.AngleStep
	}
	// The remaining bounds are repaired by the controller; mirror its result here so the
	// config reads back what is in effect.
	t := c.Tuning()
	cam.DrainRate, cam.Epsilon = t.DrainRate, t.Epsilon
	cam.FovMin, cam.FovMax = t.Limits.FovMin, t.Limits.FovMax
	cam.DistanceMin, cam.DistanceMax = t.Limits.DistanceMin, t.Limits.DistanceMax
	cam.ZoomPrecision = t.Limits.ZoomPrecision
	cam.TargetMin, cam.TargetMax = t.Limits.TargetMin, t.Limits.TargetMax
	cam.FreePitchMin, cam.FreePitchMax = t.Limits.FreePitchMin, t.Limits.FreePitchMax
	cam.AnchoredPitchMin, cam.AnchoredPitchMax = t.Limits.AnchoredPitchMin, t.Limits.AnchoredPitchMax
	cam.Fov = min(max(cam.Fov, cam.FovMin), cam.FovMax)
	cam.Distance = min(max(cam.Distance, cam.DistanceMin), cam.DistanceMax)

	a := &c.Animation
	if a.SpeedMultiplier < 0 {
		a.SpeedMultiplier = 0
	}
	if a.ShineMax <= a.ShineMin {
		a.ShineMin, a.ShineMax = d.Animation.ShineMin, d.Animation.ShineMax
	}
	if a.ShineStep <= 0 {
		a.ShineStep = d.Animation.ShineStep
	}

	var errs []error
	if _, err := renderer.ParseBackendType(e.Renderer); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Input.Bindings(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Tuning returns the camera controller tuning described by the config.
func (c *Config) Tuning() camera.Tuning {
	cam := c.Camera
	return camera.Tuning{
		DrainRate:   cam.DrainRate,
		Epsilon:     cam.Epsilon,
		WheelFactor: cam.WheelFactor,
		DragScale:   cam.DragScale,
		AngleStep:   cam.AngleStep,
		Limits: camera.Limits{
			FovMin:           cam.FovMin,
			FovMax:           cam.FovMax,
			DistanceMin:      cam.DistanceMin,
			DistanceMax:      cam.DistanceMax,
			ZoomPrecision:    cam.ZoomPrecision,
			TargetMin:        cam.TargetMin,
			TargetMax:        cam.TargetMax,
			FreePitchMin:     cam.FreePitchMin,
			FreePitchMax:     cam.FreePitchMax,
			AnchoredPitchMin: cam.AnchoredPitchMin,
			AnchoredPitchMax: cam.AnchoredPitchMax,
		},
	}.Normalized()
}

// CameraOptions returns the controller options described by the config.
func (c *Config) CameraOptions() []camera.CameraControllerOption {
	cam := c.Camera
	return []camera.CameraControllerOption{
		camera.WithTuning(c.Tuning()),
		camera.WithDefaultFov(cam.Fov),
		camera.WithDefaultDistance(cam.Distance),
		camera.WithDefaultTarget(cam.Target[0], cam.Target[1], cam.Target[2]),
		camera.WithClipPlanes(cam.Near, cam.Far),
		camera.WithStep(cam.Step),
		camera.WithMoving(cam.Moving),
	}
}

// AnimatorOptions returns the animator options described by the config.
func (c *Config) AnimatorOptions() []animator.AnimatorBuilderOption {
	a := c.Animation
	shine := animator.NewShine(a.ShineMin, a.ShineMax, a.ShineStep, (a.ShineMin+a.ShineMax)/2)
	return []animator.AnimatorBuilderOption{
		animator.WithEnabled(a.Enabled),
		animator.WithSpeedMultiplier(a.SpeedMultiplier),
		animator.WithBaseRates(a.BaseRevolution, a.BaseRotation),
		animator.WithShine(shine),
	}
}

// RendererOptions returns the renderer backend and options described by the config.
func (c *Config) RendererOptions() (renderer.RendererBackendType, []renderer.RendererBuilderOption) {
	bt, _ := renderer.ParseBackendType(c.Engine.Renderer)
	return bt, []renderer.RendererBuilderOption{
		renderer.WithLogEvery(c.Engine.LogEvery),
		renderer.WithSize(c.Engine.Width, c.Engine.Height),
	}
}

// Bindings returns the default key map with the configured overrides applied.
//
// Returns:
//   - input.Bindings: the effective key map
//   - error: the joined errors for unknown key or action names; valid entries still apply
func (ic InputConfig) Bindings() (input.Bindings, error) {
	b := input.DefaultBindings()
	var errs []error
	for keyName, actionName := range ic.Keys {
		code, ok := input.ParseKey(keyName)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown key %q", keyName))
			continue
		}
		action, ok := input.ParseAction(actionName)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown action %q for key %q", actionName, keyName))
			continue
		}
		if action == input.ActionNone {
			delete(b, code)
			continue
		}
		b[code] = action
	}
	return b, errors.Join(errs...)
}
