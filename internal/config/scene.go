// Package config loads the JSON scene description that drives stripcam:
// which map to load, how the camera is built and posed, and the scripted
// trajectory it follows.
//
// Every field is optional. Omitted fields fall back to the defaults
// returned by the Get* accessors, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"

	"github.com/banshee-data/stripcam/internal/camera"
	"github.com/banshee-data/stripcam/internal/fsutil"
	"github.com/banshee-data/stripcam/internal/geometry"
	"github.com/banshee-data/stripcam/internal/world"
)

// maxConfigFileSize caps scene files at 1MB.
const maxConfigFileSize = 1 * 1024 * 1024

// Defaults applied when a field is omitted.
const (
	DefaultFocalLength = 40.0
	DefaultImageWidth  = 81
	DefaultImageHeight = 1
	DefaultSteps       = 36
	DefaultViewScale   = 15
)

// SceneConfig is the root scene configuration.
type SceneConfig struct {
	// Map
	MapPath       *string  `json:"map_path,omitempty"`
	Seed          *uint64  `json:"seed,omitempty"`
	SegmentLength *float64 `json:"segment_length,omitempty"`
	ClosedMap     *bool    `json:"closed_map,omitempty"`

	// Camera
	FocalLength *float64    `json:"focal_length,omitempty"`
	ImageWidth  *int        `json:"image_width,omitempty"`
	ImageHeight *int        `json:"image_height,omitempty"`
	Position    *[2]float64 `json:"position,omitempty"`
	Yaw         *float64    `json:"yaw,omitempty"`
	Visibility  *string     `json:"visibility,omitempty"` // "last_hit" or "nearest_hit"

	// Trajectory
	Trajectory *TrajectoryConfig `json:"trajectory,omitempty"`

	// Output
	ViewScale *int `json:"view_scale,omitempty"`
}

// TrajectoryConfig describes a scripted path: Steps poses, each offset
// from the previous by Step in position and YawStep in yaw.
type TrajectoryConfig struct {
	Steps   *int        `json:"steps,omitempty"`
	Step    *[2]float64 `json:"step,omitempty"`
	YawStep *float64    `json:"yaw_step,omitempty"`
}

// LoadSceneConfig reads, parses and validates a scene file.
func LoadSceneConfig(fsys fsutil.FileSystem, path string) (*SceneConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &SceneConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Relative map paths resolve against the config file's directory.
	if cfg.MapPath != nil && *cfg.MapPath != "" && !filepath.IsAbs(*cfg.MapPath) {
		resolved := filepath.Join(filepath.Dir(cleanPath), *cfg.MapPath)
		cfg.MapPath = &resolved
	}
	return cfg, nil
}

// Validate checks every set field.
func (c *SceneConfig) Validate() error {
	if c.SegmentLength != nil && !(*c.SegmentLength > 0) {
		return fmt.Errorf("segment_length must be positive, got %v", *c.SegmentLength)
	}
	if c.FocalLength != nil && !(*c.FocalLength > 0) {
		return fmt.Errorf("focal_length must be positive, got %v", *c.FocalLength)
	}
	if c.ImageWidth != nil && *c.ImageWidth < 1 {
		return fmt.Errorf("image_width must be at least 1, got %d", *c.ImageWidth)
	}
	if c.ImageHeight != nil && *c.ImageHeight < 1 {
		return fmt.Errorf("image_height must be at least 1, got %d", *c.ImageHeight)
	}
	if c.Yaw != nil && !isFinite(*c.Yaw) {
		return fmt.Errorf("yaw must be finite, got %v", *c.Yaw)
	}
	if c.Visibility != nil {
		if _, err := camera.ParseVisibility(*c.Visibility); err != nil {
			return err
		}
	}
	if c.ViewScale != nil && *c.ViewScale < 1 {
		return fmt.Errorf("view_scale must be at least 1, got %d", *c.ViewScale)
	}
	if t := c.Trajectory; t != nil {
		if t.Steps != nil && *t.Steps < 1 {
			return fmt.Errorf("trajectory.steps must be at least 1, got %d", *t.Steps)
		}
		if t.YawStep != nil && !isFinite(*t.YawStep) {
			return fmt.Errorf("trajectory.yaw_step must be finite, got %v", *t.YawStep)
		}
	}
	return nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// GetMapPath returns map_path or "".
func (c *SceneConfig) GetMapPath() string {
	if c.MapPath == nil {
		return ""
	}
	return *c.MapPath
}

// BuildOptions returns the world build options for this scene.
func (c *SceneConfig) BuildOptions() world.BuildOptions {
	opts := world.DefaultBuildOptions()
	if c.Seed != nil {
		opts.Seed = *c.Seed
	}
	if c.SegmentLength != nil {
		opts.SegmentLength = *c.SegmentLength
	}
	if c.ClosedMap != nil {
		opts.Closed = *c.ClosedMap
	}
	return opts
}

// GetFocalLength returns focal_length or the default.
func (c *SceneConfig) GetFocalLength() float64 {
	if c.FocalLength == nil {
		return DefaultFocalLength
	}
	return *c.FocalLength
}

// GetImageWidth returns image_width or the default.
func (c *SceneConfig) GetImageWidth() int {
	if c.ImageWidth == nil {
		return DefaultImageWidth
	}
	return *c.ImageWidth
}

// GetImageHeight returns image_height or the default strip height of 1.
func (c *SceneConfig) GetImageHeight() int {
	if c.ImageHeight == nil {
		return DefaultImageHeight
	}
	return *c.ImageHeight
}

// GetPosition returns the initial camera position, default origin.
func (c *SceneConfig) GetPosition() geometry.Vec2 {
	if c.Position == nil {
		return geometry.Vec2{}
	}
	return geometry.V(c.Position[0], c.Position[1])
}

// GetYaw returns the initial yaw in radians, default 0.
func (c *SceneConfig) GetYaw() float64 {
	if c.Yaw == nil {
		return 0
	}
	return *c.Yaw
}

// GetVisibility returns the configured visibility policy, default LastHit.
// Validate has already rejected unknown names.
func (c *SceneConfig) GetVisibility() camera.Visibility {
	if c.Visibility == nil {
		return camera.LastHit
	}
	v, err := camera.ParseVisibility(*c.Visibility)
	if err != nil {
		return camera.LastHit
	}
	return v
}

// GetViewScale returns view_scale or the default.
func (c *SceneConfig) GetViewScale() int {
	if c.ViewScale == nil {
		return DefaultViewScale
	}
	return *c.ViewScale
}

// GetSteps returns trajectory.steps or the default.
func (c *SceneConfig) GetSteps() int {
	if c.Trajectory == nil || c.Trajectory.Steps == nil {
		return DefaultSteps
	}
	return *c.Trajectory.Steps
}

// GetStep returns the per-pose position offset, default none.
func (c *SceneConfig) GetStep() geometry.Vec2 {
	if c.Trajectory == nil || c.Trajectory.Step == nil {
		return geometry.Vec2{}
	}
	s := c.Trajectory.Step
	return geometry.V(s[0], s[1])
}

// GetYawStep returns the per-pose yaw offset, default one full turn spread
// over the default step count.
func (c *SceneConfig) GetYawStep() float64 {
	if c.Trajectory == nil || c.Trajectory.YawStep == nil {
		return 2 * math.Pi / DefaultSteps
	}
	return *c.Trajectory.YawStep
}
