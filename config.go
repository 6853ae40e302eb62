package stage

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables shared by the editor and the play runtime.
// Zero-valued fields loaded from YAML fall back to DefaultConfig values.
type Config struct {
	// CanvasWidth and CanvasHeight are the authored game frame in pixels.
	CanvasWidth  float64 `yaml:"canvas_width"`
	CanvasHeight float64 `yaml:"canvas_height"`

	// DragThreshold is the screen distance a marquee must travel before it
	// stops counting as a click.
	DragThreshold float64 `yaml:"drag_threshold"`

	HandleSize         float64 `yaml:"handle_size"`          // gizmo handle edge, screen px
	RotateHandleOffset float64 `yaml:"rotate_handle_offset"` // screen px above the top edge
	MinScaleFactor     float64 `yaml:"min_scale_factor"`

	ZoomMin        float64 `yaml:"zoom_min"`
	ZoomMax        float64 `yaml:"zoom_max"`
	WheelZoomSpeed float64 `yaml:"wheel_zoom_speed"` // zoom exponent per wheel unit
	WheelPanSpeed  float64 `yaml:"wheel_pan_speed"`

	// AlphaThreshold is the minimum alpha for a pixel to count as opaque
	// when picking. 1 means any non-zero alpha.
	AlphaThreshold uint8 `yaml:"alpha_threshold"`

	PlaceholderSize float64 `yaml:"placeholder_size"`

	Gravity     float64 `yaml:"gravity"`      // render-space px/s², +Y down
	PhysicsStep float64 `yaml:"physics_step"` // seconds per frame step

	FocusDuration float64 `yaml:"focus_duration"` // camera tween seconds

	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:        960,
		CanvasHeight:       720,
		DragThreshold:      4,
		HandleSize:         10,
		RotateHandleOffset: 24,
		MinScaleFactor:     0.1,
		ZoomMin:            0.1,
		ZoomMax:            8,
		WheelZoomSpeed:     0.1,
		WheelPanSpeed:      20,
		AlphaThreshold:     1,
		PlaceholderSize:    64,
		Gravity:            600,
		PhysicsStep:        1.0 / 60,
		FocusDuration:      0.35,
	}
}

// Canvas returns the canvas described by the config.
func (c Config) Canvas() Canvas {
	return Canvas{Width: c.CanvasWidth, Height: c.CanvasHeight}
}

// LoadConfig parses YAML on top of DefaultConfig and validates the result.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return LoadConfig(data)
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.CanvasWidth <= 0 || c.CanvasHeight <= 0:
		return fmt.Errorf("config: canvas size %vx%v must be positive", c.CanvasWidth, c.CanvasHeight)
	case c.DragThreshold < 0:
		return fmt.Errorf("config: drag_threshold %v must not be negative", c.DragThreshold)
	case c.HandleSize <= 0:
		return fmt.Errorf("config: handle_size %v must be positive", c.HandleSize)
	case c.MinScaleFactor <= 0:
		return fmt.Errorf("config: min_scale_factor %v must be positive", c.MinScaleFactor)
	case c.ZoomMin <= 0 || c.ZoomMax < c.ZoomMin:
		return fmt.Errorf("config: zoom range [%v, %v] is invalid", c.ZoomMin, c.ZoomMax)
	case c.PhysicsStep <= 0:
		return fmt.Errorf("config: physics_step %v must be positive", c.PhysicsStep)
	}
	return nil
}
