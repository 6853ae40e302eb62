package stage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
canvas_width: 640
canvas_height: 480
gravity: 900
debug: true
`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CanvasWidth != 640 || cfg.CanvasHeight != 480 {
		t.Errorf("canvas = %vx%v", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.Gravity != 900 || !cfg.Debug {
		t.Errorf("gravity %v debug %v", cfg.Gravity, cfg.Debug)
	}
	def := DefaultConfig()
	if cfg.DragThreshold != def.DragThreshold || cfg.ZoomMax != def.ZoomMax {
		t.Error("unset fields should keep their defaults")
	}
	if c := cfg.Canvas(); c.Width != 640 || c.Height != 480 {
		t.Errorf("Canvas() = %+v", c)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("empty config = %+v, want defaults", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "canvas_width: [", "parse config"},
		{"negative canvas", "canvas_width: -1", "canvas size"},
		{"negative threshold", "drag_threshold: -2", "drag_threshold"},
		{"zero handle", "handle_size: -1", "handle_size"},
		{"scale floor", "min_scale_factor: -0.5", "min_scale_factor"},
		{"inverted zoom", "zoom_min: 4\nzoom_max: 2", "zoom range"},
		{"physics step", "physics_step: -1", "physics_step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	if err := os.WriteFile(path, []byte("zoom_max: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.ZoomMax != 4 {
		t.Errorf("ZoomMax = %v, want 4", cfg.ZoomMax)
	}

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}
