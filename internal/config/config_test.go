package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.GameDuration != 30*time.Second {
		t.Errorf("GameDuration = %v, want 30s", cfg.GameDuration)
	}
	if cfg.CountdownDuration != 3*time.Second {
		t.Errorf("CountdownDuration = %v, want 3s", cfg.CountdownDuration)
	}
	if cfg.PinchThreshold != 45 {
		t.Errorf("PinchThreshold = %v, want 45", cfg.PinchThreshold)
	}
	if !reflect.DeepEqual(cfg.VelocityMagnitudes, []int{15, 17, 20}) {
		t.Errorf("VelocityMagnitudes = %v", cfg.VelocityMagnitudes)
	}
	if cfg.QuitKey != 27 {
		t.Errorf("QuitKey = %d, want 27", cfg.QuitKey)
	}
	if cfg.CameraWidth != 640 || cfg.CameraHeight != 480 || cfg.CameraFPS != 30 {
		t.Errorf("camera mode = %dx%d@%d, want 640x480@30", cfg.CameraWidth, cfg.CameraHeight, cfg.CameraFPS)
	}
	if cfg.WindowTitle != "Pinch Master" {
		t.Errorf("WindowTitle = %q", cfg.WindowTitle)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pinchmaster.yaml")
	content := `
game_duration: 45s
pinch_threshold: 60
velocity_magnitudes: [5, 10]
mirror: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GameDuration != 45*time.Second {
		t.Errorf("GameDuration = %v, want 45s", cfg.GameDuration)
	}
	if cfg.PinchThreshold != 60 {
		t.Errorf("PinchThreshold = %v, want 60", cfg.PinchThreshold)
	}
	if !reflect.DeepEqual(cfg.VelocityMagnitudes, []int{5, 10}) {
		t.Errorf("VelocityMagnitudes = %v", cfg.VelocityMagnitudes)
	}
	if cfg.Mirror {
		t.Error("Mirror should be false")
	}
	// untouched keys keep defaults
	if cfg.CountdownDuration != 3*time.Second {
		t.Errorf("CountdownDuration = %v, want default 3s", cfg.CountdownDuration)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "game_duration: [oops"},
		{"bad duration", "game_duration: soon"},
		{"invalid value", "pinch_threshold: -1"},
		{"empty magnitudes", "velocity_magnitudes: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() should fail")
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero game duration", func(c *Config) { c.GameDuration = 0 }},
		{"negative countdown", func(c *Config) { c.CountdownDuration = -time.Second }},
		{"zero threshold", func(c *Config) { c.PinchThreshold = 0 }},
		{"zero magnitude", func(c *Config) { c.VelocityMagnitudes = []int{15, 0} }},
		{"negative margin", func(c *Config) { c.SpawnMargin = -1 }},
		{"zero radius", func(c *Config) { c.TargetRadius = 0 }},
		{"zero frames", func(c *Config) { c.AnimationFrames = 0 }},
		{"zero hands", func(c *Config) { c.MaxHands = 0 }},
		{"quit key out of range", func(c *Config) { c.QuitKey = 300 }},
		{"zero frame delay", func(c *Config) { c.FrameDelayMs = 0 }},
		{"negative camera fps", func(c *Config) { c.CameraFPS = -1 }},
		{"negative camera width", func(c *Config) { c.CameraWidth = -640 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(*Config) bool
	}{
		{"game_duration", "45s", func(c *Config) bool { return c.GameDuration == 45*time.Second }},
		{"game_duration", "60", func(c *Config) bool { return c.GameDuration == time.Minute }},
		{"countdown_duration", "1.5", func(c *Config) bool { return c.CountdownDuration == 1500*time.Millisecond }},
		{"pinch_threshold", "50.5", func(c *Config) bool { return c.PinchThreshold == 50.5 }},
		{"velocity_magnitudes", "3, 4,5", func(c *Config) bool { return reflect.DeepEqual(c.VelocityMagnitudes, []int{3, 4, 5}) }},
		{"camera_id", "2", func(c *Config) bool { return c.CameraID == 2 }},
		{"camera_fps", "60", func(c *Config) bool { return c.CameraFPS == 60 }},
		{"camera_width", "1280", func(c *Config) bool { return c.CameraWidth == 1280 }},
		{"camera_height", "720", func(c *Config) bool { return c.CameraHeight == 720 }},
		{"mirror", "false", func(c *Config) bool { return !c.Mirror }},
		{"window_title", "Pinch!", func(c *Config) bool { return c.WindowTitle == "Pinch!" }},
		{"http_addr", "127.0.0.1:8080", func(c *Config) bool { return c.HTTPAddr == "127.0.0.1:8080" }},
		{"plugin_dir", "/opt/pinch/plugins", func(c *Config) bool { return c.PluginDir == "/opt/pinch/plugins" }},
		{"tray", "true", func(c *Config) bool { return c.Tray }},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Default()
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("Set(%q, %q) did not apply", tt.key, tt.value)
			}
		})
	}
}

func TestSetErrors(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("difficulty", "hard"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set(unknown) error = %v, want ErrUnknownKey", err)
	}
	if err := cfg.Set("camera_id", "front"); err == nil {
		t.Error("Set(camera_id, front) should fail")
	}
	if err := cfg.Set("mirror", "sometimes"); err == nil {
		t.Error("Set(mirror, sometimes) should fail")
	}
	if err := cfg.Set("game_duration", "soon"); err == nil {
		t.Error("Set(game_duration, soon) should fail")
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	err := cfg.Apply(map[string]string{
		"game_duration": "20s",
		"sound":         "false",
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if cfg.GameDuration != 20*time.Second || cfg.Sound {
		t.Errorf("Apply() = %+v", cfg)
	}

	if err := cfg.Apply(map[string]string{"nope": "1"}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Apply(unknown) error = %v, want ErrUnknownKey", err)
	}
}

func TestKeys(t *testing.T) {
	keys := Keys()
	if len(keys) != 21 {
		t.Errorf("len(Keys()) = %d, want 21", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Errorf("Keys() not sorted at %d: %q >= %q", i, keys[i-1], keys[i])
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.GameDuration = 42 * time.Second

	data, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	if !strings.Contains(string(data), "game_duration: 42s") {
		t.Errorf("YAML() = %s, want game_duration: 42s", data)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("Load(YAML()) = %+v, want %+v", loaded, cfg)
	}
}
