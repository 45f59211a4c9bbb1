// Package config loads the game configuration from defaults, a YAML file,
// stored settings and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. PINCH_GAME_DURATION.
const EnvPrefix = "PINCH_"

// ErrUnknownKey is returned by Set for a key that is not a configuration field.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds every tunable of the game and its host loop.
type Config struct {
	// Game rules
	GameDuration       time.Duration `yaml:"game_duration"`
	CountdownDuration  time.Duration `yaml:"countdown_duration"`
	PinchThreshold     float64       `yaml:"pinch_threshold"`
	VelocityMagnitudes []int         `yaml:"velocity_magnitudes"`
	SpawnMargin        int           `yaml:"spawn_margin"`

	// Drawing
	TargetRadius    int    `yaml:"target_radius"`
	AnimationFrames int    `yaml:"animation_frames"`
	AnimationStep   int    `yaml:"animation_step"`
	WindowTitle     string `yaml:"window_title"`
	Mirror          bool   `yaml:"mirror"`

	// Devices and loop
	CameraID     int `yaml:"camera_id"`
	CameraWidth  int `yaml:"camera_width"`
	CameraHeight int `yaml:"camera_height"`
	CameraFPS    int `yaml:"camera_fps"`
	MaxHands     int `yaml:"max_hands"`
	QuitKey      int `yaml:"quit_key"`
	FrameDelayMs int `yaml:"frame_delay_ms"`

	// Extras
	Sound    bool   `yaml:"sound"`
	HTTPAddr string `yaml:"http_addr"`
	Tray     bool   `yaml:"tray"`

	// PluginDir holds event hook plugins. Empty means ~/.pinchmaster/plugins.
	PluginDir string `yaml:"plugin_dir"`
}

// Default returns the standard game: 30 seconds, 3 second countdown, 45px pinch.
func Default() *Config {
	return &Config{
		GameDuration:       30 * time.Second,
		CountdownDuration:  3 * time.Second,
		PinchThreshold:     45,
		VelocityMagnitudes: []int{15, 17, 20},
		SpawnMargin:        50,
		TargetRadius:       30,
		AnimationFrames:    10,
		AnimationStep:      5,
		WindowTitle:        "Pinch Master",
		Mirror:             true,
		CameraID:           0,
		CameraWidth:        640,
		CameraHeight:       480,
		CameraFPS:          30,
		MaxHands:           1,
		QuitKey:            27, // ESC
		FrameDelayMs:       1,
		Sound:              true,
		HTTPAddr:           "",
		Tray:               false,
		PluginDir:          "",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks that every value can run a game.
func (c *Config) Validate() error {
	if c.GameDuration <= 0 {
		return fmt.Errorf("game_duration must be positive, got %s", c.GameDuration)
	}
	if c.CountdownDuration <= 0 {
		return fmt.Errorf("countdown_duration must be positive, got %s", c.CountdownDuration)
	}
	if c.PinchThreshold <= 0 {
		return fmt.Errorf("pinch_threshold must be positive, got %g", c.PinchThreshold)
	}
	if len(c.VelocityMagnitudes) == 0 {
		return errors.New("velocity_magnitudes must not be empty")
	}
	for _, m := range c.VelocityMagnitudes {
		if m <= 0 {
			return fmt.Errorf("velocity_magnitudes must be positive, got %d", m)
		}
	}
	if c.SpawnMargin <= 0 {
		return fmt.Errorf("spawn_margin must be positive, got %d", c.SpawnMargin)
	}
	if c.TargetRadius <= 0 {
		return fmt.Errorf("target_radius must be positive, got %d", c.TargetRadius)
	}
	if c.AnimationFrames <= 0 || c.AnimationStep <= 0 {
		return fmt.Errorf("animation_frames and animation_step must be positive, got %d and %d",
			c.AnimationFrames, c.AnimationStep)
	}
	if c.CameraWidth < 0 || c.CameraHeight < 0 || c.CameraFPS < 0 {
		return fmt.Errorf("camera_width, camera_height and camera_fps must not be negative, got %d, %d and %d",
			c.CameraWidth, c.CameraHeight, c.CameraFPS)
	}
	if c.MaxHands < 1 {
		return fmt.Errorf("max_hands must be at least 1, got %d", c.MaxHands)
	}
	if c.QuitKey < 0 || c.QuitKey > 255 {
		return fmt.Errorf("quit_key must be a key code in 0..255, got %d", c.QuitKey)
	}
	if c.FrameDelayMs < 1 {
		return fmt.Errorf("frame_delay_ms must be at least 1, got %d", c.FrameDelayMs)
	}
	return nil
}

// Keys returns every key accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses value into the field named key (its yaml name).
// Durations accept Go syntax ("45s") or a plain number of seconds.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := set(c, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// Apply sets every key in values. Stored settings come through here.
func (c *Config) Apply(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := c.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

var setters = map[string]func(*Config, string) error{
	"game_duration":      durationField(func(c *Config) *time.Duration { return &c.GameDuration }),
	"countdown_duration": durationField(func(c *Config) *time.Duration { return &c.CountdownDuration }),
	"pinch_threshold": func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.PinchThreshold = f
		return nil
	},
	"velocity_magnitudes": func(c *Config, v string) error {
		var mags []int
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil {
				return err
			}
			mags = append(mags, n)
		}
		c.VelocityMagnitudes = mags
		return nil
	},
	"spawn_margin":     intField(func(c *Config) *int { return &c.SpawnMargin }),
	"target_radius":    intField(func(c *Config) *int { return &c.TargetRadius }),
	"animation_frames": intField(func(c *Config) *int { return &c.AnimationFrames }),
	"animation_step":   intField(func(c *Config) *int { return &c.AnimationStep }),
	"window_title": func(c *Config, v string) error {
		c.WindowTitle = v
		return nil
	},
	"mirror":         boolField(func(c *Config) *bool { return &c.Mirror }),
	"camera_id":      intField(func(c *Config) *int { return &c.CameraID }),
	"camera_width":   intField(func(c *Config) *int { return &c.CameraWidth }),
	"camera_height":  intField(func(c *Config) *int { return &c.CameraHeight }),
	"camera_fps":     intField(func(c *Config) *int { return &c.CameraFPS }),
	"max_hands":      intField(func(c *Config) *int { return &c.MaxHands }),
	"quit_key":       intField(func(c *Config) *int { return &c.QuitKey }),
	"frame_delay_ms": intField(func(c *Config) *int { return &c.FrameDelayMs }),
	"sound":          boolField(func(c *Config) *bool { return &c.Sound }),
	"http_addr": func(c *Config, v string) error {
		c.HTTPAddr = v
		return nil
	},
	"tray": boolField(func(c *Config) *bool { return &c.Tray }),
	"plugin_dir": func(c *Config, v string) error {
		c.PluginDir = v
		return nil
	},
}

func intField(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolField(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func durationField(field func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			*field(c) = time.Duration(secs * float64(time.Second))
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}
