package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/vrom/vrom/internal/validate"
)

// Config holds application configuration.
type Config struct {
	Bridge  BridgeConfig
	Markers MarkersConfig
	Scene   SceneConfig
	UI      UIConfig
	Journal JournalConfig
	Log     LogConfig
}

// BridgeConfig is the startup address of the middleware.
type BridgeConfig struct {
	Scheme        string
	Host          string
	Port          int
	DialTimeoutMs int `mapstructure:"dial_timeout_ms"`
}

// MarkersConfig holds the initial marker positions as [x, y, z].
type MarkersConfig struct {
	Cylinders []float64
	Boxes     []float64
	Spheres   []float64
}

// SceneConfig seeds the tracked scene.
type SceneConfig struct {
	Reference string
	Objects   []ObjectConfig
}

type ObjectConfig struct {
	ID          string
	Position    []float64
	Orientation []float64
}

// UIConfig holds presentation settings.
type UIConfig struct {
	TargetFPS int  `mapstructure:"target_fps"`
	ShowDebug bool `mapstructure:"show_debug"`
}

// JournalConfig points at the command journal; an empty path disables it.
type JournalConfig struct {
	Path string
}

// LogConfig points at the log file; an empty path discards logs.
type LogConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix VROM_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("VROM_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "vrom"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("VROM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("bridge.scheme", "ws")
	v.SetDefault("bridge.host", "192.168.2.103")
	v.SetDefault("bridge.port", 9090)
	v.SetDefault("bridge.dial_timeout_ms", 3000)
	v.SetDefault("markers.cylinders", []float64{0, 0, 0.5})
	v.SetDefault("markers.boxes", []float64{0.3, 0, 0.5})
	v.SetDefault("markers.spheres", []float64{-0.3, 0, 0.5})
	v.SetDefault("scene.reference", "cylinder")
	v.SetDefault("scene.objects", []map[string]any{
		{"id": "cylinder", "position": []float64{0, 0, 0.5}, "orientation": []float64{0, 0, 0, 1}},
		{"id": "box", "position": []float64{0.3, 0, 0.5}, "orientation": []float64{0, 0, 0, 1}},
		{"id": "sphere", "position": []float64{-0.3, 0, 0.5}, "orientation": []float64{0, 0, 0, 1}},
	})
	v.SetDefault("ui.target_fps", 60)
	v.SetDefault("ui.show_debug", false)
	v.SetDefault("journal.path", filepath.Join(home, ".local", "share", "vrom", "journal.db"))
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "vrom", "vrom.log"))
}

// Validate checks configuration correctness. It does not mutate cfg.
func Validate(cfg Config) error {
	if cfg.Bridge.Scheme == "" {
		return fmt.Errorf("bridge.scheme is required")
	}
	if !validate.IsValidIPv4(cfg.Bridge.Host) {
		return fmt.Errorf("bridge.host %q is not an IPv4 address", cfg.Bridge.Host)
	}
	if cfg.Bridge.Port < 1 || cfg.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port %d out of range", cfg.Bridge.Port)
	}
	if cfg.Bridge.DialTimeoutMs < 0 {
		return fmt.Errorf("bridge.dial_timeout_ms must not be negative")
	}
	for name, p := range map[string][]float64{
		"cylinders": cfg.Markers.Cylinders,
		"boxes":     cfg.Markers.Boxes,
		"spheres":   cfg.Markers.Spheres,
	} {
		if len(p) != 3 {
			return fmt.Errorf("markers.%s: want [x, y, z], got %d values", name, len(p))
		}
	}
	seen := map[string]bool{}
	for i, o := range cfg.Scene.Objects {
		if o.ID == "" {
			return fmt.Errorf("scene.objects[%d]: id is required", i)
		}
		if seen[o.ID] {
			return fmt.Errorf("scene.objects[%d]: duplicate id %q", i, o.ID)
		}
		seen[o.ID] = true
		if len(o.Position) != 3 {
			return fmt.Errorf("scene.objects[%d] %q: want position [x, y, z]", i, o.ID)
		}
		if len(o.Orientation) != 0 && len(o.Orientation) != 4 {
			return fmt.Errorf("scene.objects[%d] %q: want orientation [x, y, z, w]", i, o.ID)
		}
	}
	if cfg.UI.TargetFPS < 1 || cfg.UI.TargetFPS > 240 {
		return fmt.Errorf("ui.target_fps %d out of range [1,240]", cfg.UI.TargetFPS)
	}
	return nil
}
