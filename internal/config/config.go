package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backends understood by Backend
const (
	BackendExec  = "exec"
	BackendGoGit = "gogit"
)

// Config holds all application configuration
type Config struct {
	Backend  string `yaml:"backend"`   // "exec" (git CLI) or "gogit"
	GitBin   string `yaml:"git_bin"`   // git executable for the exec backend
	LogLevel string `yaml:"log_level"` // debug, info, warn or error
	LogFile  string `yaml:"log_file"`  // empty means the XDG state dir
	LogLimit int    `yaml:"log_limit"` // commits shown in the commit list

	// Last line of a diff that marks a binary file; * matches anything
	BinaryTrailers  []string `yaml:"binary_trailers"`
	ImageExtensions []string `yaml:"image_extensions"`

	WatchDebounce time.Duration `yaml:"watch_debounce"`

	Layout LayoutConfig `yaml:"layout"`
	Colors ColorConfig  `yaml:"colors"`
}

// LayoutConfig holds layout-related settings
type LayoutConfig struct {
	DefaultRatio [2]int `yaml:"default_ratio"` // left:right ratio, e.g. {30, 70}
}

// ColorConfig holds color definitions
type ColorConfig struct {
	Added           string `yaml:"added"`
	Removed         string `yaml:"removed"`
	Context         string `yaml:"context"`
	Header          string `yaml:"header"`
	BorderFocused   string `yaml:"border_focused"`
	BorderUnfocused string `yaml:"border_unfocused"`
	StatusBar       string `yaml:"status_bar"`
}

// Default returns the default configuration
var Default = Config{
	Backend:  BackendExec,
	LogLevel: "info",
	LogLimit: 50,
	BinaryTrailers: []string{
		"Binary files * and * differ",
		"Binary files differ",
	},
	ImageExtensions: []string{".png", ".jpg", ".jpeg", ".gif"},
	WatchDebounce:   300 * time.Millisecond,
	Layout: LayoutConfig{
		DefaultRatio: [2]int{30, 70},
	},
	Colors: ColorConfig{
		Added:           "#a6e3a1",
		Removed:         "#f38ba8",
		Context:         "#cdd6f4",
		Header:          "#89b4fa",
		BorderFocused:   "#89b4fa",
		BorderUnfocused: "#45475a",
		StatusBar:       "#313244",
	},
}

// DefaultPath returns the location of the optional config file
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tinydiff", "config.yaml")
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tinydiff", "config.yaml")
	}
	return ""
}

// Load overlays the YAML file at path onto Default. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default
	cfg.BinaryTrailers = append([]string(nil), Default.BinaryTrailers...)
	cfg.ImageExtensions = append([]string(nil), Default.ImageExtensions...)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values a file or flag may have set
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendExec, BackendGoGit:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.LogLimit < 0 {
		return fmt.Errorf("log_limit must not be negative")
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative")
	}
	if r := c.Layout.DefaultRatio; r[0] <= 0 || r[1] <= 0 {
		return fmt.Errorf("layout.default_ratio must be positive")
	}
	return nil
}
