// Package config loads lineage settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/lineage/config.toml (falling back to
// ~/.config/lineage/config.toml). Every key is optional:
//
//	log_level = "info"
//
//	[edit]
//	compact = false
//
//	[render]
//	scale = 40
//	translate_x = 100
//	translate_y = 100
//	node_radius = 10
//	stroke_width = 5
//
//	[server]
//	addr = "127.0.0.1:8080"
//
// Keys missing from the file keep the values from [Default].
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	lerrors "github.com/matzehuels/lineage/pkg/errors"
)

const appName = "lineage"

// Config holds all user-tunable settings.
type Config struct {
	LogLevel string `toml:"log_level"`
	Edit     Edit   `toml:"edit"`
	Render   Render `toml:"render"`
	Server   Server `toml:"server"`
}

// Edit configures structural edits.
type Edit struct {
	// Compact collapses single-child chains after every deletion.
	Compact bool `toml:"compact"`
}

// Render configures the timeline SVG geometry.
type Render struct {
	Scale       float64 `toml:"scale"`
	TranslateX  float64 `toml:"translate_x"`
	TranslateY  float64 `toml:"translate_y"`
	NodeRadius  float64 `toml:"node_radius"`
	StrokeWidth float64 `toml:"stroke_width"`
}

// Server configures `lineage serve`.
type Server struct {
	Addr string `toml:"addr"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "info",
		Render: Render{
			Scale:       40,
			TranslateX:  100,
			TranslateY:  100,
			NodeRadius:  10,
			StrokeWidth: 5,
		},
		Server: Server{Addr: "127.0.0.1:8080"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config file at path on top of [Default].
//
// With an empty path the default location is used, and a missing file there
// is not an error. An explicit path that does not exist fails with
// FILE_NOT_FOUND. Unknown keys fail with INVALID_FORMAT so typos surface.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Config{}, lerrors.Wrap(lerrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Config{}, lerrors.Wrap(lerrors.ErrCodeInternal, err, "read config %s", path)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, lerrors.Wrap(lerrors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML text on top of [Default] and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, lerrors.New(lerrors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if !slices.Contains(logLevels, c.LogLevel) {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "log_level %q: want one of %s", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if c.Render.Scale <= 0 {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "render.scale must be positive, got %v", c.Render.Scale)
	}
	if c.Render.NodeRadius < 0 || c.Render.StrokeWidth < 0 {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "render.node_radius and render.stroke_width must not be negative")
	}
	if c.Server.Addr == "" {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "server.addr must not be empty")
	}
	return nil
}
