// Package config loads zkx settings: an embedded default file merged with an
// optional user file in YAML or TOML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/zkx/internal/nodedata"
	"github.com/oakwood-commons/zkx/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefault []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Keymaps accepted by ui.keymap.
const (
	KeymapVim   = "vim"
	KeymapEmacs = "emacs"
)

// Config is the merged zkx configuration.
type Config struct {
	Connection Connection `yaml:"connection" toml:"connection"`
	Browser    Browser    `yaml:"browser" toml:"browser"`
	UI         UI         `yaml:"ui" toml:"ui"`
}

type Connection struct {
	Addr    string   `yaml:"addr" toml:"addr"`
	Port    int      `yaml:"port" toml:"port"`
	Timeout Duration `yaml:"timeout" toml:"timeout"`
}

type Browser struct {
	Tabs         int  `yaml:"tabs" toml:"tabs"`
	AutoLoadStat bool `yaml:"auto_load_stat" toml:"auto_load_stat"`
}

type UI struct {
	Keymap           string           `yaml:"keymap" toml:"keymap"`
	Theme            string           `yaml:"theme" toml:"theme"`
	StructuredFormat string           `yaml:"structured_format" toml:"structured_format"`
	NoColor          bool             `yaml:"no_color" toml:"no_color"`
	Themes           map[string]Theme `yaml:"themes" toml:"themes"`
}

// Theme holds lipgloss color strings.
type Theme struct {
	Accent     string `yaml:"accent" toml:"accent"`
	Muted      string `yaml:"muted" toml:"muted"`
	Text       string `yaml:"text" toml:"text"`
	Error      string `yaml:"error" toml:"error"`
	Success    string `yaml:"success" toml:"success"`
	Border     string `yaml:"border" toml:"border"`
	SelectedFg string `yaml:"selected_fg" toml:"selected_fg"`
	SelectedBg string `yaml:"selected_bg" toml:"selected_bg"`
}

// Duration reads and writes as a Go duration string such as "1s".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// DefaultYAML returns a copy of the embedded default file.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefault...)
}

// Default decodes the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(embeddedDefault, &cfg); err != nil {
		return cfg, fmt.Errorf("decode embedded default config: %w", err)
	}
	return cfg, nil
}

// DefaultPath is the user config file looked up when no path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, settings.CliBinaryName, "config.yaml")
}

// Load merges the file at path over the defaults. An empty path loads the
// defaults only. Themes named in the file are completed from the default
// theme of the same name, or from the dark theme.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.merge(path, data); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadDefaultPath loads DefaultPath when it exists and the defaults otherwise.
func LoadDefaultPath() (Config, string, error) {
	path := DefaultPath()
	if path == "" {
		cfg, err := Default()
		return cfg, "", err
	}
	if _, err := os.Stat(path); err != nil {
		cfg, err := Default()
		return cfg, "", err
	}
	cfg, err := Load(path)
	return cfg, path, err
}

func (c *Config) merge(path string, data []byte) error {
	defaults := c.UI.Themes
	c.UI.Themes = nil

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		err = yaml.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	user := c.UI.Themes
	c.UI.Themes = make(map[string]Theme, len(defaults)+len(user))
	for name, th := range defaults {
		c.UI.Themes[name] = th
	}
	for name, th := range user {
		base, ok := defaults[name]
		if !ok {
			base = defaults["dark"]
		}
		c.UI.Themes[name] = th.over(base)
	}
	return nil
}

// over fills unset colors from base.
func (t Theme) over(base Theme) Theme {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return Theme{
		Accent:     pick(t.Accent, base.Accent),
		Muted:      pick(t.Muted, base.Muted),
		Text:       pick(t.Text, base.Text),
		Error:      pick(t.Error, base.Error),
		Success:    pick(t.Success, base.Success),
		Border:     pick(t.Border, base.Border),
		SelectedFg: pick(t.SelectedFg, base.SelectedFg),
		SelectedBg: pick(t.SelectedBg, base.SelectedBg),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Connection.Addr) == "":
		return fmt.Errorf("%w: connection.addr is empty", ErrInvalid)
	case c.Connection.Port < 1 || c.Connection.Port > 65535:
		return fmt.Errorf("%w: connection.port %d out of range", ErrInvalid, c.Connection.Port)
	case c.Connection.Timeout <= 0:
		return fmt.Errorf("%w: connection.timeout must be positive", ErrInvalid)
	case c.Browser.Tabs < 1:
		return fmt.Errorf("%w: browser.tabs must be at least 1", ErrInvalid)
	case c.UI.Keymap != KeymapVim && c.UI.Keymap != KeymapEmacs:
		return fmt.Errorf("%w: ui.keymap %q (want %s or %s)", ErrInvalid, c.UI.Keymap, KeymapVim, KeymapEmacs)
	case string(nodedata.ParseStyle(c.UI.StructuredFormat)) != strings.ToLower(strings.TrimSpace(c.UI.StructuredFormat)):
		return fmt.Errorf("%w: ui.structured_format %q", ErrInvalid, c.UI.StructuredFormat)
	}
	if _, ok := c.UI.Themes[c.UI.Theme]; !ok {
		return fmt.Errorf("%w: ui.theme %q (available: %s)", ErrInvalid, c.UI.Theme, strings.Join(c.ThemeNames(), ", "))
	}
	return nil
}

// ThemeNames lists the configured themes, sorted.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.UI.Themes))
	for name := range c.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActiveTheme returns the selected theme.
func (c Config) ActiveTheme() Theme {
	return c.UI.Themes[c.UI.Theme]
}

// ConnString is the host:port connection input.
func (c Config) ConnString() string {
	return net.JoinHostPort(c.Connection.Addr, strconv.Itoa(c.Connection.Port))
}

// YAML renders the merged configuration.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}
