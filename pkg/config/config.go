package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// UserNamePlaceholder is replaced with the OS user name in APIURL.
const UserNamePlaceholder = "{USERNAME}"

// Defaults for the lenient settings.
const (
	DefaultDelayMinutes      = 60
	DefaultUserActiveSeconds = 60
	DefaultFontSizeForm      = 14
	DefaultTickInterval      = 60 * time.Second
)

// Config holds all configuration for remind-agent
type Config struct {
	// Endpoint template, must contain UserNamePlaceholder to be per-user
	APIURL      string        `yaml:"api_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Lenient settings: absent, unparsable or non-positive values fall back to defaults
	DelayMinutes      int `yaml:"-"`
	UserActiveSeconds int `yaml:"-"`
	FontSizeForm      int `yaml:"-"`

	TickInterval time.Duration    `yaml:"tick_interval"`
	ManualShow   ManualShowConfig `yaml:"manual_show"`
	AppName      string           `yaml:"app_name"`
	Log          LogConfig        `yaml:"log"`

	warnings []string
}

// ManualShowConfig throttles the tray's "show now" trigger.
type ManualShowConfig struct {
	Burst int           `yaml:"burst"`
	Per   time.Duration `yaml:"per"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DelayMinutes:      DefaultDelayMinutes,
		UserActiveSeconds: DefaultUserActiveSeconds,
		FontSizeForm:      DefaultFontSizeForm,
		TickInterval:      DefaultTickInterval,
		ManualShow: ManualShowConfig{
			Burst: 1,
			Per:   10 * time.Second,
		},
		AppName: "Reminder",
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SnoozeDuration is how long notifications stay suppressed after a snooze.
func (c *Config) SnoozeDuration() time.Duration {
	return time.Duration(c.DelayMinutes) * time.Minute
}

// ActiveThreshold is the maximum input idle time for the user to count as active.
func (c *Config) ActiveThreshold() time.Duration {
	return time.Duration(c.UserActiveSeconds) * time.Second
}

// Warnings lists the settings that were replaced by their defaults while loading.
func (c *Config) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

// lenientInt captures a raw scalar so a bad value can fall back to a default
// instead of failing the whole document.
type lenientInt struct {
	raw string
	set bool
}

func (l *lenientInt) UnmarshalYAML(node *yaml.Node) error {
	l.raw = node.Value
	l.set = true
	return nil
}

// UnmarshalYAML decodes the strict fields normally and the lenient ones by hand.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	type plain Config
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}

	var raw struct {
		DelayMinutes      lenientInt `yaml:"delay_all_notifications_minutes"`
		UserActiveSeconds lenientInt `yaml:"user_active_interval_seconds"`
		FontSizeForm      lenientInt `yaml:"font_size_form"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.DelayMinutes.set {
		c.setLenient("delay_all_notifications_minutes", raw.DelayMinutes.raw, &c.DelayMinutes, DefaultDelayMinutes)
	}
	if raw.UserActiveSeconds.set {
		c.setLenient("user_active_interval_seconds", raw.UserActiveSeconds.raw, &c.UserActiveSeconds, DefaultUserActiveSeconds)
	}
	if raw.FontSizeForm.set {
		c.setLenient("font_size_form", raw.FontSizeForm.raw, &c.FontSizeForm, DefaultFontSizeForm)
	}
	return nil
}

func (c *Config) setLenient(name, raw string, dst *int, def int) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		c.warnings = append(c.warnings, fmt.Sprintf("invalid %s %q, using default %d", name, raw, def))
		*dst = def
		return
	}
	*dst = v
}

// Load loads configuration from file and environment.
// An empty path selects the default location.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = Path()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Path returns the config file path
func Path() string {
	if path := os.Getenv("REMIND_CONFIG"); path != "" {
		return path
	}
	if xdg.ConfigHome == "" {
		return ""
	}
	return filepath.Join(xdg.ConfigHome, "remind-agent", "config.yaml")
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (flag, env var or XDG location)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if url := os.Getenv("REMIND_API_URL"); url != "" {
		cfg.APIURL = url
	}

	if v, ok := os.LookupEnv("REMIND_DELAY_MINUTES"); ok {
		cfg.setLenient("REMIND_DELAY_MINUTES", v, &cfg.DelayMinutes, DefaultDelayMinutes)
	}
	if v, ok := os.LookupEnv("REMIND_USER_ACTIVE_SECONDS"); ok {
		cfg.setLenient("REMIND_USER_ACTIVE_SECONDS", v, &cfg.UserActiveSeconds, DefaultUserActiveSeconds)
	}
	if v, ok := os.LookupEnv("REMIND_FONT_SIZE"); ok {
		cfg.setLenient("REMIND_FONT_SIZE", v, &cfg.FontSizeForm, DefaultFontSizeForm)
	}

	if interval := os.Getenv("REMIND_TICK_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid REMIND_TICK_INTERVAL: %w", err)
		}
		cfg.TickInterval = d
	}

	if timeout := os.Getenv("REMIND_HTTP_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid REMIND_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	if level := os.Getenv("REMIND_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.APIURL) == "" {
		return fmt.Errorf("api_url is required")
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive")
	}
	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must be non-negative")
	}
	if cfg.ManualShow.Burst < 0 {
		return fmt.Errorf("manual_show.burst must be non-negative")
	}
	if cfg.ManualShow.Per < 0 {
		return fmt.Errorf("manual_show.per must be non-negative")
	}
	return nil
}
