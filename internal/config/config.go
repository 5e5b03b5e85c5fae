package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"tablesearch/internal/csrf"
	"tablesearch/internal/eventbus"
	"tablesearch/internal/suggest"
)

// FileName is the config file name inside the config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Version    int            `toml:"version"`
	Search     SearchSettings `toml:"search"`
	Auth       AuthSettings   `toml:"auth"`
	Form       FormSettings   `toml:"form"`
	UISettings UISettings     `toml:"ui"`
	LogFile    string         `toml:"log_file"`
}

// SearchSettings describes the suggestion endpoint
type SearchSettings struct {
	URL        string `toml:"url"`
	ObjectType string `toml:"object_type"`
	Archived   bool   `toml:"archived"`
	DebounceMS int    `toml:"debounce_ms"`
	TimeoutMS  int    `toml:"timeout_ms"` // 0 leaves the transport default
}

// AuthSettings describes where the CSRF token comes from.
// An explicit token wins over the cookie.
type AuthSettings struct {
	CSRFToken  string            `toml:"csrf_token,omitempty"`
	CSRFCookie string            `toml:"csrf_cookie"`
	Cookies    map[string]string `toml:"cookies,omitempty"` // seeded into the cookie jar for the search host
}

// FormSettings describes the search form
type FormSettings struct {
	Action string `toml:"action"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Placeholder    string `toml:"placeholder"`
	MaxSuggestions int    `toml:"max_suggestions"` // rows rendered; 0 renders all
	Mouse          bool   `toml:"mouse"`
}

// Debounce returns the debounce delay
func (c *Config) Debounce() time.Duration {
	if c.Search.DebounceMS <= 0 {
		return suggest.DefaultDelay
	}
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// Timeout returns the request timeout, 0 when unset
func (c *Config) Timeout() time.Duration {
	if c.Search.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.Search.TimeoutMS) * time.Millisecond
}

// Suggest returns the controller configuration
func (c *Config) Suggest() suggest.Config {
	return suggest.Config{
		URL:        c.Search.URL,
		ObjectType: c.Search.ObjectType,
		Archived:   c.Search.Archived,
	}
}

// HasForm reports whether selections are posted to a list view.
// Without a form action the selected query is printed instead.
func (c *Config) HasForm() bool {
	return strings.TrimSpace(c.Form.Action) != ""
}

// Validate checks that the configuration can drive the widget
func (c *Config) Validate() error {
	if err := c.Suggest().Validate(); err != nil {
		return err
	}
	if c.Search.DebounceMS < 0 {
		return errors.New("debounce_ms must not be negative")
	}
	if c.Search.TimeoutMS < 0 {
		return errors.New("timeout_ms must not be negative")
	}
	if c.UISettings.MaxSuggestions < 0 {
		return errors.New("max_suggestions must not be negative")
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns the per-user config file path
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "tablesearch", FileName)
}

// NewConfigService creates a config service for path.
// An empty path uses DefaultPath.
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, returning defaults when the file
// does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:       cs.filePath,
			URL:        cfg.Search.URL,
			ObjectType: cfg.Search.ObjectType,
		})
	}

	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Fields missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Auth.CSRFCookie == "" {
		cfg.Auth.CSRFCookie = DefaultConfig().Auth.CSRFCookie
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// The file may hold a session cookie
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchSettings{
			ObjectType: "page",
			DebounceMS: int(suggest.DefaultDelay / time.Millisecond),
		},
		Auth: AuthSettings{
			CSRFCookie: csrf.DefaultCookieName,
		},
		UISettings: UISettings{
			Placeholder:    "Search",
			MaxSuggestions: 0,
			Mouse:          true,
		},
		LogFile: "tablesearch.log",
	}
}
