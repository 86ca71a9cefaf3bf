// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all phonebook configuration.
type Config struct {
	Store   Store   `yaml:"store"`
	Phone   Phone   `yaml:"phone"`
	Display Display `yaml:"display"`
	Log     Log     `yaml:"log"`
}

// Store holds contacts file settings.
type Store struct {
	Path string `yaml:"path"`
}

// Phone holds phone number validation settings.
type Phone struct {
	Region string `yaml:"region"` // ISO 3166-1 alpha-2 default region
}

// Display holds listing settings.
type Display struct {
	PageSize    int    `yaml:"page_size"`
	Plain       bool   `yaml:"plain"`        // Never start the TUI pager
	TemplateDir string `yaml:"template_dir"` // Directory holding a contact.tmpl override
}

// Log holds log file settings.
type Log struct {
	File  string `yaml:"file"` // Empty disables logging
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: Store{
			Path: "contacts.txt",
		},
		Phone: Phone{
			Region: "RU",
		},
		Display: Display{
			PageSize: 5,
		},
		Log: Log{
			File:  DefaultLogPath(),
			Level: "info",
		},
	}
}

// DefaultLogPath returns the log file under the user's state directory,
// $XDG_STATE_HOME/phonebook or ~/.local/state/phonebook. It is empty, and
// logging off, when no home directory is known.
func DefaultLogPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "phonebook", "phonebook.log")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".local", "state", "phonebook", "phonebook.log")
}

// UserPath returns the per-user config file location.
func UserPath() string {
	return os.ExpandEnv("$HOME/.config/phonebook/config.yaml")
}

// ProjectPath is the config file read from the working directory.
const ProjectPath = ".phonebook/config.yaml"

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("config: store.path cannot be empty")
	}
	if !isRegionCode(c.Phone.Region) {
		return fmt.Errorf("config: phone.region must be a two-letter region code, got %q", c.Phone.Region)
	}
	if c.Display.PageSize < 1 {
		return fmt.Errorf("config: display.page_size must be positive, got %d", c.Display.PageSize)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

func isRegionCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: PHONEBOOK_FILE, PHONEBOOK_REGION, PHONEBOOK_PAGE_SIZE,
// PHONEBOOK_LOG_FILE, PHONEBOOK_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PHONEBOOK_FILE"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("PHONEBOOK_REGION"); v != "" {
		c.Phone.Region = v
	}
	if v := os.Getenv("PHONEBOOK_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PHONEBOOK_PAGE_SIZE %q: %w", v, err)
		}
		c.Display.PageSize = n
	}
	// An empty but set PHONEBOOK_LOG_FILE disables logging.
	if v, ok := os.LookupEnv("PHONEBOOK_LOG_FILE"); ok {
		c.Log.File = v
	}
	if v := os.Getenv("PHONEBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Store   *rawStore   `yaml:"store"`
	Phone   *rawPhone   `yaml:"phone"`
	Display *rawDisplay `yaml:"display"`
	Log     *rawLog     `yaml:"log"`
}

type rawStore struct {
	Path *string `yaml:"path"`
}

type rawPhone struct {
	Region *string `yaml:"region"`
}

type rawDisplay struct {
	PageSize    *int    `yaml:"page_size"`
	Plain       *bool   `yaml:"plain"`
	TemplateDir *string `yaml:"template_dir"`
}

type rawLog struct {
	File  *string `yaml:"file"`
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Store != nil && layer.Store.Path != nil {
		c.Store.Path = *layer.Store.Path
	}
	if layer.Phone != nil && layer.Phone.Region != nil {
		c.Phone.Region = *layer.Phone.Region
	}
	if layer.Display != nil {
		if layer.Display.PageSize != nil {
			c.Display.PageSize = *layer.Display.PageSize
		}
		if layer.Display.Plain != nil {
			c.Display.Plain = *layer.Display.Plain
		}
		if layer.Display.TemplateDir != nil {
			c.Display.TemplateDir = *layer.Display.TemplateDir
		}
	}
	if layer.Log != nil {
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
	}
}
