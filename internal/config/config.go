package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/defendertower/internal/store"
	"github.com/lawnchairsociety/defendertower/internal/tower"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds every setting shared by the tower binaries. The logging
// block in the same file is read by the logger package.
type Config struct {
	Structure tower.StructureConfig `yaml:"structure"`
	Count     int                   `yaml:"count"`
	Catalog   CatalogConfig         `yaml:"catalog"`
	Output    OutputConfig          `yaml:"output"`
	Store     StoreConfig           `yaml:"store"`
	Stream    StreamConfig          `yaml:"stream"`
}

// CatalogConfig selects the tile catalog.
type CatalogConfig struct {
	// Path is a catalog YAML file. Empty uses the built-in defender set.
	Path string `yaml:"path"`
}

// OutputConfig controls where generated structures are written.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig holds run history settings.
type StoreConfig struct {
	Enabled      bool `yaml:"enabled"`
	store.Config `yaml:",inline"`
}

// StreamConfig holds the streaming server settings.
type StreamConfig struct {
	Address string `yaml:"address"`

	// StepDelay is the pause between streamed collapse events
	StepDelay time.Duration `yaml:"step_delay"`

	// MaxCells caps the grid a client may request.
	MaxCells int `yaml:"max_cells"`

	// AllowedOrigins lists origins allowed to connect. Empty enforces
	// same-origin; "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	MaxMessageSize int64 `yaml:"max_message_size"`

	Connections ConnectionsConfig `yaml:"connections"`
}

// ConnectionsConfig holds connection limit settings. 0 means unlimited.
type ConnectionsConfig struct {
	MaxPerIP int `yaml:"max_per_ip"`
	MaxTotal int `yaml:"max_total"`
}

// DefaultConfig returns a Config with defaults for a single 2x4x2 tower.
func DefaultConfig() *Config {
	return &Config{
		Structure: tower.DefaultStructureConfig(),
		Count:     1,
		Output: OutputConfig{
			Path: "structures.yaml",
		},
		Store: StoreConfig{
			Config: store.DefaultConfig("data/runs.db"),
		},
		Stream: StreamConfig{
			Address:        ":8080",
			StepDelay:      100 * time.Millisecond,
			MaxCells:       4096,
			AllowedOrigins: []string{},
			MaxMessageSize: 4096,
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 100,
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// A missing file returns the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config YAML: %w", err)
	}

	return config, nil
}

// Validate checks the settings every binary depends on.
func (c *Config) Validate() error {
	if err := c.Structure.Validate(); err != nil {
		return err
	}
	if c.Count <= 0 {
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConfig, c.Count)
	}
	switch store.DialectType(c.Store.Driver) {
	case store.DialectSQLite:
		if c.Store.Enabled && c.Store.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite store needs sqlite_path", ErrInvalidConfig)
		}
	case store.DialectPostgres:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Stream.StepDelay < 0 {
		return fmt.Errorf("%w: negative step_delay %v", ErrInvalidConfig, c.Stream.StepDelay)
	}
	if c.Stream.MaxCells <= 0 {
		return fmt.Errorf("%w: max_cells must be positive", ErrInvalidConfig)
	}
	return nil
}

// IsOriginAllowed reports whether origin may open a stream. It returns true
// if AllowedOrigins contains "*" or origin itself, or if AllowedOrigins is
// empty and origin is the request host.
func (c *StreamConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks origin against the request host. A missing Origin
// header counts as same-origin since non-browser clients omit it.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
