// Package config loads the cfile YAML configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/butter-bot-machines/cfile/pkg/fs"
	"github.com/butter-bot-machines/cfile/pkg/fs/billy"
	"github.com/butter-bot-machines/cfile/pkg/fs/local"
	"github.com/butter-bot-machines/cfile/pkg/fs/memory"
	"github.com/butter-bot-machines/cfile/pkg/logging"
)

// Version is the only configuration version understood
const Version = "1.0"

// Environment variables that override file values
const (
	EnvRoot      = "CFILE_ROOT"
	EnvProvider  = "CFILE_PROVIDER"
	EnvLogLevel  = "CFILE_LOG_LEVEL"
	EnvLogFormat = "CFILE_LOG_FORMAT"
)

// ProviderKind selects the file provider
type ProviderKind string

const (
	ProviderLocal   ProviderKind = "local"
	ProviderBillyOS ProviderKind = "billy-os"
	ProviderMemory  ProviderKind = "memory"
)

// ParseProviderKind normalizes a provider name from a flag or variable
func ParseProviderKind(s string) ProviderKind {
	return ProviderKind(strings.ToLower(strings.TrimSpace(s)))
}

// Config represents the root configuration structure
type Config struct {
	Version    string        `yaml:"version"`
	Root       string        `yaml:"root"`
	Provider   ProviderKind  `yaml:"provider"`
	CreatePerm Perm          `yaml:"create_perm"`
	Log        LogConfig     `yaml:"log"`
	Follow     FollowConfig  `yaml:"follow"`
	Service    ServiceConfig `yaml:"service"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// FollowConfig tunes how change notifications are coalesced
type FollowConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	MaxDelay time.Duration `yaml:"max_delay"`
}

// ServiceConfig bounds the handle service
type ServiceConfig struct {
	MaxHandles int `yaml:"max_handles"`
}

// Perm is a file mode written in octal, e.g. 0644
type Perm os.FileMode

func (p *Perm) UnmarshalYAML(n *yaml.Node) error {
	s := strings.TrimPrefix(strings.TrimPrefix(n.Value, "0o"), "0O")
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil || v > 0777 {
		return fmt.Errorf("%w: create_perm %q is not an octal permission", ErrInvalidValue, n.Value)
	}
	*p = Perm(v)
	return nil
}

func (p Perm) MarshalYAML() (interface{}, error) {
	return fmt.Sprintf("0%o", uint32(p)), nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Version:    Version,
		Root:       ".",
		Provider:   ProviderLocal,
		CreatePerm: Perm(local.DefaultPerm),
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatAuto),
		},
		Follow: FollowConfig{
			Debounce: 100 * time.Millisecond,
			MaxDelay: time.Second,
		},
		Service: ServiceConfig{
			MaxHandles: 64,
		},
	}
}

// Parse decodes data on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks every field
func (c *Config) Validate() error {
	if c.Version != Version {
		return fmt.Errorf("%w: %q", ErrUnsupportedVer, c.Version)
	}

	switch c.Provider {
	case ProviderLocal, ProviderBillyOS:
		if c.Root == "" {
			return fmt.Errorf("%w: root is required for provider %s", ErrInvalidConfig, c.Provider)
		}
	case ProviderMemory:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log.format: %v", ErrInvalidConfig, err)
	}

	if c.Follow.Debounce <= 0 {
		return fmt.Errorf("%w: follow.debounce must be positive", ErrInvalidConfig)
	}
	if c.Follow.MaxDelay < c.Follow.Debounce {
		return fmt.Errorf("%w: follow.max_delay must not be below follow.debounce", ErrInvalidConfig)
	}

	if c.Service.MaxHandles <= 0 {
		return fmt.Errorf("%w: service.max_handles must be positive", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv overrides file values from env and revalidates
func (c *Config) ApplyEnv(env Environment) error {
	if v, ok := env.Lookup(EnvRoot); ok && v != "" {
		c.Root = v
	}
	if v, ok := env.Lookup(EnvProvider); ok && v != "" {
		c.Provider = ParseProviderKind(v)
	}
	if v, ok := env.Lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := env.Lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = v
	}
	return c.Validate()
}

// LoggerOptions translates the log section for output w
func (c *Config) LoggerOptions(w io.Writer) (*logging.Options, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Log.Format)
	if err != nil {
		return nil, err
	}
	return &logging.Options{Level: level, Format: format, Output: w}, nil
}

// NewProvider builds the configured file provider
func NewProvider(c *Config) (fs.Provider, error) {
	switch c.Provider {
	case ProviderLocal:
		return local.NewProvider(c.Root, local.WithPerm(os.FileMode(c.CreatePerm))), nil
	case ProviderBillyOS:
		return billy.NewOSProvider(c.Root, billy.WithPerm(os.FileMode(c.CreatePerm))), nil
	case ProviderMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
}
