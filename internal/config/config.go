package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/proyectos/internal/executor"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// LocalConfigFile is looked up before the user config directory
	LocalConfigFile = ".proyectos/config.yaml"
)

var (
	// ConfigDir is the global configuration directory (~/.config/proyectos)
	ConfigDir string

	// ConfigFile is the global configuration file
	ConfigFile string

	// LogFile is the default log file
	LogFile string

	// TraceFile is the default trace output file
	TraceFile string
)

// Config is the application configuration
type Config struct {
	BaseURL      string             `mapstructure:"base_url" yaml:"base_url"`
	Timeouts     TimeoutsConfig     `mapstructure:"timeouts" yaml:"timeouts"`
	Search       SearchConfig       `mapstructure:"search" yaml:"search"`
	Messages     MessagesConfig     `mapstructure:"messages" yaml:"messages"`
	Stats        StatsConfig        `mapstructure:"stats" yaml:"stats"`
	DownloadDir  string             `mapstructure:"download_dir" yaml:"download_dir"`
	Log          LogConfig          `mapstructure:"log" yaml:"log"`
	Tracing      TracingConfig      `mapstructure:"tracing" yaml:"tracing"`
	KeybindsFile string             `mapstructure:"keybinds_file" yaml:"keybinds_file,omitempty"`
	TLS          executor.TLSConfig `mapstructure:"tls" yaml:"tls"`
}

// TimeoutsConfig bounds backend calls
type TimeoutsConfig struct {
	Data     time.Duration `mapstructure:"data" yaml:"data"`
	Download time.Duration `mapstructure:"download" yaml:"download"`
}

// SearchConfig controls search-as-you-type
type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
	MinChars int           `mapstructure:"min_chars" yaml:"min_chars"`
}

// MessagesConfig controls transient status messages
type MessagesConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// StatsConfig controls statistics caching
type StatsConfig struct {
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// LogConfig controls the file logger
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file,omitempty"`
	Debug bool   `mapstructure:"debug" yaml:"debug"`
}

// TracingConfig controls request tracing
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	FilePath string `mapstructure:"file_path" yaml:"file_path,omitempty"`
}

// Defaults returns the default configuration
func Defaults() Config {
	return Config{
		BaseURL: "http://127.0.0.1:5000",
		Timeouts: TimeoutsConfig{
			Data:     executor.DefaultDataTimeout,
			Download: executor.DefaultDownloadTimeout,
		},
		Search: SearchConfig{
			Debounce: 350 * time.Millisecond,
			MinChars: 3,
		},
		Messages:    MessagesConfig{Timeout: 5 * time.Second},
		Stats:       StatsConfig{TTL: 5 * time.Minute},
		DownloadDir: ".",
	}
}

// SetDefaults registers the defaults on v
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("timeouts.data", d.Timeouts.Data)
	v.SetDefault("timeouts.download", d.Timeouts.Download)
	v.SetDefault("search.debounce", d.Search.Debounce)
	v.SetDefault("search.min_chars", d.Search.MinChars)
	v.SetDefault("messages.timeout", d.Messages.Timeout)
	v.SetDefault("stats.ttl", d.Stats.TTL)
	v.SetDefault("download_dir", d.DownloadDir)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tls.insecure_skip_verify", false)
}

// Initialize sets the global paths.
// It creates ~/.config/proyectos/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	ConfigDir = filepath.Join(homeDir, ".config", "proyectos")
	ConfigFile = filepath.Join(ConfigDir, "config.yaml")
	LogFile = filepath.Join(ConfigDir, "proyectos.log")
	TraceFile = filepath.Join(ConfigDir, "traces.jsonl")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}
	return nil
}

// Load reads the configuration into v.
// Lookup order: explicit file, ./.proyectos/config.yaml, then the global config
// file. When no file exists a default one is written to the global location.
// It returns the loaded configuration and the file used, "" when none.
func Load(v *viper.Viper, explicit string) (Config, string, error) {
	SetDefaults(v)

	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(LocalConfigFile):
		v.SetConfigFile(LocalConfigFile)
	case ConfigDir != "":
		v.AddConfigPath(ConfigDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("failed to read config: %w", err)
		}
		// If write fails, just continue with defaults
		if ConfigFile != "" {
			if writeErr := WriteDefaultConfig(ConfigFile); writeErr == nil {
				v.SetConfigFile(ConfigFile)
				_ = v.ReadInConfig()
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyPaths()

	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

// applyPaths fills file locations left empty from the global paths
func (c *Config) applyPaths() {
	if c.Log.File == "" {
		c.Log.File = LogFile
	}
	if c.Tracing.FilePath == "" {
		c.Tracing.FilePath = TraceFile
	}
	c.DownloadDir = expandHome(c.DownloadDir)
	c.KeybindsFile = expandHome(c.KeybindsFile)
}

// Validate checks the values a session cannot run without
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid base_url %q: must be an http(s) URL", c.BaseURL)
	}
	if c.Timeouts.Data <= 0 {
		return fmt.Errorf("timeouts.data must be positive")
	}
	if c.Timeouts.Download <= 0 {
		return fmt.Errorf("timeouts.download must be positive")
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce cannot be negative")
	}
	if c.Search.MinChars < 1 {
		return fmt.Errorf("search.min_chars must be at least 1")
	}
	if c.Messages.Timeout <= 0 {
		return fmt.Errorf("messages.timeout must be positive")
	}
	if c.Stats.TTL <= 0 {
		return fmt.Errorf("stats.ttl must be positive")
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return fmt.Errorf("tls.cert_file and tls.key_file must be set together")
	}
	return nil
}

// DefaultConfigTemplate renders the default configuration file
func DefaultConfigTemplate() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# proyectos configuration\n\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Defaults()); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()
	return buf.Bytes(), nil
}

// WriteDefaultConfig writes the default configuration to path
func WriteDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPermissions); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := DefaultConfigTemplate()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, FilePermissions); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandHome expands a leading ~/ to the home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}
