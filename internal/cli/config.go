package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/erwire/internal/server"
	"github.com/matzehuels/erwire/pkg/connector"
	"github.com/matzehuels/erwire/pkg/errors"
	"github.com/matzehuels/erwire/pkg/pipeline"
)

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config is the contents of config.toml. Every section is optional; zero
// values fall back to the built-in defaults.
//
//	[metrics]
//	hop_height = 12
//
//	[render]
//	formats = ["svg", "json"]
//	labels = true
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":9000"
type Config struct {
	Metrics connector.Metrics `toml:"metrics"`
	Render  RenderConfig      `toml:"render"`
	Cache   CacheConfig       `toml:"cache"`
	Server  ServerConfig      `toml:"server"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	NoHops   bool     `toml:"no_hops"`
	Labels   bool     `toml:"labels"`
	RawPaths bool     `toml:"raw_paths"`
	Padding  float64  `toml:"padding"`
	Splines  string   `toml:"splines"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file (default), redis, none
	Dir       string `toml:"dir"`     // file backend; defaults to the XDG cache dir
	RedisURL  string `toml:"redis_url"`
	RedisAddr string `toml:"redis_addr"`
	Prefix    string `toml:"prefix"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Metrics: connector.DefaultMetrics(),
		Render: RenderConfig{
			Formats: []string{pipeline.FormatSVG},
			Padding: pipeline.DefaultPadding,
			Splines: pipeline.DefaultSplines,
		},
		Cache:  CacheConfig{Backend: backendFile, Prefix: appName + ":"},
		Server: ServerConfig{Addr: server.DefaultAddr},
	}
}

// configPath returns the default config file location.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads the config file at path. A missing file yields the
// defaults unless explicit is set (the user named the file). Unknown keys
// are rejected so typos don't silently fall back to defaults.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) && !explicit {
		return DefaultConfig(), nil
	}
	if os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.Metrics = cfg.Metrics.WithDefaults()
	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", backendFile, backendRedis, backendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.formats: %s", errors.UserMessage(err))
	}
	if c.Render.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.padding must not be negative")
	}
	if err := c.Metrics.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", errors.UserMessage(err))
	}
	return nil
}

// PipelineOptions converts the config into pipeline defaults.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		NoHops:   c.Render.NoHops,
		Metrics:  c.Metrics,
		Formats:  append([]string(nil), c.Render.Formats...),
		Labels:   c.Render.Labels,
		RawPaths: c.Render.RawPaths,
		Padding:  c.Render.Padding,
		Splines:  c.Render.Splines,
	}
}

func (c CacheConfig) dir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// config command
// =============================================================================

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.Config)
		},
	})
	return cmd
}

// resolveConfigPath returns --config if given, else the XDG default.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configFile != "" {
		return c.configFile, nil
	}
	return configPath()
}
