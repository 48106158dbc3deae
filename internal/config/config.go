// Package config loads the frontdoor host configuration: the message templates
// handed to the engine and the modules the CLI loads at startup.
//
// Values are resolved in this order, highest priority first:
//   - DOOR_* environment variables (DOOR_MESSAGES_USAGE_ERROR_FORMAT, DOOR_MODULES, ...)
//   - the YAML file passed to Load, or door.yaml in the working directory
//   - doortypes.DefaultSettings() and every demo module
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"frontdoor/pkg/doortypes"
)

const (
	// EnvPrefix is prepended to every environment override.
	EnvPrefix = "DOOR"
	// DefaultFile is looked up in the working directory when no path is given.
	DefaultFile = "door.yaml"
)

// Config is the host configuration.
type Config struct {
	Messages doortypes.Settings `mapstructure:"messages" yaml:"messages"`
	Modules  []string           `mapstructure:"modules" yaml:"modules"`
}

// DefaultModules lists the module IDs loaded when the configuration names none.
var DefaultModules = []string{"demo.basic", "demo.ids", "demo.release", "demo.room"}

// Load reads the configuration. An empty path falls back to DefaultFile when it
// exists; an explicit path that does not exist is an error.
func Load(path string) (*Config, error) {
	fs := FsFactory()
	v := viper.New()
	v.SetFs(fs)

	defaults := doortypes.DefaultSettings()
	v.SetDefault("messages.error_prefix", defaults.ErrorPrefix)
	v.SetDefault("messages.invalid_argument_prefix", defaults.InvalidArgumentPrefix)
	v.SetDefault("messages.usage_error_format", defaults.UsageErrorFormat)
	v.SetDefault("messages.permission_error", defaults.PermissionError)
	v.SetDefault("messages.invalid_subcommand_error", defaults.InvalidSubcommandError)
	v.SetDefault("modules", DefaultModules)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	case fileExists(fs, DefaultFile):
		v.SetConfigFile(DefaultFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", DefaultFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the templates carry at most the interpolation slot they are given.
func (c *Config) Validate() error {
	var result *multierror.Error
	for key, tmpl := range map[string]string{
		"usage_error_format":       c.Messages.UsageErrorFormat,
		"permission_error":         c.Messages.PermissionError,
		"invalid_subcommand_error": c.Messages.InvalidSubcommandError,
	} {
		slots, err := countSlots(tmpl)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("messages.%s: %w, got %q", key, err, tmpl))
			continue
		}
		if slots > 1 {
			result = multierror.Append(result, fmt.Errorf("messages.%s: at most one %%s slot allowed, got %q", key, tmpl))
		}
	}
	if c.Messages.UsageErrorFormat == "" {
		result = multierror.Append(result, errors.New("messages.usage_error_format cannot be empty"))
	}
	return result.ErrorOrNil()
}

// countSlots counts the %s verbs of tmpl. Any other verb is rejected; a literal
// percent sign is written %%.
func countSlots(tmpl string) (int, error) {
	slots := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		if i+1 == len(tmpl) {
			return 0, errors.New("trailing %, write %% for a literal percent sign")
		}
		i++
		switch tmpl[i] {
		case 's':
			slots++
		case '%':
		default:
			return 0, fmt.Errorf("unsupported verb %%%c, only %%s and %%%% are allowed", tmpl[i])
		}
	}
	return slots, nil
}

// Settings returns a copy of the message templates for the engine.
func (c *Config) Settings() *doortypes.Settings {
	s := c.Messages
	return &s
}

func fileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}
