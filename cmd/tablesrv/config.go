package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-datatable/components/datatable"
	"github.com/goliatone/go-datatable/pkg/activity"
)

// Transports tablesrv can serve on.
const (
	TransportRouter = "router"
	TransportHTTP   = "http"
)

// ThemeConfig selects a static theme applied to every rendered table.
type ThemeConfig struct {
	Name    string            `mapstructure:"name"`
	Variant string            `mapstructure:"variant"`
	Tokens  map[string]string `mapstructure:"tokens"`
}

// Config holds the runtime configuration for tablesrv.
// Values come from the config file, DATATABLE_* env vars, and defaults.
type Config struct {
	Addr      string           `mapstructure:"addr"`
	BasePath  string           `mapstructure:"base_path"`
	Transport string           `mapstructure:"transport"`
	Manifests []string         `mapstructure:"manifests"`
	BaseDir   string           `mapstructure:"base_dir"`
	LogLevel  string           `mapstructure:"log_level"`
	LogFormat string           `mapstructure:"log_format"`
	Table     datatable.Config `mapstructure:"datatable"`
	Activity  activity.Config  `mapstructure:"activity"`
	Theme     ThemeConfig      `mapstructure:"theme"`
}

// LoadConfig reads path (when set) into v and applies defaults for anything
// left unset by the file or the environment.
func LoadConfig(v *viper.Viper, path string) (Config, error) {
	v.SetDefault("addr", ":9876")
	v.SetDefault("base_path", "/datatable")
	v.SetDefault("transport", TransportRouter)
	v.SetDefault("manifests", []string{})
	v.SetDefault("base_dir", ".")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("datatable.default_page_size", datatable.DefaultPageSize)
	v.SetDefault("datatable.page_size_options", datatable.DefaultPageSizeOptions)
	v.SetDefault("datatable.auto_reset_page_index", true)
	v.SetDefault("activity.enabled", true)
	v.SetDefault("activity.channel", activity.DefaultChannel)
	v.SetDefault("theme.name", "")

	v.SetEnvPrefix("DATATABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("tablesrv: read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("tablesrv: decode config: %w", err)
	}
	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations tablesrv cannot start with.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportRouter, TransportHTTP:
	default:
		return fmt.Errorf("tablesrv: unknown transport %q (want %s or %s)", c.Transport, TransportRouter, TransportHTTP)
	}
	if c.Addr == "" {
		return errors.New("tablesrv: addr is required")
	}
	return nil
}
