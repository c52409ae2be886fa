package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/liminos-studio/site/internal/prefs"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: LIMINOS_SERVER__PORT sets server.port.
const EnvPrefix = "LIMINOS_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (LIMINOS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.Assets.Dir != "" && c.Assets.BaseURL != "" {
		return fmt.Errorf("assets.dir and assets.base_url are mutually exclusive")
	}
	if c.Assets.BaseURL != "" {
		u, err := url.Parse(c.Assets.BaseURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("assets.base_url %q must be an absolute URL", c.Assets.BaseURL)
		}
	}

	if !c.Defaults.Theme.Valid() {
		return fmt.Errorf("invalid defaults.theme %q: must be dark or light", c.Defaults.Theme)
	}
	if err := prefs.CheckLanguage(c.Defaults.Language); err != nil {
		return fmt.Errorf("invalid defaults.language %q: %w", c.Defaults.Language, err)
	}

	for _, lang := range c.Languages {
		if err := prefs.CheckLanguage(lang); err != nil {
			return fmt.Errorf("invalid language %q: %w", lang, err)
		}
	}
	if len(c.Languages) > 0 && !contains(c.Languages, c.Defaults.Language) {
		return fmt.Errorf("defaults.language %q is not in languages %v", c.Defaults.Language, c.Languages)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if c.Scroll.Threshold <= 0 {
		return fmt.Errorf("scroll.threshold must be positive")
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
