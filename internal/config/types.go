package config

import (
	"github.com/liminos-studio/site/internal/page"
	"github.com/liminos-studio/site/internal/prefs"
)

// Config is the top-level site configuration, corresponding to .liminos.yml.
type Config struct {
	Server    ServerConfig   `yaml:"server" koanf:"server"`
	Assets    AssetsConfig   `yaml:"assets" koanf:"assets"`
	Template  string         `yaml:"template" koanf:"template"`
	DataDir   string         `yaml:"data_dir" koanf:"data_dir"`
	OutputDir string         `yaml:"output_dir" koanf:"output_dir"`
	Defaults  DefaultsConfig `yaml:"defaults" koanf:"defaults"`
	Languages []string       `yaml:"languages" koanf:"languages"`
	Markup    page.Markup    `yaml:"markup" koanf:"markup"`
	Labels    LabelsConfig   `yaml:"labels" koanf:"labels"`
	I18n      I18nConfig     `yaml:"i18n" koanf:"i18n"`
	Scroll    ScrollConfig   `yaml:"scroll" koanf:"scroll"`
}

// ServerConfig holds HTTP host settings.
type ServerConfig struct {
	Port              int  `yaml:"port" koanf:"port"`
	AllowAllOrigins   bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	NegotiateLanguage bool `yaml:"negotiate_language" koanf:"negotiate_language"`
	SecureCookies     bool `yaml:"secure_cookies" koanf:"secure_cookies"`
}

// AssetsConfig says where projects.json and i18n/ live. With neither Dir
// nor BaseURL set, the embedded assets are used.
type AssetsConfig struct {
	Dir     string   `yaml:"dir" koanf:"dir"`
	BaseURL string   `yaml:"base_url" koanf:"base_url"`
	Include []string `yaml:"include" koanf:"include"`
}

// DefaultsConfig holds the preference values used when nothing is stored.
type DefaultsConfig struct {
	Theme    prefs.Theme `yaml:"theme" koanf:"theme"`
	Language string      `yaml:"language" koanf:"language"`
}

// LabelsConfig overrides the fixed copy in the project grid.
type LabelsConfig struct {
	Error       string `yaml:"error" koanf:"error"`
	Link        string `yaml:"link" koanf:"link"`
	StatusTitle string `yaml:"status_title" koanf:"status_title"`
}

// I18nConfig holds language switching settings. With DiscardStale off,
// overlapping switches resolve last-wins.
type I18nConfig struct {
	DiscardStale bool `yaml:"discard_stale" koanf:"discard_stale"`
}

// ScrollConfig holds header scroll settings.
type ScrollConfig struct {
	Threshold float64 `yaml:"threshold" koanf:"threshold"`
}
