package config

import (
	"github.com/liminos-studio/site/internal/page"
	"github.com/liminos-studio/site/internal/prefs"
	"github.com/liminos-studio/site/internal/scroll"
)

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = ".liminos.yml"

// DefaultIncludes are the asset globs copied by a static build.
var DefaultIncludes = []string{
	"projects.json",
	"i18n/*.json",
	"css/**",
	"img/**",
	"js/**",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Assets: AssetsConfig{
			Include: DefaultIncludes,
		},
		DataDir:   ".liminos",
		OutputDir: "dist",
		Defaults: DefaultsConfig{
			Theme:    prefs.DefaultTheme,
			Language: prefs.DefaultLang,
		},
		Languages: []string{"ja", "en"},
		Markup:    page.DefaultMarkup(),
		Scroll: ScrollConfig{
			Threshold: scroll.DefaultThreshold,
		},
	}
}
