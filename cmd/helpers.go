package cmd

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/liminos-studio/site/internal/config"
	"github.com/liminos-studio/site/internal/db"
	"github.com/liminos-studio/site/internal/fetch"
	"github.com/liminos-studio/site/internal/page"
	"github.com/liminos-studio/site/internal/projects"
	"github.com/liminos-studio/site/internal/site"
	"github.com/liminos-studio/site/web"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `liminos init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// dataSource builds the fetch client for projects and translations. It
// also returns the local asset tree, or nil when assets live at a remote
// base URL.
func dataSource(cfg *config.Config) (*fetch.Client, fs.FS, error) {
	switch {
	case cfg.Assets.BaseURL != "":
		c, err := fetch.New(cfg.Assets.BaseURL, &http.Client{})
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	case cfg.Assets.Dir != "":
		if _, err := os.Stat(cfg.Assets.Dir); err != nil {
			return nil, nil, fmt.Errorf("assets dir: %w", err)
		}
		return fetch.NewDir(cfg.Assets.Dir), os.DirFS(cfg.Assets.Dir), nil
	default:
		return fetch.NewFS(web.Assets()), web.Assets(), nil
	}
}

// loadTemplate reads the configured page template, or the built-in one.
func loadTemplate(cfg *config.Config) ([]byte, error) {
	if cfg.Template == "" {
		return web.Index(), nil
	}
	data, err := os.ReadFile(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return data, nil
}

// pageOptions maps config onto the page controllers' options.
func pageOptions(cfg *config.Config) page.Options {
	labels := projects.DefaultLabels()
	if cfg.Labels.Error != "" {
		labels.Error = cfg.Labels.Error
	}
	if cfg.Labels.Link != "" {
		labels.Link = cfg.Labels.Link
	}
	if cfg.Labels.StatusTitle != "" {
		labels.StatusTitle = cfg.Labels.StatusTitle
	}
	return page.Options{
		Markup:          cfg.Markup,
		Labels:          labels,
		ScrollThreshold: cfg.Scroll.Threshold,
		DiscardStale:    cfg.I18n.DiscardStale,
	}
}

// newRenderer wires template, data source and options together.
func newRenderer(cfg *config.Config) (*site.Renderer, fs.FS, error) {
	tmpl, err := loadTemplate(cfg)
	if err != nil {
		return nil, nil, err
	}
	src, assets, err := dataSource(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating data source: %w", err)
	}
	return site.NewRenderer(tmpl, src, pageOptions(cfg)), assets, nil
}

// assetsHandler serves /assets/*: from the local tree, or by redirecting
// to the remote base URL.
func assetsHandler(cfg *config.Config, assets fs.FS) http.Handler {
	if assets != nil {
		return http.FileServerFS(assets)
	}
	base := strings.TrimSuffix(cfg.Assets.BaseURL, "/")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, base+"/"+strings.TrimPrefix(r.URL.Path, "/"), http.StatusFound)
	})
}

// openDatabase opens the preference database under the data directory.
func openDatabase(cfg *config.Config) (*db.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, "liminos.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return database, nil
}

// describeAssets names where page data comes from, for status lines.
func describeAssets(cfg *config.Config) string {
	switch {
	case cfg.Assets.BaseURL != "":
		return cfg.Assets.BaseURL
	case cfg.Assets.Dir != "":
		return cfg.Assets.Dir
	default:
		return "built-in"
	}
}
