package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/liminos-studio/site/internal/prefs"
	"github.com/liminos-studio/site/internal/progress"
)

// AssetsDir is the output subdirectory assets are copied into. The page
// template links assets relative to it.
const AssetsDir = "assets"

// BuildOptions controls a static build.
type BuildOptions struct {
	OutputDir    string
	DefaultTheme prefs.Theme
	DefaultLang  string
	Languages    []string

	// Assets is copied into OutputDir/assets, filtered by Include globs.
	// A nil Assets skips the copy.
	Assets  fs.FS
	Include []string

	// Strict fails the build when a page degrades (projects or
	// translations failed to load) instead of shipping the fallback.
	Strict bool

	Reporter progress.Reporter
}

// BuildResult lists what a build wrote, relative to the output directory.
type BuildResult struct {
	Pages    []string
	Assets   []string
	Degraded []string
}

type pageJob struct {
	name string
	lang string
}

// Build prerenders index.html for the default language and
// index.<lang>.html for every configured language, then copies assets.
func (r *Renderer) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if opts.OutputDir == "" {
		return nil, errors.New("build: output directory is required")
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}

	files, err := MatchAssets(opts.Assets, opts.Include)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	jobs := pageJobs(opts.DefaultLang, opts.Languages)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("build: creating output dir: %w", err)
	}

	reporter.Start(len(jobs) + len(files))
	defer reporter.Finish()

	res := &BuildResult{}
	done := 0
	for _, job := range jobs {
		p := prefs.New(prefs.NewMemoryStore(nil), opts.DefaultTheme, job.lang)
		out, err := r.Render(ctx, Request{Prefs: p})
		if err != nil {
			return nil, fmt.Errorf("build: %s: %w", job.name, err)
		}
		if loadErr := errors.Join(out.Result.ProjectsErr, out.Result.LangErr); loadErr != nil {
			if opts.Strict {
				return nil, fmt.Errorf("build: %s: %w", job.name, loadErr)
			}
			log.Printf("site: %s built degraded: %v", job.name, loadErr)
			res.Degraded = append(res.Degraded, job.name)
		}
		if err := os.WriteFile(filepath.Join(opts.OutputDir, job.name), out.HTML, 0o644); err != nil {
			return nil, fmt.Errorf("build: writing %s: %w", job.name, err)
		}
		res.Pages = append(res.Pages, job.name)
		done++
		reporter.Update(done, job.name)
	}

	for _, f := range files {
		rel := AssetsDir + "/" + f
		if err := copyFromFS(opts.Assets, f, filepath.Join(opts.OutputDir, filepath.FromSlash(rel))); err != nil {
			return nil, fmt.Errorf("build: copying %s: %w", f, err)
		}
		res.Assets = append(res.Assets, rel)
		done++
		reporter.Update(done, rel)
	}

	return res, nil
}

// pageJobs lists the pages to prerender: the default page plus one per
// distinct language.
func pageJobs(defaultLang string, languages []string) []pageJob {
	jobs := []pageJob{{name: "index.html", lang: defaultLang}}
	seen := make(map[string]bool)
	for _, lang := range append([]string{defaultLang}, languages...) {
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		jobs = append(jobs, pageJob{name: "index." + lang + ".html", lang: lang})
	}
	return jobs
}

// MatchAssets returns the files in fsys matching any of the include globs,
// sorted and without duplicates.
func MatchAssets(fsys fs.FS, include []string) ([]string, error) {
	if fsys == nil {
		return nil, nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// copyFromFS copies one file out of fsys.
func copyFromFS(fsys fs.FS, name, dst string) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
