// Package site hosts the studio page: per-request rendering for the HTTP
// server, one-shot renders for the CLI and prerendered static builds.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/liminos-studio/site/internal/dom"
	"github.com/liminos-studio/site/internal/page"
	"github.com/liminos-studio/site/internal/prefs"
)

// Request describes one page render. Actions run after the page is ready,
// in the order theme, language, scroll.
type Request struct {
	Prefs       *prefs.Preferences
	ToggleTheme bool
	Lang        string
	Scroll      bool
	ScrollY     float64
}

// Output is a rendered page and what happened while building it.
type Output struct {
	HTML   []byte
	Result page.Result
	Theme  prefs.Theme
	Lang   string

	// ActionErr collects failures of the requested actions. The page is
	// still rendered.
	ActionErr error
}

// Renderer turns the page template into finished documents.
type Renderer struct {
	template []byte
	source   page.Source
	opts     page.Options
}

// NewRenderer creates a renderer over template.
func NewRenderer(template []byte, source page.Source, opts page.Options) *Renderer {
	return &Renderer{template: template, source: source, opts: opts}
}

// Source returns the data source pages are built from.
func (r *Renderer) Source() page.Source { return r.source }

// Render parses a fresh document, readies the page, runs the requested
// actions and serializes the result.
func (r *Renderer) Render(ctx context.Context, req Request) (*Output, error) {
	if req.Prefs == nil {
		return nil, errors.New("render: preferences are required")
	}

	doc, err := dom.Parse(bytes.NewReader(r.template))
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	pg := page.New(doc, dom.NewWindow(), req.Prefs, r.source, r.opts)
	out := &Output{Result: pg.Ready(ctx)}

	if req.ToggleTheme {
		if _, err := pg.ToggleTheme(ctx); err != nil {
			out.ActionErr = errors.Join(out.ActionErr, fmt.Errorf("toggling theme: %w", err))
		}
	}
	if req.Lang != "" {
		if err := pg.SwitchLanguage(ctx, req.Lang); err != nil {
			out.ActionErr = errors.Join(out.ActionErr, err)
		}
	}
	if req.Scroll {
		pg.Scroll(req.ScrollY)
	}

	pg.Close()
	out.Theme = pg.Theme()
	out.Lang = pg.ActiveLanguage()

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return nil, fmt.Errorf("render: serializing document: %w", err)
	}
	out.HTML = buf.Bytes()
	return out, nil
}
