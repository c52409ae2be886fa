// Package page wires the site's controllers onto one document.
package page

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/liminos-studio/site/internal/dom"
	"github.com/liminos-studio/site/internal/i18n"
	"github.com/liminos-studio/site/internal/prefs"
	"github.com/liminos-studio/site/internal/projects"
	"github.com/liminos-studio/site/internal/scroll"
	"github.com/liminos-studio/site/internal/theme"
)

// ErrNotApplied is returned when a language button click did not change the
// active language.
var ErrNotApplied = errors.New("language switch not applied")

// Markup names the ids, classes and attributes the page's HTML provides.
type Markup struct {
	HeaderID         string `yaml:"header_id" koanf:"header_id"`
	ProjectGridClass string `yaml:"project_grid_class" koanf:"project_grid_class"`
	ThemeToggleID    string `yaml:"theme_toggle_id" koanf:"theme_toggle_id"`
	LangButtonClass  string `yaml:"lang_button_class" koanf:"lang_button_class"`
	LangAttr         string `yaml:"lang_attr" koanf:"lang_attr"`
	KeyAttr          string `yaml:"key_attr" koanf:"key_attr"`
}

// DefaultMarkup returns the names used by the studio's index.html.
func DefaultMarkup() Markup {
	return Markup{
		HeaderID:         "main-header",
		ProjectGridClass: "project-grid",
		ThemeToggleID:    "theme-toggle",
		LangButtonClass:  "lang-btn",
		LangAttr:         "data-lang",
		KeyAttr:          "data-i18n",
	}
}

func (m Markup) withDefaults() Markup {
	def := DefaultMarkup()
	if m.HeaderID == "" {
		m.HeaderID = def.HeaderID
	}
	if m.ProjectGridClass == "" {
		m.ProjectGridClass = def.ProjectGridClass
	}
	if m.ThemeToggleID == "" {
		m.ThemeToggleID = def.ThemeToggleID
	}
	if m.LangButtonClass == "" {
		m.LangButtonClass = def.LangButtonClass
	}
	if m.LangAttr == "" {
		m.LangAttr = def.LangAttr
	}
	if m.KeyAttr == "" {
		m.KeyAttr = def.KeyAttr
	}
	return m
}

// Source supplies both data resources.
type Source interface {
	projects.Source
	i18n.Source
}

// Options tunes the controllers.
type Options struct {
	Markup          Markup
	Labels          projects.Labels
	ScrollThreshold float64
	DiscardStale    bool
}

// Result reports how the initial loads went. Errors are informational: the
// page has already degraded in place.
type Result struct {
	Theme       prefs.Theme
	ProjectsErr error
	LangErr     error
}

// Page is one document with its controllers.
type Page struct {
	doc   *dom.Document
	win   *dom.Window
	prefs *prefs.Preferences
	grid  *dom.Element

	renderer *projects.Renderer
	switcher *i18n.Switcher
	toggle   *theme.Toggle
	scroll   *scroll.Controller

	detach []func()
}

// New builds the controllers for doc. Nothing is subscribed until Ready.
func New(doc *dom.Document, win *dom.Window, p *prefs.Preferences, src Source, opts Options) *Page {
	m := opts.Markup.withDefaults()
	applier := i18n.NewApplier(doc, p, i18n.Markup{
		KeyAttr:     m.KeyAttr,
		ButtonClass: m.LangButtonClass,
		LangAttr:    m.LangAttr,
	})
	return &Page{
		doc:      doc,
		win:      win,
		prefs:    p,
		grid:     doc.QueryClass(m.ProjectGridClass),
		renderer: projects.NewRenderer(src, opts.Labels),
		switcher: i18n.NewSwitcher(src, applier, p, opts.DiscardStale),
		toggle:   theme.NewToggle(doc, doc.GetElementByID(m.ThemeToggleID), p),
		scroll:   scroll.New(doc.GetElementByID(m.HeaderID), opts.ScrollThreshold),
	}
}

// Ready attaches the scroll and theme controllers, then runs the project
// render and the initial language load concurrently. A failure in one load
// does not affect the other.
func (pg *Page) Ready(ctx context.Context) Result {
	var res Result

	pg.detach = append(pg.detach, pg.scroll.Attach(pg.win))
	res.Theme = pg.toggle.Init(ctx)
	pg.detach = append(pg.detach, pg.toggle.Attach(ctx))
	pg.detach = append(pg.detach, pg.switcher.Attach(ctx))

	var g errgroup.Group
	g.Go(func() error {
		res.ProjectsErr = pg.renderer.Render(ctx, pg.grid)
		return nil
	})
	g.Go(func() error {
		res.LangErr = pg.switcher.Load(ctx)
		return nil
	})
	_ = g.Wait()

	log.Printf("page: ready (theme=%s, lang=%s)", res.Theme, pg.switcher.Applier().Active())
	return res
}

// ToggleTheme activates the theme button, or flips directly when the page
// has none.
func (pg *Page) ToggleTheme(ctx context.Context) (prefs.Theme, error) {
	if btn := pg.toggle.Button(); btn != nil && btn.ListenerCount(dom.EventClick) > 0 {
		btn.Click()
		return pg.toggle.Current(), pg.toggle.LastErr()
	}
	return pg.toggle.Flip(ctx)
}

// SwitchLanguage activates the button for lang and waits for the switch.
// Without a matching button the switch runs directly.
func (pg *Page) SwitchLanguage(ctx context.Context, lang string) error {
	applier := pg.switcher.Applier()
	btn := applier.Button(lang)
	if btn == nil || btn.ListenerCount(dom.EventClick) == 0 {
		return pg.switcher.Switch(ctx, lang)
	}
	btn.Click()
	pg.switcher.Wait()
	if applier.Active() != lang {
		return fmt.Errorf("switching to %s: %w", lang, ErrNotApplied)
	}
	return nil
}

// Scroll moves the window, dispatching a scroll event.
func (pg *Page) Scroll(y float64) { pg.win.ScrollTo(y) }

// ActiveLanguage returns the language of the active button, or "".
func (pg *Page) ActiveLanguage() string { return pg.switcher.Applier().Active() }

// Theme returns the applied theme.
func (pg *Page) Theme() prefs.Theme { return pg.toggle.Current() }

// Document returns the page's document.
func (pg *Page) Document() *dom.Document { return pg.doc }

// Close removes every subscription and waits for in-flight switches.
func (pg *Page) Close() {
	for _, d := range pg.detach {
		d()
	}
	pg.detach = nil
	pg.switcher.Wait()
}
