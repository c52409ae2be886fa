// Package theme implements the dark/light theme toggle.
package theme

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/liminos-studio/site/internal/dom"
	"github.com/liminos-studio/site/internal/prefs"
)

// Attr is the body attribute carrying the applied theme.
const Attr = "data-theme"

// Glyph returns the button indicator for the applied theme: the sun offers
// to leave dark mode, the moon offers to leave light mode.
func Glyph(t prefs.Theme) string {
	if t == prefs.ThemeDark {
		return "☀️"
	}
	return "🌙"
}

// Toggle flips the page between dark and light.
type Toggle struct {
	doc    *dom.Document
	button *dom.Element
	prefs  *prefs.Preferences

	mu      sync.Mutex
	lastErr error
}

// NewToggle creates a toggle. button may be nil when the page has no toggle
// button; the theme is still applied.
func NewToggle(doc *dom.Document, button *dom.Element, p *prefs.Preferences) *Toggle {
	return &Toggle{doc: doc, button: button, prefs: p}
}

// Init applies the stored (or default) theme and returns it.
func (t *Toggle) Init(ctx context.Context) prefs.Theme {
	current := t.prefs.Theme(ctx)
	t.apply(current)
	return current
}

// Current returns the applied theme, read back from the page.
func (t *Toggle) Current() prefs.Theme {
	body := t.doc.Body()
	if body == nil {
		return t.prefs.Theme(context.Background())
	}
	v, _ := body.Attr(Attr)
	return prefs.Theme(v)
}

// Flip switches to the other theme, updates the indicator and persists the
// new value.
func (t *Toggle) Flip(ctx context.Context) (prefs.Theme, error) {
	next := t.Current().Toggle()
	t.apply(next)
	if err := t.prefs.SetTheme(ctx, next); err != nil {
		return next, fmt.Errorf("persisting theme: %w", err)
	}
	return next, nil
}

// Attach subscribes the button's click to Flip.
func (t *Toggle) Attach(ctx context.Context) func() {
	if t.button == nil {
		return func() {}
	}
	return t.button.AddEventListener(dom.EventClick, func(dom.Event) {
		_, err := t.Flip(ctx)
		if err != nil {
			log.Printf("theme: %v", err)
		}
		t.mu.Lock()
		t.lastErr = err
		t.mu.Unlock()
	})
}

// LastErr returns the error of the most recent click-driven flip, or nil.
func (t *Toggle) LastErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Button returns the toggle button, or nil.
func (t *Toggle) Button() *dom.Element { return t.button }

func (t *Toggle) apply(th prefs.Theme) {
	if body := t.doc.Body(); body != nil {
		body.SetAttr(Attr, string(th))
	}
	if t.button != nil {
		t.button.SetText(Glyph(th))
	}
}
