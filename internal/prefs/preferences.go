package prefs

import (
	"context"
	"fmt"
	"log"
)

// Preferences gives typed access to the theme and language entries of a
// Store, falling back to defaults when an entry is absent or unreadable.
type Preferences struct {
	store        Store
	defaultTheme Theme
	defaultLang  string
}

// New wraps store. Empty or invalid defaults fall back to dark and "ja".
func New(store Store, defaultTheme Theme, defaultLang string) *Preferences {
	if !defaultTheme.Valid() {
		defaultTheme = DefaultTheme
	}
	if defaultLang == "" {
		defaultLang = DefaultLang
	}
	return &Preferences{store: store, defaultTheme: defaultTheme, defaultLang: defaultLang}
}

// Theme returns the persisted theme or the default.
func (p *Preferences) Theme(ctx context.Context) Theme {
	v, ok, err := p.store.Get(ctx, KeyTheme)
	if err != nil {
		log.Printf("prefs: %v", err)
		return p.defaultTheme
	}
	if t := Theme(v); ok && t.Valid() {
		return t
	}
	return p.defaultTheme
}

// SetTheme persists t.
func (p *Preferences) SetTheme(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("invalid theme %q", t)
	}
	return p.store.Set(ctx, KeyTheme, string(t))
}

// Lang returns the persisted language code or the default.
func (p *Preferences) Lang(ctx context.Context) string {
	v, ok, err := p.store.Get(ctx, KeyLang)
	if err != nil {
		log.Printf("prefs: %v", err)
		return p.defaultLang
	}
	if !ok || v == "" {
		return p.defaultLang
	}
	return v
}

// SetLang persists the language code.
func (p *Preferences) SetLang(ctx context.Context, lang string) error {
	if lang == "" {
		return fmt.Errorf("empty language code")
	}
	return p.store.Set(ctx, KeyLang, lang)
}

// Store returns the underlying store.
func (p *Preferences) Store() Store { return p.store }
