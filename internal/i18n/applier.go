// Package i18n applies translation tables to a page and drives language
// switching from the language buttons.
package i18n

import (
	"context"
	"fmt"

	"github.com/liminos-studio/site/internal/dom"
	"github.com/liminos-studio/site/internal/models"
	"github.com/liminos-studio/site/internal/prefs"
)

// Markup names the attributes and classes the page uses for translation.
type Markup struct {
	KeyAttr     string // attribute holding the translation key
	ButtonClass string // class shared by the language buttons
	LangAttr    string // attribute on a button holding its language code
	ActiveClass string // class marking the active button
}

// DefaultMarkup returns the attribute and class names the site's HTML uses.
func DefaultMarkup() Markup {
	return Markup{
		KeyAttr:     "data-i18n",
		ButtonClass: "lang-btn",
		LangAttr:    "data-lang",
		ActiveClass: "active",
	}
}

func (m Markup) withDefaults() Markup {
	def := DefaultMarkup()
	if m.KeyAttr == "" {
		m.KeyAttr = def.KeyAttr
	}
	if m.ButtonClass == "" {
		m.ButtonClass = def.ButtonClass
	}
	if m.LangAttr == "" {
		m.LangAttr = def.LangAttr
	}
	if m.ActiveClass == "" {
		m.ActiveClass = def.ActiveClass
	}
	return m
}

// Applier writes a translation table into a document.
type Applier struct {
	doc    *dom.Document
	prefs  *prefs.Preferences
	markup Markup
}

// NewApplier creates an applier for doc.
func NewApplier(doc *dom.Document, p *prefs.Preferences, markup Markup) *Applier {
	return &Applier{doc: doc, prefs: p, markup: markup.withDefaults()}
}

// Markup returns the markup names in use.
func (a *Applier) Markup() Markup { return a.markup }

// Apply sets the text of every keyed element whose key is in table, leaving
// the rest untouched, marks the button for lang as the only active one and
// persists lang.
func (a *Applier) Apply(ctx context.Context, lang string, table models.TranslationTable) error {
	for _, el := range a.doc.ElementsWithAttr(a.markup.KeyAttr) {
		key, _ := el.Attr(a.markup.KeyAttr)
		if text, ok := table.Lookup(key); ok && el.Text() != text {
			el.SetText(text)
		}
	}

	for _, btn := range a.Buttons() {
		code, _ := btn.Attr(a.markup.LangAttr)
		btn.SetClass(a.markup.ActiveClass, code == lang)
	}

	if root := a.doc.DocumentElement(); root != nil {
		root.SetAttr("lang", lang)
	}

	if err := a.prefs.SetLang(ctx, lang); err != nil {
		return fmt.Errorf("persisting language %s: %w", lang, err)
	}
	return nil
}

// Buttons returns the language buttons in document order.
func (a *Applier) Buttons() []*dom.Element {
	return a.doc.ElementsByClass(a.markup.ButtonClass)
}

// Button returns the button for lang, or nil.
func (a *Applier) Button(lang string) *dom.Element {
	for _, btn := range a.Buttons() {
		if code, _ := btn.Attr(a.markup.LangAttr); code == lang {
			return btn
		}
	}
	return nil
}

// Active returns the language code of the active button, or "".
func (a *Applier) Active() string {
	for _, btn := range a.Buttons() {
		if btn.HasClass(a.markup.ActiveClass) {
			code, _ := btn.Attr(a.markup.LangAttr)
			return code
		}
	}
	return ""
}
