package i18n

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/liminos-studio/site/internal/dom"
	"github.com/liminos-studio/site/internal/models"
	"github.com/liminos-studio/site/internal/prefs"
)

var (
	// ErrInvalidLanguage is returned for codes that are not BCP 47 tags.
	ErrInvalidLanguage = errors.New("invalid language code")
	// ErrEmptyTable is returned when a language resource has no entries.
	ErrEmptyTable = errors.New("empty translation table")
	// ErrStale is returned when a switch issued later was applied while
	// this one was loading.
	ErrStale = errors.New("superseded by a newer language switch")
)

// Source supplies translation tables.
type Source interface {
	Translations(ctx context.Context, lang string) (models.TranslationTable, error)
}

// Switcher loads a language's table and applies it. A failed or empty load
// leaves the page and the stored preference as they were.
type Switcher struct {
	source       Source
	applier      *Applier
	prefs        *prefs.Preferences
	discardStale bool

	seq     atomic.Uint64
	applyMu sync.Mutex
	applied uint64 // ticket of the last applied switch, guarded by applyMu
	pending sync.WaitGroup
}

// NewSwitcher creates a switcher. By default whichever response resolves
// last wins. With discardStale set, a response is dropped when a switch
// issued after it has already been applied; failed switches never
// supersede anything.
func NewSwitcher(source Source, applier *Applier, p *prefs.Preferences, discardStale bool) *Switcher {
	return &Switcher{source: source, applier: applier, prefs: p, discardStale: discardStale}
}

// Switch fetches the table for lang and applies it.
func (s *Switcher) Switch(ctx context.Context, lang string) error {
	if err := prefs.CheckLanguage(lang); err != nil {
		log.Printf("i18n: rejecting language %q: %v", lang, err)
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}
	seq := s.seq.Add(1)

	table, err := s.source.Translations(ctx, lang)
	if err != nil {
		log.Printf("i18n: loading %s translations: %v", lang, err)
		return fmt.Errorf("loading %s translations: %w", lang, err)
	}
	if len(table) == 0 {
		log.Printf("i18n: %s translations are empty, keeping current text", lang)
		return fmt.Errorf("%s: %w", lang, ErrEmptyTable)
	}

	s.applyMu.Lock()
	defer s.applyMu.Unlock()
	if s.discardStale && seq < s.applied {
		return fmt.Errorf("%s: %w", lang, ErrStale)
	}
	s.applied = seq
	return s.applier.Apply(ctx, lang, table)
}

// Load applies the stored language, or the default when none is stored.
func (s *Switcher) Load(ctx context.Context) error {
	return s.Switch(ctx, s.prefs.Lang(ctx))
}

// Attach subscribes every language button. Each click switches
// asynchronously under ctx; Wait joins switches still in flight. The
// returned function removes the subscriptions.
func (s *Switcher) Attach(ctx context.Context) func() {
	var removers []func()
	for _, btn := range s.applier.Buttons() {
		removers = append(removers, btn.AddEventListener(dom.EventClick, func(ev dom.Event) {
			code, ok := ev.Target.Attr(s.applier.Markup().LangAttr)
			if !ok {
				return
			}
			s.pending.Add(1)
			go func() {
				defer s.pending.Done()
				_ = s.Switch(ctx, code)
			}()
		}))
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}

// Wait blocks until every click-triggered switch has finished.
func (s *Switcher) Wait() { s.pending.Wait() }

// Applier returns the applier used by the switcher.
func (s *Switcher) Applier() *Applier { return s.applier }
