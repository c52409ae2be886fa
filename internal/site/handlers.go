package site

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/liminos-studio/site/internal/fetch"
	"github.com/liminos-studio/site/internal/i18n"
	"github.com/liminos-studio/site/internal/prefs"
)

// VisitorCookie carries the anonymous visitor id that scopes stored
// preferences.
const VisitorCookie = "liminos_vid"

const visitorMaxAge = 365 * 24 * time.Hour

// HandlerConfig tunes the HTTP surface.
type HandlerConfig struct {
	DefaultTheme prefs.Theme
	DefaultLang  string

	// Languages offered for Accept-Language negotiation, most preferred
	// first. Negotiation only runs when Negotiate is set.
	Languages []string
	Negotiate bool

	SecureCookies bool
}

// Handler serves the page, its actions and its data.
type Handler struct {
	renderer *Renderer
	visitors *prefs.Visitors
	assets   http.Handler
	cfg      HandlerConfig

	matcher language.Matcher
	tags    []string
}

// NewHandler creates the HTTP handlers. assets serves /assets/*; it may be
// nil when the page links its assets elsewhere.
func NewHandler(renderer *Renderer, visitors *prefs.Visitors, assets http.Handler, cfg HandlerConfig) *Handler {
	h := &Handler{renderer: renderer, visitors: visitors, assets: assets, cfg: cfg}
	if cfg.Negotiate {
		// The default goes first so it wins when nothing matches.
		codes := []string{cfg.DefaultLang}
		for _, code := range cfg.Languages {
			if code != cfg.DefaultLang {
				codes = append(codes, code)
			}
		}
		var supported []language.Tag
		for _, code := range codes {
			tag, err := language.Parse(code)
			if err != nil {
				log.Printf("site: skipping language %q for negotiation: %v", code, err)
				continue
			}
			supported = append(supported, tag)
			h.tags = append(h.tags, code)
		}
		if len(supported) > 0 {
			h.matcher = language.NewMatcher(supported)
		}
	}
	return h
}

// RegisterRoutes mounts the page, action, asset and data endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Route("/actions", func(r chi.Router) {
		r.Post("/theme", h.handleTheme)
		r.Post("/lang/{code}", h.handleLang)
	})
	if h.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", h.assets))
	}
	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", h.handleProjects)
		r.Get("/translations", h.handleTranslations)
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	p, err := h.visitorPrefs(w, r)
	if err != nil {
		log.Printf("site: resolving visitor: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out, err := h.renderer.Render(r.Context(), Request{Prefs: p})
	if err != nil {
		log.Printf("site: rendering page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Add("Vary", "Cookie")
	w.Header().Add("Vary", "Accept-Language")
	w.WriteHeader(http.StatusOK)
	w.Write(out.HTML)
}

func (h *Handler) handleTheme(w http.ResponseWriter, r *http.Request) {
	p, err := h.visitorPrefs(w, r)
	if err != nil {
		log.Printf("site: resolving visitor: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out, err := h.renderer.Render(r.Context(), Request{Prefs: p, ToggleTheme: true})
	if err != nil {
		log.Printf("site: theme action: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if out.ActionErr != nil {
		log.Printf("site: theme action: %v", out.ActionErr)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleLang(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := prefs.CheckLanguage(code); err != nil {
		http.Error(w, "invalid language code", http.StatusBadRequest)
		return
	}

	p, err := h.visitorPrefs(w, r)
	if err != nil {
		log.Printf("site: resolving visitor: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out, err := h.renderer.Render(r.Context(), Request{Prefs: p, Lang: code})
	if err != nil {
		log.Printf("site: language action: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	// A failed switch leaves the stored language alone; the redirect shows
	// the page as it was.
	if out.ActionErr != nil {
		log.Printf("site: language action %s: %v", code, out.ActionErr)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.renderer.Source().Projects(r.Context())
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleTranslations(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.cfg.DefaultLang
	}
	if err := prefs.CheckLanguage(lang); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": i18n.ErrInvalidLanguage.Error()})
		return
	}

	table, err := h.renderer.Source().Translations(r.Context(), lang)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// visitorPrefs resolves the visitor from the cookie, issuing a new id when
// the cookie is missing or unknown, and returns preferences scoped to it.
func (h *Handler) visitorPrefs(w http.ResponseWriter, r *http.Request) (*prefs.Preferences, error) {
	id, err := h.visitorID(r.Context(), r)
	if err != nil {
		return nil, err
	}
	if id == "" {
		if id, err = h.visitors.Issue(r.Context()); err != nil {
			return nil, err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return prefs.New(h.visitors.Store(id), h.cfg.DefaultTheme, h.defaultLang(r)), nil
}

func (h *Handler) visitorID(ctx context.Context, r *http.Request) (string, error) {
	c, err := r.Cookie(VisitorCookie)
	if err != nil {
		return "", nil
	}
	ok, err := h.visitors.Touch(ctx, c.Value)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return c.Value, nil
}

// defaultLang picks the language used when the visitor has none stored.
func (h *Handler) defaultLang(r *http.Request) string {
	if h.matcher == nil {
		return h.cfg.DefaultLang
	}
	accept := r.Header.Get("Accept-Language")
	if accept == "" {
		return h.cfg.DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return h.cfg.DefaultLang
	}
	_, idx, conf := h.matcher.Match(tags...)
	if conf == language.No {
		return h.cfg.DefaultLang
	}
	return h.tags[idx]
}

func writeLoadError(w http.ResponseWriter, err error) {
	log.Printf("site: data request failed: %v", err)
	var dle *fetch.DataLoadError
	if errors.As(err, &dle) && dle.Status == http.StatusNotFound {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusBadGateway, map[string]string{"error": "data unavailable"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
