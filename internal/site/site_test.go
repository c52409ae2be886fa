package site

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"

	"github.com/liminos-studio/site/internal/db"
	"github.com/liminos-studio/site/internal/fetch"
	"github.com/liminos-studio/site/internal/page"
	"github.com/liminos-studio/site/internal/prefs"
	"github.com/liminos-studio/site/internal/progress"
	"github.com/liminos-studio/site/internal/projects"
)

const testTemplate = `<!DOCTYPE html>
<html lang="ja">
<head><title data-i18n="site_title">Studio</title></head>
<body data-theme="dark">
  <header id="main-header" class="site-header">
    <button id="theme-toggle">☀️</button>
    <button class="lang-btn active" data-lang="ja">日本語</button>
    <button class="lang-btn" data-lang="en">English</button>
  </header>
  <h2 data-i18n="hero_title">境界のその先へ</h2>
  <div class="project-grid"><article class="project-card">Loading</article></div>
</body>
</html>`

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		"projects.json": {Data: []byte(`[
			{"title":"Threshold","description":"Doors.","imageUrl":"img/t.png","category":"Game","status":"In Progress","link":"https://example.com/t"},
			{"title":"Undertow","description":"Tides.","imageUrl":"img/u.png","category":"Toy","status":"On Hold"}
		]`)},
		"i18n/ja.json":  {Data: []byte(`{"site_title":"スタジオ","hero_title":"境界のその先へ"}`)},
		"i18n/en.json":  {Data: []byte(`{"site_title":"Studio","hero_title":"Beyond the threshold"}`)},
		"css/style.css": {Data: []byte(`body{}`)},
		"notes.txt":     {Data: []byte(`not shipped`)},
	}
}

func newTestRenderer(assets fstest.MapFS) *Renderer {
	return NewRenderer([]byte(testTemplate), fetch.NewFS(assets), page.Options{
		Labels:          projects.DefaultLabels(),
		ScrollThreshold: 50,
		DiscardStale:    true,
	})
}

func memoryPrefs(seed map[string]string) (*prefs.Preferences, *prefs.MemoryStore) {
	store := prefs.NewMemoryStore(seed)
	return prefs.New(store, prefs.ThemeDark, "ja"), store
}

func TestRenderDefaultPage(t *testing.T) {
	r := newTestRenderer(testAssets())
	p, _ := memoryPrefs(nil)

	out, err := r.Render(context.Background(), Request{Prefs: p})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.Result.ProjectsErr != nil || out.Result.LangErr != nil {
		t.Fatalf("unexpected load errors: %+v", out.Result)
	}
	if out.Theme != prefs.ThemeDark || out.Lang != "ja" {
		t.Errorf("theme/lang = %s/%s, want dark/ja", out.Theme, out.Lang)
	}

	html := string(out.HTML)
	if n := strings.Count(html, `class="project-card"`); n != 2 {
		t.Errorf("project cards = %d, want 2", n)
	}
	if !strings.Contains(html, "status-in-progress") || !strings.Contains(html, "status-on-hold") {
		t.Error("expected status variants in output")
	}
	if strings.Contains(html, "Loading") {
		t.Error("placeholder card should be replaced")
	}
}

func TestRenderActions(t *testing.T) {
	r := newTestRenderer(testAssets())
	p, store := memoryPrefs(nil)

	out, err := r.Render(context.Background(), Request{
		Prefs:       p,
		ToggleTheme: true,
		Lang:        "en",
		Scroll:      true,
		ScrollY:     80,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out.ActionErr != nil {
		t.Fatalf("ActionErr: %v", out.ActionErr)
	}

	html := string(out.HTML)
	for _, want := range []string{
		`data-theme="light"`,
		`<html lang="en">`,
		"Beyond the threshold",
		`class="site-header scrolled"`,
		"🌙",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("output missing %q", want)
		}
	}

	ctx := context.Background()
	if v, _, _ := store.Get(ctx, prefs.KeyTheme); v != "light" {
		t.Errorf("stored theme = %q, want light", v)
	}
	if v, _, _ := store.Get(ctx, prefs.KeyLang); v != "en" {
		t.Errorf("stored lang = %q, want en", v)
	}
}

func TestRenderFailedSwitchKeepsLanguage(t *testing.T) {
	r := newTestRenderer(testAssets())
	p, store := memoryPrefs(nil)

	out, err := r.Render(context.Background(), Request{Prefs: p, Lang: "fr"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !errors.Is(out.ActionErr, fetch.ErrLoad) {
		t.Errorf("ActionErr = %v, want a load error", out.ActionErr)
	}
	if out.Lang != "ja" {
		t.Errorf("active lang = %q, want ja", out.Lang)
	}
	if v, _, _ := store.Get(context.Background(), prefs.KeyLang); v != "ja" {
		t.Errorf("stored lang = %q, want ja", v)
	}
}

func TestRenderDegradedProjects(t *testing.T) {
	assets := testAssets()
	delete(assets, "projects.json")
	r := newTestRenderer(assets)
	p, _ := memoryPrefs(nil)

	out, err := r.Render(context.Background(), Request{Prefs: p})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !errors.Is(out.Result.ProjectsErr, fetch.ErrLoad) {
		t.Errorf("ProjectsErr = %v, want a load error", out.Result.ProjectsErr)
	}
	if out.Result.LangErr != nil {
		t.Errorf("translations should still load, got %v", out.Result.LangErr)
	}
	if !strings.Contains(string(out.HTML), `class="error-message"`) {
		t.Error("expected the error message in the grid")
	}
}

func TestRenderRequiresPrefs(t *testing.T) {
	r := newTestRenderer(testAssets())
	if _, err := r.Render(context.Background(), Request{}); err == nil {
		t.Error("expected error without preferences")
	}
}

type recordingReporter struct {
	total    int
	messages []string
	finished bool
}

func (r *recordingReporter) Start(total int) { r.total = total }
func (r *recordingReporter) Update(_ int, m string) { r.messages = append(r.messages, m) }
func (r *recordingReporter) Finish() { r.finished = true }

var _ progress.Reporter = (*recordingReporter)(nil)

func TestBuild(t *testing.T) {
	assets := testAssets()
	r := newTestRenderer(assets)
	out := t.TempDir()
	rep := &recordingReporter{}

	res, err := r.Build(context.Background(), BuildOptions{
		OutputDir:    out,
		DefaultTheme: prefs.ThemeDark,
		DefaultLang:  "ja",
		Languages:    []string{"ja", "en"},
		Assets:       assets,
		Include:      []string{"projects.json", "i18n/*.json", "css/**"},
		Reporter:     rep,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	wantPages := []string{"index.html", "index.ja.html", "index.en.html"}
	if strings.Join(res.Pages, ",") != strings.Join(wantPages, ",") {
		t.Errorf("pages = %v, want %v", res.Pages, wantPages)
	}
	wantAssets := []string{"assets/css/style.css", "assets/i18n/en.json", "assets/i18n/ja.json", "assets/projects.json"}
	if strings.Join(res.Assets, ",") != strings.Join(wantAssets, ",") {
		t.Errorf("assets = %v, want %v", res.Assets, wantAssets)
	}
	if len(res.Degraded) != 0 {
		t.Errorf("degraded = %v, want none", res.Degraded)
	}

	en, err := os.ReadFile(filepath.Join(out, "index.en.html"))
	if err != nil {
		t.Fatalf("reading index.en.html: %v", err)
	}
	if !strings.Contains(string(en), "Beyond the threshold") {
		t.Error("index.en.html should be in English")
	}
	def, err := os.ReadFile(filepath.Join(out, "index.html"))
	if err != nil {
		t.Fatalf("reading index.html: %v", err)
	}
	if !strings.Contains(string(def), "スタジオ") {
		t.Error("index.html should use the default language")
	}
	if _, err := os.Stat(filepath.Join(out, "assets", "notes.txt")); !os.IsNotExist(err) {
		t.Error("files outside the include globs should not be copied")
	}

	if rep.total != 7 || len(rep.messages) != 7 || !rep.finished {
		t.Errorf("reporter total=%d updates=%d finished=%v", rep.total, len(rep.messages), rep.finished)
	}
}

func TestBuildStrict(t *testing.T) {
	assets := testAssets()
	delete(assets, "i18n/en.json")
	r := newTestRenderer(assets)

	opts := BuildOptions{
		OutputDir:    t.TempDir(),
		DefaultTheme: prefs.ThemeDark,
		DefaultLang:  "ja",
		Languages:    []string{"ja", "en"},
	}
	res, err := r.Build(context.Background(), opts)
	if err != nil {
		t.Fatalf("lenient Build: %v", err)
	}
	if len(res.Degraded) != 1 || res.Degraded[0] != "index.en.html" {
		t.Errorf("degraded = %v, want [index.en.html]", res.Degraded)
	}

	opts.OutputDir = t.TempDir()
	opts.Strict = true
	if _, err := r.Build(context.Background(), opts); !errors.Is(err, fetch.ErrLoad) {
		t.Errorf("strict Build error = %v, want a load error", err)
	}
}

func TestMatchAssets(t *testing.T) {
	files, err := MatchAssets(testAssets(), []string{"i18n/*.json", "**/*.json"})
	if err != nil {
		t.Fatalf("MatchAssets: %v", err)
	}
	want := "i18n/en.json,i18n/ja.json,projects.json"
	if got := strings.Join(files, ","); got != want {
		t.Errorf("MatchAssets = %s, want %s", got, want)
	}

	if _, err := MatchAssets(testAssets(), []string{"["}); err == nil {
		t.Error("expected error for a malformed pattern")
	}
	if files, _ := MatchAssets(nil, []string{"**"}); files != nil {
		t.Errorf("nil fs should match nothing, got %v", files)
	}
}

// --- HTTP handlers ---

func setupHandler(t *testing.T, cfg HandlerConfig) chi.Router {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	assets := testAssets()
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = prefs.ThemeDark
	}
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = "ja"
	}
	h := NewHandler(newTestRenderer(assets), prefs.NewVisitors(database), http.FileServerFS(assets), cfg)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, target string, cookie *http.Cookie, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func visitorCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == VisitorCookie {
			return c
		}
	}
	t.Fatal("response did not set the visitor cookie")
	return nil
}

func TestIndexIssuesVisitor(t *testing.T) {
	r := setupHandler(t, HandlerConfig{})

	w := do(t, r, "GET", "/", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	c := visitorCookie(t, w)
	if !c.HttpOnly || c.Path != "/" {
		t.Errorf("cookie = %+v", c)
	}

	// The same visitor keeps the same id.
	w = do(t, r, "GET", "/", c, nil)
	if again := visitorCookie(t, w); again.Value != c.Value {
		t.Errorf("visitor id changed: %s -> %s", c.Value, again.Value)
	}

	// An unknown id is replaced.
	w = do(t, r, "GET", "/", &http.Cookie{Name: VisitorCookie, Value: "not-a-uuid"}, nil)
	if replaced := visitorCookie(t, w); replaced.Value == "not-a-uuid" {
		t.Error("unknown visitor id should be replaced")
	}
}

func TestThemeActionPersists(t *testing.T) {
	r := setupHandler(t, HandlerConfig{})
	c := visitorCookie(t, do(t, r, "GET", "/", nil, nil))

	w := do(t, r, "POST", "/actions/theme", c, nil)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("POST /actions/theme = %d %q", w.Code, w.Header().Get("Location"))
	}

	w = do(t, r, "GET", "/", c, nil)
	if !strings.Contains(w.Body.String(), `data-theme="light"`) {
		t.Error("theme should be light after one toggle")
	}

	// Another visitor is unaffected.
	w = do(t, r, "GET", "/", nil, nil)
	if !strings.Contains(w.Body.String(), `data-theme="dark"`) {
		t.Error("a new visitor should see the default theme")
	}
}

func TestLangActionPersists(t *testing.T) {
	r := setupHandler(t, HandlerConfig{})
	c := visitorCookie(t, do(t, r, "GET", "/", nil, nil))

	w := do(t, r, "POST", "/actions/lang/en", c, nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("POST /actions/lang/en = %d", w.Code)
	}

	body := do(t, r, "GET", "/", c, nil).Body.String()
	if !strings.Contains(body, "Beyond the threshold") || !strings.Contains(body, `<html lang="en">`) {
		t.Error("page should render in English after switching")
	}

	// A missing resource leaves the language alone.
	do(t, r, "POST", "/actions/lang/fr", c, nil)
	body = do(t, r, "GET", "/", c, nil).Body.String()
	if !strings.Contains(body, "Beyond the threshold") {
		t.Error("failed switch should keep English")
	}
}

func TestLangActionRejectsMalformedCode(t *testing.T) {
	r := setupHandler(t, HandlerConfig{})
	w := do(t, r, "POST", "/actions/lang/bad!code", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestNegotiatedDefaultLanguage(t *testing.T) {
	r := setupHandler(t, HandlerConfig{Negotiate: true, Languages: []string{"ja", "en"}})

	w := do(t, r, "GET", "/", nil, map[string]string{"Accept-Language": "en-US,en;q=0.9"})
	if !strings.Contains(w.Body.String(), "Beyond the threshold") {
		t.Error("English browser should get English by default")
	}

	w = do(t, r, "GET", "/", nil, map[string]string{"Accept-Language": "de-DE"})
	if !strings.Contains(w.Body.String(), "スタジオ") {
		t.Error("unmatched browser should get the default language")
	}

	// Negotiation is off unless enabled.
	plain := setupHandler(t, HandlerConfig{Languages: []string{"ja", "en"}})
	w = do(t, plain, "GET", "/", nil, map[string]string{"Accept-Language": "en"})
	if !strings.Contains(w.Body.String(), "スタジオ") {
		t.Error("without negotiation the configured default applies")
	}
}

func TestAPIProjects(t *testing.T) {
	r := setupHandler(t, HandlerConfig{})

	w := do(t, r, "GET", "/api/projects", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 2 || list[0]["title"] != "Threshold" {
		t.Errorf("projects = %v", list)
	}
	if _, ok := list[1]["link"]; ok {
		t.Error("empty link should be omitted")
	}
}

func TestAPITranslations(t *testing.T) {
	r := setupHandler(t, HandlerConfig{})

	w := do(t, r, "GET", "/api/translations?lang=en", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var table map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &table); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if table["hero_title"] != "Beyond the threshold" {
		t.Errorf("table = %v", table)
	}

	if w := do(t, r, "GET", "/api/translations", nil, nil); !strings.Contains(w.Body.String(), "スタジオ") {
		t.Error("missing lang should use the default language")
	}
	if w := do(t, r, "GET", "/api/translations?lang=fr", nil, nil); w.Code != http.StatusNotFound {
		t.Errorf("missing table status = %d, want 404", w.Code)
	}
	if w := do(t, r, "GET", "/api/translations?lang=../x", nil, nil); w.Code != http.StatusBadRequest {
		t.Errorf("malformed lang status = %d, want 400", w.Code)
	}
}

func TestAssetsServed(t *testing.T) {
	r := setupHandler(t, HandlerConfig{})
	w := do(t, r, "GET", "/assets/css/style.css", nil, nil)
	if w.Code != http.StatusOK || w.Body.String() != "body{}" {
		t.Errorf("asset = %d %q", w.Code, w.Body.String())
	}
}
