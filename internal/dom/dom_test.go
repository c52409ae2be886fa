package dom

import (
	"strings"
	"testing"
)

const testPage = `<!DOCTYPE html>
<html lang="ja">
<head><title>t</title></head>
<body data-theme="dark">
  <header id="main-header" class="site-header"></header>
  <h1 data-i18n="hero_title">Old</h1>
  <p data-i18n="hero_sub">Sub <b>bold</b></p>
  <div class="project-grid"><article class="sample">x</article></div>
  <button class="lang-btn active" data-lang="ja">JA</button>
  <button class="lang-btn" data-lang="en">EN</button>
</body>
</html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(testPage)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func TestLookups(t *testing.T) {
	doc := mustParse(t)

	if h := doc.GetElementByID("main-header"); h == nil || h.Tag() != "header" {
		t.Fatalf("GetElementByID(main-header) = %v", h)
	}
	if doc.GetElementByID("missing") != nil {
		t.Error("expected nil for missing id")
	}
	if doc.GetElementByID("") != nil {
		t.Error("expected nil for empty id")
	}

	buttons := doc.ElementsByClass("lang-btn")
	if len(buttons) != 2 {
		t.Fatalf("lang buttons = %d, want 2", len(buttons))
	}
	if code, _ := buttons[1].Attr("data-lang"); code != "en" {
		t.Errorf("second button lang = %q, want en", code)
	}

	keyed := doc.ElementsWithAttr("data-i18n")
	if len(keyed) != 2 {
		t.Errorf("keyed elements = %d, want 2", len(keyed))
	}

	if doc.Body() == nil || doc.DocumentElement() == nil {
		t.Fatal("expected body and html elements")
	}
	if lang, _ := doc.DocumentElement().Attr("lang"); lang != "ja" {
		t.Errorf("html lang = %q, want ja", lang)
	}
}

func TestClassMutation(t *testing.T) {
	doc := mustParse(t)
	h := doc.GetElementByID("main-header")

	h.AddClass("scrolled")
	h.AddClass("scrolled")
	if v, _ := h.Attr("class"); v != "site-header scrolled" {
		t.Errorf("class = %q, want %q", v, "site-header scrolled")
	}

	h.RemoveClass("scrolled")
	if h.HasClass("scrolled") {
		t.Error("scrolled should be removed")
	}
	h.RemoveClass("site-header")
	if _, ok := h.Attr("class"); ok {
		t.Error("empty class attribute should be removed")
	}
}

func TestTextAndChildren(t *testing.T) {
	doc := mustParse(t)
	p := doc.ElementsWithAttr("data-i18n")[1]

	if got := p.Text(); got != "Sub bold" {
		t.Errorf("Text() = %q, want %q", got, "Sub bold")
	}
	p.SetText("<script>x</script>")
	if got := p.Text(); got != "<script>x</script>" {
		t.Errorf("Text() after SetText = %q", got)
	}
	if !strings.Contains(doc.String(), "&lt;script&gt;x&lt;/script&gt;") {
		t.Error("text should be escaped on render")
	}
	if len(p.Children()) != 0 {
		t.Error("SetText should remove element children")
	}
}

func TestAppendAndClear(t *testing.T) {
	doc := mustParse(t)
	grid := doc.QueryClass("project-grid")

	grid.ClearChildren()
	if len(grid.Children()) != 0 {
		t.Fatal("grid should be empty")
	}

	card := doc.CreateElement("ARTICLE")
	card.SetAttr("class", "project-card")
	if err := grid.AppendChild(card); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if err := grid.AppendChild(card); err != ErrForeignNode {
		t.Errorf("re-append error = %v, want ErrForeignNode", err)
	}

	other := mustParse(t)
	if err := grid.AppendChild(other.CreateElement("p")); err != ErrForeignNode {
		t.Errorf("foreign append error = %v, want ErrForeignNode", err)
	}

	children := grid.Children()
	if len(children) != 1 || children[0].Tag() != "article" {
		t.Fatalf("children = %v", children)
	}
	if !children[0].Same(card) {
		t.Error("child handle should refer to the appended card")
	}
	if grid.Find("project-card") == nil {
		t.Error("Find should locate the card")
	}
}

func TestListeners(t *testing.T) {
	doc := mustParse(t)
	btn := doc.ElementsByClass("lang-btn")[1]

	var calls []string
	removeA := btn.AddEventListener(EventClick, func(ev Event) {
		if !ev.Target.Same(btn) {
			t.Error("target should be the button")
		}
		calls = append(calls, "a")
	})
	btn.AddEventListener(EventClick, func(Event) { calls = append(calls, "b") })

	btn.Click()
	removeA()
	removeA()
	btn.Click()

	if strings.Join(calls, ",") != "a,b,b" {
		t.Errorf("calls = %v, want a,b,b", calls)
	}
	if n := btn.ListenerCount(EventClick); n != 1 {
		t.Errorf("listener count = %d, want 1", n)
	}
}

func TestClearDropsListeners(t *testing.T) {
	doc := mustParse(t)
	grid := doc.QueryClass("project-grid")
	sample := grid.Children()[0]
	sample.AddEventListener(EventClick, func(Event) {})

	grid.ClearChildren()
	if n := sample.ListenerCount(EventClick); n != 0 {
		t.Errorf("listeners on removed node = %d, want 0", n)
	}
}

func TestWindowScroll(t *testing.T) {
	w := NewWindow()
	var seen []float64
	remove := w.AddEventListener(EventScroll, func(ev Event) {
		if ev.Target != nil {
			t.Error("window events have no element target")
		}
		seen = append(seen, w.ScrollY())
	})

	w.ScrollTo(10)
	w.ScrollTo(80)
	remove()
	w.ScrollTo(5)

	if len(seen) != 2 || seen[0] != 10 || seen[1] != 80 {
		t.Errorf("seen = %v, want [10 80]", seen)
	}
	if w.ScrollY() != 5 {
		t.Errorf("ScrollY = %v, want 5", w.ScrollY())
	}
	if w.ListenerCount(EventScroll) != 0 {
		t.Error("listener should be removed")
	}
}
