package projects

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/liminos-studio/site/internal/dom"
	"github.com/liminos-studio/site/internal/models"
)

// Source supplies the project list.
type Source interface {
	Projects(ctx context.Context) ([]models.Project, error)
}

// Labels holds the fixed copy used inside the grid.
type Labels struct {
	Error       string // shown in place of the cards when loading fails
	Link        string // detail link text
	StatusTitle string // tooltip on the status badge
}

// DefaultLabels returns the studio's Japanese copy.
func DefaultLabels() Labels {
	return Labels{
		Error:       "プロジェクト情報を読み込めませんでした。管理者にお問い合わせください。",
		Link:        "詳細を見る →",
		StatusTitle: "プロジェクトの状態",
	}
}

// Renderer loads projects and rebuilds a grid element as cards.
type Renderer struct {
	source Source
	labels Labels
}

// NewRenderer creates a renderer. Empty label fields take the defaults.
func NewRenderer(source Source, labels Labels) *Renderer {
	def := DefaultLabels()
	if labels.Error == "" {
		labels.Error = def.Error
	}
	if labels.Link == "" {
		labels.Link = def.Link
	}
	if labels.StatusTitle == "" {
		labels.StatusTitle = def.StatusTitle
	}
	return &Renderer{source: source, labels: labels}
}

// Render fetches the project list and replaces target's content with one
// card per project. On failure the grid shows a single error message and
// the error is returned after being logged. A nil target is a no-op.
func (r *Renderer) Render(ctx context.Context, target *dom.Element) error {
	if target == nil {
		return nil
	}

	list, err := r.source.Projects(ctx)
	if err != nil {
		log.Printf("projects: loading project data: %v", err)
		r.renderError(target)
		return fmt.Errorf("loading projects: %w", err)
	}

	if err := r.RenderCards(target, list); err != nil {
		log.Printf("projects: rendering cards: %v", err)
		r.renderError(target)
		return fmt.Errorf("rendering projects: %w", err)
	}
	return nil
}

// RenderCards clears target and appends one card per project in order.
func (r *Renderer) RenderCards(target *dom.Element, list []models.Project) error {
	target.ClearChildren()
	for i, p := range list {
		if err := target.AppendChild(r.card(target, p)); err != nil {
			return fmt.Errorf("appending card %d: %w", i, err)
		}
	}
	return nil
}

func (r *Renderer) renderError(target *dom.Element) {
	target.ClearChildren()
	msg := newElement(target, "p", "error-message")
	msg.SetText(r.labels.Error)
	_ = target.AppendChild(msg)
}

// card builds:
//
//	<article class="project-card">
//	  <div class="card-image" style="background-image: url('...');"></div>
//	  <h4>title</h4>
//	  <p>description</p>
//	  <div class="card-footer">
//	    <span class="tag">category</span>
//	    <span class="status status-<variant>" title="...">status</span>
//	  </div>
//	  <a href="link" target="_blank" rel="noopener noreferrer" class="card-link">...</a>
//	</article>
func (r *Renderer) card(owner *dom.Element, p models.Project) *dom.Element {
	card := newElement(owner, "article", "project-card")

	img := newElement(owner, "div", "card-image")
	img.SetAttr("style", fmt.Sprintf("background-image: url('%s');", cssURL(p.ImageURL)))
	appendAll(card, img)

	title := newElement(owner, "h4", "")
	title.SetText(p.Title)
	desc := newElement(owner, "p", "")
	desc.SetText(p.Description)

	footer := newElement(owner, "div", "card-footer")
	tag := newElement(owner, "span", "tag")
	tag.SetText(p.Category)
	status := newElement(owner, "span", "status status-"+StatusVariant(p.Status))
	status.SetAttr("title", r.labels.StatusTitle)
	status.SetText(p.Status)
	appendAll(footer, tag, status)

	appendAll(card, title, desc, footer)

	if p.HasLink() {
		link := newElement(owner, "a", "card-link")
		link.SetAttr("href", p.Link)
		link.SetAttr("target", "_blank")
		link.SetAttr("rel", "noopener noreferrer")
		link.SetText(r.labels.Link)
		appendAll(card, link)
	}
	return card
}

// StatusVariant derives the status badge modifier: lower-cased, with every
// whitespace character replaced by a hyphen.
func StatusVariant(status string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '-'
		}
		return r
	}, strings.ToLower(status))
}

// cssURLEscaper keeps an image URL from closing the quoted url('...') token.
var cssURLEscaper = strings.NewReplacer(`'`, "%27", `\`, "%5C", "\n", "", "\r", "")

func cssURL(u string) string { return cssURLEscaper.Replace(u) }

func newElement(owner *dom.Element, tag, class string) *dom.Element {
	el := owner.Document().CreateElement(tag)
	if class != "" {
		el.SetAttr("class", class)
	}
	return el
}

func appendAll(parent *dom.Element, children ...*dom.Element) {
	for _, c := range children {
		// children are freshly created by the same document
		_ = parent.AppendChild(c)
	}
}
