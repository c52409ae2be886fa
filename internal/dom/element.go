package dom

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrForeignNode is returned when a node from another document, or one that
// is already attached, is appended.
var ErrForeignNode = errors.New("dom: node is attached or owned by another document")

// Element is a handle on one element node. Handles are cheap; two handles
// can point at the same node (see Same).
type Element struct {
	doc *Document
	n   *html.Node
}

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.n.Data }

// Same reports whether both handles refer to the same node.
func (e *Element) Same(o *Element) bool {
	return e != nil && o != nil && e.n == o.n
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return getAttr(e.n, name)
}

// SetAttr sets or replaces the named attribute.
func (e *Element) SetAttr(name, value string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	setAttr(e.n, name, value)
}

// RemoveAttr deletes the named attribute if present.
func (e *Element) RemoveAttr(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	removeAttr(e.n, name)
}

// HasClass reports whether the class attribute contains class.
func (e *Element) HasClass(class string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return hasClass(e.n, class)
}

// SetClass adds class when on is true and removes it otherwise.
func (e *Element) SetClass(class string, on bool) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var out []string
	present := false
	for _, c := range classList(e.n) {
		if c == class {
			if present || !on {
				continue
			}
			present = true
		}
		out = append(out, c)
	}
	if on && !present {
		out = append(out, class)
	}
	if len(out) == 0 {
		removeAttr(e.n, "class")
		return
	}
	setAttr(e.n, "class", strings.Join(out, " "))
}

// AddClass is SetClass(class, true).
func (e *Element) AddClass(class string) { e.SetClass(class, true) }

// RemoveClass is SetClass(class, false).
func (e *Element) RemoveClass(class string) { e.SetClass(class, false) }

// Text returns the concatenated text of the element's subtree.
func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var b strings.Builder
	walk(e.n, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return b.String()
}

// SetText replaces every child with a single text node.
func (e *Element) SetText(s string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	e.clearLocked()
	if s != "" {
		e.n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	var out []*Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// Find returns the first descendant carrying class, or nil.
func (e *Element) Find(class string) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if n := findFirst(c, hasClassPred(class)); n != nil {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// ClearChildren removes all child nodes and drops listeners registered on
// the removed subtree.
func (e *Element) ClearChildren() {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.clearLocked()
}

func (e *Element) clearLocked() {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		walk(c, func(n *html.Node) bool {
			e.doc.listeners.forget(n)
			return true
		})
		e.n.RemoveChild(c)
		c = next
	}
}

// AppendChild attaches a detached element created by the same document.
func (e *Element) AppendChild(child *Element) error {
	if child == nil || child.doc != e.doc {
		return ErrForeignNode
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	if child.n.Parent != nil {
		return ErrForeignNode
	}
	e.n.AppendChild(child.n)
	return nil
}

// AddEventListener registers fn for events of type typ dispatched on e.
// The returned function removes the registration; calling it twice is safe.
func (e *Element) AddEventListener(typ string, fn Listener) func() {
	return e.doc.listeners.add(e.n, typ, fn)
}

// Dispatch runs the listeners registered for ev.Type synchronously, in
// registration order.
func (e *Element) Dispatch(ev Event) {
	ev.Target = e
	for _, fn := range e.doc.listeners.snapshot(e.n, ev.Type) {
		fn(ev)
	}
}

// Click dispatches a click event.
func (e *Element) Click() { e.Dispatch(Event{Type: EventClick}) }

// ListenerCount reports how many listeners of type typ are registered.
func (e *Element) ListenerCount(typ string) int {
	return e.doc.listeners.count(e.n, typ)
}
