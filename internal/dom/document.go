package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML page that controllers read and mutate in place.
// Every access goes through the document lock, so handlers running on
// different goroutines see one mutation at a time.
type Document struct {
	mu        sync.Mutex
	root      *html.Node
	listeners *registry
}

// Parse reads an HTML page into a Document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{root: root, listeners: newRegistry()}, nil
}

// ParseString is Parse over an in-memory page.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return html.Render(w, d.root)
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(findFirst(d.root, isAtom(atom.Html)))
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(findFirst(d.root, isAtom(atom.Body)))
}

// GetElementByID returns the first element whose id matches, or nil.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(findFirst(d.root, func(n *html.Node) bool {
		v, ok := getAttr(n, "id")
		return ok && v == id
	}))
}

// QueryClass returns the first element carrying class, or nil.
func (d *Document) QueryClass(class string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrap(findFirst(d.root, hasClassPred(class)))
}

// ElementsByClass returns every element carrying class, in document order.
func (d *Document) ElementsByClass(class string) []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrapAll(findAll(d.root, hasClassPred(class)))
}

// ElementsWithAttr returns every element that declares the attribute name.
func (d *Document) ElementsWithAttr(name string) []*Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.wrapAll(findAll(d.root, func(n *html.Node) bool {
		_, ok := getAttr(n, name)
		return ok
	}))
}

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{doc: d, n: n}
}

func (d *Document) wrapAll(nodes []*html.Node) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// walk visits n and its descendants depth-first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func findFirst(root *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func isAtom(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.DataAtom == a }
}

func hasClassPred(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func getAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func classList(n *html.Node) []string {
	v, _ := getAttr(n, "class")
	return strings.Fields(v)
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}
