// Package scroll marks the page header once the viewport leaves the top.
package scroll

import "github.com/liminos-studio/site/internal/dom"

// Defaults for the header marker.
const (
	DefaultThreshold = 50
	ScrolledClass    = "scrolled"
)

// Controller toggles the scrolled marker on the header. It keeps no state:
// every scroll event is judged on the offset alone.
type Controller struct {
	header    *dom.Element
	threshold float64
}

// New creates a controller. A non-positive threshold uses the default.
func New(header *dom.Element, threshold float64) *Controller {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Controller{header: header, threshold: threshold}
}

// Update marks the header when y is past the threshold and clears it
// otherwise.
func (c *Controller) Update(y float64) {
	if c.header == nil {
		return
	}
	c.header.SetClass(ScrolledClass, y > c.threshold)
}

// Attach subscribes to the window's scroll events.
func (c *Controller) Attach(w *dom.Window) func() {
	return w.AddEventListener(dom.EventScroll, func(dom.Event) {
		c.Update(w.ScrollY())
	})
}
