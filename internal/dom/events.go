package dom

import "sync"

// Event types dispatched by the page.
const (
	EventClick  = "click"
	EventScroll = "scroll"
)

// Event is a dispatched notification. Target is nil for window events.
type Event struct {
	Type   string
	Target *Element
}

// Listener handles one event.
type Listener func(Event)

type entry struct {
	id uint64
	fn Listener
}

// registry stores listeners per target. Targets are node pointers or windows.
type registry struct {
	mu      sync.Mutex
	next    uint64
	targets map[any]map[string][]entry
}

func newRegistry() *registry {
	return &registry{targets: make(map[any]map[string][]entry)}
}

func (r *registry) add(target any, typ string, fn Listener) func() {
	r.mu.Lock()
	r.next++
	id := r.next
	byType, ok := r.targets[target]
	if !ok {
		byType = make(map[string][]entry)
		r.targets[target] = byType
	}
	byType[typ] = append(byType[typ], entry{id: id, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(target, typ, id) })
	}
}

func (r *registry) remove(target any, typ string, id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byType, ok := r.targets[target]
	if !ok {
		return
	}
	entries := byType[typ]
	for i, e := range entries {
		if e.id == id {
			byType[typ] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(byType[typ]) == 0 {
		delete(byType, typ)
	}
	if len(byType) == 0 {
		delete(r.targets, target)
	}
}

func (r *registry) snapshot(target any, typ string) []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.targets[target][typ]
	out := make([]Listener, len(entries))
	for i, e := range entries {
		out[i] = e.fn
	}
	return out
}

func (r *registry) count(target any, typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.targets[target][typ])
}

func (r *registry) forget(target any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.targets, target)
}

// Window carries the viewport scroll offset and window-level listeners.
type Window struct {
	mu        sync.Mutex
	scrollY   float64
	listeners *registry
}

// NewWindow returns a window scrolled to the top.
func NewWindow() *Window {
	return &Window{listeners: newRegistry()}
}

// ScrollY returns the vertical scroll offset in CSS pixels.
func (w *Window) ScrollY() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrollY
}

// ScrollTo moves the viewport and dispatches a scroll event.
func (w *Window) ScrollTo(y float64) {
	w.mu.Lock()
	w.scrollY = y
	w.mu.Unlock()
	w.Dispatch(Event{Type: EventScroll})
}

// AddEventListener registers fn for window events of type typ.
func (w *Window) AddEventListener(typ string, fn Listener) func() {
	return w.listeners.add(w, typ, fn)
}

// Dispatch runs the window listeners for ev.Type synchronously.
func (w *Window) Dispatch(ev Event) {
	for _, fn := range w.listeners.snapshot(w, ev.Type) {
		fn(ev)
	}
}

// ListenerCount reports how many window listeners of type typ are registered.
func (w *Window) ListenerCount(typ string) int {
	return w.listeners.count(w, typ)
}
