package waypoint

import (
	"fmt"
	"testing"

	"github.com/billie-coop/waypoints/internal/frame"
)

type fakeElement struct {
	offset Point
	outer  Size
	inner  Size
	scroll Point
}

// fakeHost is an in-memory Host whose geometry the tests set directly.
type fakeHost struct {
	elements  map[ElementID]*fakeElement
	listeners map[ElementID]map[EventKind]map[int]func()
	nextID    int
	touch     bool
}

func newFakeHost(width, height float64) *fakeHost {
	h := &fakeHost{
		elements:  make(map[ElementID]*fakeElement),
		listeners: make(map[ElementID]map[EventKind]map[int]func()),
	}
	h.elements[Viewport] = &fakeElement{
		outer: Size{Width: width, Height: height},
		inner: Size{Width: width, Height: height},
	}
	return h
}

func (h *fakeHost) add(id ElementID, offset Point, outer Size) *fakeElement {
	el := &fakeElement{offset: offset, outer: outer, inner: outer}
	h.elements[id] = el
	return el
}

func (h *fakeHost) get(id ElementID) (*fakeElement, error) {
	el, ok := h.elements[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	return el, nil
}

func (h *fakeHost) Offset(id ElementID) (Point, error) {
	el, err := h.get(id)
	if err != nil {
		return Point{}, err
	}
	return el.offset, nil
}

func (h *fakeHost) OuterSize(id ElementID) (Size, error) {
	el, err := h.get(id)
	if err != nil {
		return Size{}, err
	}
	return el.outer, nil
}

func (h *fakeHost) InnerSize(id ElementID) (Size, error) {
	el, err := h.get(id)
	if err != nil {
		return Size{}, err
	}
	return el.inner, nil
}

func (h *fakeHost) Scroll(id ElementID) (Point, error) {
	el, err := h.get(id)
	if err != nil {
		return Point{}, err
	}
	return el.scroll, nil
}

func (h *fakeHost) Listen(id ElementID, kind EventKind, fn func()) (func(), error) {
	if _, err := h.get(id); err != nil {
		return nil, err
	}
	if h.listeners[id] == nil {
		h.listeners[id] = make(map[EventKind]map[int]func())
	}
	if h.listeners[id][kind] == nil {
		h.listeners[id][kind] = make(map[int]func())
	}
	h.nextID++
	n := h.nextID
	h.listeners[id][kind][n] = fn
	return func() { delete(h.listeners[id][kind], n) }, nil
}

func (h *fakeHost) IsTouch() bool { return h.touch }

func (h *fakeHost) emit(id ElementID, kind EventKind) {
	for _, fn := range h.listeners[id][kind] {
		fn()
	}
}

func (h *fakeHost) scrollTo(id ElementID, p Point) {
	h.elements[id].scroll = p
	h.emit(id, ScrollEvent)
}

func (h *fakeHost) listenerCount(id ElementID) int {
	n := 0
	for _, byID := range h.listeners[id] {
		n += len(byID)
	}
	return n
}

type crossing struct {
	key string
	dir Direction
}

// recorder collects handler calls in order.
type recorder struct {
	calls []crossing
}

func (r *recorder) handler(w *Watcher, dir Direction) {
	r.calls = append(r.calls, crossing{key: w.Key(), dir: dir})
}

func (r *recorder) reset() { r.calls = nil }

type harness struct {
	host    *fakeHost
	frames  *frame.Manual
	tracker *Tracker
	rec     *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	host := newFakeHost(200, 100)
	frames := frame.NewManual()
	return &harness{
		host:    host,
		frames:  frames,
		tracker: New(host, frames),
		rec:     &recorder{},
	}
}

func (h *harness) settle() {
	h.frames.RunUntilIdle(10)
}

func (h *harness) scrollY(y float64) {
	h.host.scrollTo(Viewport, Point{Y: y})
	h.settle()
}

func (h *harness) watch(t *testing.T, id ElementID, y float64, opts Options) *Watcher {
	t.Helper()
	if _, ok := h.host.elements[id]; !ok {
		h.host.add(id, Point{Y: y}, Size{Width: 200, Height: 20})
	}
	opts.Element = id
	if opts.Handler == nil {
		opts.Handler = h.rec.handler
	}
	w, err := h.tracker.NewWatcher(opts)
	if err != nil {
		t.Fatalf("NewWatcher(%s): %v", id, err)
	}
	return w
}
