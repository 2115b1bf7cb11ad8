package waypoint

import (
	"errors"
	"fmt"
	"sort"

	"github.com/billie-coop/waypoints/internal/frame"
	"go.uber.org/zap"
)

// Tracker owns every watcher, container and group registry. Nothing in
// this package is global; two trackers never see each other's watchers.
//
// A Tracker is not safe for concurrent use. All calls, and every callback
// scheduled through its frame.Requester, must happen on the host's event
// goroutine.
type Tracker struct {
	host   Host
	frames frame.Requester
	log    *zap.Logger

	watchers   map[string]*Watcher
	containers map[ElementID]*Container
	groups     map[groupKey]*Group

	nextWatcher   int
	nextContainer int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the tracker logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(t *Tracker) {
		if log != nil {
			t.log = log
		}
	}
}

// New creates a tracker bound to host. frames schedules group flushes and
// throttled scroll/resize handling.
func New(host Host, frames frame.Requester, opts ...Option) *Tracker {
	t := &Tracker{
		host:       host,
		frames:     frames,
		log:        zap.NewNop(),
		watchers:   make(map[string]*Watcher),
		containers: make(map[ElementID]*Container),
		groups:     make(map[groupKey]*Group),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewWatcher creates and registers a watcher, then refreshes its container
// so a watcher created past its trigger point fires on the next frame.
func (t *Tracker) NewWatcher(opts Options) (*Watcher, error) {
	if opts.Element == "" {
		return nil, ErrNoElement
	}
	if opts.Handler == nil {
		return nil, ErrNoHandler
	}
	if opts.Context == "" {
		opts.Context = Viewport
	}
	if opts.Group == "" {
		opts.Group = DefaultGroup
	}

	if opts.Element != Viewport {
		if _, err := t.host.Offset(opts.Element); err != nil {
			return nil, fmt.Errorf("watch %s: %w", opts.Element, err)
		}
	}
	container, err := t.findOrCreateContainer(opts.Context)
	if err != nil {
		return nil, fmt.Errorf("watch %s in %s: %w", opts.Element, opts.Context, err)
	}

	axis := Vertical
	if opts.Horizontal {
		axis = Horizontal
	}
	w := &Watcher{
		key:        fmt.Sprintf("waypoint-%d", t.nextWatcher),
		seq:        t.nextWatcher,
		element:    opts.Element,
		handler:    opts.Handler,
		axis:       axis,
		offset:     opts.Offset,
		enabled:    !opts.Disabled,
		continuous: !opts.Discontinuous,
		tracker:    t,
		group:      t.findOrCreateGroup(opts.Group, axis),
		container:  container,
	}
	t.nextWatcher++

	w.group.add(w)
	container.add(w)
	t.watchers[w.key] = w

	t.log.Debug("watcher created",
		zap.String("watcher", w.key),
		zap.String("element", string(w.element)),
		zap.String("context", string(container.element)),
		zap.String("group", w.group.id),
		zap.String("offset", w.offset.String()))
	return w, nil
}

// lifecycleOp is the closed set of operations applied to every watcher.
type lifecycleOp int

const (
	opDestroy lifecycleOp = iota
	opDisable
	opEnable
)

func (t *Tracker) invokeAll(op lifecycleOp) error {
	var errs []error
	for _, w := range t.Watchers() {
		switch op {
		case opDestroy:
			w.Destroy()
		case opDisable:
			w.Disable()
		case opEnable:
			if err := w.Enable(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// DestroyAll destroys every watcher. Containers leave the registry as their
// last watcher goes.
func (t *Tracker) DestroyAll() {
	_ = t.invokeAll(opDestroy)
}

// DisableAll disables every watcher.
func (t *Tracker) DisableAll() {
	_ = t.invokeAll(opDisable)
}

// EnableAll enables every watcher.
func (t *Tracker) EnableAll() error {
	return t.invokeAll(opEnable)
}

// RefreshAll refreshes every container. Call it after the host layout
// changes without a resize event (content inserted or removed).
func (t *Tracker) RefreshAll() error {
	var errs []error
	for _, c := range t.Containers() {
		if err := c.Refresh(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ViewportHeight returns the host window height, 0 if unknown.
func (t *Tracker) ViewportHeight() float64 {
	size, err := t.host.InnerSize(Viewport)
	if err != nil {
		return 0
	}
	return size.Height
}

// ViewportWidth returns the host window width, 0 if unknown.
func (t *Tracker) ViewportWidth() float64 {
	size, err := t.host.InnerSize(Viewport)
	if err != nil {
		return 0
	}
	return size.Width
}

// Container returns the container for element, or nil.
func (t *Tracker) Container(element ElementID) *Container {
	return t.containers[element]
}

// Group returns the group (name, axis), or nil if no watcher ever joined
// it.
func (t *Tracker) Group(name string, axis Axis) *Group {
	return t.groups[groupKey{name: name, axis: axis}]
}

// Watcher returns the watcher with key, or nil.
func (t *Tracker) Watcher(key string) *Watcher {
	return t.watchers[key]
}

// Watchers returns a snapshot of all live watchers in creation order.
func (t *Tracker) Watchers() []*Watcher {
	out := make([]*Watcher, 0, len(t.watchers))
	for _, w := range t.watchers {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Containers returns a snapshot of all live containers in creation order.
func (t *Tracker) Containers() []*Container {
	out := make([]*Container, 0, len(t.containers))
	for _, c := range t.containers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (t *Tracker) findOrCreateContainer(element ElementID) (*Container, error) {
	if c, ok := t.containers[element]; ok {
		return c, nil
	}
	c, err := newContainer(t, element)
	if err != nil {
		return nil, err
	}
	t.nextContainer++
	t.containers[element] = c
	t.log.Debug("container created",
		zap.String("container", c.key),
		zap.String("element", string(element)))
	return c, nil
}

func (t *Tracker) findOrCreateGroup(name string, axis Axis) *Group {
	key := groupKey{name: name, axis: axis}
	if g, ok := t.groups[key]; ok {
		return g
	}
	g := newGroup(name, axis, t.log)
	t.groups[key] = g
	return g
}
