package waypoint

import (
	"errors"
	"fmt"
)

// DefaultGroup is the group watchers join when Options.Group is empty.
const DefaultGroup = "default"

// Configuration errors returned by Tracker.NewWatcher.
var (
	ErrNoElement = errors.New("no element option passed to watcher")
	ErrNoHandler = errors.New("no handler option passed to watcher")
)

// Handler is called with the watcher that crossed and the direction of
// travel.
type Handler func(w *Watcher, dir Direction)

// Options configures a Watcher. The zero value of every optional field
// matches the usual defaults: tracked against the viewport, in the
// "default" group, vertical, enabled, offset 0, continuous.
type Options struct {
	Element ElementID
	Handler Handler
	// Context is the scrollable element the watcher is measured against.
	Context ElementID
	Group   string
	// Horizontal tracks the x axis instead of y.
	Horizontal bool
	// Disabled creates the watcher without delivering callbacks.
	Disabled bool
	Offset   Offset
	// Discontinuous makes the watcher fire only when it is the outermost
	// of several group members crossed in the same pass.
	Discontinuous bool
}

// Watcher is a single tracked trigger point.
//
// Lifecycle: created -> active <-> disabled -> destroyed. Trigger points
// keep being recomputed while disabled; only delivery is suppressed.
type Watcher struct {
	key        string
	seq        int
	element    ElementID
	handler    Handler
	axis       Axis
	offset     Offset
	enabled    bool
	continuous bool
	destroyed  bool

	triggerPoint float64
	measured     bool

	tracker   *Tracker
	group     *Group
	container *Container
}

// Key returns the watcher's identity key ("waypoint-N").
func (w *Watcher) Key() string { return w.key }

// Element returns the watched element.
func (w *Watcher) Element() ElementID { return w.element }

// Axis returns the tracked axis.
func (w *Watcher) Axis() Axis { return w.axis }

// Offset returns the configured offset.
func (w *Watcher) Offset() Offset { return w.offset }

// Enabled reports whether callbacks are delivered.
func (w *Watcher) Enabled() bool { return w.enabled }

// Continuous reports the delivery policy for stacked crossings.
func (w *Watcher) Continuous() bool { return w.continuous }

// Destroyed reports whether Destroy has run.
func (w *Watcher) Destroyed() bool { return w.destroyed }

// Group returns the owning group.
func (w *Watcher) Group() *Group { return w.group }

// Container returns the owning scroll container.
func (w *Watcher) Container() *Container { return w.container }

// TriggerPoint returns the last computed trigger point. ok is false until
// the owning container has refreshed at least once.
func (w *Watcher) TriggerPoint() (point float64, ok bool) {
	return w.triggerPoint, w.measured
}

// OuterSize measures the watched element. Offset functions use it to
// position a trigger relative to the element's own size.
func (w *Watcher) OuterSize() (Size, error) {
	if w.element == Viewport {
		return w.tracker.host.InnerSize(Viewport)
	}
	return w.tracker.host.OuterSize(w.element)
}

// Enable refreshes the owning container so the watcher does not fire on
// stale geometry, then resumes delivery.
func (w *Watcher) Enable() error {
	if w.destroyed {
		return nil
	}
	err := w.container.Refresh()
	w.enabled = true
	if err != nil {
		return fmt.Errorf("enable %s: %w", w.key, err)
	}
	return nil
}

// Disable stops delivery immediately.
func (w *Watcher) Disable() {
	w.enabled = false
}

// Destroy detaches the watcher from its group, its container and the
// tracker. Calling it again is a no-op.
func (w *Watcher) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	w.enabled = false
	w.container.remove(w)
	w.group.remove(w)
	delete(w.tracker.watchers, w.key)
}

// Next returns the group member with the next trigger point, or nil.
func (w *Watcher) Next() *Watcher {
	return w.group.Next(w)
}

// Previous returns the group member with the previous trigger point, or
// nil.
func (w *Watcher) Previous() *Watcher {
	return w.group.Previous(w)
}

func (w *Watcher) queueTrigger(dir Direction) {
	w.group.queueTrigger(w, dir)
}

// trigger delivers a crossing. Destroyed watchers can still sit in a
// group queue when a handler destroys them mid-flush.
func (w *Watcher) trigger(dir Direction) {
	if !w.enabled || w.destroyed {
		return
	}
	w.handler(w, dir)
}
