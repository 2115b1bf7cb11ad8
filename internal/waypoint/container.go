package waypoint

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"go.uber.org/zap"
)

// Container is the per-scrollable-element state: its watchers split by
// axis, the last observed scroll position and the throttled scroll/resize
// listeners.
type Container struct {
	tracker *Tracker
	element ElementID
	key     string
	seq     int

	oldScroll Point
	didScroll bool
	didResize bool

	watchers map[Axis]map[string]*Watcher
	unlisten []func()
	removed  bool
}

func newContainer(t *Tracker, element ElementID) (*Container, error) {
	scroll, err := t.host.Scroll(element)
	if err != nil {
		return nil, err
	}

	c := &Container{
		tracker:   t,
		element:   element,
		key:       fmt.Sprintf("waypoint-context-%d", t.nextContainer),
		seq:       t.nextContainer,
		oldScroll: scroll,
		watchers: map[Axis]map[string]*Watcher{
			Vertical:   {},
			Horizontal: {},
		},
	}
	if err := c.listen(); err != nil {
		c.stopListening()
		return nil, err
	}
	return c, nil
}

// Element returns the scrollable element.
func (c *Container) Element() ElementID { return c.element }

// Key returns the container key ("waypoint-context-N").
func (c *Container) Key() string { return c.key }

// Len returns the number of watchers on both axes.
func (c *Container) Len() int {
	return len(c.watchers[Vertical]) + len(c.watchers[Horizontal])
}

// Watchers returns the watchers on axis in creation order.
func (c *Container) Watchers(axis Axis) []*Watcher {
	return c.ordered(axis)
}

// Scroll returns the scroll baseline used for crossing detection.
func (c *Container) Scroll() Point { return c.oldScroll }

// InnerSize returns the visible size of the container. The viewport is
// measured through the tracker.
func (c *Container) InnerSize() (Size, error) {
	return c.tracker.host.InnerSize(c.element)
}

// InnerHeight returns the visible height, 0 if it cannot be measured.
func (c *Container) InnerHeight() float64 {
	if c.element == Viewport {
		return c.tracker.ViewportHeight()
	}
	size, err := c.InnerSize()
	if err != nil {
		return 0
	}
	return size.Height
}

// InnerWidth returns the visible width, 0 if it cannot be measured.
func (c *Container) InnerWidth() float64 {
	if c.element == Viewport {
		return c.tracker.ViewportWidth()
	}
	size, err := c.InnerSize()
	if err != nil {
		return 0
	}
	return size.Width
}

// Destroy destroys every watcher in the container, which in turn removes
// the container from the tracker.
func (c *Container) Destroy() {
	all := append(c.ordered(Horizontal), c.ordered(Vertical)...)
	for _, w := range all {
		w.Destroy()
	}
}

// Refresh recomputes every trigger point and queues the crossings caused
// by geometry changes. Group flushes run on the next frame.
//
// Scroll == trigger point counts as past the point, both here and in
// handleScroll.
func (c *Container) Refresh() error {
	if c.removed {
		return nil
	}
	c.handleScroll()

	isViewport := c.element == Viewport
	var contextOffset Point
	if !isViewport {
		offset, err := c.tracker.host.Offset(c.element)
		if err != nil {
			return fmt.Errorf("refresh %s: %w", c.element, err)
		}
		contextOffset = offset
	}
	inner, err := c.InnerSize()
	if err != nil {
		return fmt.Errorf("refresh %s: %w", c.element, err)
	}

	var errs []error
	var triggered []*Group
	for _, axis := range axes {
		oldScroll := c.oldScroll.Along(axis)
		var contextModifier float64
		if !isViewport {
			contextModifier = oldScroll - contextOffset.Along(axis)
		}
		dimension := inner.Along(axis)

		for _, w := range c.ordered(axis) {
			var elementOffset float64
			if w.element != Viewport {
				offset, err := c.tracker.host.Offset(w.element)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", w.key, err))
					continue
				}
				elementOffset = offset.Along(axis)
			}

			adjustment, err := w.offset.resolve(w, dimension)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s offset: %w", w.key, err))
				continue
			}

			oldTrigger, fresh := w.triggerPoint, !w.measured
			w.triggerPoint = elementOffset + contextModifier - adjustment
			w.measured = true

			wasPast := oldScroll >= oldTrigger
			nowPast := oldScroll >= w.triggerPoint

			var dir Direction
			switch {
			case fresh && nowPast:
				dir = axis.forward()
			case !fresh && wasPast && !nowPast:
				dir = axis.backward()
			case !fresh && !wasPast && nowPast:
				dir = axis.forward()
			default:
				continue
			}
			w.queueTrigger(dir)
			if !slices.Contains(triggered, w.group) {
				triggered = append(triggered, w.group)
			}
		}
	}

	if len(triggered) > 0 {
		c.tracker.frames.Request(func() {
			for _, g := range triggered {
				g.flushTriggers()
			}
		})
	}

	return errors.Join(errs...)
}

// handleScroll compares the current scroll offset with the baseline and
// flushes the groups of every watcher whose trigger point was crossed.
func (c *Container) handleScroll() {
	if c.removed {
		return
	}
	scroll, err := c.tracker.host.Scroll(c.element)
	if err != nil {
		c.tracker.log.Warn("scroll measurement failed",
			zap.String("container", c.key),
			zap.String("element", string(c.element)),
			zap.Error(err))
		return
	}

	var triggered []*Group
	for _, axis := range axes {
		newScroll, oldScroll := scroll.Along(axis), c.oldScroll.Along(axis)
		dir := axis.backward()
		if newScroll > oldScroll {
			dir = axis.forward()
		}

		for _, w := range c.ordered(axis) {
			if !w.measured {
				continue
			}
			wasBefore := oldScroll < w.triggerPoint
			nowAfter := newScroll >= w.triggerPoint
			crossedForward := wasBefore && nowAfter
			crossedBackward := !wasBefore && !nowAfter
			if crossedForward || crossedBackward {
				w.queueTrigger(dir)
				if !slices.Contains(triggered, w.group) {
					triggered = append(triggered, w.group)
				}
			}
		}
	}

	// Handlers may re-enter Refresh; they must see the new baseline.
	c.oldScroll = scroll
	for _, g := range triggered {
		g.flushTriggers()
	}
}

func (c *Container) handleResize() {
	if err := c.tracker.RefreshAll(); err != nil {
		c.tracker.log.Warn("refresh after resize failed",
			zap.String("container", c.key),
			zap.Error(err))
	}
}

// onScroll schedules one scroll pass per frame. Touch hosts schedule on
// every event because touch scrolling reports too coarsely to drop any.
func (c *Container) onScroll() {
	if c.didScroll && !c.tracker.host.IsTouch() {
		return
	}
	c.didScroll = true
	c.tracker.frames.Request(func() {
		c.handleScroll()
		c.didScroll = false
	})
}

// onResize schedules one resize pass per frame.
func (c *Container) onResize() {
	if c.didResize {
		return
	}
	c.didResize = true
	c.tracker.frames.Request(func() {
		c.handleResize()
		c.didResize = false
	})
}

func (c *Container) listen() error {
	for _, l := range []struct {
		kind EventKind
		fn   func()
	}{
		{ResizeEvent, c.onResize},
		{ScrollEvent, c.onScroll},
	} {
		off, err := c.tracker.host.Listen(c.element, l.kind, l.fn)
		if err != nil {
			return fmt.Errorf("listen %s on %s: %w", l.kind, c.element, err)
		}
		c.unlisten = append(c.unlisten, off)
	}
	return nil
}

func (c *Container) stopListening() {
	for _, off := range c.unlisten {
		off()
	}
	c.unlisten = nil
}

func (c *Container) add(w *Watcher) {
	c.watchers[w.axis][w.key] = w
	if err := c.Refresh(); err != nil {
		c.tracker.log.Warn("refresh after add failed",
			zap.String("container", c.key),
			zap.String("watcher", w.key),
			zap.Error(err))
	}
}

func (c *Container) remove(w *Watcher) {
	delete(c.watchers[w.axis], w.key)
	c.checkEmpty()
}

// checkEmpty unlistens and leaves the registry once no watcher is left.
func (c *Container) checkEmpty() {
	if len(c.watchers[Horizontal]) > 0 || len(c.watchers[Vertical]) > 0 {
		return
	}
	c.stopListening()
	c.removed = true
	delete(c.tracker.containers, c.element)
	c.tracker.log.Debug("container removed",
		zap.String("container", c.key),
		zap.String("element", string(c.element)))
}

// ordered returns the watchers on axis sorted by creation order.
func (c *Container) ordered(axis Axis) []*Watcher {
	out := make([]*Watcher, 0, len(c.watchers[axis]))
	for _, w := range c.watchers[axis] {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
