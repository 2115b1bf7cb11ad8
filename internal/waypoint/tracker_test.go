package waypoint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcherConfigurationErrors(t *testing.T) {
	h := newHarness(t)
	h.host.add("el", Point{Y: 10}, Size{Height: 10})

	_, err := h.tracker.NewWatcher(Options{Handler: h.rec.handler})
	assert.ErrorIs(t, err, ErrNoElement)

	_, err = h.tracker.NewWatcher(Options{Element: "el"})
	assert.ErrorIs(t, err, ErrNoHandler)

	_, err = h.tracker.NewWatcher(Options{Element: "missing", Handler: h.rec.handler})
	assert.ErrorIs(t, err, ErrElementNotFound)

	_, err = h.tracker.NewWatcher(Options{Element: "el", Context: "nowhere", Handler: h.rec.handler})
	assert.ErrorIs(t, err, ErrElementNotFound)

	assert.Empty(t, h.tracker.Watchers())
	assert.Empty(t, h.tracker.Containers())
}

func TestWatcherDefaults(t *testing.T) {
	h := newHarness(t)
	w := h.watch(t, "el", 300, Options{})

	assert.Equal(t, "waypoint-0", w.Key())
	assert.Equal(t, Vertical, w.Axis())
	assert.True(t, w.Enabled())
	assert.True(t, w.Continuous())
	assert.Equal(t, "default-vertical", w.Group().ID())
	assert.Equal(t, Viewport, w.Container().Element())
	assert.Equal(t, "waypoint-context-0", w.Container().Key())

	tp, ok := w.TriggerPoint()
	require.True(t, ok)
	assert.Equal(t, 300.0, tp)
}

func TestContinuousWatcherFiresOncePerCrossing(t *testing.T) {
	h := newHarness(t)
	w := h.watch(t, "el", 300, Options{})
	h.settle()
	require.Empty(t, h.rec.calls)

	h.scrollY(350)
	assert.Equal(t, []crossing{{w.Key(), Down}}, h.rec.calls)

	h.scrollY(400)
	assert.Len(t, h.rec.calls, 1)

	h.scrollY(100)
	assert.Equal(t, []crossing{{w.Key(), Down}, {w.Key(), Up}}, h.rec.calls)
}

func TestScrollExactlyOntoTriggerPointCounts(t *testing.T) {
	h := newHarness(t)
	w := h.watch(t, "el", 300, Options{})

	h.scrollY(300)
	assert.Equal(t, []crossing{{w.Key(), Down}}, h.rec.calls)

	h.scrollY(299)
	assert.Equal(t, []crossing{{w.Key(), Down}, {w.Key(), Up}}, h.rec.calls)
}

func TestHandlerReceivesWatcher(t *testing.T) {
	h := newHarness(t)
	var got *Watcher
	w := h.watch(t, "el", 50, Options{Handler: func(w *Watcher, _ Direction) { got = w }})
	h.scrollY(60)
	assert.Same(t, w, got)
}

func TestDiscontinuousGroupFiresOnlyOutermost(t *testing.T) {
	h := newHarness(t)
	opts := Options{Group: "stack", Discontinuous: true}
	a := h.watch(t, "a", 100, opts)
	h.watch(t, "b", 200, opts)
	c := h.watch(t, "c", 300, opts)

	h.scrollY(500)
	assert.Equal(t, []crossing{{c.Key(), Down}}, h.rec.calls)

	h.rec.reset()
	h.scrollY(0)
	assert.Equal(t, []crossing{{a.Key(), Up}}, h.rec.calls)
}

func TestContinuousGroupFiresInCrossingOrder(t *testing.T) {
	h := newHarness(t)
	c := h.watch(t, "c", 300, Options{})
	a := h.watch(t, "a", 100, Options{})
	b := h.watch(t, "b", 200, Options{})

	h.scrollY(500)
	assert.Equal(t, []crossing{{a.Key(), Down}, {b.Key(), Down}, {c.Key(), Down}}, h.rec.calls)

	h.rec.reset()
	h.scrollY(0)
	assert.Equal(t, []crossing{{c.Key(), Up}, {b.Key(), Up}, {a.Key(), Up}}, h.rec.calls)
}

func TestSeparateGroupsFlushIndependently(t *testing.T) {
	h := newHarness(t)
	a := h.watch(t, "a", 100, Options{Group: "left", Discontinuous: true})
	b := h.watch(t, "b", 150, Options{Group: "left", Discontinuous: true})
	c := h.watch(t, "c", 120, Options{Group: "right", Discontinuous: true})

	h.scrollY(200)
	assert.ElementsMatch(t, []crossing{{b.Key(), Down}, {c.Key(), Down}}, h.rec.calls)
	assert.NotContains(t, h.rec.calls, crossing{a.Key(), Down})
}

func TestNextAndPreviousFollowTriggerPoints(t *testing.T) {
	h := newHarness(t)
	c := h.watch(t, "c", 300, Options{})
	a := h.watch(t, "a", 100, Options{})
	b := h.watch(t, "b", 200, Options{})

	assert.Nil(t, a.Previous())
	assert.Same(t, b, a.Next())
	assert.Same(t, a, b.Previous())
	assert.Same(t, c, b.Next())
	assert.Nil(t, c.Next())

	g := h.tracker.Group(DefaultGroup, Vertical)
	require.NotNil(t, g)
	assert.Same(t, a, g.First())
	assert.Same(t, c, g.Last())
}

func TestFreshWatcherAlreadyPastFiresOnNextFrame(t *testing.T) {
	h := newHarness(t)
	h.host.elements[Viewport].scroll = Point{Y: 500}

	w := h.watch(t, "el", 200, Options{})
	assert.Empty(t, h.rec.calls, "delivery waits for the frame")
	assert.Equal(t, 1, h.frames.Pending())

	h.settle()
	assert.Equal(t, []crossing{{w.Key(), Down}}, h.rec.calls)

	h.tracker.RefreshAll()
	h.settle()
	assert.Len(t, h.rec.calls, 1)
}

func TestDestroyBeforeFlushSuppressesDelivery(t *testing.T) {
	h := newHarness(t)
	h.host.elements[Viewport].scroll = Point{Y: 500}

	w := h.watch(t, "el", 200, Options{})
	w.Destroy()
	w.Destroy()
	h.settle()

	assert.Empty(t, h.rec.calls)
	assert.True(t, w.Destroyed())
}

func TestRefreshDetectsGeometryChanges(t *testing.T) {
	h := newHarness(t)
	h.scrollY(100)
	w := h.watch(t, "el", 300, Options{})
	h.settle()
	require.Empty(t, h.rec.calls)

	h.host.elements["el"].offset.Y = 50
	require.NoError(t, h.tracker.RefreshAll())
	h.settle()
	assert.Equal(t, []crossing{{w.Key(), Down}}, h.rec.calls)

	h.host.elements["el"].offset.Y = 300
	require.NoError(t, h.tracker.RefreshAll())
	h.settle()
	assert.Equal(t, []crossing{{w.Key(), Down}, {w.Key(), Up}}, h.rec.calls)
}

func TestRefreshReportsMeasurementErrors(t *testing.T) {
	h := newHarness(t)
	h.watch(t, "el", 300, Options{})
	delete(h.host.elements, "el")

	err := h.tracker.RefreshAll()
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestDisableSuppressesDeliveryButKeepsTracking(t *testing.T) {
	h := newHarness(t)
	w := h.watch(t, "el", 300, Options{Disabled: true})
	assert.False(t, w.Enabled())

	h.scrollY(400)
	assert.Empty(t, h.rec.calls)

	h.host.elements["el"].offset.Y = 350
	require.NoError(t, h.tracker.RefreshAll())
	tp, _ := w.TriggerPoint()
	assert.Equal(t, 350.0, tp)

	require.NoError(t, w.Enable())
	h.settle()
	assert.Empty(t, h.rec.calls, "enable must not replay stale crossings")

	h.scrollY(0)
	assert.Equal(t, []crossing{{w.Key(), Up}}, h.rec.calls)

	w.Disable()
	h.scrollY(400)
	assert.Len(t, h.rec.calls, 1)
}

func TestDisableAllEnableAll(t *testing.T) {
	h := newHarness(t)
	a := h.watch(t, "a", 100, Options{})
	b := h.watch(t, "b", 200, Options{})

	h.tracker.DisableAll()
	assert.False(t, a.Enabled())
	assert.False(t, b.Enabled())
	h.scrollY(300)
	assert.Empty(t, h.rec.calls)

	require.NoError(t, h.tracker.EnableAll())
	assert.True(t, a.Enabled())
	assert.True(t, b.Enabled())
	h.scrollY(0)
	assert.Len(t, h.rec.calls, 2)
}

func TestDestroyAllEmptiesRegistries(t *testing.T) {
	h := newHarness(t)
	h.host.add("pane", Point{Y: 40}, Size{Width: 100, Height: 50})
	h.watch(t, "a", 100, Options{})
	h.watch(t, "b", 200, Options{Context: "pane"})
	h.watch(t, "c", 300, Options{Horizontal: true})
	require.Len(t, h.tracker.Containers(), 2)

	h.tracker.DestroyAll()

	assert.Empty(t, h.tracker.Watchers())
	assert.Empty(t, h.tracker.Containers())
	assert.Nil(t, h.tracker.Container(Viewport))
	assert.Equal(t, 0, h.host.listenerCount(Viewport))
	assert.Equal(t, 0, h.host.listenerCount("pane"))
}

func TestContainerLeavesRegistryWithLastWatcher(t *testing.T) {
	h := newHarness(t)
	h.host.add("pane", Point{Y: 40}, Size{Width: 100, Height: 50})
	a := h.watch(t, "a", 100, Options{Context: "pane"})
	b := h.watch(t, "b", 120, Options{Context: "pane", Horizontal: true})

	c := h.tracker.Container("pane")
	require.NotNil(t, c)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, h.host.listenerCount("pane"))

	a.Destroy()
	assert.Same(t, c, h.tracker.Container("pane"))
	b.Destroy()
	assert.Nil(t, h.tracker.Container("pane"))
	assert.Equal(t, 0, h.host.listenerCount("pane"))

	d := h.watch(t, "a", 100, Options{Context: "pane"})
	assert.NotSame(t, c, d.Container())
	assert.Equal(t, "waypoint-context-1", d.Container().Key())
}

func TestContainerDestroy(t *testing.T) {
	h := newHarness(t)
	h.host.add("pane", Point{Y: 40}, Size{Width: 100, Height: 50})
	a := h.watch(t, "a", 100, Options{Context: "pane"})
	b := h.watch(t, "b", 100, Options{})

	a.Container().Destroy()
	assert.True(t, a.Destroyed())
	assert.False(t, b.Destroyed())
	assert.Nil(t, h.tracker.Container("pane"))
	assert.Len(t, h.tracker.Watchers(), 1)
}

func TestScrollIsThrottledToOnePassPerFrame(t *testing.T) {
	h := newHarness(t)
	w := h.watch(t, "el", 300, Options{})
	h.settle()

	for _, y := range []float64{100, 200, 350, 320, 310} {
		h.host.scrollTo(Viewport, Point{Y: y})
	}
	assert.Equal(t, 1, h.frames.Pending())

	h.settle()
	assert.Equal(t, []crossing{{w.Key(), Down}}, h.rec.calls)
	assert.Equal(t, Point{Y: 310}, w.Container().Scroll())
}

func TestTouchHostSchedulesEveryScroll(t *testing.T) {
	h := newHarness(t)
	h.host.touch = true
	h.watch(t, "el", 300, Options{})
	h.settle()

	for _, y := range []float64{100, 200, 350} {
		h.host.scrollTo(Viewport, Point{Y: y})
	}
	assert.Equal(t, 3, h.frames.Pending())
}

func TestResizeRefreshesAllContainers(t *testing.T) {
	h := newHarness(t)
	h.scrollY(100)
	w := h.watch(t, "el", 300, Options{Offset: Percent(100)})
	h.settle()
	tp, _ := w.TriggerPoint()
	require.Equal(t, 200.0, tp)

	h.host.elements[Viewport].inner.Height = 250
	h.host.emit(Viewport, ResizeEvent)
	h.host.emit(Viewport, ResizeEvent)
	assert.Equal(t, 1, h.frames.Pending())

	h.settle()
	tp, _ = w.TriggerPoint()
	assert.Equal(t, 50.0, tp)
	assert.Equal(t, []crossing{{w.Key(), Down}}, h.rec.calls)
}

func TestHorizontalWatcherInPane(t *testing.T) {
	h := newHarness(t)
	h.host.add("pane", Point{X: 10, Y: 40}, Size{Width: 100, Height: 50})
	h.host.add("card", Point{X: 260, Y: 40}, Size{Width: 40, Height: 50})

	w, err := h.tracker.NewWatcher(Options{
		Element:    "card",
		Context:    "pane",
		Horizontal: true,
		Handler:    h.rec.handler,
	})
	require.NoError(t, err)
	tp, _ := w.TriggerPoint()
	assert.Equal(t, 250.0, tp)
	assert.Equal(t, "default-horizontal", w.Group().ID())

	h.host.scrollTo("pane", Point{X: 260})
	h.settle()
	assert.Equal(t, []crossing{{w.Key(), Right}}, h.rec.calls)

	h.host.scrollTo("pane", Point{X: 0})
	h.settle()
	assert.Equal(t, []crossing{{w.Key(), Right}, {w.Key(), Left}}, h.rec.calls)
}

func TestGroupsAreKeyedByNameAndAxis(t *testing.T) {
	h := newHarness(t)
	v := h.watch(t, "a", 100, Options{Group: "nav"})
	x := h.watch(t, "b", 100, Options{Group: "nav", Horizontal: true})
	y := h.watch(t, "c", 200, Options{Group: "nav"})

	assert.Same(t, v.Group(), y.Group())
	assert.NotSame(t, v.Group(), x.Group())
	assert.Same(t, v.Group(), h.tracker.Group("nav", Vertical))
	assert.Nil(t, h.tracker.Group("nav-missing", Vertical))

	v.Destroy()
	y.Destroy()
	g := h.tracker.Group("nav", Vertical)
	require.NotNil(t, g, "groups outlive their members")
	assert.Equal(t, 0, g.Len())
}

func TestHandlerMayDestroyDuringFlush(t *testing.T) {
	h := newHarness(t)
	var second *Watcher
	h.watch(t, "a", 100, Options{Handler: func(w *Watcher, dir Direction) {
		h.rec.handler(w, dir)
		second.Destroy()
	}})
	second = h.watch(t, "b", 200, Options{})

	h.scrollY(300)
	require.Len(t, h.rec.calls, 1)
	assert.True(t, second.Destroyed())
}

func TestEnableReportsRefreshErrors(t *testing.T) {
	h := newHarness(t)
	w := h.watch(t, "el", 100, Options{Disabled: true})
	delete(h.host.elements, "el")

	err := w.Enable()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrElementNotFound))
	assert.True(t, w.Enabled())
}

func TestViewportSize(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 100.0, h.tracker.ViewportHeight())
	assert.Equal(t, 200.0, h.tracker.ViewportWidth())

	delete(h.host.elements, Viewport)
	assert.Equal(t, 0.0, h.tracker.ViewportHeight())
}

func TestHandlerReenteringRefreshDoesNotRedeliver(t *testing.T) {
	h := newHarness(t)
	var b *Watcher
	refreshes := 0
	a := h.watch(t, "a", 100, Options{Handler: func(w *Watcher, dir Direction) {
		h.rec.handler(w, dir)
		refreshes++
		if refreshes > 4 {
			return
		}
		assert.NoError(t, h.tracker.RefreshAll())
		assert.NoError(t, b.Enable())
	}})
	b = h.watch(t, "b", 50, Options{Disabled: true})

	h.scrollY(200)
	assert.Equal(t, []crossing{{a.Key(), Down}}, h.rec.calls)
	assert.True(t, b.Enabled())

	h.rec.reset()
	h.scrollY(0)
	assert.Equal(t, []crossing{{a.Key(), Up}, {b.Key(), Up}}, h.rec.calls)
}

func TestEnableFromHandlerDoesNotRedeliver(t *testing.T) {
	h := newHarness(t)
	var b *Watcher
	h.watch(t, "a", 100, Options{Handler: func(*Watcher, Direction) {
		if !b.Enabled() {
			assert.NoError(t, b.Enable())
		}
	}})
	b = h.watch(t, "b", 50, Options{Disabled: true})

	h.scrollY(200)
	assert.Empty(t, h.rec.calls, "b was disabled when the scroll crossed it")
	assert.True(t, b.Enabled())

	h.scrollY(0)
	assert.Equal(t, []crossing{{b.Key(), Up}}, h.rec.calls)
}
