package waypoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStickyPinsAndReleases(t *testing.T) {
	h := newHarness(t)
	h.host.add("nav-wrapper", Point{Y: 150}, Size{Width: 200, Height: 30})
	h.host.add("nav", Point{Y: 150}, Size{Width: 200, Height: 30})

	var dirs []Direction
	s, err := h.tracker.NewSticky(StickyOptions{
		Options: Options{
			Element: "nav",
			Handler: func(_ *Watcher, dir Direction) { dirs = append(dirs, dir) },
		},
		Wrapper: "nav-wrapper",
	})
	require.NoError(t, err)
	assert.Equal(t, ElementID("nav-wrapper"), s.Watcher().Element())
	assert.False(t, s.Stuck())

	h.scrollY(200)
	assert.True(t, s.Stuck())
	assert.Equal(t, 30.0, s.WrapperHeight())

	h.scrollY(100)
	assert.False(t, s.Stuck())
	assert.Equal(t, 0.0, s.WrapperHeight())
	assert.Equal(t, []Direction{Down, Up}, dirs)

	s.Destroy()
	s.Destroy()
	assert.True(t, s.Watcher().Destroyed())
	assert.Empty(t, h.tracker.Watchers())
}

func TestStickyDefaultsWrapperAndHandler(t *testing.T) {
	h := newHarness(t)
	h.host.add("banner", Point{Y: 50}, Size{Width: 200, Height: 10})

	s, err := h.tracker.NewSticky(StickyOptions{Options: Options{Element: "banner"}})
	require.NoError(t, err)
	assert.Equal(t, ElementID("banner"), s.Wrapper())

	h.scrollY(60)
	assert.True(t, s.Stuck())

	_, err = h.tracker.NewSticky(StickyOptions{})
	assert.ErrorIs(t, err, ErrNoElement)
}

type inviewLog struct {
	events []string
}

func (l *inviewLog) options(element ElementID) InviewOptions {
	rec := func(name string) func(Direction) {
		return func(dir Direction) { l.events = append(l.events, name+":"+string(dir)) }
	}
	return InviewOptions{
		Element: element,
		Enter:   rec("enter"),
		Entered: rec("entered"),
		Exit:    rec("exit"),
		Exited:  rec("exited"),
	}
}

func TestInviewSequence(t *testing.T) {
	h := newHarness(t)
	h.host.add("card", Point{Y: 300}, Size{Width: 200, Height: 20})
	log := &inviewLog{}

	iv, err := h.tracker.NewInview(log.options("card"))
	require.NoError(t, err)
	require.Len(t, iv.Watchers(), 4)

	h.scrollY(210)
	assert.Equal(t, []string{"enter:down"}, log.events)
	h.scrollY(250)
	h.scrollY(310)
	h.scrollY(330)
	assert.Equal(t, []string{"enter:down", "entered:down", "exit:down", "exited:down"}, log.events)

	log.events = nil
	h.scrollY(0)
	assert.Equal(t, []string{"enter:up", "entered:up", "exit:up", "exited:up"}, log.events)
}

func TestInviewDisableAndDestroy(t *testing.T) {
	h := newHarness(t)
	h.host.add("card", Point{Y: 300}, Size{Width: 200, Height: 20})
	log := &inviewLog{}

	iv, err := h.tracker.NewInview(log.options("card"))
	require.NoError(t, err)

	iv.Disable()
	h.scrollY(400)
	assert.Empty(t, log.events)

	require.NoError(t, iv.Enable())
	h.scrollY(0)
	assert.Len(t, log.events, 4)

	iv.Destroy()
	assert.Empty(t, iv.Watchers())
	assert.Empty(t, h.tracker.Watchers())
}

func TestInviewRejectsUnknownElement(t *testing.T) {
	h := newHarness(t)
	_, err := h.tracker.NewInview(InviewOptions{Element: "ghost"})
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.Empty(t, h.tracker.Watchers())
}

func TestInviewEnableKeepsGoingAfterErrors(t *testing.T) {
	h := newHarness(t)
	h.host.add("card", Point{Y: 300}, Size{Width: 200, Height: 20})
	iv, err := h.tracker.NewInview(InviewOptions{Element: "card", Disabled: true})
	require.NoError(t, err)

	delete(h.host.elements, "card")
	err = iv.Enable()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrElementNotFound)
	for _, w := range iv.Watchers() {
		assert.Truef(t, w.Enabled(), "%s left disabled", w.Key())
	}
}
