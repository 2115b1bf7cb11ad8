package page

import (
	"strings"
	"testing"

	"github.com/billie-coop/waypoints/internal/frame"
	"github.com/billie-coop/waypoints/internal/waypoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = strings.Repeat("x", i%5+1)
	}
	return strings.Join(out, "\n")
}

func TestBlocksStackTopToBottom(t *testing.T) {
	d := New(40, 10)
	require.NoError(t, d.Append(Block{ID: "a", Text: "1\n2\n3"}))
	require.NoError(t, d.Append(Block{ID: "b", Text: "x"}))

	off, err := d.Offset("b")
	require.NoError(t, err)
	assert.Equal(t, waypoint.Point{Y: 3}, off)

	size, err := d.OuterSize("a")
	require.NoError(t, err)
	assert.Equal(t, waypoint.Size{Width: 40, Height: 3}, size)
	assert.Equal(t, 4, d.ContentHeight())
}

func TestSetTextRelayouts(t *testing.T) {
	d := New(40, 10)
	require.NoError(t, d.Append(Block{ID: "a", Text: "1"}))
	require.NoError(t, d.Append(Block{ID: "b", Text: "x"}))

	require.NoError(t, d.SetText("a", lines(6)))
	off, _ := d.Offset("b")
	assert.Equal(t, 6.0, off.Y)

	require.NoError(t, d.Remove("a"))
	off, _ = d.Offset("b")
	assert.Equal(t, 0.0, off.Y)
	assert.False(t, d.Has("a"))
}

func TestTextWrapsToWidth(t *testing.T) {
	d := New(10, 10)
	require.NoError(t, d.Append(Block{ID: "a", Text: "aaaa bbbb cccc dddd"}))
	size, _ := d.OuterSize("a")
	assert.Greater(t, size.Height, 1.0)
}

func TestVerticalPaneOffsetsFollowPaneScroll(t *testing.T) {
	d := New(40, 10)
	require.NoError(t, d.Append(Block{ID: "head", Text: "h\nh"}))
	require.NoError(t, d.AppendPane(Pane{ID: "list", Height: 4}))
	require.NoError(t, d.Append(Block{ID: "one", Parent: "list", Text: lines(5)}))
	require.NoError(t, d.Append(Block{ID: "two", Parent: "list", Text: lines(3)}))
	require.NoError(t, d.Append(Block{ID: "foot", Text: "f"}))

	pane, _ := d.OuterSize("list")
	assert.Equal(t, 4.0, pane.Height)
	foot, _ := d.Offset("foot")
	assert.Equal(t, 6.0, foot.Y)

	two, _ := d.Offset("two")
	assert.Equal(t, 7.0, two.Y)

	require.NoError(t, d.ScrollTo("list", waypoint.Point{Y: 100}))
	scroll, _ := d.Scroll("list")
	assert.Equal(t, waypoint.Point{Y: 4}, scroll, "clamped to content minus visible height")

	two, _ = d.Offset("two")
	assert.Equal(t, 3.0, two.Y)
	foot, _ = d.Offset("foot")
	assert.Equal(t, 6.0, foot.Y)
}

func TestHorizontalPane(t *testing.T) {
	d := New(40, 10)
	require.NoError(t, d.AppendPane(Pane{ID: "gallery", Horizontal: true, Width: 15}))
	for _, id := range []waypoint.ElementID{"p1", "p2", "p3"} {
		require.NoError(t, d.Append(Block{ID: id, Parent: "gallery", Text: string(id), Width: 10}))
	}

	p3, _ := d.Offset("p3")
	assert.Equal(t, 20.0, p3.X)
	inner, _ := d.InnerSize("gallery")
	assert.Equal(t, waypoint.Size{Width: 15, Height: 1}, inner)

	require.NoError(t, d.ScrollBy("gallery", 50, 3))
	scroll, _ := d.Scroll("gallery")
	assert.Equal(t, waypoint.Point{X: 15}, scroll)
	p3, _ = d.Offset("p3")
	assert.Equal(t, 5.0, p3.X)

	out, err := d.Lines("gallery")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "p2")
	assert.NotContains(t, out[0], "p1")
}

func TestScrollListeners(t *testing.T) {
	d := New(40, 2)
	require.NoError(t, d.Append(Block{ID: "a", Text: lines(10)}))

	var scrolls, resizes int
	off, err := d.Listen(waypoint.Viewport, waypoint.ScrollEvent, func() { scrolls++ })
	require.NoError(t, err)
	_, err = d.Listen(waypoint.Viewport, waypoint.ResizeEvent, func() { resizes++ })
	require.NoError(t, err)

	require.NoError(t, d.ScrollTo(waypoint.Viewport, waypoint.Point{Y: 3}))
	require.NoError(t, d.ScrollTo(waypoint.Viewport, waypoint.Point{Y: 3}))
	assert.Equal(t, 1, scrolls)

	require.NoError(t, d.ScrollBy(waypoint.Viewport, 0, 100))
	pos, _ := d.Scroll(waypoint.Viewport)
	assert.Equal(t, 8.0, pos.Y)
	assert.Equal(t, 2, scrolls)

	off()
	require.NoError(t, d.ScrollTo(waypoint.Viewport, waypoint.Point{}))
	assert.Equal(t, 2, scrolls)

	d.Resize(40, 5)
	d.Resize(40, 5)
	assert.Equal(t, 1, resizes)
	pos, _ = d.Scroll(waypoint.Viewport)
	assert.Equal(t, 0.0, pos.Y)
}

func TestDocumentErrors(t *testing.T) {
	d := New(40, 10)
	require.NoError(t, d.Append(Block{ID: "a", Text: "a"}))

	assert.ErrorIs(t, d.Append(Block{ID: "a"}), ErrDuplicateElement)
	assert.ErrorIs(t, d.Append(Block{ID: waypoint.Viewport}), ErrDuplicateElement)
	assert.ErrorIs(t, d.Append(Block{ID: "b", Parent: "a"}), ErrNotPane)
	assert.ErrorIs(t, d.Append(Block{ID: "b", Parent: "nope"}), waypoint.ErrElementNotFound)
	assert.ErrorIs(t, d.ScrollTo("a", waypoint.Point{Y: 1}), ErrNotScrollable)
	assert.ErrorIs(t, d.SetText("nope", ""), waypoint.ErrElementNotFound)

	_, err := d.Offset("nope")
	assert.ErrorIs(t, err, waypoint.ErrElementNotFound)
	_, err = d.Listen("nope", waypoint.ScrollEvent, func() {})
	assert.ErrorIs(t, err, waypoint.ErrElementNotFound)
}

func TestRemovePaneDropsChildrenAndListeners(t *testing.T) {
	d := New(40, 10)
	require.NoError(t, d.AppendPane(Pane{ID: "list", Height: 2}))
	require.NoError(t, d.Append(Block{ID: "one", Parent: "list", Text: lines(5)}))

	called := false
	_, err := d.Listen("list", waypoint.ScrollEvent, func() { called = true })
	require.NoError(t, err)

	require.NoError(t, d.Remove("list"))
	assert.False(t, d.Has("one"))
	assert.False(t, called)
	assert.Equal(t, 0, d.ContentHeight())
}

func TestViewShowsViewportWindow(t *testing.T) {
	d := New(10, 2)
	for _, id := range []waypoint.ElementID{"a", "b", "c"} {
		require.NoError(t, d.Append(Block{ID: id, Text: string(id)}))
	}
	require.NoError(t, d.ScrollTo(waypoint.Viewport, waypoint.Point{Y: 1}))

	view := strings.Split(d.View(), "\n")
	require.Len(t, view, 2)
	assert.Equal(t, "b", strings.TrimSpace(view[0]))
	assert.Equal(t, "c", strings.TrimSpace(view[1]))
}

func TestMarkdownBlock(t *testing.T) {
	d := New(40, 10)
	require.NoError(t, d.Append(Block{ID: "md", Markdown: true, Text: "# Pricing\n\nSome *text* here."}))

	out, err := d.Lines("md")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, strings.Join(out, "\n"), "Pricing")
}

func TestDocumentDrivesWaypoints(t *testing.T) {
	d := New(40, 5)
	require.NoError(t, d.Append(Block{ID: "intro", Text: lines(10)}))
	require.NoError(t, d.Append(Block{ID: "target", Text: "target"}))
	require.NoError(t, d.Append(Block{ID: "outro", Text: lines(10)}))

	frames := frame.NewManual()
	tracker := waypoint.New(d, frames)

	var got []waypoint.Direction
	_, err := tracker.NewWatcher(waypoint.Options{
		Element: "target",
		Handler: func(_ *waypoint.Watcher, dir waypoint.Direction) { got = append(got, dir) },
	})
	require.NoError(t, err)

	require.NoError(t, d.ScrollTo(waypoint.Viewport, waypoint.Point{Y: 12}))
	frames.RunUntilIdle(5)
	require.NoError(t, d.ScrollTo(waypoint.Viewport, waypoint.Point{Y: 2}))
	frames.RunUntilIdle(5)

	assert.Equal(t, []waypoint.Direction{waypoint.Down, waypoint.Up}, got)
}
