// Package page is a terminal document that implements waypoint.Host.
//
// A Document is a column of blocks. Blocks are plain or markdown text,
// rendered to fit the document width; panes are blocks with a fixed visible
// size that scroll their own children, either vertically (stacked) or
// horizontally (side by side, each child with its own width). The viewport
// is the terminal window itself.
//
// All coordinates are terminal cells. Offsets are document-relative: the
// viewport scroll is not subtracted, pane scroll is.
package page

import (
	"errors"
	"fmt"
	"slices"

	"github.com/billie-coop/waypoints/internal/waypoint"
	"github.com/charmbracelet/glamour/v2"
	"github.com/charmbracelet/glamour/v2/ansi"
	"github.com/charmbracelet/lipgloss/v2"
)

var (
	ErrDuplicateElement = errors.New("duplicate element")
	ErrNotPane          = errors.New("element is not a pane")
	ErrNotScrollable    = errors.New("element does not scroll")
)

// Block is a run of text in the document or in a pane.
type Block struct {
	ID waypoint.ElementID
	// Parent is the pane the block belongs to. Empty means the document.
	Parent   waypoint.ElementID
	Text     string
	Markdown bool
	// Width fixes the block width. Required inside horizontal panes,
	// otherwise the block fills its parent.
	Width int
	Style lipgloss.Style
}

// Pane is a scrollable region with a fixed visible size.
type Pane struct {
	ID     waypoint.ElementID
	Parent waypoint.ElementID
	// Horizontal lays children out side by side and scrolls on x.
	Horizontal bool
	// Height is the number of visible lines. Horizontal panes default to
	// their tallest child.
	Height int
	Width  int
	Style  lipgloss.Style
}

type node struct {
	id       waypoint.ElementID
	parent   *node
	pane     bool
	text     string
	markdown bool
	width    int
	height   int
	axis     waypoint.Axis
	style    lipgloss.Style
	children []*node

	scroll waypoint.Point

	// render cache
	lines         []string
	renderedWidth int
	stale         bool

	// layout results
	offset waypoint.Point
	outer  waypoint.Size
	extent waypoint.Size
}

type listener struct {
	id   int
	kind waypoint.EventKind
	fn   func()
}

// Option configures a Document.
type Option func(*Document)

// WithTouch makes IsTouch report true, which disables scroll throttling in
// the engine.
func WithTouch(touch bool) Option {
	return func(d *Document) { d.touch = touch }
}

// WithMarkdownStyle renders markdown blocks with styles instead of the
// plain "notty" style.
func WithMarkdownStyle(styles ansi.StyleConfig) Option {
	return func(d *Document) { d.markdownStyle = &styles }
}

// Document is the terminal host. It is not safe for concurrent use.
type Document struct {
	width  int
	height int
	scroll waypoint.Point
	touch  bool

	items []*node
	index map[waypoint.ElementID]*node
	dirty bool

	listeners    map[waypoint.ElementID][]listener
	nextListener int

	markdownStyle *ansi.StyleConfig
	renderers     map[int]*glamour.TermRenderer
}

var _ waypoint.Host = (*Document)(nil)

// New creates an empty document with a width x height viewport.
func New(width, height int, opts ...Option) *Document {
	d := &Document{
		width:     max(width, 1),
		height:    max(height, 0),
		index:     make(map[waypoint.ElementID]*node),
		listeners: make(map[waypoint.ElementID][]listener),
		renderers: make(map[int]*glamour.TermRenderer),
		dirty:     true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Append adds a block at the end of the document or of its parent pane.
func (d *Document) Append(b Block) error {
	n := &node{
		id:       b.ID,
		text:     b.Text,
		markdown: b.Markdown,
		width:    b.Width,
		style:    b.Style,
		stale:    true,
	}
	return d.insert(n, b.Parent)
}

// AppendPane adds an empty pane.
func (d *Document) AppendPane(p Pane) error {
	n := &node{
		id:     p.ID,
		pane:   true,
		width:  p.Width,
		height: p.Height,
		axis:   waypoint.Vertical,
		style:  p.Style,
	}
	if p.Horizontal {
		n.axis = waypoint.Horizontal
	}
	return d.insert(n, p.Parent)
}

func (d *Document) insert(n *node, parent waypoint.ElementID) error {
	if n.id == "" || n.id == waypoint.Viewport {
		return fmt.Errorf("%w: %q", ErrDuplicateElement, n.id)
	}
	if _, ok := d.index[n.id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateElement, n.id)
	}
	if parent == "" {
		d.items = append(d.items, n)
	} else {
		p, err := d.lookup(parent)
		if err != nil {
			return err
		}
		if !p.pane {
			return fmt.Errorf("%w: %s", ErrNotPane, parent)
		}
		n.parent = p
		p.children = append(p.children, n)
	}
	d.index[n.id] = n
	d.dirty = true
	return nil
}

// SetText replaces a block's text.
func (d *Document) SetText(id waypoint.ElementID, text string) error {
	n, err := d.lookup(id)
	if err != nil {
		return err
	}
	if n.pane {
		return fmt.Errorf("set text on pane %s: %w", id, ErrNotScrollable)
	}
	if n.text != text {
		n.text = text
		n.stale = true
		d.dirty = true
	}
	return nil
}

// SetStyle replaces a block's style.
func (d *Document) SetStyle(id waypoint.ElementID, style lipgloss.Style) error {
	n, err := d.lookup(id)
	if err != nil {
		return err
	}
	n.style = style
	n.stale = true
	d.dirty = true
	return nil
}

// Remove deletes an element, its children and their listeners.
func (d *Document) Remove(id waypoint.ElementID) error {
	n, err := d.lookup(id)
	if err != nil {
		return err
	}
	if n.parent == nil {
		d.items = slices.DeleteFunc(d.items, func(c *node) bool { return c == n })
	} else {
		n.parent.children = slices.DeleteFunc(n.parent.children, func(c *node) bool { return c == n })
	}
	d.forget(n)
	d.dirty = true
	return nil
}

func (d *Document) forget(n *node) {
	for _, c := range n.children {
		d.forget(c)
	}
	delete(d.index, n.id)
	delete(d.listeners, n.id)
}

// Has reports whether id is in the document.
func (d *Document) Has(id waypoint.ElementID) bool {
	_, ok := d.index[id]
	return ok || id == waypoint.Viewport
}

// Size returns the viewport size in cells.
func (d *Document) Size() (width, height int) {
	return d.width, d.height
}

// ContentHeight returns the full document height in lines.
func (d *Document) ContentHeight() int {
	d.layout()
	h := 0
	for _, n := range d.items {
		h += int(n.outer.Height)
	}
	return h
}

// Resize changes the viewport size and notifies resize listeners.
func (d *Document) Resize(width, height int) {
	width, height = max(width, 1), max(height, 0)
	if width == d.width && height == d.height {
		return
	}
	d.width, d.height = width, height
	d.dirty = true
	d.scroll = d.clamp(nil, d.scroll)
	d.dispatch(waypoint.Viewport, waypoint.ResizeEvent)
}

// ScrollTo moves the scroll position of the viewport or a pane, clamped to
// its content, and notifies scroll listeners when it changed.
func (d *Document) ScrollTo(id waypoint.ElementID, p waypoint.Point) error {
	if id == waypoint.Viewport {
		p = d.clamp(nil, p)
		if p == d.scroll {
			return nil
		}
		d.scroll = p
		d.dispatch(id, waypoint.ScrollEvent)
		return nil
	}

	n, err := d.lookup(id)
	if err != nil {
		return err
	}
	if !n.pane {
		return fmt.Errorf("scroll %s: %w", id, ErrNotScrollable)
	}
	p = d.clamp(n, p)
	if p == n.scroll {
		return nil
	}
	n.scroll = p
	d.dirty = true
	d.dispatch(id, waypoint.ScrollEvent)
	return nil
}

// ScrollBy scrolls relative to the current position.
func (d *Document) ScrollBy(id waypoint.ElementID, dx, dy float64) error {
	cur, err := d.Scroll(id)
	if err != nil {
		return err
	}
	return d.ScrollTo(id, waypoint.Point{X: cur.X + dx, Y: cur.Y + dy})
}

func (d *Document) clamp(n *node, p waypoint.Point) waypoint.Point {
	d.layout()
	var extent, visible waypoint.Size
	if n == nil {
		extent = waypoint.Size{Width: float64(d.width), Height: float64(d.ContentHeight())}
		visible = waypoint.Size{Width: float64(d.width), Height: float64(d.height)}
	} else {
		extent, visible = n.extent, n.outer
	}
	p.X = min(max(p.X, 0), max(extent.Width-visible.Width, 0))
	p.Y = min(max(p.Y, 0), max(extent.Height-visible.Height, 0))
	return p
}

func (d *Document) lookup(id waypoint.ElementID) (*node, error) {
	n, ok := d.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", waypoint.ErrElementNotFound, id)
	}
	return n, nil
}

func (d *Document) dispatch(id waypoint.ElementID, kind waypoint.EventKind) {
	for _, l := range slices.Clone(d.listeners[id]) {
		if l.kind == kind {
			l.fn()
		}
	}
}

// Offset implements waypoint.Host.
func (d *Document) Offset(id waypoint.ElementID) (waypoint.Point, error) {
	if id == waypoint.Viewport {
		return waypoint.Point{}, nil
	}
	n, err := d.lookup(id)
	if err != nil {
		return waypoint.Point{}, err
	}
	d.layout()
	return n.offset, nil
}

// OuterSize implements waypoint.Host.
func (d *Document) OuterSize(id waypoint.ElementID) (waypoint.Size, error) {
	if id == waypoint.Viewport {
		return d.viewportSize(), nil
	}
	n, err := d.lookup(id)
	if err != nil {
		return waypoint.Size{}, err
	}
	d.layout()
	return n.outer, nil
}

// InnerSize implements waypoint.Host. For panes this is the visible area.
func (d *Document) InnerSize(id waypoint.ElementID) (waypoint.Size, error) {
	return d.OuterSize(id)
}

// Scroll implements waypoint.Host. Blocks never scroll.
func (d *Document) Scroll(id waypoint.ElementID) (waypoint.Point, error) {
	if id == waypoint.Viewport {
		return d.scroll, nil
	}
	n, err := d.lookup(id)
	if err != nil {
		return waypoint.Point{}, err
	}
	return n.scroll, nil
}

// Listen implements waypoint.Host.
func (d *Document) Listen(id waypoint.ElementID, kind waypoint.EventKind, fn func()) (func(), error) {
	if !d.Has(id) {
		return nil, fmt.Errorf("%w: %s", waypoint.ErrElementNotFound, id)
	}
	d.nextListener++
	l := listener{id: d.nextListener, kind: kind, fn: fn}
	d.listeners[id] = append(d.listeners[id], l)
	return func() {
		d.listeners[id] = slices.DeleteFunc(d.listeners[id], func(o listener) bool { return o.id == l.id })
	}, nil
}

// IsTouch implements waypoint.Host.
func (d *Document) IsTouch() bool { return d.touch }

func (d *Document) viewportSize() waypoint.Size {
	return waypoint.Size{Width: float64(d.width), Height: float64(d.height)}
}
