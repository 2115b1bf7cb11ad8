package page

import (
	"strings"

	"github.com/billie-coop/waypoints/internal/waypoint"
	"github.com/charmbracelet/glamour/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// layout recomputes offsets and sizes when anything changed since the last
// call. Rendered block text is cached per width.
func (d *Document) layout() {
	if !d.dirty {
		return
	}
	d.dirty = false
	y := 0.0
	for _, n := range d.items {
		d.place(n, 0, y, d.width)
		y += n.outer.Height
	}
}

func (d *Document) place(n *node, x, y float64, width int) {
	if n.width > 0 {
		width = n.width
	}
	n.offset = waypoint.Point{X: x, Y: y}

	if !n.pane {
		lines := d.render(n, width)
		n.outer = waypoint.Size{Width: float64(width), Height: float64(len(lines))}
		n.extent = n.outer
		return
	}

	var extent waypoint.Size
	if n.axis == waypoint.Horizontal {
		cx, tallest := 0.0, 0.0
		for _, c := range n.children {
			d.place(c, x+cx-n.scroll.X, y, width)
			cx += c.outer.Width
			tallest = max(tallest, c.outer.Height)
		}
		extent = waypoint.Size{Width: cx, Height: tallest}
	} else {
		cy := 0.0
		for _, c := range n.children {
			d.place(c, x, y+cy-n.scroll.Y, width)
			cy += c.outer.Height
		}
		extent = waypoint.Size{Width: float64(width), Height: cy}
	}

	height := float64(n.height)
	if height <= 0 {
		height = extent.Height
	}
	n.extent = extent
	n.outer = waypoint.Size{Width: float64(width), Height: height}
}

func (d *Document) render(n *node, width int) []string {
	if !n.stale && n.renderedWidth == width {
		return n.lines
	}
	var out string
	if n.markdown {
		out = d.renderMarkdown(n.text, width)
	} else {
		out = n.style.Width(width).Render(n.text)
	}
	n.lines = strings.Split(out, "\n")
	n.renderedWidth = width
	n.stale = false
	return n.lines
}

// renderMarkdown falls back to the raw text if glamour fails.
func (d *Document) renderMarkdown(text string, width int) string {
	r, ok := d.renderers[width]
	if !ok {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
		if d.markdownStyle != nil {
			opts = append(opts, glamour.WithStyles(*d.markdownStyle))
		} else {
			opts = append(opts, glamour.WithStylePath("notty"))
		}
		var err error
		r, err = glamour.NewTermRenderer(opts...)
		if err != nil {
			return lipgloss.NewStyle().Width(width).Render(text)
		}
		d.renderers[width] = r
	}
	out, err := r.Render(text)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(text)
	}
	return strings.Trim(out, "\n")
}

// Lines returns the rendered lines of a block.
func (d *Document) Lines(id waypoint.ElementID) ([]string, error) {
	n, err := d.lookup(id)
	if err != nil {
		return nil, err
	}
	d.layout()
	return d.lines(n), nil
}

// View renders the part of the document inside the viewport, padded to the
// viewport height.
func (d *Document) View() string {
	d.layout()
	var all []string
	for _, n := range d.items {
		all = append(all, d.lines(n)...)
	}
	return strings.Join(window(all, int(d.scroll.Y), d.height), "\n")
}

func (d *Document) lines(n *node) []string {
	if !n.pane {
		return n.lines
	}
	height := int(n.outer.Height)
	width := int(n.outer.Width)

	if n.axis == waypoint.Vertical {
		var all []string
		for _, c := range n.children {
			all = append(all, d.lines(c)...)
		}
		return strings.Split(n.style.Render(strings.Join(window(all, int(n.scroll.Y), height), "\n")), "\n")
	}

	// Columns start at the first child not scrolled fully out of view and
	// are cut at the pane's right edge.
	var cols []string
	for _, c := range n.children {
		right := c.offset.X + c.outer.Width - n.offset.X
		if right <= 0 {
			continue
		}
		cols = append(cols, lipgloss.NewStyle().
			Width(int(c.outer.Width)).
			Height(height).
			Render(strings.Join(d.lines(c), "\n")))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	row = n.style.MaxWidth(width).MaxHeight(height).Render(row)
	return window(strings.Split(row, "\n"), 0, height)
}

// window returns height lines starting at top, padding with empty lines.
func window(lines []string, top, height int) []string {
	out := make([]string, 0, height)
	for i := top; i < top+height; i++ {
		if i >= 0 && i < len(lines) {
			out = append(out, lines[i])
		} else {
			out = append(out, "")
		}
	}
	return out
}
