package tui

import (
	"fmt"
	"strings"

	"github.com/billie-coop/waypoints/internal/estimate"
	"github.com/billie-coop/waypoints/internal/page"
	"github.com/billie-coop/waypoints/internal/tui/events"
	"github.com/billie-coop/waypoints/internal/tui/styles"
	"github.com/billie-coop/waypoints/internal/waypoint"
	"go.uber.org/zap"
)

// Page element ids.
const (
	introID   waypoint.ElementID = "intro"
	pricingID waypoint.ElementID = "pricing"
	galleryID waypoint.ElementID = "gallery"
	footerID  waypoint.ElementID = "footer"
)

func productID(id string) waypoint.ElementID { return waypoint.ElementID("product-" + id) }

func photoID(id string) waypoint.ElementID { return waypoint.ElementID("photo-" + id) }

// calculateSidebarWidth hides the estimate sidebar on narrow terminals.
func (m *Model) calculateSidebarWidth() int {
	if m.width < 70 {
		return 0
	}
	if m.width < 110 {
		return 28
	}
	return 34
}

// pageSize returns the document viewport: everything but the sidebar, the
// pinned bar, the status bar and the help line.
func (m *Model) pageSize() (width, height int) {
	width = max(m.width-m.calculateSidebarWidth(), 1)
	height = m.height - 2 - m.helpHeight()
	return width, max(height, 1)
}

func (m *Model) helpHeight() int {
	if m.help.ShowAll {
		return len(m.keys.FullHelp()[0])
	}
	return 1
}

func (m *Model) photoWidth(pageWidth int) int {
	return min(pageWidth, max(24, pageWidth*2/3))
}

// buildPage lays the catalog out as a document and registers the
// watchers that drive the page: the pinned pricing bar, one inview per
// piece and one per gallery photo.
func (m *Model) buildPage() error {
	var scroll, galleryScroll waypoint.Point
	if m.tracker != nil {
		m.tracker.DestroyAll()
		scroll, _ = m.doc.Scroll(waypoint.Viewport)
		if m.doc.Has(galleryID) {
			galleryScroll, _ = m.doc.Scroll(galleryID)
		}
	}
	m.inview = make(map[waypoint.ElementID]string)
	m.inviews = nil
	m.sticky = nil

	theme := styles.CurrentTheme()
	s := theme.S()
	width, height := m.pageSize()
	doc := page.New(width, height, page.WithTouch(m.opts.Touch), page.WithMarkdownStyle(s.Markdown))

	catalog := m.estimate.Catalog()
	intro := "# " + catalog.Title + "\n\n" + catalog.Intro
	blocks := []page.Block{
		{ID: introID, Text: intro, Markdown: true},
		{ID: pricingID, Text: "Pick your pieces", Style: s.Heading.Padding(1, 1, 0)},
	}
	for _, p := range catalog.Products {
		blocks = append(blocks, page.Block{
			ID:    productID(p.ID),
			Text:  m.productText(&p),
			Style: s.Product,
		})
	}
	for _, b := range blocks {
		if err := doc.Append(b); err != nil {
			return err
		}
	}

	if len(catalog.Photos) > 0 {
		if err := doc.Append(page.Block{ID: "gallery-heading", Text: "From the gallery", Style: s.Heading.Padding(1, 1, 0)}); err != nil {
			return err
		}
		if err := doc.AppendPane(page.Pane{ID: galleryID, Horizontal: true}); err != nil {
			return err
		}
		pw := m.photoWidth(width)
		for _, photo := range catalog.Photos {
			err := doc.Append(page.Block{
				ID:     photoID(photo.ID),
				Parent: galleryID,
				Text:   photoText(catalog, &photo),
				Width:  pw,
				Style:  s.Photo,
			})
			if err != nil {
				return err
			}
		}
		if err := doc.ScrollTo(galleryID, galleryScroll); err != nil {
			return err
		}
	}

	footer := "Press p to print your quote, ? for every key."
	if err := doc.Append(page.Block{ID: footerID, Text: footer, Style: s.Subtle.Padding(1, 1)}); err != nil {
		return err
	}
	if err := doc.ScrollTo(waypoint.Viewport, scroll); err != nil {
		return err
	}

	m.doc = doc
	m.tracker = waypoint.New(doc, m.frames, waypoint.WithLogger(m.log))
	return m.watchPage()
}

func (m *Model) watchPage() error {
	sticky, err := m.tracker.NewSticky(waypoint.StickyOptions{
		Options: waypoint.Options{
			Element: pricingID,
			Group:   "sticky",
			Handler: func(_ *waypoint.Watcher, dir waypoint.Direction) {
				m.broker.Publish(events.Event{
					Type:    events.StickyEvent,
					Payload: events.StickyPayload{Element: pricingID, Stuck: dir.Forward()},
				})
			},
		},
	})
	if err != nil {
		return err
	}
	m.sticky = sticky

	catalog := m.estimate.Catalog()
	for _, p := range catalog.Products {
		if err := m.watchInview(productID(p.ID), waypoint.Viewport, false); err != nil {
			return err
		}
	}
	for _, photo := range catalog.Photos {
		if err := m.watchInview(photoID(photo.ID), galleryID, true); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) watchInview(element, context waypoint.ElementID, horizontal bool) error {
	publish := func(stage string) func(waypoint.Direction) {
		return func(dir waypoint.Direction) {
			m.broker.Publish(events.Event{
				Type:    events.InviewEvent,
				Payload: events.InviewPayload{Element: element, Stage: stage, Direction: dir},
			})
		}
	}
	iv, err := m.tracker.NewInview(waypoint.InviewOptions{
		Element:    element,
		Context:    context,
		Horizontal: horizontal,
		Enter:      publish(events.StageEnter),
		Entered:    publish(events.StageEntered),
		Exit:       publish(events.StageExit),
		Exited:     publish(events.StageExited),
	})
	if err != nil {
		return err
	}
	m.inviews = append(m.inviews, iv)
	return nil
}

// productText renders a catalog piece: name, sizes with the chosen one
// marked, and whether it is in the estimate.
func (m *Model) productText(p *estimate.Product) string {
	var b strings.Builder
	name := p.Name
	if m.estimate.Contains(p.ID) {
		name += "  [in estimate]"
	}
	fmt.Fprintf(&b, "%s\n%s\n", name, p.Category)
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n", p.Description)
	}

	chosen, _ := m.estimate.Variant(p.ID)
	for _, v := range p.Variants {
		marker := "  "
		if chosen != nil && chosen.ID == v.ID {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s  $%s-%sK\n", marker, v.Label, formatK(v.MinPrice), formatK(v.MaxPrice))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func photoText(c *estimate.Catalog, photo *estimate.Photo) string {
	var b strings.Builder
	b.WriteString(photo.Caption)
	for _, sel := range photo.Products {
		p, err := c.Product(sel.ProductID)
		if err != nil {
			continue
		}
		label := p.Name
		if v, err := p.Variant(sel.VariantID); err == nil && sel.VariantID != "" {
			label += " (" + v.Label + ")"
		}
		b.WriteString("\n· " + label)
	}
	return b.String()
}

func formatK(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}

// refreshProduct re-renders one piece after the estimate changed and lets
// the tracker pick up any height change.
func (m *Model) refreshProduct(id string) {
	p, err := m.estimate.Catalog().Product(id)
	if err != nil {
		return
	}
	if err := m.doc.SetText(productID(id), m.productText(p)); err != nil {
		m.log.Warn("re-render failed", zap.String("product", id), zap.Error(err))
		return
	}
	m.refreshGeometry()
}

func (m *Model) refreshAllProducts() {
	for _, p := range m.estimate.Catalog().Products {
		_ = m.doc.SetText(productID(p.ID), m.productText(&p))
	}
	m.refreshGeometry()
}

func (m *Model) refreshGeometry() {
	if err := m.tracker.RefreshAll(); err != nil {
		m.log.Warn("refresh failed", zap.Error(err))
	}
}
