package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/billie-coop/waypoints/internal/estimate"
	"github.com/billie-coop/waypoints/internal/frame"
	"github.com/billie-coop/waypoints/internal/page"
	"github.com/billie-coop/waypoints/internal/tui/components/status"
	"github.com/billie-coop/waypoints/internal/tui/events"
	"github.com/billie-coop/waypoints/internal/tui/styles"
	"github.com/billie-coop/waypoints/internal/waypoint"
	"github.com/charmbracelet/bubbles/v2/help"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"
)

// Options configures the pricing page model.
type Options struct {
	Estimate *estimate.Estimate
	// State persists the estimate. Defaults to an in-memory store.
	State  *estimate.State
	Broker *events.Broker
	Logger *zap.Logger

	// FrameInterval is how often pending scheduler frames are run.
	FrameInterval time.Duration
	Touch         bool
	Theme         string

	// Initial terminal size, used until the first WindowSizeMsg.
	Width  int
	Height int
}

// Model is the pricing page: a scrolling document of catalog pieces with
// a pinned pricing bar and an estimate sidebar. Scroll tracking runs on
// frame.Manual, drained by frame ticks inside Update, so every watcher
// callback runs on the program goroutine.
type Model struct {
	ctx  context.Context
	opts Options
	log  *zap.Logger

	width  int
	height int

	// Scroll tracking
	doc            *page.Document
	frames         *frame.Manual
	tracker        *waypoint.Tracker
	sticky         *waypoint.Sticky
	inviews        []*waypoint.Inview
	frameScheduled bool

	// Event system
	broker   *events.Broker
	eventSub <-chan events.Event

	// Components
	keys   KeyMap
	help   help.Model
	status *status.Component

	estimate *estimate.Estimate
	state    *estimate.State

	// UI state only
	inview  map[waypoint.ElementID]string
	current string
	photo   string
	quote   string
}

// New creates the model and lays out the page.
func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.Estimate == nil {
		return nil, fmt.Errorf("tui: no estimate")
	}
	if opts.State == nil {
		opts.State = estimate.NewState(estimate.NewMemoryStore())
	}
	if opts.Broker == nil {
		opts.Broker = events.NewBroker(0)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = frame.DefaultInterval
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}

	styles.SetDefaultManager(styles.NewManager(opts.Theme))

	m := &Model{
		ctx:      ctx,
		opts:     opts,
		log:      opts.Logger,
		width:    opts.Width,
		height:   opts.Height,
		frames:   frame.NewManual(),
		broker:   opts.Broker,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		status:   status.New(),
		estimate: opts.Estimate,
		state:    opts.State,
	}
	m.eventSub = m.broker.Subscribe()
	m.status.SetWidth(m.width)

	if err := m.buildPage(); err != nil {
		return nil, fmt.Errorf("tui: build page: %w", err)
	}
	return m, nil
}

// Init runs the frame that settles the freshly created watchers.
func (m *Model) Init() tea.Cmd {
	return m.scheduleFrame()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case frameMsg:
		m.frameScheduled = false
		m.frames.Run()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.status.SetWidth(m.width)
		m.resizePage()

	case CatalogReloadedMsg:
		m.reloadCatalog(msg)

	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		cmds = append(cmds, m.status.Update(msg))
	}

	cmds = append(cmds, m.drainEvents()...)
	cmds = append(cmds, m.scheduleFrame())
	return m, tea.Batch(cmds...)
}

// scheduleFrame asks for a frame tick while the scheduler has work. One
// tick is in flight at a time.
func (m *Model) scheduleFrame() tea.Cmd {
	if m.frameScheduled || m.frames.Pending() == 0 {
		return nil
	}
	m.frameScheduled = true
	return tea.Tick(m.opts.FrameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

func (m *Model) resizePage() {
	width, height := m.pageSize()
	m.doc.Resize(width, height)
}

func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	if m.quote != "" {
		body := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height - 1).
			MaxHeight(m.height - 1).
			Padding(1, 2).
			Render(m.quote)
		return lipgloss.JoinVertical(lipgloss.Left, body, m.status.View())
	}

	width, height := m.pageSize()
	body := lipgloss.NewStyle().Width(width).MaxWidth(width).Render(m.doc.View())
	if sidebar := m.renderSidebar(height); sidebar != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, sidebar)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderBar(),
		body,
		m.status.View(),
		m.help.View(m.keys),
	)
}

// renderBar is the pinned line above the page. It carries the title and
// the running total once the pricing heading has scrolled away.
func (m *Model) renderBar() string {
	s := styles.CurrentTheme().S()
	const barWidth = 12

	left := ""
	if m.sticky != nil && m.sticky.Stuck() {
		left = styles.RenderThemeGradient(m.estimate.Catalog().Title, true) +
			s.Muted.Render(fmt.Sprintf("  %d pieces · %s", m.estimate.Len(), m.estimate.Total()))
	}
	gap := m.width - 2 - lipgloss.Width(left) - barWidth
	line := left + strings.Repeat(" ", max(gap, 1)) + styles.RenderGradientBar(barWidth, m.scrollFraction())
	return s.Bar.Width(m.width).MaxWidth(m.width).MaxHeight(1).Render(line)
}

func (m *Model) renderSidebar(height int) string {
	width := m.calculateSidebarWidth()
	if width == 0 {
		return ""
	}
	s := styles.CurrentTheme().S()

	var b strings.Builder
	b.WriteString(s.Title.Render("Your estimate"))
	b.WriteString("\n\n")
	for _, line := range m.estimate.Lines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := 0; i < m.estimate.EmptySlots(); i++ {
		b.WriteString(s.Subtle.Render("·"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.Bold.Render("Total " + m.estimate.Total()))
	if m.estimate.ShowRemoveAll() {
		b.WriteString("\n")
		b.WriteString(s.Muted.Render("X removes all"))
	}
	return s.Sidebar.Width(width).Height(height).MaxHeight(height).Render(b.String())
}

// scrollFraction is how far down the page the viewport is, 1 when the
// page fits.
func (m *Model) scrollFraction() float64 {
	_, height := m.pageSize()
	scrollable := m.doc.ContentHeight() - height
	if scrollable <= 0 {
		return 1
	}
	scroll, _ := m.doc.Scroll(waypoint.Viewport)
	return scroll.Y / float64(scrollable)
}
