package status

import (
	"strings"
	"time"

	"github.com/billie-coop/waypoints/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// MessageType represents the type of status message
type MessageType int

const (
	Info MessageType = iota
	Warning
	Error
	Success
)

// StatusMessage represents a status bar message
type StatusMessage struct {
	Content   string
	Type      MessageType
	Timestamp time.Time
}

// Component is a one-line status bar: left content (scroll position and
// what is in view) and a temporary message on the right.
type Component struct {
	message     *StatusMessage
	width       int
	leftContent string

	// Timer for clearing messages
	clearAfter time.Duration
	now        func() time.Time
}

// New creates a new status bar component
func New() *Component {
	return &Component{
		clearAfter: 5 * time.Second,
		now:        time.Now,
	}
}

// SetMessage sets a status message with the given type
func (c *Component) SetMessage(content string, msgType MessageType) tea.Cmd {
	msg := &StatusMessage{
		Content:   content,
		Type:      msgType,
		Timestamp: c.now(),
	}
	c.message = msg

	// Return a command to clear the message after the timeout
	return tea.Tick(c.clearAfter, func(time.Time) tea.Msg {
		return clearMessageMsg{timestamp: msg.Timestamp}
	})
}

// ShowInfo shows an info message
func (c *Component) ShowInfo(message string) tea.Cmd {
	return c.SetMessage(message, Info)
}

// ShowWarning shows a warning message
func (c *Component) ShowWarning(message string) tea.Cmd {
	return c.SetMessage(message, Warning)
}

// ShowError shows an error message
func (c *Component) ShowError(message string) tea.Cmd {
	return c.SetMessage(message, Error)
}

// ShowSuccess shows a success message
func (c *Component) ShowSuccess(message string) tea.Cmd {
	return c.SetMessage(message, Success)
}

// Message returns the message being shown, nil when there is none.
func (c *Component) Message() *StatusMessage {
	return c.message
}

// SetLeftContent sets the left side content
func (c *Component) SetLeftContent(content string) {
	c.leftContent = content
}

func (c *Component) SetWidth(width int) {
	c.width = width
}

// clearMessageMsg is sent when a status message should be cleared
type clearMessageMsg struct {
	timestamp time.Time
}

// Update clears the message when its timer fires.
func (c *Component) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case clearMessageMsg:
		// Only clear if this is for the current message
		if c.message != nil && msg.timestamp.Equal(c.message.Timestamp) {
			c.message = nil
		}
	}
	return nil
}

func (c *Component) View() string {
	if c.width == 0 {
		return ""
	}

	theme := styles.CurrentTheme()
	statusStyle := theme.S().Bar.Width(c.width).MaxHeight(1)

	leftContent := c.leftContent
	rightContent := c.formatMessage()

	// Account for padding
	availableWidth := c.width - 2
	if lipgloss.Width(leftContent)+lipgloss.Width(rightContent) > availableWidth {
		rightContent = ansi.Truncate(rightContent, min(40, availableWidth), "…")
		remaining := availableWidth - lipgloss.Width(rightContent) - 1
		leftContent = ansi.Truncate(leftContent, max(remaining, 0), "…")
	}

	content := leftContent
	if rightContent != "" {
		gap := availableWidth - lipgloss.Width(leftContent) - lipgloss.Width(rightContent)
		content += strings.Repeat(" ", max(gap, 1)) + rightContent
	}

	return statusStyle.Render(content)
}

// formatMessage formats the status message with appropriate styling
func (c *Component) formatMessage() string {
	if c.message == nil {
		return ""
	}

	s := styles.CurrentTheme().S()
	switch c.message.Type {
	case Success:
		return s.Success.Render("✓ " + c.message.Content)
	case Warning:
		return s.Warning.Render("! " + c.message.Content)
	case Error:
		return s.Error.Render("✗ " + c.message.Content)
	default:
		return c.message.Content
	}
}
