package status

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearOnlyCurrentMessage(t *testing.T) {
	c := New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NotNil(t, c.ShowInfo("first"))
	first := c.Message().Timestamp

	now = now.Add(time.Second)
	c.ShowSuccess("saved")

	c.Update(clearMessageMsg{timestamp: first})
	require.NotNil(t, c.Message())
	assert.Equal(t, "saved", c.Message().Content)

	c.Update(clearMessageMsg{timestamp: c.Message().Timestamp})
	assert.Nil(t, c.Message())
}

func TestViewFitsWidth(t *testing.T) {
	c := New()
	assert.Empty(t, c.View())

	c.SetWidth(30)
	c.SetLeftContent("Pergola · Fire Pit · Walkway in view")
	c.ShowWarning("no piece in view to add")

	out := c.View()
	assert.Equal(t, 30, lipgloss.Width(out))
	assert.Equal(t, 1, strings.Count(out, "\n")+1)
}

func TestViewShowsBothSides(t *testing.T) {
	c := New()
	c.SetWidth(60)
	c.SetLeftContent("top")
	c.ShowError("store closed")

	out := c.View()
	assert.Contains(t, out, "top")
	assert.Contains(t, out, "store closed")
}
