package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

// RenderThemeGradient renders text with the current theme's primary gradient
func RenderThemeGradient(text string, bold bool) string {
	theme := CurrentTheme()
	if bold {
		return ApplyBoldGradient(text, theme.Primary, theme.Secondary)
	}
	return ApplyGradient(text, theme.Primary, theme.Secondary)
}

// RenderGradientBar creates a gradient progress bar. filled is clamped to
// [0, 1].
func RenderGradientBar(width int, filled float64) string {
	if width <= 0 {
		return ""
	}

	theme := CurrentTheme()
	filled = min(max(filled, 0), 1)
	filledWidth := int(float64(width) * filled)
	if filledWidth <= 0 {
		return strings.Repeat("░", width)
	}

	var bar strings.Builder
	colors := blendColors(filledWidth, theme.Primary, theme.Secondary)
	for i := 0; i < filledWidth; i++ {
		style := lipgloss.NewStyle().Foreground(colors[i])
		bar.WriteString(style.Render("█"))
	}

	if filledWidth < width {
		bar.WriteString(lipgloss.NewStyle().Foreground(theme.FgSubtle).Render(strings.Repeat("░", width-filledWidth)))
	}

	return bar.String()
}
