package styles

// NewWaypointsTheme creates the default theme: a dusk gradient over a
// slate background.
func NewWaypointsTheme() *Theme {
	return &Theme{
		Name:   "waypoints",
		IsDark: true,

		// Brand colors - dusk gradient
		Primary:   ParseHex("#C0392B"), // Brick red
		Secondary: ParseHex("#F4D03F"), // Lamp yellow
		Accent:    ParseHex("#F39C12"), // Golden orange

		// Background colors - slate gray
		BgBase:      ParseHex("#2C3E50"),
		BgSubtle:    ParseHex("#3D566E"),
		BgHighlight: ParseHex("#5D6D7E"),

		// Foreground colors
		FgBase:     ParseHex("#f5f6fa"),
		FgMuted:    ParseHex("#a0a0a0"),
		FgSubtle:   ParseHex("#6F6F70"),
		FgInverted: ParseHex("#1e1e1e"),

		Border: ParseHex("#5D6D7E"),

		// Semantic colors
		Success: ParseHex("#27AE60"),
		Error:   ParseHex("#E74C3C"),
		Warning: ParseHex("#F39C12"),
		Info:    ParseHex("#3498DB"),

		Link: ParseHex("#5EB3F6"),
	}
}

// NewDarkTheme creates a quieter slate theme
func NewDarkTheme() *Theme {
	return &Theme{
		Name:   "dark",
		IsDark: true,

		// Brand colors
		Primary:   ParseHex("#60a5fa"), // Sky blue
		Secondary: ParseHex("#a78bfa"), // Violet
		Accent:    ParseHex("#34d399"), // Emerald

		// Background colors
		BgBase:      ParseHex("#0f172a"), // Slate 900
		BgSubtle:    ParseHex("#334155"), // Slate 700
		BgHighlight: ParseHex("#64748b"), // Slate 500

		// Foreground colors
		FgBase:     ParseHex("#f8fafc"), // Slate 50
		FgMuted:    ParseHex("#cbd5e1"), // Slate 300
		FgSubtle:   ParseHex("#94a3b8"), // Slate 400
		FgInverted: ParseHex("#0f172a"), // Slate 900

		Border: ParseHex("#334155"),

		// Semantic colors
		Success: ParseHex("#34d399"), // Emerald 400
		Error:   ParseHex("#f87171"), // Red 400
		Warning: ParseHex("#fbbf24"), // Amber 400
		Info:    ParseHex("#60a5fa"), // Sky 400

		Link: ParseHex("#93c5fd"),
	}
}
