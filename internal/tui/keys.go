package tui

import "github.com/charmbracelet/bubbles/v2/key"

// KeyMap defines the pricing page key bindings
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	NextPiece key.Binding
	PrevPiece key.Binding
	Add       key.Binding
	Remove    key.Binding
	Variant   key.Binding
	Clear     key.Binding

	GalleryLeft  key.Binding
	GalleryRight key.Binding
	UsePhoto     key.Binding

	Quote key.Binding
	Close key.Binding
	Help  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup/b", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "f", "space"),
			key.WithHelp("pgdn/f", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "bottom"),
		),
		NextPiece: key.NewBinding(
			key.WithKeys("n", "tab"),
			key.WithHelp("n", "next piece"),
		),
		PrevPiece: key.NewBinding(
			key.WithKeys("N", "shift+tab"),
			key.WithHelp("N", "previous piece"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a", "add"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "remove"),
		),
		Variant: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "size"),
		),
		Clear: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "remove all"),
		),
		GalleryLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous photo"),
		),
		GalleryRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next photo"),
		),
		UsePhoto: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "use photo pieces"),
		),
		Quote: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "print quote"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.NextPiece, k.Add, k.Remove, k.Variant, k.Quote, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.NextPiece, k.PrevPiece, k.Add, k.Remove, k.Variant, k.Clear},
		{k.GalleryLeft, k.GalleryRight, k.UsePhoto},
		{k.Quote, k.Close, k.Help, k.Quit},
	}
}
