package review

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	Invert    key.Binding
	Sort      key.Binding
	Export    key.Binding
	Clean     key.Binding
	Confirm   key.Binding
	Back      key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "nav")),
		Down:      key.NewBinding(key.WithKeys("down", "j")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all/none")),
		Invert:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invert")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		Clean:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "clean")),
		Confirm:   key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Back:      key.NewBinding(key.WithKeys("esc", "n", "N"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// hints renders the help text of bindings for the footer.
func hints(bs ...key.Binding) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		h := b.Help()
		out = append(out, h.Key+" "+h.Desc)
	}
	return out
}
