package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	left      key.Binding
	right     key.Binding
	tab       key.Binding
	backtab   key.Binding
	enter     key.Binding
	esc       key.Binding
	save      key.Binding
	quit      key.Binding
	sync      key.Binding
	cancel    key.Binding
	newItem   key.Binding
	edit      key.Binding
	delete    key.Binding
	retry     key.Binding
	keepSrv   key.Binding
	keepLocal key.Binding
	plus      key.Binding
	minus     key.Binding
	info      key.Binding
	yes       key.Binding
	no        key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev collection")),
	right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next collection")),
	tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	backtab:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
	enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle")),
	esc:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	sync:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync now")),
	cancel:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel sync")),
	newItem:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	retry:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
	keepSrv:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "keep server")),
	keepLocal: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "keep local")),
	plus:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "longer interval")),
	minus:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shorter interval")),
	info:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "about")),
	yes:       key.NewBinding(key.WithKeys("y")),
	no:        key.NewBinding(key.WithKeys("n", "esc")),
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += "  "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
