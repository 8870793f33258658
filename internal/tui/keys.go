package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ForceQuit key.Binding
	Back      key.Binding

	// main
	Debug    key.Binding
	Settings key.Binding
	Markers  key.Binding
	Pick     key.Binding
	Exit     key.Binding

	// editors
	Next  key.Binding
	Prev  key.Binding
	Apply key.Binding

	// action menu
	Take    key.Binding
	Release key.Binding
	Action1 key.Binding
	Action2 key.Binding

	// exit confirmation
	Confirm key.Binding
	Deny    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Debug:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debug")),
		Settings:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Markers:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "markers")),
		Pick:      key.NewBinding(key.WithKeys("p", "/"), key.WithHelp("p", "select object")),
		Exit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "exit")),
		Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Apply:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Take:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "take")),
		Release:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "release")),
		Action1:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "action 1")),
		Action2:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "action 2")),
		Confirm:   key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "quit")),
		Deny:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "stay")),
	}
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += "  "
		}
		h := b.Help()
		out += keyStyle.Render("["+h.Key+"]") + " " + helpDescStyle.Render(h.Desc)
	}
	return out
}
