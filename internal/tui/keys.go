package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Reset     key.Binding
	Share     key.Binding
	Challenge key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	k := keyMap{
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Share: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "share"),
		),
		Challenge: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "challenge friend"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
	k.setResultAvailable(false)
	return k
}

// setResultAvailable toggles the bindings that need computed stats.
func (k *keyMap) setResultAvailable(ok bool) {
	k.Share.SetEnabled(ok)
	k.Challenge.SetEnabled(ok)
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reset, k.Share, k.Challenge, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
