package preview

import (
	"github.com/charmbracelet/bubbles/key"
)

type stackKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Clear  key.Binding
	Switch key.Binding
	Quit   key.Binding
}

func (k stackKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Up, k.Clear, k.Quit}
}

func (k stackKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select, k.Clear}, {k.Switch, k.Quit}}
}

// formKeyMap holds only non-printable keys; letters always go into the focused field
type formKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Submit key.Binding
	Cancel key.Binding
	Reset  key.Binding
	Switch key.Binding
	Quit   key.Binding
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Up, k.Submit, k.Reset, k.Quit}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Submit}, {k.Cancel, k.Reset, k.Switch, k.Quit}}
}

// submittingKeyMap is shown while a send is in flight
type submittingKeyMap struct {
	formKeyMap
}

func (k submittingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Quit}
}

var stackKeys = stackKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "highlight layer")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
	Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	Switch: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "form")),
	Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

var formKeys = formKeyMap{
	Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "field")),
	Down:   key.NewBinding(key.WithKeys("down")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Reset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	Switch: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "diagram")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

var forceQuit = key.NewBinding(key.WithKeys("ctrl+c"))
