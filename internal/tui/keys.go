package tui

import "github.com/charmbracelet/bubbles/key"

type boardKeyMap struct {
	Left, Right, Up, Down key.Binding
	Lift                  key.Binding
	Cancel                key.Binding
	PrevPage, NextPage    key.Binding
	Search                key.Binding
	New                   key.Binding
	Delete                key.Binding
	Open                  key.Binding
	Refresh               key.Binding
	Reset                 key.Binding
	Quit                  key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Lift, k.PrevPage, k.NextPage, k.Search, k.New, k.Delete, k.Open, k.Refresh, k.Reset, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		k.ShortHelp(),
	}
}

type subtaskKeyMap struct {
	Left, Right, Up, Down key.Binding
	Lift                  key.Binding
	Add                   key.Binding
	Delete                key.Binding
	Parent                key.Binding
	Back                  key.Binding
}

func (k subtaskKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Lift, k.Add, k.Delete, k.Parent, k.Back}
}

func (k subtaskKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		k.ShortHelp(),
	}
}

// space arrives as " " from the terminal; "space" is accepted as well.
var spaceKeys = []string{" ", "space"}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "column")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "column")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "card")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "card")),
		Lift:     key.NewBinding(key.WithKeys(spaceKeys...), key.WithHelp("space", "lift/drop")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		PrevPage: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next page")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "subtasks")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Reset:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func defaultSubtaskKeys() subtaskKeyMap {
	return subtaskKeyMap{
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "column")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "column")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "subtask")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "subtask")),
		Lift:   key.NewBinding(key.WithKeys(spaceKeys...), key.WithHelp("space", "lift/drop")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Parent: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "move task")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}
