package tui

import "github.com/charmbracelet/bubbles/key"

type listKeys struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Search   key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Sort     key.Binding
	PageSize key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Quit     key.Binding
}

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.New, k.Edit, k.Delete, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Search, k.Sort, k.PageSize, k.Refresh},
		{k.New, k.Edit, k.Delete, k.Dismiss, k.Quit},
	}
}

var defaultListKeys = listKeys{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	PrevPage: key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
	NextPage: key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	PageSize: key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "page size")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Dismiss:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss notices")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type formKeys struct {
	Next     key.Binding
	Prev     key.Binding
	AddEmail key.Binding
	AddPhone key.Binding
	Remove   key.Binding
	Submit   key.Binding
	Cancel   key.Binding
}

func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.AddEmail, k.AddPhone, k.Remove, k.Submit, k.Cancel}
}

func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultFormKeys = formKeys{
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
	AddEmail: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "add email")),
	AddPhone: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "add number")),
	Remove:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove entry")),
	Submit:   key.NewBinding(key.WithKeys("ctrl+s", "enter"), key.WithHelp("enter", "submit")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
