package tui

import "github.com/charmbracelet/bubbles/key"

type catalogKeyMap struct {
	Select key.Binding
	Edit   key.Binding
	Delete key.Binding
	Add    key.Binding
	Reload key.Binding
	CopyID key.Binding
	Logout key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

type authKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Switch key.Binding
	Back   key.Binding
	Quit   key.Binding
}

type loadingKeyMap struct {
	Retry key.Binding
	Quit  key.Binding
}

type confirmKeyMap struct {
	Toggle  key.Binding
	Choose  key.Binding
	Yes     key.Binding
	No      key.Binding
	Dismiss key.Binding
}

var (
	catalogKeys = catalogKeyMap{
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Add:    key.NewBinding(key.WithKeys("a", "tab"), key.WithHelp("a", "form")),
		Reload: key.NewBinding(key.WithKeys("r", "ctrl+l"), key.WithHelp("r", "reload")),
		CopyID: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		Logout: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}

	formKeys = formKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}

	authKeys = authKeyMap{
		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Switch: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "login/register")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "first field")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}

	loadingKeys = loadingKeyMap{
		Retry: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}

	confirmKeys = confirmKeyMap{
		Toggle:  key.NewBinding(key.WithKeys("tab", "shift+tab", "left", "right")),
		Choose:  key.NewBinding(key.WithKeys("enter")),
		Yes:     key.NewBinding(key.WithKeys("y")),
		No:      key.NewBinding(key.WithKeys("n")),
		Dismiss: key.NewBinding(key.WithKeys("esc", "ctrl+g")),
	}
)

func (k catalogKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Edit, k.Delete, k.Add, k.Reload, k.CopyID, k.Logout, k.Quit}
}

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

func (k authKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Switch, k.Back, k.Quit}
}

func (k loadingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Quit}
}
