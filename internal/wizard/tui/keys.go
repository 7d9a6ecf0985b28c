package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/muurk/freightform/internal/i18n"
)

// formKeyMap defines key bindings for the input steps
type formKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Close      key.Binding
	Next       key.Binding
	Back       key.Binding
	Increment  key.Binding
	Decrement  key.Binding
	AddLoad    key.Binding
	RemoveLoad key.Binding
	Language   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Open, k.Next, k.Back, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Close},
		{k.Next, k.Back, k.Increment, k.Decrement},
		{k.AddLoad, k.RemoveLoad, k.Language, k.Quit},
	}
}

// reviewKeyMap defines key bindings for the review step
type reviewKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Submit key.Binding
	Back   key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k reviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Select, k.Submit, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k reviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Submit, k.Back, k.Cancel, k.Quit},
	}
}

// confirmationKeyMap defines key bindings for the confirmation step
type confirmationKeyMap struct {
	New  key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k confirmationKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k confirmationKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.New, k.Quit}}
}

// keyMaps holds every screen's bindings, labelled in the session language
type keyMaps struct {
	Form         formKeyMap
	Review       reviewKeyMap
	Confirmation confirmationKeyMap
}

func newKeyMaps(tr i18n.Translator) keyMaps {
	quit := key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", tr("help.quit", "quit")),
	)
	help := key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", tr("help.more", "more")),
	)
	back := key.NewBinding(
		key.WithKeys("ctrl+p", "pgup"),
		key.WithHelp("ctrl+p", tr("help.back", "previous step")),
	)
	up := key.NewBinding(
		key.WithKeys("up", "shift+tab"),
		key.WithHelp("↑/shift+tab", tr("help.navigate", "navigate")),
	)
	down := key.NewBinding(
		key.WithKeys("down", "tab"),
		key.WithHelp("↓/tab", tr("help.navigate", "navigate")),
	)

	return keyMaps{
		Form: formKeyMap{
			Up:   up,
			Down: down,
			Open: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", tr("help.toggle", "open/close")),
			),
			Close: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", tr("help.close", "close")),
			),
			Next: key.NewBinding(
				key.WithKeys("ctrl+n", "pgdown"),
				key.WithHelp("ctrl+n", tr("help.next", "next step")),
			),
			Back: back,
			Increment: key.NewBinding(
				key.WithKeys("+"),
				key.WithHelp("+/-", tr("help.units", "units")),
			),
			Decrement: key.NewBinding(
				key.WithKeys("-"),
				key.WithHelp("-", tr("help.units", "units")),
			),
			AddLoad: key.NewBinding(
				key.WithKeys("ctrl+a"),
				key.WithHelp("ctrl+a", tr("help.addLoad", "add cargo line")),
			),
			RemoveLoad: key.NewBinding(
				key.WithKeys("ctrl+x"),
				key.WithHelp("ctrl+x", tr("help.removeLoad", "remove cargo line")),
			),
			Language: key.NewBinding(
				key.WithKeys("ctrl+l"),
				key.WithHelp("ctrl+l", tr("help.language", "language")),
			),
			Help: help,
			Quit: quit,
		},
		Review: reviewKeyMap{
			Up:   up,
			Down: down,
			Select: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", tr("help.select", "choose")),
			),
			Submit: key.NewBinding(
				key.WithKeys("ctrl+s"),
				key.WithHelp("ctrl+s", tr("help.submit", "send")),
			),
			Back: back,
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", tr("help.cancel", "cancel")),
			),
			Help: help,
			Quit: quit,
		},
		Confirmation: confirmationKeyMap{
			New: key.NewBinding(
				key.WithKeys("enter", "n"),
				key.WithHelp("enter", tr("help.newQuote", "new request")),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", tr("help.quit", "quit")),
			),
		},
	}
}
