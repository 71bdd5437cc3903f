package tui

import (
	"vgdb-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type gameItem struct {
	game model.Game
}

func (i gameItem) FilterValue() string { return string(i.game.Name) }
func (i gameItem) Title() string       { return orDash(string(i.game.Name)) }
func (i gameItem) Description() string { return string(i.game.Genre) }

func gameItems(games []model.Game) []list.Item {
	items := make([]list.Item, 0, len(games))
	for _, g := range games {
		items = append(items, gameItem{game: g})
	}
	return items
}

func newList(items []list.Item) list.Model {
	l := list.New(items, newGameDelegate(), 0, 0)
	// The app draws its own header and footer, so list chrome stays minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("game", "games")
	l.DisableQuitKeybindings()
	// Emacs-style aliases.
	l.KeyMap.CursorUp.SetKeys(append(l.KeyMap.CursorUp.Keys(), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(l.KeyMap.CursorDown.Keys(), "ctrl+n")...)
	// "d" is delete here, not next page.
	l.KeyMap.NextPage.SetKeys("right", "pgdown", "f")
	return l
}

// selectedGameID returns the id of the highlighted row.
func selectedGameID(l list.Model) (model.ID, bool) {
	it, ok := l.SelectedItem().(gameItem)
	if !ok {
		return "", false
	}
	return it.game.ID, true
}

// indexOfGame returns the row for id, or -1.
func indexOfGame(l list.Model, id model.ID) int {
	for i, it := range l.Items() {
		if gi, ok := it.(gameItem); ok && gi.game.ID == id {
			return i
		}
	}
	return -1
}
