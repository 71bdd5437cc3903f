package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// gameDelegate renders one game per line: name on the left, muted id on the right.
type gameDelegate struct{}

func newGameDelegate() gameDelegate { return gameDelegate{} }

func (gameDelegate) Height() int                             { return 1 }
func (gameDelegate) Spacing() int                            { return 0 }
func (gameDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (gameDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(gameItem)
	contentW := m.Width()
	if !ok || contentW < 4 {
		return
	}

	id := "#" + it.game.ID.String()
	nameW := max(contentW-xansi.StringWidth(id)-1, 1)
	name := fitLine(it.Title(), nameW)

	if index == m.Index() {
		st := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		fmt.Fprint(w, st.Render(name+" "+id))
		return
	}
	fmt.Fprint(w, name+" "+styleMuted().Render(id))
}
