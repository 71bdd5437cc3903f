package tui

import (
	"vgdb-cli/internal/controller"

	tea "github.com/charmbracelet/bubbletea"
)

type paneFocus int

const (
	focusList paneFocus = iota
	focusForm
)

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmDelete
)

// controllerEventMsg carries a completed controller task back into Update.
type controllerEventMsg struct {
	ev controller.Event
}

func (m appModel) debugKeyMsg(k tea.KeyMsg) {
	m.log.WithField("key", k.String()).WithField("view", m.ctl.State().View.String()).Debug("tui key")
}
