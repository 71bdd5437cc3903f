package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// newInput builds a single-line text input with a static cursor; a blinking cursor would
// keep a tick running for every focused field.
func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	_ = ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func newPasswordInput(placeholder string) textinput.Model {
	ti := newInput(placeholder, 256)
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return ti
}

// renderInputLine draws a labeled input on one visual line of exactly width columns.
func renderInputLine(width int, label string, labelW int, inputView string, focused bool) string {
	if width < 10 {
		width = 10
	}
	inputView = strings.NewReplacer("\n", " ", "\r", " ").Replace(inputView)

	lbl := styleMuted().Width(labelW).Render(label)
	if focused {
		lbl = styleHeader().Width(labelW).Render(label)
	}
	fieldW := max(width-labelW-1, 1)
	field := lipgloss.PlaceHorizontal(
		fieldW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(field) > fieldW {
		// Terminate styling so a cut sequence does not bleed into the next pane.
		field = xansi.Cut(field, 0, fieldW) + "\x1b[0m"
	}
	return lbl + " " + field
}
