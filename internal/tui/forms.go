package tui

import (
	"strings"

	"vgdb-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fieldSet is a vertical stack of labeled inputs with one focused field.
type fieldSet struct {
	labels []string
	inputs []textinput.Model
	focus  int
	active bool
}

func newFieldSet(labels []string, inputs []textinput.Model) fieldSet {
	return fieldSet{labels: labels, inputs: inputs}
}

func newGameForm() fieldSet {
	return newFieldSet(
		[]string{"NAME", "GENRE", "SIZE", "DATE", "PUBLISHER"},
		[]textinput.Model{
			newInput("Name", 200),
			newInput("Genre", 100),
			newInput("Size (integer)", 20),
			newInput("Release date", 40),
			newInput("Publisher", 200),
		},
	)
}

func newLoginForm() fieldSet {
	return newFieldSet(
		[]string{"EMAIL", "PASSWORD"},
		[]textinput.Model{newInput("you@example.com", 254), newPasswordInput("password")},
	)
}

func newRegisterForm() fieldSet {
	return newFieldSet(
		[]string{"USERNAME", "EMAIL", "PASSWORD"},
		[]textinput.Model{newInput("username", 64), newInput("you@example.com", 254), newPasswordInput("password")},
	)
}

// activate focuses field i (clamped) and blurs the rest.
func (f *fieldSet) activate(i int) {
	f.active = true
	f.focus = min(max(i, 0), len(f.inputs)-1)
	for j := range f.inputs {
		if j == f.focus {
			_ = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *fieldSet) deactivate() {
	f.active = false
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
}

func (f *fieldSet) next() { f.activate((f.focus + 1) % len(f.inputs)) }
func (f *fieldSet) prev() { f.activate((f.focus + len(f.inputs) - 1) % len(f.inputs)) }

func (f fieldSet) onLast() bool { return f.focus == len(f.inputs)-1 }

func (f *fieldSet) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f fieldSet) value(i int) string { return f.inputs[i].Value() }

func (f *fieldSet) setValues(vals ...string) {
	for i := range f.inputs {
		v := ""
		if i < len(vals) {
			v = vals[i]
		}
		f.inputs[i].SetValue(v)
		f.inputs[i].CursorEnd()
	}
}

func (f *fieldSet) reset() {
	f.setValues()
	f.focus = 0
}

func (f *fieldSet) setWidth(w int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(w, 1)
	}
}

func (f fieldSet) labelWidth() int {
	w := 0
	for _, l := range f.labels {
		w = max(w, len(l))
	}
	return w
}

func (f fieldSet) view(width int) string {
	labelW := f.labelWidth()
	lines := make([]string, 0, len(f.inputs))
	for i := range f.inputs {
		focused := f.active && i == f.focus
		lines = append(lines, renderInputLine(width, f.labels[i], labelW, f.inputs[i].View(), focused))
	}
	return strings.Join(lines, "\n")
}

func gameFields(f fieldSet) model.GameFields {
	return model.GameFields{
		Name:      f.value(0),
		Genre:     f.value(1),
		Size:      f.value(2),
		Date:      f.value(3),
		Publisher: f.value(4),
	}
}

func loadGameFields(f *fieldSet, g model.GameFields) {
	f.setValues(g.Name, g.Genre, g.Size, g.Date, g.Publisher)
}
