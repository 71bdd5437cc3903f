package controller

import "vgdb-cli/internal/model"

type View int

const (
	ViewLoading View = iota
	ViewLogin
	ViewRegister
	ViewCatalog
)

func (v View) String() string {
	switch v {
	case ViewLoading:
		return "loading"
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewCatalog:
		return "catalog"
	default:
		return "unknown"
	}
}

type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

func (m FormMode) String() string {
	if m == FormEdit {
		return "edit"
	}
	return "create"
}

// Form is the add/edit form. TargetID is only meaningful in FormEdit.
type Form struct {
	Mode     FormMode
	TargetID model.ID
	Fields   model.GameFields
}

// SubmitLabel is the label of the form's submit control.
func (f Form) SubmitLabel() string {
	if f.Mode == FormEdit {
		return "UPDATE"
	}
	return "ADD GAME"
}

// State is everything a surface needs to render. Hosts get copies; the controller owns the
// original.
type State struct {
	View View

	// Games is the list from the most recent successful fetch, in server order.
	Games []model.Game

	// SelectedID and Detail describe the game shown in the detail panel.
	SelectedID model.ID
	Detail     *model.Game

	Form    Form
	Welcome string

	// Alert is a user-facing message that should interrupt (e.g. "Login Failed").
	Alert string
	// Notice is a non-blocking status message (failed mutation, stale selection).
	Notice string
	// Failure is set when the session gate hits a status it cannot route.
	Failure string

	// Loading is true while the latest list fetch is in flight.
	Loading bool
}

// DetailVisible reports whether the detail panel and its edit/delete controls are shown.
func (s State) DetailVisible() bool { return s.Detail != nil }

func (s State) clone() State {
	out := s
	if s.Games != nil {
		out.Games = append([]model.Game(nil), s.Games...)
	}
	if s.Detail != nil {
		d := *s.Detail
		out.Detail = &d
	}
	return out
}
