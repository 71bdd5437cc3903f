// Package controller holds the catalog UI state machine. It never performs I/O itself:
// operations return Tasks, and hosts feed the resulting Events back through Apply.
package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"vgdb-cli/internal/catalog"
	"vgdb-cli/internal/model"

	"github.com/sirupsen/logrus"
)

const (
	AlertLoginFailed        = "Login Failed"
	AlertRegistrationFailed = "Registration Failed"
	NoticeGameGone          = "game no longer exists"
)

// API is the subset of the catalog client the controller drives.
type API interface {
	ListGames(ctx context.Context) ([]model.Game, error)
	CurrentUser(ctx context.Context) (model.User, error)
	CreateGame(ctx context.Context, f model.GameFields) (model.Game, error)
	UpdateGame(ctx context.Context, id model.ID, f model.GameFields) error
	DeleteGame(ctx context.Context, id model.ID) error
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
}

// Controller is not safe for concurrent use; only the host's event loop may call it.
type Controller struct {
	api   API
	log   logrus.FieldLogger
	state State

	// gen is the generation of the most recently issued list fetch.
	gen uint64
}

func New(api API, log logrus.FieldLogger) *Controller {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Controller{api: api, log: log, state: State{View: ViewLoading}}
}

func (c *Controller) State() State { return c.state.clone() }

// Generation returns the generation of the latest issued list fetch.
func (c *Controller) Generation() uint64 { return c.gen }

// Start runs the session gate: probe the catalog and route to login or catalog.
func (c *Controller) Start() Task {
	c.state.View = ViewLoading
	c.state.Failure = ""
	return c.fetch(fetchReload, "")
}

// Reload re-fetches the whole list. 401 lands on the login view.
func (c *Controller) Reload() Task {
	return c.fetch(fetchReload, "")
}

func (c *Controller) fetch(purpose fetchPurpose, selectID model.ID) Task {
	c.gen++
	gen := c.gen
	c.state.Loading = true
	api := c.api
	return func(ctx context.Context) Event {
		games, err := api.ListGames(ctx)
		return listLoaded{gen: gen, purpose: purpose, selectID: selectID, games: games, err: err}
	}
}

func (c *Controller) ShowLogin() {
	if c.state.View == ViewRegister {
		c.state.View = ViewLogin
	}
}

func (c *Controller) ShowRegister() {
	if c.state.View == ViewLogin {
		c.state.View = ViewRegister
	}
}

// Select shows the detail of the game with id, resolved against a fresh list.
func (c *Controller) Select(id model.ID) Task {
	if id.IsZero() {
		return nil
	}
	if c.state.Form.Mode == FormEdit && c.state.Form.TargetID != id {
		c.resetForm()
	}
	c.state.Notice = ""
	return c.fetch(fetchSelect, id)
}

// Edit binds the form to the game in the detail panel. It reports false when no detail is shown.
func (c *Controller) Edit() bool {
	d := c.state.Detail
	if d == nil {
		return false
	}
	c.state.Form = Form{Mode: FormEdit, TargetID: d.ID, Fields: d.Fields()}
	return true
}

func (c *Controller) CancelEdit() {
	if c.state.Form.Mode == FormEdit {
		c.resetForm()
	}
}

// SetFields records in-progress form input without changing the mode.
func (c *Controller) SetFields(f model.GameFields) {
	c.state.Form.Fields = f
}

// Submit dispatches on the form mode: create, or update the bound target.
func (c *Controller) Submit(f model.GameFields) Task {
	form := c.state.Form
	c.resetForm()
	api := c.api
	if form.Mode == FormEdit {
		c.clearDetail()
		id := form.TargetID
		return func(ctx context.Context) Event {
			return mutationDone{op: opUpdate, id: id, err: api.UpdateGame(ctx, id, f)}
		}
	}
	return func(ctx context.Context) Event {
		_, err := api.CreateGame(ctx, f)
		return mutationDone{op: opCreate, err: err}
	}
}

// Delete removes the game in the detail panel. The panel is cleared before the request runs.
func (c *Controller) Delete() Task {
	d := c.state.Detail
	if d == nil {
		return nil
	}
	id := d.ID
	c.clearDetail()
	if c.state.Form.Mode == FormEdit && c.state.Form.TargetID == id {
		c.resetForm()
	}
	api := c.api
	return func(ctx context.Context) Event {
		return mutationDone{op: opDelete, id: id, err: api.DeleteGame(ctx, id)}
	}
}

func (c *Controller) Register(username, email, password string) Task {
	api := c.api
	return func(ctx context.Context) Event {
		return authDone{op: authRegister, err: api.Register(ctx, username, email, password)}
	}
}

func (c *Controller) Login(email, password string) Task {
	api := c.api
	return func(ctx context.Context) Event {
		return authDone{op: authLogin, err: api.Login(ctx, email, password)}
	}
}

func (c *Controller) Logout() Task {
	api := c.api
	return func(ctx context.Context) Event {
		return authDone{op: authLogout, err: api.Logout(ctx)}
	}
}

func (c *Controller) DismissAlert() { c.state.Alert = "" }

func (c *Controller) DismissNotice() { c.state.Notice = "" }

// Apply folds an Event into the state and returns the follow-up Task, if any.
func (c *Controller) Apply(ev Event) Task {
	switch ev := ev.(type) {
	case listLoaded:
		return c.applyList(ev)
	case userLoaded:
		return c.applyUser(ev)
	case mutationDone:
		return c.applyMutation(ev)
	case authDone:
		return c.applyAuth(ev)
	default:
		return nil
	}
}

func (c *Controller) applyList(ev listLoaded) Task {
	if ev.gen != c.gen {
		c.log.WithFields(logrus.Fields{"gen": ev.gen, "latest": c.gen}).Debug("dropping stale list")
		return nil
	}
	c.state.Loading = false

	if ev.err != nil {
		if errors.Is(ev.err, catalog.ErrUnauthenticated) {
			c.routeToLogin()
			return nil
		}
		c.state.Failure = failureText(ev.err)
		c.log.WithError(ev.err).Warn("list fetch failed")
		return nil
	}

	c.state.Failure = ""
	c.state.View = ViewCatalog
	c.state.Games = ev.games
	c.clearDetail()

	if ev.purpose == fetchSelect {
		g, ok := model.FindGame(ev.games, ev.selectID)
		if !ok {
			c.state.Notice = NoticeGameGone
			return nil
		}
		c.state.SelectedID = g.ID
		c.state.Detail = &g
		return nil
	}

	gen := ev.gen
	api := c.api
	return func(ctx context.Context) Event {
		u, err := api.CurrentUser(ctx)
		return userLoaded{gen: gen, user: u, err: err}
	}
}

func (c *Controller) applyUser(ev userLoaded) Task {
	if ev.gen != c.gen {
		return nil
	}
	if ev.err != nil {
		if errors.Is(ev.err, catalog.ErrUnauthenticated) {
			return c.Reload()
		}
		c.log.WithError(ev.err).Debug("user probe failed")
		return nil
	}
	c.state.Welcome = fmt.Sprintf("Welcome %s!", ev.user.Username)
	return nil
}

func (c *Controller) applyMutation(ev mutationDone) Task {
	if ev.err != nil {
		code := catalog.StatusCode(ev.err)
		switch {
		case ev.op == opDelete && code != 0:
			// Any response to a delete counts as done.
		case code != 0:
			c.state.Notice = fmt.Sprintf("%s failed: status %d", ev.op, code)
		default:
			c.state.Notice = fmt.Sprintf("%s failed: %v", ev.op, ev.err)
		}
		c.log.WithError(ev.err).WithField("op", ev.op.String()).Warn("mutation failed")
	}
	return c.Reload()
}

func (c *Controller) applyAuth(ev authDone) Task {
	switch ev.op {
	case authRegister:
		if ev.err != nil {
			if catalog.StatusCode(ev.err) != 0 {
				c.state.Alert = AlertRegistrationFailed
			} else {
				c.state.Alert = ev.err.Error()
			}
		}
		return c.Reload()
	case authLogin:
		if ev.err == nil {
			return c.Reload()
		}
		if errors.Is(ev.err, catalog.ErrUnauthenticated) {
			c.state.Alert = AlertLoginFailed
		} else {
			c.state.Alert = ev.err.Error()
		}
		return nil
	default:
		if ev.err != nil {
			c.state.Alert = ev.err.Error()
		}
		return c.Reload()
	}
}

func (c *Controller) routeToLogin() {
	c.state.View = ViewLogin
	c.state.Games = nil
	c.state.Welcome = ""
	c.state.Failure = ""
	c.clearDetail()
	c.resetForm()
}

func (c *Controller) clearDetail() {
	c.state.SelectedID = ""
	c.state.Detail = nil
}

func (c *Controller) resetForm() {
	c.state.Form = Form{}
}

func failureText(err error) string {
	if code := catalog.StatusCode(err); code != 0 {
		return fmt.Sprintf("catalog unavailable: status %d %s", code, http.StatusText(code))
	}
	return fmt.Sprintf("catalog unavailable: %v", err)
}
