package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"vgdb-cli/internal/catalog"
	"vgdb-cli/internal/model"
)

// fakeAPI is an in-memory catalog with a single account.
type fakeAPI struct {
	mu       sync.Mutex
	games    []model.Game
	nextID   int
	loggedIn bool
	username string
	password string
	email    string

	listErr     error
	mutationErr error
	registerErr error
	calls       []string
}

func newFakeAPI(loggedIn bool) *fakeAPI {
	return &fakeAPI{nextID: 1, loggedIn: loggedIn, username: "nate", email: "n@example.com", password: "pw"}
}

func (f *fakeAPI) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) seed(names ...string) {
	for _, n := range names {
		f.games = append(f.games, model.Game{ID: model.ID(strconv.Itoa(f.nextID)), Name: model.Text(n)})
		f.nextID++
	}
}

func (f *fakeAPI) ListGames(context.Context) ([]model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	if !f.loggedIn {
		return nil, &catalog.StatusError{Op: "list games", Code: http.StatusUnauthorized}
	}
	return append([]model.Game(nil), f.games...), nil
}

func (f *fakeAPI) CurrentUser(context.Context) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("user")
	if !f.loggedIn {
		return model.User{}, &catalog.StatusError{Op: "current user", Code: http.StatusUnauthorized}
	}
	return model.User{ID: "1", Username: f.username}, nil
}

func (f *fakeAPI) CreateGame(_ context.Context, fields model.GameFields) (model.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create")
	if f.mutationErr != nil {
		return model.Game{}, f.mutationErr
	}
	g := gameFrom(model.ID(strconv.Itoa(f.nextID)), fields)
	f.games = append(f.games, g)
	f.nextID++
	return g, nil
}

func (f *fakeAPI) UpdateGame(_ context.Context, id model.ID, fields model.GameFields) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update " + id.String())
	if f.mutationErr != nil {
		return f.mutationErr
	}
	for i := range f.games {
		if f.games[i].ID == id {
			f.games[i] = gameFrom(id, fields)
			return nil
		}
	}
	return &catalog.StatusError{Op: "update game", Code: http.StatusNotFound}
}

func (f *fakeAPI) DeleteGame(_ context.Context, id model.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete " + id.String())
	for i := range f.games {
		if f.games[i].ID == id {
			f.games = append(f.games[:i], f.games[i+1:]...)
			return nil
		}
	}
	return &catalog.StatusError{Op: "delete game", Code: http.StatusNotFound}
}

func (f *fakeAPI) Register(context.Context, string, string, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("register")
	return f.registerErr
}

func (f *fakeAPI) Login(_ context.Context, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("login")
	if email != f.email || password != f.password {
		return &catalog.StatusError{Op: "login", Code: http.StatusUnauthorized}
	}
	f.loggedIn = true
	return nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("logout")
	f.loggedIn = false
	return nil
}

func gameFrom(id model.ID, f model.GameFields) model.Game {
	return model.Game{
		ID:        id,
		Name:      model.Text(f.Name),
		Genre:     model.Text(f.Genre),
		Size:      model.Text(f.Size),
		Date:      model.Text(f.Date),
		Publisher: model.Text(f.Publisher),
	}
}

// drive runs task and every follow-up task to completion on the calling goroutine.
func drive(t *testing.T, c *Controller, task Task) {
	t.Helper()
	for i := 0; task != nil; i++ {
		if i > 20 {
			t.Fatalf("task chain did not settle")
		}
		task = c.Apply(task(context.Background()))
	}
}

func startedController(t *testing.T, api *fakeAPI) *Controller {
	t.Helper()
	c := New(api, nil)
	drive(t, c, c.Start())
	return c
}

func countByID(games []model.Game, id model.ID) int {
	n := 0
	for _, g := range games {
		if g.ID == id {
			n++
		}
	}
	return n
}

func TestStartRoutesByProbeStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		loggedIn bool
		listErr  error
		wantView View
		failure  bool
	}{
		{name: "unauthenticated", loggedIn: false, wantView: ViewLogin},
		{name: "authenticated", loggedIn: true, wantView: ViewCatalog},
		{name: "server error", loggedIn: true, listErr: &catalog.StatusError{Op: "list games", Code: 500}, wantView: ViewLoading, failure: true},
		{name: "transport error", loggedIn: true, listErr: errors.New("dial tcp: refused"), wantView: ViewLoading, failure: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			api := newFakeAPI(tc.loggedIn)
			api.listErr = tc.listErr
			c := startedController(t, api)
			st := c.State()
			if st.View != tc.wantView {
				t.Fatalf("expected view %s; got %s", tc.wantView, st.View)
			}
			if (st.Failure != "") != tc.failure {
				t.Fatalf("unexpected failure %q", st.Failure)
			}
			if st.Loading {
				t.Fatalf("loading should be cleared after the probe settles")
			}
		})
	}
}

func TestStartSetsWelcomeFromUserProbe(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess")
	c := startedController(t, api)
	st := c.State()
	if st.Welcome != "Welcome nate!" {
		t.Fatalf("unexpected welcome %q", st.Welcome)
	}
	if len(st.Games) != 1 || st.Games[0].Name != "Chess" {
		t.Fatalf("unexpected games %#v", st.Games)
	}
}

func TestUserProbeUnauthenticatedRerunsGate(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	c := New(api, nil)
	ev := c.Start()(context.Background())
	follow := c.Apply(ev)
	if c.State().View != ViewCatalog {
		t.Fatalf("expected catalog after list probe")
	}
	// The session expires between the list and the profile probe.
	api.mu.Lock()
	api.loggedIn = false
	api.mu.Unlock()
	drive(t, c, follow)
	if c.State().View != ViewLogin {
		t.Fatalf("expected login after 401 from profile probe; got %s", c.State().View)
	}
}

func TestSwitchBetweenLoginAndRegister(t *testing.T) {
	t.Parallel()

	c := startedController(t, newFakeAPI(false))
	c.ShowRegister()
	if c.State().View != ViewRegister {
		t.Fatalf("expected register view")
	}
	c.ShowLogin()
	if c.State().View != ViewLogin {
		t.Fatalf("expected login view")
	}

	api := newFakeAPI(true)
	c = startedController(t, api)
	c.ShowRegister()
	if c.State().View != ViewCatalog {
		t.Fatalf("register must not be reachable from the catalog")
	}
}

func TestCreateThenReloadShowsRecordOnce(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess")
	c := startedController(t, api)

	fields := model.GameFields{Name: "Tetris", Genre: "Puzzle", Size: "1", Date: "1984", Publisher: "ELORG"}
	c.SetFields(fields)
	drive(t, c, c.Submit(fields))

	st := c.State()
	if len(st.Games) != 2 {
		t.Fatalf("expected 2 games; got %d", len(st.Games))
	}
	n := 0
	for _, g := range st.Games {
		if g.Name == "Tetris" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected Tetris exactly once; got %d", n)
	}
	if !st.Form.Fields.IsEmpty() || st.Form.Mode != FormCreate {
		t.Fatalf("form should be cleared after create: %#v", st.Form)
	}
}

func TestUpdateReplacesOnlyTarget(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess", "Go", "Shogi")
	c := startedController(t, api)

	drive(t, c, c.Select("2"))
	if !c.Edit() {
		t.Fatalf("expected edit to bind to the shown detail")
	}
	st := c.State()
	if st.Form.Mode != FormEdit || st.Form.TargetID != "2" || st.Form.Fields.Name != "Go" {
		t.Fatalf("unexpected form %#v", st.Form)
	}
	if st.Form.SubmitLabel() != "UPDATE" {
		t.Fatalf("unexpected label %q", st.Form.SubmitLabel())
	}

	task := c.Submit(model.GameFields{Name: "Baduk", Genre: "Board"})
	st = c.State()
	if st.Form.Mode != FormCreate || st.DetailVisible() {
		t.Fatalf("form and detail must reset at submission: %#v", st)
	}
	drive(t, c, task)

	st = c.State()
	if len(st.Games) != 3 {
		t.Fatalf("update must keep the count; got %d", len(st.Games))
	}
	want := map[model.ID]model.Text{"1": "Chess", "2": "Baduk", "3": "Shogi"}
	for _, g := range st.Games {
		if want[g.ID] != g.Name {
			t.Fatalf("game %s: expected %q; got %q", g.ID, want[g.ID], g.Name)
		}
	}
	if st.Games[1].Genre != "Board" {
		t.Fatalf("expected genre to be replaced; got %q", st.Games[1].Genre)
	}
}

func TestDeleteHidesDetailImmediately(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess", "Go")
	c := startedController(t, api)
	drive(t, c, c.Select("1"))

	task := c.Delete()
	if task == nil {
		t.Fatalf("expected delete task")
	}
	if c.State().DetailVisible() {
		t.Fatalf("detail must be hidden before the response arrives")
	}
	drive(t, c, task)

	st := c.State()
	if len(st.Games) != 1 || countByID(st.Games, "1") != 0 || countByID(st.Games, "2") != 1 {
		t.Fatalf("expected only game 1 removed; got %#v", st.Games)
	}
	if st.Notice != "" {
		t.Fatalf("delete success must not leave a notice: %q", st.Notice)
	}
}

func TestDeleteWithoutDetailIsNoop(t *testing.T) {
	t.Parallel()

	c := startedController(t, newFakeAPI(true))
	if c.Delete() != nil {
		t.Fatalf("expected no task without a detail")
	}
	if c.Edit() {
		t.Fatalf("expected edit to be unavailable without a detail")
	}
}

func TestSelectAnotherGameCancelsEdit(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess", "Go")
	c := startedController(t, api)

	drive(t, c, c.Select("1"))
	c.Edit()
	c.SetFields(model.GameFields{Name: "Chess 2"})
	drive(t, c, c.Select("2"))

	st := c.State()
	if st.Form.Mode != FormCreate || !st.Form.Fields.IsEmpty() {
		t.Fatalf("selecting another game must cancel the edit: %#v", st.Form)
	}
	c.Edit()
	drive(t, c, c.Submit(model.GameFields{Name: "Go (19x19)"}))

	st = c.State()
	if g, _ := model.FindGame(st.Games, "1"); g.Name != "Chess" {
		t.Fatalf("first game must be untouched; got %#v", g)
	}
	if g, _ := model.FindGame(st.Games, "2"); g.Name != "Go (19x19)" {
		t.Fatalf("second game must be updated; got %#v", g)
	}
}

func TestSelectSameGameKeepsEdit(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess")
	c := startedController(t, api)
	drive(t, c, c.Select("1"))
	c.Edit()
	drive(t, c, c.Select("1"))
	if st := c.State(); st.Form.Mode != FormEdit || st.Form.TargetID != "1" {
		t.Fatalf("reselecting the edit target should keep the edit: %#v", st.Form)
	}
}

func TestSelectResolvesDuplicateNamesByID(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess", "Chess")
	api.games[1].Genre = "Variant"
	c := startedController(t, api)

	for i := 0; i < 3; i++ {
		drive(t, c, c.Select("2"))
		st := c.State()
		if st.Detail == nil || st.Detail.ID != "2" || st.Detail.Genre != "Variant" {
			t.Fatalf("expected game 2; got %#v", st.Detail)
		}
	}
}

func TestSelectMissingGameShowsNotice(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess")
	c := startedController(t, api)
	drive(t, c, c.Select("99"))
	st := c.State()
	if st.DetailVisible() || st.Notice != NoticeGameGone {
		t.Fatalf("expected notice and no detail; got %#v", st)
	}
}

func TestReloadDiscardsSelection(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess")
	c := startedController(t, api)
	drive(t, c, c.Select("1"))
	drive(t, c, c.Reload())
	if st := c.State(); st.DetailVisible() || st.SelectedID != "" {
		t.Fatalf("reload must clear selection: %#v", st)
	}
}

func TestWrongPasswordAlertsAndStaysOnLogin(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(false)
	c := startedController(t, api)
	before := len(api.calls)

	drive(t, c, c.Login("n@example.com", "nope"))

	st := c.State()
	if st.Alert != AlertLoginFailed || st.View != ViewLogin {
		t.Fatalf("expected login failure alert on login view: %#v", st)
	}
	if got := api.calls[before:]; len(got) != 1 || got[0] != "login" {
		t.Fatalf("failed login must not reload; calls %v", got)
	}
	if api.loggedIn {
		t.Fatalf("no session expected")
	}
	c.DismissAlert()
	if c.State().Alert != "" {
		t.Fatalf("expected alert dismissed")
	}
}

func TestLoginThenLogout(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(false)
	api.seed("Chess")
	c := startedController(t, api)

	drive(t, c, c.Login("n@example.com", "pw"))
	if st := c.State(); st.View != ViewCatalog || st.Welcome != "Welcome nate!" {
		t.Fatalf("expected catalog after login: %#v", st)
	}

	drive(t, c, c.Logout())
	st := c.State()
	if st.View != ViewLogin || st.Welcome != "" || st.Games != nil {
		t.Fatalf("expected clean login view after logout: %#v", st)
	}
}

func TestRegisterOutcomes(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(false)
	c := startedController(t, api)
	c.ShowRegister()

	drive(t, c, c.Register("nate", "n@example.com", "pw"))
	st := c.State()
	if st.Alert != "" || st.View != ViewLogin {
		t.Fatalf("successful registration reloads into login: %#v", st)
	}

	api.registerErr = &catalog.StatusError{Op: "register", Code: http.StatusUnprocessableEntity}
	before := len(api.calls)
	drive(t, c, c.Register("nate", "n@example.com", "pw"))
	if c.State().Alert != AlertRegistrationFailed {
		t.Fatalf("expected registration alert; got %q", c.State().Alert)
	}
	if got := api.calls[before:]; len(got) < 2 || got[1] != "list" {
		t.Fatalf("failed registration still reloads; calls %v", got)
	}

	api.registerErr = errors.New("connection reset")
	drive(t, c, c.Register("nate", "n@example.com", "pw"))
	if c.State().Alert != "connection reset" {
		t.Fatalf("transport error should surface its text; got %q", c.State().Alert)
	}
}

func TestMutationFailureNoticeAndReload(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess")
	c := startedController(t, api)

	api.mutationErr = &catalog.StatusError{Op: "create game", Code: http.StatusBadRequest}
	before := len(api.calls)
	drive(t, c, c.Submit(model.GameFields{Name: "x"}))
	if got := c.State().Notice; got != "Create failed: status 400" {
		t.Fatalf("unexpected notice %q", got)
	}
	if calls := api.calls[before:]; len(calls) < 2 || calls[1] != "list" {
		t.Fatalf("expected reload after failed create; calls %v", calls)
	}

	api.mutationErr = fmt.Errorf("update game: %w", errors.New("timeout"))
	drive(t, c, c.Select("1"))
	c.Edit()
	drive(t, c, c.Submit(model.GameFields{Name: "y"}))
	if got := c.State().Notice; got != "Update failed: update game: timeout" {
		t.Fatalf("unexpected notice %q", got)
	}
}

func TestStaleReloadNeverOverwritesNewer(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess")
	c := startedController(t, api)

	oldTask := c.Reload()
	oldEv := oldTask(context.Background())

	api.seed("Go")
	newTask := c.Reload()
	newEv := newTask(context.Background())

	follow := c.Apply(newEv)
	if len(c.State().Games) != 2 {
		t.Fatalf("expected newest list applied")
	}
	if c.Apply(oldEv) != nil {
		t.Fatalf("stale result must not schedule work")
	}
	if len(c.State().Games) != 2 {
		t.Fatalf("stale list overwrote newer one: %#v", c.State().Games)
	}
	drive(t, c, follow)
	if c.State().Welcome == "" {
		t.Fatalf("profile probe of the latest fetch should apply")
	}
}

func TestStaleUserProbeIsDropped(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	c := New(api, nil)
	probe := c.Apply(c.Start()(context.Background()))
	_ = c.Reload()

	if c.Apply(probe(context.Background())) != nil {
		t.Fatalf("stale probe must not schedule work")
	}
	if c.State().Welcome != "" {
		t.Fatalf("stale probe must not set the welcome banner")
	}
	if !c.State().Loading {
		t.Fatalf("the newer fetch is still in flight")
	}
}

func TestStateIsACopy(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(true)
	api.seed("Chess")
	c := startedController(t, api)
	drive(t, c, c.Select("1"))

	st := c.State()
	st.Games[0].Name = "mutated"
	st.Detail.Name = "mutated"
	again := c.State()
	if again.Games[0].Name != "Chess" || again.Detail.Name != "Chess" {
		t.Fatalf("State must return a copy")
	}
}
