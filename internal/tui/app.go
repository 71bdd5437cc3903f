package tui

import (
	"context"
	"time"

	"vgdb-cli/internal/controller"
	"vgdb-cli/internal/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type appModel struct {
	ctx    context.Context
	ctl    *controller.Controller
	log    logrus.FieldLogger
	server string

	width  int
	height int

	// view is the controller view seen by the last sync; transitions reset focus.
	view         controller.View
	focus        paneFocus
	modal        modalKind
	confirmFocus confirmModalFocus

	games    list.Model
	form     fieldSet
	login    fieldSet
	register fieldSet
	help     help.Model

	minibufferText  string
	minibufferErr   bool
	minibufferSetAt time.Time

	// failureGen is the fetch generation whose failure was last echoed on the catalog view.
	failureGen uint64
}

func newAppModel(ctx context.Context, ctl *controller.Controller, server string, log logrus.FieldLogger) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logging.Discard()
	}
	m := appModel{
		ctx:      ctx,
		ctl:      ctl,
		log:      log,
		server:   server,
		view:     ctl.State().View,
		games:    newList(nil),
		form:     newGameForm(),
		login:    newLoginForm(),
		register: newRegisterForm(),
		help:     help.New(),
	}
	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd {
	return m.run(m.ctl.Start())
}

// run turns a controller task into a command whose result is fed back through Update.
func (m appModel) run(task controller.Task) tea.Cmd {
	if task == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		return controllerEventMsg{ev: task(ctx)}
	}
}

func (m *appModel) showMinibuffer(text string, isErr bool) {
	m.minibufferText = text
	m.minibufferErr = isErr
	m.minibufferSetAt = time.Now()
}

func (m *appModel) clearMinibuffer() {
	m.minibufferText = ""
	m.minibufferErr = false
}

func (m *appModel) resize() {
	lay := layoutFor(m.width, m.height)
	iw, ih := paneInner(lay.listW, lay.bodyH)
	m.games.SetSize(iw, ih)

	fw, _ := paneInner(m.paneWidth(), lay.formH)
	m.form.setWidth(fw - m.form.labelWidth() - 3)
	m.login.setWidth(min(fw, 48) - m.login.labelWidth() - 3)
	m.register.setWidth(min(fw, 48) - m.register.labelWidth() - 3)
	m.help.Width = m.paneWidth()
}

func (m appModel) paneWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

// sync pulls controller state into widgets and surfaces one-shot messages.
func (m *appModel) sync() tea.Cmd {
	st := m.ctl.State()
	if st.View != m.view {
		m.enterView(st.View)
	}

	var cmd tea.Cmd
	if st.View == controller.ViewCatalog {
		cmd = m.setGames(st)
	}
	if st.Alert != "" {
		m.showMinibuffer(st.Alert, true)
		m.ctl.DismissAlert()
	}
	if st.Notice != "" {
		m.showMinibuffer(st.Notice, false)
		m.ctl.DismissNotice()
	}
	// The loading view renders Failure itself; on the catalog the stale list stays up.
	if st.View == controller.ViewCatalog && st.Failure != "" && !st.Loading {
		if gen := m.ctl.Generation(); gen != m.failureGen {
			m.failureGen = gen
			m.showMinibuffer(st.Failure, true)
		}
	}
	return cmd
}

func (m *appModel) enterView(v controller.View) {
	m.log.WithField("from", m.view.String()).WithField("to", v.String()).Debug("tui view change")
	m.view = v
	m.modal = modalNone
	if !m.minibufferErr {
		m.clearMinibuffer()
	}
	m.focus = focusList
	m.form.deactivate()
	m.loadForm()
	switch v {
	case controller.ViewLogin:
		m.register.deactivate()
		m.login.setValues(m.login.value(0))
		m.login.activate(0)
	case controller.ViewRegister:
		m.login.deactivate()
		m.register.reset()
		m.register.activate(0)
	case controller.ViewCatalog:
		m.login.reset()
		m.login.deactivate()
		m.register.reset()
		m.register.deactivate()
	}
}

// setGames replaces the list rows and keeps the highlight on the same game when it survived.
func (m *appModel) setGames(st controller.State) tea.Cmd {
	keep, hadKeep := selectedGameID(m.games)
	if st.Detail != nil {
		keep, hadKeep = st.Detail.ID, true
	}
	idx := m.games.Index()
	cmd := m.games.SetItems(gameItems(st.Games))
	if hadKeep {
		if i := indexOfGame(m.games, keep); i >= 0 {
			m.games.Select(i)
			return cmd
		}
	}
	if n := len(m.games.Items()); n > 0 {
		m.games.Select(min(idx, n-1))
	}
	return cmd
}

// loadForm copies the controller's form into the inputs.
func (m *appModel) loadForm() {
	loadGameFields(&m.form, m.ctl.State().Form.Fields)
}

func (m *appModel) focusForm() {
	m.focus = focusForm
	m.form.activate(m.form.focus)
}

func (m *appModel) focusList() {
	m.focus = focusList
	m.form.deactivate()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case controllerEventMsg:
		next := m.ctl.Apply(msg.ev)
		cmd := m.sync()
		return m, tea.Batch(cmd, m.run(next))

	case clipboardDoneMsg:
		if msg.err != nil {
			m.showMinibuffer("copy failed: "+msg.err.Error(), true)
		} else {
			m.showMinibuffer("copied "+msg.what, false)
		}
		return m, nil

	case tea.KeyMsg:
		m.debugKeyMsg(msg)
		// Echo-area semantics: any key clears the previous message.
		m.clearMinibuffer()
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		switch m.ctl.State().View {
		case controller.ViewLoading:
			return m.updateLoading(msg)
		case controller.ViewLogin, controller.ViewRegister:
			return m.updateAuth(msg)
		default:
			if m.focus == focusForm {
				return m.updateForm(msg)
			}
			return m.updateCatalog(msg)
		}
	}

	// Filtering in the list runs through its own messages.
	if m.view == controller.ViewCatalog {
		var cmd tea.Cmd
		m.games, cmd = m.games.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, loadingKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, loadingKeys.Retry):
		task := m.ctl.Start()
		m.sync()
		return m, m.run(task)
	}
	return m, nil
}

func (m appModel) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	registering := m.ctl.State().View == controller.ViewRegister
	fs := &m.login
	if registering {
		fs = &m.register
	}

	switch {
	case key.Matches(msg, authKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, authKeys.Switch):
		if registering {
			m.ctl.ShowLogin()
		} else {
			m.ctl.ShowRegister()
		}
		return m, m.sync()
	case key.Matches(msg, authKeys.Back):
		fs.activate(0)
		return m, nil
	case key.Matches(msg, authKeys.Next):
		fs.next()
		return m, nil
	case key.Matches(msg, authKeys.Prev):
		fs.prev()
		return m, nil
	case key.Matches(msg, authKeys.Submit):
		if !fs.onLast() {
			fs.next()
			return m, nil
		}
		var task controller.Task
		if registering {
			task = m.ctl.Register(fs.value(0), fs.value(1), fs.value(2))
		} else {
			task = m.ctl.Login(fs.value(0), fs.value(1))
		}
		m.showMinibuffer("working…", false)
		return m, m.run(task)
	}
	return m, fs.update(msg)
}

func (m appModel) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.games.SettingFilter() {
		var cmd tea.Cmd
		m.games, cmd = m.games.Update(msg)
		return m, cmd
	}

	st := m.ctl.State()
	switch {
	case key.Matches(msg, catalogKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, catalogKeys.Select):
		id, ok := selectedGameID(m.games)
		if !ok {
			return m, nil
		}
		task := m.ctl.Select(id)
		m.loadForm()
		return m, m.run(task)

	case key.Matches(msg, catalogKeys.Edit):
		if !m.ctl.Edit() {
			m.showMinibuffer("select a game first", false)
			return m, nil
		}
		m.loadForm()
		m.form.focus = 0
		m.focusForm()
		return m, nil

	case key.Matches(msg, catalogKeys.Delete):
		if st.Detail == nil {
			m.showMinibuffer("select a game first", false)
			return m, nil
		}
		m.modal = modalConfirmDelete
		m.confirmFocus = confirmFocusCancel
		return m, nil

	case key.Matches(msg, catalogKeys.Add):
		m.focusForm()
		return m, nil

	case key.Matches(msg, catalogKeys.Reload):
		return m, m.run(m.ctl.Reload())

	case key.Matches(msg, catalogKeys.CopyID):
		id, ok := selectedGameID(m.games)
		if st.Detail != nil {
			id, ok = st.Detail.ID, true
		}
		if !ok {
			return m, nil
		}
		return m, copyCmd("id "+id.String(), id.String())

	case key.Matches(msg, catalogKeys.Logout):
		return m, m.run(m.ctl.Logout())

	case key.Matches(msg, catalogKeys.Cancel):
		if st.Form.Mode == controller.FormEdit {
			m.ctl.CancelEdit()
			m.loadForm()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.games, cmd = m.games.Update(msg)
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, formKeys.Cancel):
		if m.ctl.State().Form.Mode == controller.FormEdit {
			m.ctl.CancelEdit()
			m.loadForm()
		}
		m.focusList()
		return m, nil
	case key.Matches(msg, formKeys.Next):
		m.form.next()
		return m, nil
	case key.Matches(msg, formKeys.Prev):
		m.form.prev()
		return m, nil
	case key.Matches(msg, formKeys.Submit), msg.Type == tea.KeyEnter && m.form.onLast():
		task := m.ctl.Submit(gameFields(m.form))
		m.loadForm()
		m.form.focus = 0
		m.focusList()
		return m, m.run(task)
	case msg.Type == tea.KeyEnter:
		m.form.next()
		return m, nil
	}
	cmd := m.form.update(msg)
	m.ctl.SetFields(gameFields(m.form))
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirm := false
	switch {
	case key.Matches(msg, confirmKeys.Toggle):
		m.confirmFocus = m.confirmFocus.toggle()
		return m, nil
	case key.Matches(msg, confirmKeys.Yes):
		confirm = true
	case key.Matches(msg, confirmKeys.Choose):
		confirm = m.confirmFocus == confirmFocusConfirm
	case key.Matches(msg, confirmKeys.No), key.Matches(msg, confirmKeys.Dismiss):
	default:
		return m, nil
	}

	m.modal = modalNone
	if !confirm {
		return m, nil
	}
	task := m.ctl.Delete()
	m.loadForm()
	m.focusList()
	return m, m.run(task)
}
