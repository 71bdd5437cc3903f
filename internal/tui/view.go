package tui

import (
	"fmt"
	"strings"

	"vgdb-cli/internal/controller"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	st := m.ctl.State()
	var body string
	switch st.View {
	case controller.ViewLoading:
		body = m.viewLoading(st)
	case controller.ViewLogin, controller.ViewRegister:
		body = m.viewAuth(st)
	default:
		body = m.viewCatalog(st)
	}
	if m.modal == modalConfirmDelete && st.Detail != nil {
		title := "Delete game"
		msg := fmt.Sprintf("Delete %q (#%s)? This cannot be undone.", string(st.Detail.Name), st.Detail.ID)
		modal := renderConfirmModal(m.paneWidth(), title, msg, "Delete", "Cancel", m.confirmFocus)
		body = centerBlock(m.paneWidth(), m.screenHeight(), modal)
	}
	return body
}

func (m appModel) screenHeight() int {
	if m.height <= 0 {
		return 24
	}
	return m.height
}

func (m appModel) footer(bindings []key.Binding) string {
	w := m.paneWidth()
	helpLine := fitLine(m.help.ShortHelpView(bindings), w)
	return helpLine + "\n" + m.minibufferView(w)
}

func (m appModel) minibufferView(width int) string {
	if m.minibufferText == "" {
		return fitLine("", width)
	}
	st := styleMuted()
	if m.minibufferErr {
		st = styleError()
	}
	return fitLine(st.Render(m.minibufferText), width)
}

func (m appModel) viewLoading(st controller.State) string {
	lines := []string{styleHeader().Render("vgdb")}
	switch {
	case st.Failure != "":
		lines = append(lines, "", styleError().Render(st.Failure))
	default:
		lines = append(lines, "", styleMuted().Render("Connecting to "+orDash(m.server)+"…"))
	}
	content := centerBlock(m.paneWidth(), m.screenHeight()-footerLines, strings.Join(lines, "\n"))
	return content + "\n" + m.footer(loadingKeys.ShortHelp())
}

func (m appModel) viewAuth(st controller.State) string {
	title, fs, submit, other := "Login", m.login, "LOGIN", "Need an account? ctrl+r to register"
	if st.View == controller.ViewRegister {
		title, fs, submit, other = "Register", m.register, "REGISTER", "Have an account? ctrl+r to log in"
	}
	w := min(m.paneWidth()-4, 52)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2).
		Render(strings.Join([]string{
			styleHeader().Render(title),
			"",
			fs.view(w - 6),
			"",
			renderButton(submit, fs.onLast() && fs.active),
			"",
			styleMuted().Render(other),
		}, "\n"))
	content := centerBlock(m.paneWidth(), m.screenHeight()-footerLines, box)
	return content + "\n" + m.footer(authKeys.ShortHelp())
}

func (m appModel) viewCatalog(st controller.State) string {
	w := m.paneWidth()
	lay := layoutFor(m.width, m.height)

	welcome := st.Welcome
	if welcome == "" {
		welcome = "vgdb"
	}
	status := fmt.Sprintf("%d games", len(st.Games))
	if st.Loading {
		status += " · loading…"
	}
	if m.server != "" {
		status += " · " + m.server
	}
	statusLine := styleMuted().Render(status)
	if st.Failure != "" {
		statusLine += styleError().Render(" · reload failed")
	}
	header := fitLine(styleHeader().Render(welcome), w) + "\n" + fitLine(statusLine, w)

	listPane := renderPane(m.games.View(), lay.listW, lay.bodyH, m.focus == focusList)
	detailW, detailH := paneInner(lay.detailW, lay.bodyH)
	detail := styleMuted().Render("Select a game and press enter.")
	if st.Detail != nil {
		detail = renderMarkdown(gameMarkdown(*st.Detail), detailW)
	}
	detailPane := stylePane(false).Render(normalizePane(detail, detailW, detailH))
	body := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	formPane := renderPane(m.viewForm(st, w), w, lay.formH, m.focus == focusForm)

	var bindings []key.Binding
	if m.focus == focusForm {
		bindings = formKeys.ShortHelp()
	} else {
		bindings = catalogKeys.ShortHelp()
	}
	return strings.Join([]string{header, body, formPane, m.footer(bindings)}, "\n")
}

func (m appModel) viewForm(st controller.State, width int) string {
	title := "Add game"
	if st.Form.Mode == controller.FormEdit {
		title = "Edit game #" + st.Form.TargetID.String()
	}
	iw, _ := paneInner(width, formLines)
	return strings.Join([]string{
		styleHeader().Render(title),
		m.form.view(iw),
		renderButton(st.Form.SubmitLabel(), m.focus == focusForm) + " " + styleMuted().Render("ctrl+s"),
	}, "\n")
}

func renderButton(label string, active bool) string {
	st := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	if active {
		st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	}
	return st.Render(label)
}
