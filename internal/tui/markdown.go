package tui

import (
	"fmt"
	"strings"
	"sync"

	"vgdb-cli/internal/model"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style and wrap width. WithAutoStyle can block on terminal
	// background queries, so a fixed standard style is used instead.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle() string {
	if v := themeOverride(); v != "" {
		return v
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func markdownRenderer(width int) (*glamour.TermRenderer, error) {
	style := markdownStyle()
	key := fmt.Sprintf("%s:%d", style, width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	if r := mdRenderers[key]; r != nil {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	mdRenderers[key] = r
	return r, nil
}

// renderMarkdown renders md wrapped to width. On renderer failure the source is returned as-is.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	r, err := markdownRenderer(width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// gameMarkdown is the detail panel source: a heading plus one labeled line per attribute.
func gameMarkdown(g model.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", mdEscape(orDash(string(g.Name))))
	rows := []struct{ label, value string }{
		{"NAME", string(g.Name)},
		{"GENRE", string(g.Genre)},
		{"SIZE", string(g.Size)},
		{"DATE", string(g.Date)},
		{"PUBLISHER", string(g.Publisher)},
		{"ID", g.ID.String()},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "- **%s:** %s\n", r.label, mdEscape(orDash(r.value)))
	}
	return b.String()
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "[", `\[`, "]", `\]`, "<", `\<`,
)

func mdEscape(s string) string {
	return mdEscaper.Replace(strings.ReplaceAll(s, "\n", " "))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
