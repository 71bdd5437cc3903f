package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	headerLines = 2
	footerLines = 2
	formLines   = 9
	minListW    = 24
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines, so panes
// joined with lipgloss.JoinHorizontal line up.
func normalizePane(s string, width, height int) string {
	width = max(width, 0)
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitLine(ln, width)
	}
	return strings.Join(lines, "\n")
}

// fitLine truncates with an ellipsis or pads with spaces to exactly width columns.
func fitLine(ln string, width int) string {
	if width <= 0 {
		return ""
	}
	w := xansi.StringWidth(ln)
	if w > width {
		if width == 1 {
			ln = xansi.Cut(ln, 0, 1)
		} else {
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// catalogLayout splits the terminal into list, detail and form regions.
type catalogLayout struct {
	listW, detailW int
	bodyH          int
	formH          int
}

func layoutFor(width, height int) catalogLayout {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	listW := max(width*2/5, minListW)
	if listW > width-10 {
		listW = max(width/2, 1)
	}
	bodyH := max(height-headerLines-footerLines-formLines, 3)
	return catalogLayout{
		listW:   listW,
		detailW: max(width-listW, 10),
		bodyH:   bodyH,
		formH:   formLines,
	}
}

// paneInner returns the content size inside a stylePane border and padding.
func paneInner(w, h int) (int, int) {
	st := stylePane(false)
	return max(w-st.GetHorizontalFrameSize(), 1), max(h-st.GetVerticalFrameSize(), 1)
}

func renderPane(content string, w, h int, focused bool) string {
	iw, ih := paneInner(w, h)
	return stylePane(focused).Render(normalizePane(content, iw, ih))
}

func centerBlock(width, height int, s string) string {
	if width <= 0 || height <= 0 {
		return s
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
