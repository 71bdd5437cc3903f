package tui

import (
	"os"
	"strings"
	"sync"

	"vgdb-cli/internal/store"

	"github.com/charmbracelet/lipgloss"
)

type appearanceProfileID string

const (
	appearanceDefault appearanceProfileID = "default"
	appearanceDracula appearanceProfileID = "dracula"
	appearanceMono    appearanceProfileID = "mono"
)

var (
	appearanceMu      sync.Mutex
	currentAppearance = appearanceDefault
	knownAppearances  = []appearanceProfileID{appearanceDefault, appearanceDracula, appearanceMono}
)

func resetPalette() {
	colorMuted = defaultColorMuted
	colorSelectedBg = defaultColorSelectedBg
	colorSelectedFg = defaultColorSelectedFg
	colorSurfaceFg = defaultColorSurfaceFg
	colorControlBg = defaultColorControlBg
	colorInputBg = defaultColorInputBg
	colorAccent = defaultColorAccent
	colorBorder = defaultColorBorder
	colorError = defaultColorError
}

// applyAppearancePreference picks the profile from VGDB_TUI_PROFILE, then the config file.
func applyAppearancePreference() {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("VGDB_TUI_PROFILE")))
	if v == "" {
		if cfg, err := store.LoadConfig(); err == nil && cfg.TUI != nil {
			v = strings.ToLower(strings.TrimSpace(cfg.TUI.Profile))
		}
	}
	if v == "" {
		v = string(appearanceDefault)
	}
	setAppearanceProfile(appearanceProfileID(v))
}

// setAppearanceProfile switches the palette. Unknown ids leave the current profile alone.
func setAppearanceProfile(id appearanceProfileID) bool {
	appearanceMu.Lock()
	defer appearanceMu.Unlock()

	switch id {
	case appearanceDefault:
		resetPalette()
	case appearanceDracula:
		resetPalette()
		colorAccent = ac("#7c3aed", "#bd93f9")
		colorSelectedBg = ac("#ede9fe", "#44475a")
		colorSelectedFg = ac("#1e1b4b", "#f8f8f2")
		colorMuted = ac("#6b7280", "#6272a4")
		colorBorder = ac("#c4b5fd", "#44475a")
		colorError = ac("#dc2626", "#ff5555")
	case appearanceMono:
		resetPalette()
		colorAccent = lipgloss.NoColor{}
		colorSelectedBg = ac("250", "238")
		colorSelectedFg = lipgloss.NoColor{}
		colorBorder = lipgloss.NoColor{}
		colorError = lipgloss.NoColor{}
	default:
		return false
	}
	currentAppearance = id
	return true
}
