package tui

import (
	"context"
	"errors"

	"vgdb-cli/internal/controller"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type Options struct {
	// API is the catalog service client.
	API    controller.API
	Server string
	Logger logrus.FieldLogger
}

func Run(ctx context.Context, opts Options) error {
	if opts.API == nil {
		return errors.New("tui: missing catalog client")
	}
	applyColorProfilePreference()
	applyThemePreference()
	applyAppearancePreference()

	ctl := controller.New(opts.API, opts.Logger)
	m := newAppModel(ctx, ctl, opts.Server, opts.Logger)

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
