package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"vgdb-cli/internal/catalog"
	"vgdb-cli/internal/format"
	"vgdb-cli/internal/logging"
	"vgdb-cli/internal/store"
	"vgdb-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Server     string
	Format     string
	PrettyJSON bool
	Timeout    time.Duration
	DebugLog   string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "vgdb",
		Short:        "Video game catalog: TUI, CLI and reference server",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  vgdb

  # Scriptable commands
  vgdb login --email you@example.com --password secret
  vgdb games list --format table

  # Direct lookup (shortcut for: vgdb games show 7)
  vgdb 7

  # Run the catalog service locally and point the client at it
  vgdb serve --addr :8080 &
  vgdb --server http://localhost:8080
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	timeout := 30 * time.Second
	if v := strings.TrimSpace(os.Getenv("VGDB_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			timeout = d
		}
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("VGDB_SERVER", ""), "Catalog service base URL (default: config file, then "+catalog.DefaultBaseURL+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("VGDB_FORMAT", format.JSON), "Output format (json|edn|table)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", timeout, "Per-request timeout (0 disables)")
	cmd.PersistentFlags().StringVar(&app.DebugLog, "debug-log", envOr("VGDB_DEBUG_LOG", ""), "Append debug logs to this file")

	cmd.AddCommand(newGamesCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newWebTUICmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	log, closeLog, err := logging.OpenFile(app.DebugLog)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = closeLog() }()

	sess, err := openSession(app, log)
	if err != nil {
		return writeErr(cmd, err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runErr := tui.Run(ctx, tui.Options{
		API:    sess.client,
		Server: sess.server,
		Logger: log,
	})
	// Keep the TUI's session for later CLI calls (and drop it after a logout).
	if err := sess.save(); err != nil {
		log.WithError(err).Warn("save session")
	}
	if runErr != nil {
		return writeErr(cmd, runErr)
	}
	return nil
}

// resolveServer applies --server / VGDB_SERVER, then the config file, then the deployed host.
func resolveServer(app *App) string {
	if s := strings.TrimSpace(app.Server); s != "" {
		return strings.TrimRight(s, "/")
	}
	if cfg, err := store.LoadConfig(); err == nil && strings.TrimSpace(cfg.Server) != "" {
		return strings.TrimRight(strings.TrimSpace(cfg.Server), "/")
	}
	return catalog.DefaultBaseURL
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
