package cli

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vgdb-cli/internal/webtui"

	"github.com/spf13/cobra"
)

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui",
		Short: "Run the TUI in your browser (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Run the interactive TUI over the web via a server-side PTY and a browser terminal emulator.

Each browser tab starts its own TUI subprocess against the same catalog server.
`),
		Example: strings.TrimSpace(`
# Serve the TUI on localhost
vgdb webtui --addr 127.0.0.1:3334

# Against a local catalog service
vgdb --server http://localhost:8080 webtui
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := resolveServer(app)
			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:   strings.TrimSpace(addr),
				Server: server,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := srv.Addr()
			if listenAddr == "" {
				return writeErr(cmd, errors.New("webtui: missing --addr"))
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"server":    server,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"open " + clientURL(listenAddr),
				},
			})

			fmt.Fprintf(cmd.ErrOrStderr(), "vgdb webtui running at %s (server=%s)\n", clientURL(listenAddr), server)
			hs := &http.Server{Addr: listenAddr, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
			return hs.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("VGDB_WEBTUI_ADDR", "127.0.0.1:3334"), "Bind address (host:port or :port)")
	return cmd
}
