package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"vgdb-cli/internal/logging"
	"vgdb-cli/internal/server"
	"vgdb-cli/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	sessionsMemory = "memory"
	sessionsSQLite = "sqlite"
	sessionsRedis  = "redis"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr       string
		dbPath     string
		sessions   string
		sessionTTL time.Duration
		logLevel   string
		logJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog service (sqlite storage, cookie sessions)",
		Long: strings.TrimSpace(`
Run the catalog HTTP service the client talks to.

Sessions are kept in memory by default. Use --sessions sqlite to keep them in the database,
or --sessions redis to share them between instances (REDIS_ADDR, REDIS_PASSWORD, REDIS_DB).
`),
		Example: strings.TrimSpace(`
vgdb serve --addr :8080
vgdb serve --db ./vgdb.db --sessions sqlite
REDIS_ADDR=localhost:6379 vgdb serve --sessions redis
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logging.Options{Level: logLevel, JSON: logJSON, Out: cmd.ErrOrStderr()})
			if err != nil {
				return writeErr(cmd, err)
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			if strings.TrimSpace(dbPath) == "" {
				dir, err := store.ConfigDir()
				if err != nil {
					return writeErr(cmd, err)
				}
				dbPath = filepath.Join(dir, "vgdb.db")
			}
			st, err := store.Open(ctx, dbPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = st.Close() }()

			ss, closeSessions, err := openSessionStore(ctx, sessions, st, sessionTTL)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = closeSessions() }()

			srv, err := server.New(server.Config{Store: st, Sessions: ss, Logger: log})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", strings.TrimSpace(addr))
			if err != nil {
				return writeErr(cmd, err)
			}
			listenAddr := ln.Addr().String()

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      listenAddr,
					"db":        st.Path(),
					"sessions":  sessions,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{
					"vgdb --server " + clientURL(listenAddr),
				},
			})
			log.WithFields(logrus.Fields{"db": st.Path(), "sessions": sessions}).Info("starting catalog server")
			return srv.Serve(ctx, ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("VGDB_ADDR", ":"+envOr("PORT", "8080")), "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&dbPath, "db", envOr("VGDB_DB", ""), "sqlite database path (default ~/.vgdb/vgdb.db)")
	cmd.Flags().StringVar(&sessions, "sessions", envOr("VGDB_SESSIONS", sessionsMemory), "Session store (memory|sqlite|redis)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 24*time.Hour, "Session lifetime in redis (0 keeps them until logout)")
	cmd.Flags().StringVar(&logLevel, "log-level", envOr("VGDB_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Log as JSON")
	return cmd
}

func openSessionStore(ctx context.Context, kind string, st *store.Store, ttl time.Duration) (store.SessionStore, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", sessionsMemory:
		return store.NewMemorySessions(), noop, nil
	case sessionsSQLite:
		return st, noop, nil
	case sessionsRedis:
		opts, err := store.RedisOptionsFromEnv()
		if err != nil {
			return nil, nil, err
		}
		rs, err := store.NewRedisSessions(ctx, opts, ttl)
		if err != nil {
			return nil, nil, fmt.Errorf("redis sessions at %s: %w", opts.Addr, err)
		}
		return rs, rs.Close, nil
	default:
		return nil, nil, errors.New("unknown --sessions " + kind + " (expected memory|sqlite|redis)")
	}
}

// clientURL turns a listener address into a URL a local client can dial.
func clientURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
