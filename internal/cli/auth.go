package cli

import (
	"context"
	"errors"
	"strings"

	"vgdb-cli/internal/catalog"

	"github.com/spf13/cobra"
)

func passwordFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "password", envOr("VGDB_PASSWORD", ""), "Password (or VGDB_PASSWORD)")
}

func newRegisterCmd(app *App) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the catalog service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *session) error {
				if err := sess.client.Register(ctx, username, email, password); err != nil {
					if catalog.StatusCode(err) != 0 {
						return errors.New("registration failed: " + err.Error())
					}
					return err
				}
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{
						"username": username,
						"email":    email,
					},
					"_hints": []string{"vgdb login --email " + email},
				})
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Display name")
	cmd.Flags().StringVar(&email, "email", envOr("VGDB_EMAIL", ""), "Email (or VGDB_EMAIL)")
	passwordFlag(cmd, &password)
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a session and save its cookie for later commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return writeErr(cmd, errors.New("login: missing --email"))
			}
			return withSession(cmd, app, func(ctx context.Context, sess *session) error {
				if err := sess.client.Login(ctx, email, password); err != nil {
					if errors.Is(err, catalog.ErrUnauthenticated) {
						return errBadCredentials
					}
					return err
				}
				if err := sess.save(); err != nil {
					return err
				}
				u, err := sess.client.CurrentUser(ctx)
				if err != nil {
					return describeErr(sess, err, "", "")
				}
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{
						"server": sess.server,
						"user":   u,
					},
				})
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", envOr("VGDB_EMAIL", ""), "Email (or VGDB_EMAIL)")
	passwordFlag(cmd, &password)
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget its cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *session) error {
				if err := sess.client.Logout(ctx); err != nil {
					return err
				}
				if err := sess.forget(); err != nil {
					return err
				}
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"server": sess.server, "loggedOut": true},
				})
			})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user bound to the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *session) error {
				u, err := sess.client.CurrentUser(ctx)
				if err != nil {
					return describeErr(sess, err, "", "")
				}
				return writeOut(cmd, app, map[string]any{"data": u})
			})
		},
	}
}
