package cli

import (
	"context"
	"fmt"
	"strings"

	"vgdb-cli/internal/model"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newGamesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "games",
		Aliases: []string{"game"},
		Short:   "List and edit catalog games",
	}
	cmd.AddCommand(newGamesListCmd(app))
	cmd.AddCommand(newGamesShowCmd(app))
	cmd.AddCommand(newGamesCreateCmd(app))
	cmd.AddCommand(newGamesUpdateCmd(app))
	cmd.AddCommand(newGamesDeleteCmd(app))
	return cmd
}

// gameFlags binds --name/--genre/--size/--date/--publisher.
type gameFlags struct {
	fields model.GameFields
}

func (g *gameFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.fields.Name, "name", "", "Game name")
	fs.StringVar(&g.fields.Genre, "genre", "", "Genre")
	fs.StringVar(&g.fields.Size, "size", "", "Size (integer)")
	fs.StringVar(&g.fields.Date, "date", "", "Release date")
	fs.StringVar(&g.fields.Publisher, "publisher", "", "Publisher")
}

// overlay applies only the flags the user set on top of base.
func (g *gameFlags) overlay(fs *pflag.FlagSet, base model.GameFields) model.GameFields {
	out := base
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("name", &out.Name, g.fields.Name)
	set("genre", &out.Genre, g.fields.Genre)
	set("size", &out.Size, g.fields.Size)
	set("date", &out.Date, g.fields.Date)
	set("publisher", &out.Publisher, g.fields.Publisher)
	return out
}

func (g *gameFlags) anyChanged(fs *pflag.FlagSet) bool {
	for _, name := range []string{"name", "genre", "size", "date", "publisher"} {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// withSession opens the logger and catalog session for one command.
func withSession(cmd *cobra.Command, app *App, fn func(ctx context.Context, sess *session) error) error {
	log, closeLog, err := cliLogger(app)
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
	if err := fn(ctx, sess); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func newGamesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every game in server order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *session) error {
				games, err := sess.client.ListGames(ctx)
				if err != nil {
					return describeErr(sess, err, "", "")
				}
				if games == nil {
					games = []model.Game{}
				}
				return writeOut(cmd, app, map[string]any{"data": games})
			})
		},
	}
}

func newGamesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, sess *session) error {
				g, err := sess.client.GetGame(ctx, id)
				if err != nil {
					return describeErr(sess, err, "game", id.String())
				}
				return writeOut(cmd, app, map[string]any{"data": g})
			})
		},
	}
}

func newGamesCreateCmd(app *App) *cobra.Command {
	var flags gameFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a game",
		Example: strings.TrimSpace(`
vgdb games create --name "Celeste" --genre Platformer --size 1200 --date 2018-01-25 --publisher "Matt Makes Games"
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, func(ctx context.Context, sess *session) error {
				g, err := sess.client.CreateGame(ctx, flags.fields)
				if err != nil {
					return describeErr(sess, err, "", "")
				}
				hints := []string{"vgdb games list"}
				if !g.ID.IsZero() {
					hints = []string{"vgdb games show " + g.ID.String(), "vgdb games update " + g.ID.String()}
				}
				return writeOut(cmd, app, map[string]any{
					"data":   g,
					"_hints": hints,
				})
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newGamesUpdateCmd(app *App) *cobra.Command {
	var flags gameFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a game; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			if !flags.anyChanged(cmd.Flags()) {
				return writeErr(cmd, fmt.Errorf("update %s: nothing to change (pass --name, --genre, --size, --date or --publisher)", id))
			}
			return withSession(cmd, app, func(ctx context.Context, sess *session) error {
				cur, err := sess.client.GetGame(ctx, id)
				if err != nil {
					return describeErr(sess, err, "game", id.String())
				}
				next := flags.overlay(cmd.Flags(), cur.Fields())
				if err := sess.client.UpdateGame(ctx, id, next); err != nil {
					return describeErr(sess, err, "game", id.String())
				}
				return writeOut(cmd, app, map[string]any{"data": next.Game(id)})
			})
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newGamesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a game",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.ID(strings.TrimSpace(args[0]))
			return withSession(cmd, app, func(ctx context.Context, sess *session) error {
				if err := sess.client.DeleteGame(ctx, id); err != nil {
					return describeErr(sess, err, "game", id.String())
				}
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
			})
		},
	}
}
