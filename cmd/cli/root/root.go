package root

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/crucial707/userposts/cmd/cli/output"
	"github.com/crucial707/userposts/internal/config"
	"github.com/crucial707/userposts/internal/db"
	"github.com/crucial707/userposts/internal/repo"
	"github.com/spf13/cobra"
)

// App carries what every subcommand needs. Users and Posts are filled in by
// Connect unless a caller (e.g. a test) set them already.
type App struct {
	Config config.Config

	Provider *db.Provider
	Users    *repo.UserRepo
	Posts    *repo.PostRepo

	// FromEnv forces DB_URL/DB_USER/DB_PASSWORD.
	FromEnv bool
	// JSON switches output from tables to JSON.
	JSON bool
}

// Connect opens the database unless repositories are already present.
func (a *App) Connect() error {
	if a.Users != nil && a.Posts != nil {
		return nil
	}

	var (
		p   *db.Provider
		err error
	)
	if a.FromEnv || a.Config.UseEnvConnection() {
		p, err = db.OpenFromEnv()
	} else {
		p, err = db.OpenDefault()
	}
	if err != nil {
		return err
	}

	a.Provider = p
	a.Users = repo.NewUserRepo(p)
	a.Posts = repo.NewPostRepo(p)
	return nil
}

// Close releases the provider opened by Connect.
func (a *App) Close() {
	if a.Provider == nil {
		return
	}
	if err := a.Provider.Close(); err != nil {
		slog.Warn("closing database", "error", err)
	}
	a.Provider = nil
}

// Print writes v as JSON when --json is set, otherwise as a table.
func (a *App) Print(w io.Writer, v any, headers []string, rows [][]interface{}) error {
	if a.JSON {
		return output.RenderJSON(w, v)
	}
	output.RenderTable(w, headers, rows)
	return nil
}

// NewRootCmd builds the top-level command. Subcommands are added by the caller.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "userposts",
		Short:         "Manage users and their posts",
		Long:          "Command line interface for the user/post database.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Connect()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	cmd.PersistentFlags().BoolVar(&app.FromEnv, "env", false, "connect using DB_URL, DB_USER and DB_PASSWORD")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "print JSON instead of tables")

	return cmd
}

// ParseID parses a positive integer identifier argument.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
