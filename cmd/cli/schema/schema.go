package schema

import (
	"errors"
	"fmt"

	"github.com/crucial707/userposts/cmd/cli/root"
	"github.com/spf13/cobra"
)

func NewCmd(app *root.App) *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Database schema commands",
	}

	schemaCmd.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Apply pending migrations (creates the user and post tables)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Provider == nil {
				return errors.New("no database connection")
			}
			if err := app.Provider.ApplySchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema applied.")
			return nil
		},
	})
	return schemaCmd
}
