package users

import (
	"fmt"

	"github.com/crucial707/userposts/cmd/cli/root"
	"github.com/crucial707/userposts/internal/models"
	"github.com/spf13/cobra"
)

var userHeaders = []string{"ID", "USERNAME", "EMAIL"}

func userRows(users ...models.User) [][]interface{} {
	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{u.ID, u.Username, u.Email})
	}
	return rows
}

// ==========================
// CLI Command Init
// ==========================
func NewCmd(app *root.App) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
		Long:  "Create, inspect, update and delete users. Deleting a user also deletes its posts.",
	}

	usersCmd.AddCommand(
		listUsersCmd(app),
		getUserCmd(app),
		createUserCmd(app),
		updateUserCmd(app),
		deleteUserCmd(app),
		existsCmd(app),
	)
	return usersCmd
}

// ==========================
// LIST
// ==========================
func listUsersCmd(app *root.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users ordered by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.FindAll(cmd.Context())
			if err != nil {
				return err
			}
			return app.Print(cmd.OutOrStdout(), users, userHeaders, userRows(users...))
		},
	}
}

// ==========================
// GET
// ==========================
func getUserCmd(app *root.App) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one user by id or --username",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				user  models.User
				found bool
				err   error
			)
			switch {
			case username != "":
				user, found, err = app.Users.FindByUsername(cmd.Context(), username)
			case len(args) == 1:
				id, perr := root.ParseID(args[0])
				if perr != nil {
					return perr
				}
				user, found, err = app.Users.FindByID(cmd.Context(), id)
			default:
				return fmt.Errorf("either an id or --username is required")
			}
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("user not found")
			}
			return app.Print(cmd.OutOrStdout(), user, userHeaders, userRows(user))
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "look up by username")
	return cmd
}

// ==========================
// CREATE
// ==========================
func createUserCmd(app *root.App) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user := models.NewUser(username, email, password)
			if err := app.Users.Create(cmd.Context(), &user); err != nil {
				return err
			}
			return app.Print(cmd.OutOrStdout(), user, userHeaders, userRows(user))
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username (unique)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (stored as given)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateUserCmd(app *root.App) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change username, email or password of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := root.ParseID(args[0])
			if err != nil {
				return err
			}

			user, found, err := app.Users.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("user not found")
			}

			flags := cmd.Flags()
			if flags.Changed("username") {
				user.Username = username
			}
			if flags.Changed("email") {
				user.Email = email
			}
			if flags.Changed("password") {
				user.Password = password
			}

			if err := app.Users.Update(cmd.Context(), user); err != nil {
				return err
			}
			return app.Print(cmd.OutOrStdout(), user, userHeaders, userRows(user))
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "new username")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteUserCmd(app *root.App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user and all of its posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := root.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Users.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d deleted.\n", id)
			return nil
		},
	}
}

// ==========================
// EXISTS
// ==========================
func existsCmd(app *root.App) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <username>",
		Short: "Report whether a username is taken",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := app.Users.UsernameExists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), exists)
			return nil
		},
	}
}
