package posts

import (
	"fmt"
	"time"

	"github.com/crucial707/userposts/cmd/cli/root"
	"github.com/crucial707/userposts/internal/models"
	"github.com/spf13/cobra"
)

var postHeaders = []string{"ID", "USER", "TITLE", "CONTENT", "CREATED"}

func postRows(posts ...models.Post) [][]interface{} {
	rows := make([][]interface{}, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []interface{}{p.ID, p.UserID, p.Title, p.Content, p.CreatedAt.Format(time.DateTime)})
	}
	return rows
}

// ==========================
// CLI Command Init
// ==========================
func NewCmd(app *root.App) *cobra.Command {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage posts",
	}

	postsCmd.AddCommand(
		listPostsCmd(app),
		getPostCmd(app),
		createPostCmd(app),
		updatePostCmd(app),
		deletePostCmd(app),
		countPostsCmd(app),
		purgePostsCmd(app),
	)
	return postsCmd
}

// ==========================
// LIST
// ==========================
func listPostsCmd(app *root.App) *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				posts []models.Post
				err   error
			)
			if userID > 0 {
				posts, err = app.Posts.FindByUserID(cmd.Context(), userID)
			} else {
				posts, err = app.Posts.FindAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			return app.Print(cmd.OutOrStdout(), posts, postHeaders, postRows(posts...))
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "only posts of this user id")
	return cmd
}

// ==========================
// GET
// ==========================
func getPostCmd(app *root.App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := root.ParseID(args[0])
			if err != nil {
				return err
			}
			post, found, err := app.Posts.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("post not found")
			}
			return app.Print(cmd.OutOrStdout(), post, postHeaders, postRows(post))
		},
	}
}

// ==========================
// CREATE
// ==========================
func createPostCmd(app *root.App) *cobra.Command {
	var (
		userID         int
		title, content string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post for an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			post := models.NewPost(userID, title, content)
			if err := app.Posts.Create(cmd.Context(), &post); err != nil {
				return err
			}
			return app.Print(cmd.OutOrStdout(), post, postHeaders, postRows(post))
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "owning user id")
	cmd.Flags().StringVar(&title, "title", "", "post title")
	cmd.Flags().StringVar(&content, "content", "", "post body")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("title")
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updatePostCmd(app *root.App) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change title or content of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := root.ParseID(args[0])
			if err != nil {
				return err
			}

			post, found, err := app.Posts.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("post not found")
			}

			if cmd.Flags().Changed("title") {
				post.Title = title
			}
			if cmd.Flags().Changed("content") {
				post.Content = content
			}

			if err := app.Posts.Update(cmd.Context(), post); err != nil {
				return err
			}
			return app.Print(cmd.OutOrStdout(), post, postHeaders, postRows(post))
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deletePostCmd(app *root.App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := root.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Posts.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Post %d deleted.\n", id)
			return nil
		},
	}
}

// ==========================
// COUNT
// ==========================
func countPostsCmd(app *root.App) *cobra.Command {
	return &cobra.Command{
		Use:   "count <userID>",
		Short: "Count the posts of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := root.ParseID(args[0])
			if err != nil {
				return err
			}
			n, err := app.Posts.CountByUserID(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

// ==========================
// PURGE
// ==========================
func purgePostsCmd(app *root.App) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <userID>",
		Short: "Delete every post of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := root.ParseID(args[0])
			if err != nil {
				return err
			}
			n, err := app.Posts.DeleteByUserID(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d post(s) deleted.\n", n)
			return nil
		},
	}
}
