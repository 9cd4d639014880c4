package demo

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/crucial707/userposts/cmd/cli/root"
	"github.com/crucial707/userposts/internal/models"
	"github.com/crucial707/userposts/internal/repo"
	"github.com/spf13/cobra"
)

func NewCmd(app *root.App) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a create/update/list/delete round trip against the database",
		Long: "Creates a user and a post, updates both, prints all users and posts " +
			"and deletes what it created. Stops at the first failure.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), cmd.OutOrStdout(), app.Users, app.Posts)
		},
	}
}

// Run executes the round trip, writing one "username | email" line per user
// and one "title | content" line per post to w.
func Run(ctx context.Context, w io.Writer, users *repo.UserRepo, posts *repo.PostRepo) error {
	fail := func(step string, err error) error {
		slog.Error("demo step failed", "step", step, "error", err)
		return fmt.Errorf("%s: %w", step, err)
	}

	user := models.NewUser("Capi", "capi@mail.de", "1234")
	if err := users.Create(ctx, &user); err != nil {
		return fail("create user", err)
	}

	post := models.NewPost(user.ID, "Mein erster Post", "Hello World!")
	if err := posts.Create(ctx, &post); err != nil {
		return fail("create post", err)
	}

	user.Email = "capineu@mail.de"
	if err := users.Update(ctx, user); err != nil {
		return fail("update user", err)
	}

	post.Content = "Update Inhalt!"
	if err := posts.Update(ctx, post); err != nil {
		return fail("update post", err)
	}

	allUsers, err := users.FindAll(ctx)
	if err != nil {
		return fail("list users", err)
	}
	for _, u := range allUsers {
		fmt.Fprintf(w, "%s | %s\n", u.Username, u.Email)
	}

	allPosts, err := posts.FindAll(ctx)
	if err != nil {
		return fail("list posts", err)
	}
	for _, p := range allPosts {
		fmt.Fprintf(w, "%s | %s\n", p.Title, p.Content)
	}

	if err := posts.Delete(ctx, post.ID); err != nil {
		return fail("delete post", err)
	}
	if err := users.Delete(ctx, user.ID); err != nil {
		return fail("delete user", err)
	}

	slog.Info("demo finished", "user_id", user.ID, "post_id", post.ID)
	return nil
}
