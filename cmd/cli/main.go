package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/crucial707/userposts/cmd/cli/demo"
	"github.com/crucial707/userposts/cmd/cli/posts"
	"github.com/crucial707/userposts/cmd/cli/root"
	"github.com/crucial707/userposts/cmd/cli/schema"
	"github.com/crucial707/userposts/cmd/cli/users"
	"github.com/crucial707/userposts/internal/config"
	"github.com/crucial707/userposts/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogFormat, cfg.LogLevel)

	app := &root.App{Config: cfg}
	rootCmd := root.NewRootCmd(app)
	rootCmd.AddCommand(
		users.NewCmd(app),
		posts.NewCmd(app),
		schema.NewCmd(app),
		demo.NewCmd(app),
	)

	// Execute the root Cobra command
	err := rootCmd.Execute()
	app.Close()
	if err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
