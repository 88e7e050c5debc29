package cli

import (
	"context"
	"errors"

	"github.com/alexanderramin/arecabot/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings CLI commands run against.
type App struct {
	Chat   service.ChatService
	Advice service.AdviceService

	// HistoryPath is the chat shell's input history file; empty disables it.
	HistoryPath string

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

var errServeDisabled = errors.New("the HTTP server is not configured")

// NewRootCmd creates the top-level "arecabot" command and registers all
// subcommands against the provided App. Run bare on a terminal it opens the
// chat shell.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "arecabot",
		Short: "Arecanut farming assistant",
		Long: "arecabot answers questions about arecanut diseases, fertilizer, spraying,\n" +
			"harvest timing and government schemes, in a chat or as one-shot commands.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runShell(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newChatCmd(app),
		newAskCmd(app),
		newAdviseCmd(app),
		newDiseaseCmd(app),
		newSchemesCmd(app),
		newTipsCmd(app),
		newHistoryCmd(app),
		newServeCmd(app),
	)

	return root
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Serve == nil {
				return errServeDisabled
			}
			return app.Serve(cmd.Context())
		},
	}
}
