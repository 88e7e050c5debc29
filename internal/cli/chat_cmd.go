package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/arecabot/internal/cli/formatter"
	"github.com/alexanderramin/arecabot/internal/dialogue"
	"github.com/alexanderramin/arecabot/internal/extract"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), app)
		},
	}
}

func runShell(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m := newShellModel(ctx, app)
	final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if sm, ok := final.(shellModel); ok && sm.conversationID != "" {
		app.Chat.EndConversation(sm.conversationID)
	}
	return err
}

func newAskCmd(app *App) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "ask <message...>",
		Short: "Send one message and print the reply",
		Example: `  arecabot ask "how do i treat yellow leaf disease"
  arecabot ask --session 3f2a... "temperature 30 humidity 80"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Chat.Turn(cmd.Context(), session, strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatReply(res.Reply.Text))
			if res.Reply.Outcome == dialogue.OutcomeIncompleteParameters {
				fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Reply with: arecabot ask --session %s \"...\"", res.ConversationID)))
			} else {
				fmt.Fprintln(out, formatter.Dim("conversation "+res.ConversationID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "Continue an earlier conversation")
	return cmd
}

// missingHint lists the readings an active topic is still waiting for.
func missingHint(missing []extract.Name) string {
	if len(missing) == 0 {
		return ""
	}
	names := make([]string, len(missing))
	for i, n := range missing {
		names[i] = extract.FriendlyName(n)
	}
	return formatter.Dim("waiting for: " + strings.Join(names, ", "))
}
