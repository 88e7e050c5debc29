package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/arecabot/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
)

func slashCommandNames() []string {
	return []string{"/advise", "/clear", "/disease", "/help", "/history", "/new", "/quit", "/schemes"}
}

// executeCommand handles a slash command typed into the shell.
func (m *shellModel) executeCommand(input string) (string, tea.Cmd) {
	parts := strings.Fields(input)
	name, args := strings.ToLower(parts[0]), parts[1:]

	switch name {
	case "/quit", "/exit":
		m.quitting = true
		return "", tea.Quit

	case "/help":
		return formatter.FormatShellHelp(), nil

	case "/clear":
		return "", tea.ClearScreen

	case "/new":
		if m.conversationID != "" {
			m.app.Chat.EndConversation(m.conversationID)
		}
		m.conversationID = ""
		m.pendingTopic = ""
		return formatter.Dim("Started a new conversation."), nil

	case "/history":
		if m.conversationID == "" {
			return formatter.Dim("Nothing said yet."), nil
		}
		return captureCobraOutput(m.ctx, m.app, []string{"history", m.conversationID}), nil

	case "/disease":
		if len(args) == 0 {
			return shellError(fmt.Errorf("usage: /disease <label>")), nil
		}
		return captureCobraOutput(m.ctx, m.app, append([]string{"disease"}, args...)), nil

	case "/schemes":
		return captureCobraOutput(m.ctx, m.app, append([]string{"schemes"}, args...)), nil

	case "/advise":
		if len(args) != 1 {
			return shellError(fmt.Errorf("usage: /advise %s", strings.Join(adviceKinds, "|"))), nil
		}
		req, err := newAdviceRequest(args[0])
		if err != nil {
			return shellError(err), nil
		}
		form, apply := req.form()
		return "", m.startWizard(form, func(m *shellModel) tea.Cmd {
			if err := apply(); err != nil {
				return tea.Println(shellError(err))
			}
			text, err := req.run(m.ctx, m.app.Advice)
			if err != nil {
				return tea.Println(shellError(err))
			}
			return tea.Println(formatter.FormatReply(text))
		})

	default:
		msg := shellError(fmt.Errorf("unknown command %s", name))
		if near := filterSuggestions(slashCommandNames(), name[:min(len(name), 3)]); len(near) > 0 {
			msg += "\n" + formatter.Dim("Did you mean: "+strings.Join(near, ", "))
		} else {
			msg += "\n" + formatter.Dim("Type /help for commands.")
		}
		return msg, nil
	}
}

// captureCobraOutput runs a command through the cobra tree and returns what
// it printed, errors included.
func captureCobraOutput(ctx context.Context, app *App, args []string) string {
	root := NewRootCmd(app)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	root.SilenceErrors = true

	if err := root.ExecuteContext(ctx); err != nil {
		buf.WriteString(shellError(err))
	}
	return strings.TrimRight(buf.String(), "\n")
}
