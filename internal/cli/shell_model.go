package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/arecabot/internal/cli/formatter"
	"github.com/alexanderramin/arecabot/internal/dialogue"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// shellMode tracks which interaction mode the shell is in.
type shellMode int

const (
	modePrompt shellMode = iota // Normal chat input.
	modeWizard                  // huh form is active.
)

// shellModel is the bubbletea Model for the chat shell.
type shellModel struct {
	ctx context.Context

	input textinput.Model
	form  *huh.Form
	width int

	app            *App
	conversationID string
	// pendingTopic is the intent still waiting for readings, if any.
	pendingTopic string

	mode       shellMode
	wizardDone func(m *shellModel) tea.Cmd

	history    []string
	historyIdx int

	quitting bool
}

func newShellModel(ctx context.Context, app *App) shellModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.ShowSuggestions = true
	ti.CharLimit = 500
	// Tab accepts a suggestion; Up/Down are history.
	ti.KeyMap.NextSuggestion = key.NewBinding(key.WithKeys("ctrl+n"))
	ti.KeyMap.PrevSuggestion = key.NewBinding(key.WithKeys("ctrl+p"))

	hist := loadHistoryFromPath(app.HistoryPath)

	return shellModel{
		ctx:        ctx,
		input:      ti,
		app:        app,
		history:    hist,
		historyIdx: len(hist),
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m shellModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.Println(formatter.FormatShellWelcome()),
	)
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(m.promptPrefix()) - 1
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.mode == modeWizard {
			return m.updateWizard(msg)
		}
		return m.updatePrompt(msg)
	}

	// The huh form needs its own init and focus messages.
	if m.mode == modeWizard && m.form != nil {
		return m.updateWizard(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m shellModel) View() string {
	if m.quitting {
		return formatter.Dim("Goodbye.") + "\n"
	}
	if m.mode == modeWizard && m.form != nil {
		return m.form.View()
	}
	return m.promptPrefix() + m.input.View()
}

func (m *shellModel) promptPrefix() string {
	name := formatter.StylePurple.Render("arecabot")
	if m.pendingTopic != "" {
		name += " " + formatter.Dim("(") + formatter.StyleYellow.Render(m.pendingTopic) + formatter.Dim(")")
	}
	return name + " " + formatter.Dim("❯") + " "
}

// ── prompt mode ──────────────────────────────────────────────────────────────

func (m shellModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		m.input.SetSuggestions(nil)
		if input == "" {
			return m, nil
		}
		m.addHistory(input)
		output, cmd := m.executeInput(input)
		var cmds []tea.Cmd
		if output != "" {
			cmds = append(cmds, tea.Println(output))
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyUp:
		m.historyUp()
		return m, nil

	case tea.KeyDown:
		m.historyDown()
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.updateSuggestions()
		return m, cmd
	}
}

// executeInput runs a slash command or sends the line to the bot.
func (m *shellModel) executeInput(input string) (string, tea.Cmd) {
	if strings.HasPrefix(input, "/") {
		return m.executeCommand(input)
	}
	return m.say(input), nil
}

func (m *shellModel) say(text string) string {
	res, err := m.app.Chat.Turn(m.ctx, m.conversationID, text)
	if err != nil {
		return shellError(err)
	}
	m.conversationID = res.ConversationID

	out := formatter.BotPrefix() + formatter.FormatReply(res.Reply.Text)
	m.pendingTopic = ""
	if res.Reply.Outcome == dialogue.OutcomeIncompleteParameters {
		m.pendingTopic = res.Reply.Intent
		if hint := missingHint(res.Reply.Missing); hint != "" {
			out += "\n" + hint
		}
	}
	return out
}

// ── wizard mode ──────────────────────────────────────────────────────────────

// startWizard switches to wizard mode with the given form and completion callback.
func (m *shellModel) startWizard(form *huh.Form, done func(m *shellModel) tea.Cmd) tea.Cmd {
	m.mode = modeWizard
	m.form = form
	m.wizardDone = done
	return m.form.Init()
}

func (m shellModel) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.mode = modePrompt
		m.form = nil
		m.wizardDone = nil
		return m, tea.Println(formatter.Dim("Cancelled."))
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.mode = modePrompt
		done := m.wizardDone
		m.form = nil
		m.wizardDone = nil
		if done != nil {
			return m, tea.Batch(cmd, done(&m))
		}
	}
	return m, cmd
}

// ── history ──────────────────────────────────────────────────────────────────

func (m *shellModel) addHistory(line string) {
	m.history = append(m.history, line)
	m.historyIdx = len(m.history)
	appendHistoryToPath(m.app.HistoryPath, line)
}

func (m *shellModel) historyUp() {
	if m.historyIdx > 0 {
		m.historyIdx--
		m.input.SetValue(m.history[m.historyIdx])
		m.input.CursorEnd()
	}
}

func (m *shellModel) historyDown() {
	if m.historyIdx < len(m.history)-1 {
		m.historyIdx++
		m.input.SetValue(m.history[m.historyIdx])
		m.input.CursorEnd()
	} else {
		m.historyIdx = len(m.history)
		m.input.SetValue("")
	}
}

// ── suggestions ──────────────────────────────────────────────────────────────

func (m *shellModel) updateSuggestions() {
	text := m.input.Value()
	if !strings.HasPrefix(text, "/") {
		m.input.SetSuggestions(nil)
		return
	}

	parts := strings.Fields(text)
	trailingSpace := strings.HasSuffix(text, " ")
	if len(parts) <= 1 && !trailingSpace {
		m.input.SetSuggestions(filterSuggestions(slashCommandNames(), text))
		return
	}

	prefix := ""
	if len(parts) == 2 && !trailingSpace {
		prefix = parts[1]
	} else if len(parts) > 2 || !trailingSpace {
		m.input.SetSuggestions(nil)
		return
	}

	var args []string
	switch parts[0] {
	case "/advise":
		args = filterSuggestions(adviceKinds, prefix)
	case "/disease":
		// textinput only shows completions extending what was typed.
		if prefix != "" {
			args = filterSuggestions(m.app.Advice.SuggestDiseases(prefix), prefix)
		}
	}
	completions := make([]string, 0, len(args))
	for _, a := range args {
		completions = append(completions, parts[0]+" "+a)
	}
	m.input.SetSuggestions(completions)
}

// filterSuggestions returns the candidates that start with prefix.
func filterSuggestions(candidates []string, prefix string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func shellError(err error) string {
	return formatter.StyleRed.Render(fmt.Sprintf("Error: %v", err))
}
