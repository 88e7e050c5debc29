package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/arecabot/internal/knowledge"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T) (*shellModel, *App) {
	t.Helper()
	app := testApp(t)
	m := newShellModel(context.Background(), app)
	return &m, app
}

func TestShell_SlotFillingTracksTopic(t *testing.T) {
	m, app := newTestShell(t)

	out, cmd := m.executeInput("when should i spray")
	assert.Nil(t, cmd)
	assert.Contains(t, out, "waiting for:")
	assert.Equal(t, knowledge.IntentPesticide, m.pendingTopic)
	require.NotEmpty(t, m.conversationID)
	assert.Contains(t, m.promptPrefix(), knowledge.IntentPesticide)

	id := m.conversationID
	out, _ = m.executeInput("temperature 30 humidity 75 rainfall 2 wind speed 8")
	assert.Contains(t, out, "EXCELLENT")
	assert.Empty(t, m.pendingTopic)
	assert.Equal(t, id, m.conversationID)

	turns, err := app.Chat.History(context.Background(), id, 0)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestShell_NewStartsFreshConversation(t *testing.T) {
	m, app := newTestShell(t)

	m.executeInput("when should i spray")
	first := m.conversationID
	require.Equal(t, 1, app.Chat.ActiveSessions())

	out, _ := m.executeInput("/new")
	assert.Contains(t, out, "new conversation")
	assert.Empty(t, m.conversationID)
	assert.Empty(t, m.pendingTopic)
	assert.Zero(t, app.Chat.ActiveSessions())

	m.executeInput("hello")
	assert.NotEqual(t, first, m.conversationID)
}

func TestShell_HistoryCommand(t *testing.T) {
	m, _ := newTestShell(t)

	out, _ := m.executeInput("/history")
	assert.Contains(t, out, "Nothing said yet.")

	m.executeInput("hello")
	out, _ = m.executeInput("/history")
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "hello")
}

func TestShell_LookupCommands(t *testing.T) {
	m, _ := newTestShell(t)

	out, _ := m.executeInput("/disease Stem_bleeding")
	assert.Contains(t, out, "STEM BLEEDING")

	out, _ = m.executeInput("/disease")
	assert.Contains(t, out, "usage: /disease")

	out, _ = m.executeInput("/schemes")
	assert.Contains(t, out, "AVAILABLE GOVERNMENT SCHEMES")

	out, _ = m.executeInput("/schemes soil card")
	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "Did you mean:")
}

func TestShell_AdviseStartsWizard(t *testing.T) {
	m, _ := newTestShell(t)

	out, _ := m.executeInput("/advise compost")
	assert.Contains(t, out, "unknown advice kind")
	assert.Equal(t, modePrompt, m.mode)

	out, cmd := m.executeInput("/advise fertilizer")
	assert.Empty(t, out)
	assert.NotNil(t, cmd)
	assert.Equal(t, modeWizard, m.mode)
	require.NotNil(t, m.form)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	sm := updated.(shellModel)
	assert.Equal(t, modePrompt, sm.mode)
	assert.Nil(t, sm.form)
}

func TestShell_UnknownCommandSuggests(t *testing.T) {
	m, _ := newTestShell(t)

	out, _ := m.executeInput("/hist")
	assert.Contains(t, out, "unknown command /hist")
	assert.Contains(t, out, "/history")

	out, _ = m.executeInput("/zzz")
	assert.Contains(t, out, "/help")
}

func TestShell_HelpAndQuit(t *testing.T) {
	m, _ := newTestShell(t)

	out, _ := m.executeInput("/help")
	assert.Contains(t, out, "/advise <kind>")

	_, cmd := m.executeInput("/quit")
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestShell_EnterRecordsHistory(t *testing.T) {
	m, app := newTestShell(t)

	m.input.SetValue("hello")
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sm := updated.(shellModel)

	assert.Equal(t, []string{"hello"}, sm.history)
	assert.Equal(t, []string{"hello"}, loadHistoryFromPath(app.HistoryPath))
	assert.NotEmpty(t, sm.conversationID)

	sm.historyUp()
	assert.Equal(t, "hello", sm.input.Value())
	sm.historyDown()
	assert.Empty(t, sm.input.Value())
}

func TestShell_Suggestions(t *testing.T) {
	m, _ := newTestShell(t)

	m.input.SetValue("/hi")
	m.updateSuggestions()
	assert.Equal(t, []string{"/history"}, m.input.AvailableSuggestions())

	m.input.SetValue("/advise f")
	m.updateSuggestions()
	assert.Equal(t, []string{"/advise fertilizer"}, m.input.AvailableSuggestions())

	m.input.SetValue("/disease stem")
	m.updateSuggestions()
	assert.ElementsMatch(t, []string{"/disease stem_bleeding", "/disease stem_cracking"}, m.input.AvailableSuggestions())

	m.input.SetValue("how do i")
	m.updateSuggestions()
	assert.Empty(t, m.input.AvailableSuggestions())
}
