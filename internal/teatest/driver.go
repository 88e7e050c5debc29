// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver calls Update directly and runs the returned Cmds inline, so a
// test can type into a model and read what it printed without a terminal
// or a tea.Program. Cmds that block, such as cursor blinks, are dropped
// after a short timeout.
package teatest

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds one message may trigger.
const MaxDrainDepth = 100

// cmdTimeout separates instant Cmds from timer-driven ones. Cursor blinks
// wait about half a second.
const cmdTimeout = 10 * time.Millisecond

// Driver is a synchronous harness for any tea.Model.
type Driver struct {
	T     testing.TB
	Model tea.Model

	// Quitting is set once tea.Quit has run. The runtime normally swallows
	// tea.QuitMsg, so the driver records it itself.
	Quitting bool

	printed []string
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends a WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// New creates a Driver and runs the model's Init command.
func New(t testing.TB, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.drain(d.Model.Init(), 0)
	return d
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drain(cmd, 0)
}

func (d *Driver) key(t tea.KeyType) { d.Send(tea.KeyMsg{Type: t}) }

func (d *Driver) Enter() { d.key(tea.KeyEnter) }
func (d *Driver) Esc()   { d.key(tea.KeyEsc) }
func (d *Driver) CtrlC() { d.key(tea.KeyCtrlC) }
func (d *Driver) Up()    { d.key(tea.KeyUp) }
func (d *Driver) Down()  { d.key(tea.KeyDown) }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		if r == ' ' {
			d.Send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Submit types line and presses Enter.
func (d *Driver) Submit(line string) {
	d.T.Helper()
	d.Type(line)
	d.Enter()
}

// Printed returns everything the model emitted with tea.Println, in order.
func (d *Driver) Printed() []string {
	return append([]string(nil), d.printed...)
}

// LastPrinted returns the most recent tea.Println output, or "".
func (d *Driver) LastPrinted() string {
	if len(d.printed) == 0 {
		return ""
	}
	return d.printed[len(d.printed)-1]
}

// View returns the model's current rendering.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := runWithTimeout(cmd)
	if msg == nil || isCursorBlink(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			d.drain(sub, depth+1)
		}
		return
	}
	if text, ok := printedText(msg); ok {
		d.printed = append(d.printed, text)
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		d.Quitting = true
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drain(next, depth+1)
}

// runWithTimeout returns nil when cmd does not finish within cmdTimeout.
func runWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// printedText extracts the body of a tea.Println message. The message type
// is unexported, so it is recognised by name.
func printedText(msg tea.Msg) (string, bool) {
	if fmt.Sprintf("%T", msg) != "tea.printLineMessage" {
		return "", false
	}
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Struct || v.NumField() == 0 || v.Field(0).Kind() != reflect.String {
		return "", false
	}
	return v.Field(0).String(), true
}

func isCursorBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
