package formatter

import (
	"fmt"
	"strings"
)

// FormatShellWelcome renders the banner shown when the chat shell starts.
func FormatShellWelcome() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StylePurple.Render("  arecabot") + "\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n")
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  Ask about arecanut diseases, fertilizer, spraying, harvest or government schemes.") + "\n")
	b.WriteString("\n")
	b.WriteString("  " + StyleGreen.Render("when should i spray") + StyleDim.Render("   Weather-based spray advice") + "\n")
	b.WriteString("  " + StyleGreen.Render("fertilizer advice") + StyleDim.Render("     NPK dose for your palms") + "\n")
	b.WriteString("  " + StyleGreen.Render("list schemes") + StyleDim.Render("          Government support schemes") + "\n")
	b.WriteString("  " + StyleGreen.Render("/help") + StyleDim.Render("                 Shell commands") + "\n")
	b.WriteString("\n")
	return b.String()
}

// FormatShellHelp renders the slash-command reference.
func FormatShellHelp() string {
	commands := [][]string{
		{"/new", "Start a fresh conversation"},
		{"/history", "Show this conversation's transcript"},
		{"/disease <label>", "Treatment protocol for a disease label"},
		{"/advise <kind>", "Fill in a form for pesticide, fertilizer or harvest advice"},
		{"/clear", "Clear the screen"},
		{"/quit", "Leave the chat"},
	}
	var b strings.Builder
	for _, c := range commands {
		b.WriteString(fmt.Sprintf("  %-24s %s\n", StyleGreen.Render(c[0]), StyleDim.Render(c[1])))
	}
	b.WriteString("\n" + StyleDim.Render("Anything else is sent to the bot. Up/Down browse history, Tab completes commands."))
	return RenderBox("Commands", b.String())
}
