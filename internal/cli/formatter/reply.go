package formatter

import (
	"regexp"
	"strings"
)

var boldSpan = regexp.MustCompile(`\*\*([^*]+)\*\*`)

const replyBullet = "• "

// FormatReply styles a bot reply for the terminal. A line that is wholly
// **bold** becomes a header, inline **spans** become bold and bullet lines
// get a coloured marker. Plain text passes through unchanged.
func FormatReply(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case isWholeBold(trimmed):
			lines[i] = StyleHeader.Render(strings.Trim(trimmed, "*"))
		case strings.HasPrefix(trimmed, replyBullet):
			indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
			lines[i] = indent + StyleGreen.Render("•") + " " + boldInline(strings.TrimPrefix(trimmed, replyBullet))
		default:
			lines[i] = boldInline(line)
		}
	}
	return strings.Join(lines, "\n")
}

func isWholeBold(s string) bool {
	if len(s) < 5 || !strings.HasPrefix(s, "**") || !strings.HasSuffix(s, "**") {
		return false
	}
	return !strings.Contains(s[2:len(s)-2], "**")
}

func boldInline(s string) string {
	return boldSpan.ReplaceAllStringFunc(s, func(m string) string {
		return StyleBold.Render(strings.Trim(m, "*"))
	})
}

// BotPrefix labels a bot reply in the chat transcript.
func BotPrefix() string {
	return StylePurple.Render("arecabot") + Dim(" › ")
}
