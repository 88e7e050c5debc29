package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/arecabot/internal/domain"
)

// FormatConversations lists recorded conversations, most recent first.
func FormatConversations(convs []domain.ConversationSummary, now time.Time) string {
	if len(convs) == 0 {
		return Dim("No conversations recorded yet.") + "\n"
	}
	rows := make([][]string, 0, len(convs))
	for _, c := range convs {
		rows = append(rows, []string{
			c.ID,
			string(c.Channel),
			fmt.Sprintf("%d", c.Turns),
			HumanTimestamp(c.LastActive, now),
		})
	}
	return Header("Recent conversations") + "\n" + RenderTable([]string{"ID", "CHANNEL", "TURNS", "LAST ACTIVE"}, rows)
}

// FormatTranscript renders a conversation's turns as a compact exchange.
func FormatTranscript(conversationID string, turns []*domain.Turn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", StyleHeader.Render("CONVERSATION"), TruncID(conversationID))
	if len(turns) == 0 {
		b.WriteString(Dim("No turns.") + "\n")
		return b.String()
	}
	for _, t := range turns {
		fmt.Fprintf(&b, "\n%s %s %s\n", StyleDim.Render(fmt.Sprintf("#%d", t.Seq)), StyleBlue.Render("you ›"), t.UserText)
		label := OutcomeBadge(t.Outcome)
		if t.Intent != "" {
			label += Dim(" " + t.Intent)
		}
		if t.Entity != "" {
			label += Dim("/" + t.Entity)
		}
		fmt.Fprintf(&b, "   %s\n", label)
		fmt.Fprintf(&b, "   %s\n", Truncate(t.BotText, 100))
	}
	return b.String()
}
