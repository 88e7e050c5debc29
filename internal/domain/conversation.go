package domain

import (
	"fmt"
	"time"
)

// Channel is the delivery surface a conversation came in on.
type Channel string

const (
	ChannelCLI  Channel = "cli"
	ChannelHTTP Channel = "http"
)

func (c Channel) IsValid() bool {
	switch c {
	case ChannelCLI, ChannelHTTP:
		return true
	}
	return false
}

// Conversation groups the turns exchanged with one farmer.
type Conversation struct {
	ID        string
	Channel   Channel
	CreatedAt time.Time
}

func (c *Conversation) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("conversation id is required")
	}
	if !c.Channel.IsValid() {
		return fmt.Errorf("invalid channel %q", c.Channel)
	}
	return nil
}

// Turn is one utterance and the reply it got. Seq starts at 1 within a
// conversation. Intent and Entity are empty when the turn matched nothing
// or named no specific disease or scheme.
type Turn struct {
	ID             string
	ConversationID string
	Seq            int
	UserText       string
	BotText        string
	Outcome        string
	Intent         string
	Entity         string
	CreatedAt      time.Time
}

// ConversationSummary is a conversation with its turn count and last activity.
type ConversationSummary struct {
	Conversation
	Turns      int
	LastActive time.Time
}
