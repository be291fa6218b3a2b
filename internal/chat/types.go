package chat

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single entry in a conversation. IDs are either provisional
// (generated locally before the service has confirmed the message) or
// assigned by the service. A persisted message's ID is never rewritten.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsSaved   bool      `json:"is_saved,omitempty"`
}

// Conversation is an ordered sequence of messages. Messages are only ever
// appended; the conversation ID may be rewritten in place once the service
// assigns a real one.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

var provisionalSeq atomic.Uint64

// NewProvisionalID returns a time-ordered identifier unique within this
// process. The sequence suffix keeps IDs distinct when two messages are
// created in the same millisecond.
func NewProvisionalID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixMilli(), provisionalSeq.Add(1))
}

// NewUserMessage builds a provisional user message.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NewProvisionalID(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewAssistantMessage builds a provisional assistant message.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        NewProvisionalID(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// TitleFromContent derives a conversation title from the first message,
// truncated to maxRunes without splitting a rune.
func TitleFromContent(content string, maxRunes int) string {
	runes := []rune(content)
	if len(runes) <= maxRunes {
		return content
	}
	return string(runes[:maxRunes])
}
