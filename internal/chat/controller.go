package chat

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// Service is the slice of the chat service transport the controller drives.
// The send endpoint returns the assistant's full reply as an opaque text
// body, plus the conversation ID the service assigned when it created a new
// conversation for this message.
type Service interface {
	SendMessage(ctx context.Context, content, chatID, model, workspace string) (body string, newChatID string, err error)
	ChatHistory(ctx context.Context, workspace string) ([]Conversation, error)
	Chat(ctx context.Context, id string) (*Conversation, error)
}

// ScopeProvider reports the workspace the next call should be scoped to,
// read at call time. An empty ID means the user's personal, unscoped data.
type ScopeProvider interface {
	CurrentWorkspaceID() string
}

// ModelSelector reports the model ID to send with.
type ModelSelector interface {
	Selected() string
}

// Clipboard is the host clipboard capability.
type Clipboard interface {
	WriteText(text string) error
}

const defaultRefreshTimeout = 15 * time.Second

// Controller orchestrates sending a message, reconciling the service's
// response into the session store, and refreshing history.
//
// Sends are generation-tagged: a send issued while another is in flight
// supersedes it, and the superseded completion is discarded instead of
// mutating shared state or clearing the newer send's streaming flag.
type Controller struct {
	sessions *SessionStore
	service  Service
	scope    ScopeProvider
	model    ModelSelector
	clip     Clipboard
	logger   *log.Logger

	mu        sync.Mutex
	latestGen uint64
	streaming bool

	refresh        singleflight.Group
	refreshTimeout time.Duration
}

// NewController wires a controller to its collaborators. A nil logger falls
// back to the package default.
func NewController(sessions *SessionStore, service Service, scope ScopeProvider, model ModelSelector, clip Clipboard, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		sessions:       sessions,
		service:        service,
		scope:          scope,
		model:          model,
		clip:           clip,
		logger:         logger,
		refreshTimeout: defaultRefreshTimeout,
	}
}

// Sessions exposes the session store for readers.
func (c *Controller) Sessions() *SessionStore {
	return c.sessions
}

// Streaming reports whether a send is in flight.
func (c *Controller) Streaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// SendMessage sends content to the service, optimistically recording the
// user message before any network activity. conversationID is empty for the
// first message of a brand-new conversation; the service then assigns one
// and the store is reconciled to it. The raw reply text is returned, with
// ok=false on any failure. The optimistic user message survives a failed
// send; callers consult store state for partial effects.
func (c *Controller) SendMessage(ctx context.Context, content, conversationID string) (reply string, ok bool) {
	gen := c.begin()
	defer c.finish(gen)

	// Optimistic insert, strictly before the network call.
	if c.sessions.Current() != nil {
		c.sessions.AppendMessage(NewUserMessage(content))
	}

	body, newChatID, err := c.service.SendMessage(ctx, content, conversationID, c.model.Selected(), c.scope.CurrentWorkspaceID())
	if err != nil {
		c.logger.Error("send message failed", "error", err)
		return "", false
	}

	if !c.isLatest(gen) {
		c.logger.Warn("discarding superseded send completion", "generation", gen)
		return "", false
	}

	if conversationID == "" && newChatID != "" {
		c.reconcileNewConversation(content, newChatID)
		// Best-effort background refresh so the new conversation shows up
		// in the history list; its failure never fails the send.
		c.refreshHistoryAsync()
	}

	c.sessions.AppendMessage(NewAssistantMessage(body))
	return body, true
}

// reconcileNewConversation binds the service-assigned ID to the open
// conversation, or constructs one when nothing is open yet. Accumulated
// messages are never discarded.
func (c *Controller) reconcileNewConversation(content, id string) {
	cur := c.sessions.Current()
	if cur == nil {
		now := time.Now().UTC()
		c.sessions.SetCurrent(&Conversation{
			ID:        id,
			Title:     TitleFromContent(content, 30),
			CreatedAt: now,
			UpdatedAt: now,
			Messages:  []Message{NewUserMessage(content)},
		})
		return
	}
	if cur.ID != id {
		c.sessions.RewriteCurrentID(id)
	}
}

func (c *Controller) refreshHistoryAsync() {
	go func() {
		c.refresh.Do("history", func() (interface{}, error) {
			ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
			defer cancel()
			c.GetChatHistory(ctx)
			return nil, nil
		})
	}()
}

// GetChatHistory fetches the conversations visible in the current scope and
// replaces the history list wholesale. On failure the existing list is left
// untouched.
func (c *Controller) GetChatHistory(ctx context.Context) {
	history, err := c.service.ChatHistory(ctx, c.scope.CurrentWorkspaceID())
	if err != nil {
		c.logger.Error("get chat history failed", "error", err)
		return
	}
	c.sessions.SetHistory(history)
}

// LoadChat fetches one conversation by ID and makes it current. On failure
// the previously open conversation is left untouched.
func (c *Controller) LoadChat(ctx context.Context, id string) {
	conv, err := c.service.Chat(ctx, id)
	if err != nil {
		c.logger.Error("load chat failed", "chat_id", id, "error", err)
		return
	}
	c.sessions.SetCurrent(conv)
}

// ClearCurrent closes the open conversation locally. Always succeeds; the
// server-side conversation is not deleted.
func (c *Controller) ClearCurrent() {
	c.sessions.Clear()
}

// CopyToClipboard writes text to the host clipboard, reporting success.
func (c *Controller) CopyToClipboard(text string) bool {
	if c.clip == nil {
		return false
	}
	if err := c.clip.WriteText(text); err != nil {
		c.logger.Error("copy to clipboard failed", "error", err)
		return false
	}
	return true
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latestGen++
	c.streaming = true
	return c.latestGen
}

// finish clears the streaming flag, but only for the newest send: a
// superseded send must not flip the flag off underneath the one that
// replaced it.
func (c *Controller) finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.latestGen {
		c.streaming = false
	}
}

func (c *Controller) isLatest(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.latestGen
}
