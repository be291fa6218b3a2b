package chat

import "sync"

// SessionStore holds the currently open conversation and the list of known
// conversations. The current conversation and the history list are not kept
// in sync with each other: the history is only updated by a wholesale
// replace, so an entry there may briefly be stale relative to the open
// conversation.
//
// Mutation happens through the Controller's protocol; other readers should
// treat the returned conversation as read-only.
type SessionStore struct {
	mu      sync.RWMutex
	current *Conversation
	history []Conversation
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Current returns the open conversation, or nil when none is open. The
// pointer stays valid across an ID rewrite, so in-flight references keep
// seeing the reconciled conversation.
func (s *SessionStore) Current() *Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentID returns the open conversation's ID, or "" when none is open.
func (s *SessionStore) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// SetCurrent replaces the open conversation wholesale. Passing nil clears it.
func (s *SessionStore) SetCurrent(conv *Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = conv
}

// Clear closes the open conversation. The server-side conversation is not
// touched.
func (s *SessionStore) Clear() {
	s.SetCurrent(nil)
}

// AppendMessage appends to the open conversation's message sequence in call
// order. Without an open conversation this is a silent no-op; the caller is
// responsible for ensuring one exists first.
func (s *SessionStore) AppendMessage(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.current.Messages = append(s.current.Messages, msg)
}

// RewriteCurrentID mutates only the ID of the open conversation, preserving
// object identity and the accumulated messages. No-op when no conversation
// is open.
func (s *SessionStore) RewriteCurrentID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	s.current.ID = id
}

// Messages returns a copy of the open conversation's message sequence.
func (s *SessionStore) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	out := make([]Message, len(s.current.Messages))
	copy(out, s.current.Messages)
	return out
}

// History returns a copy of the known-conversations list.
func (s *SessionStore) History() []Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Conversation, len(s.history))
	copy(out, s.history)
	return out
}

// SetHistory replaces the known-conversations list wholesale.
func (s *SessionStore) SetHistory(history []Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = history
}
