package chat

import "sync"

// VoteDirection is a user's feedback on a message.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
	VoteNone VoteDirection = ""
)

// VoteTracker records per-message feedback for the lifetime of the session.
// Votes are local annotations only; nothing is sent to the service.
type VoteTracker struct {
	mu    sync.RWMutex
	votes map[string]VoteDirection
}

// NewVoteTracker creates an empty tracker.
func NewVoteTracker() *VoteTracker {
	return &VoteTracker{votes: make(map[string]VoteDirection)}
}

// Vote toggles feedback on a message: voting the same direction twice clears
// the vote, voting the opposite direction overwrites it. A message holds at
// most one vote.
func (t *VoteTracker) Vote(messageID string, direction VoteDirection) {
	if direction != VoteUp && direction != VoteDown {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.votes[messageID] == direction {
		delete(t.votes, messageID)
		return
	}
	t.votes[messageID] = direction
}

// Get returns the current vote for a message, VoteNone when unset.
func (t *VoteTracker) Get(messageID string) VoteDirection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.votes[messageID]
}
