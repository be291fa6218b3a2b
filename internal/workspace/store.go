// Package workspace tracks the workspaces the user belongs to and which one
// scopes chat and library reads. It is the scope provider for the
// conversation controller: the current selection is read synchronously at
// call time, never cached by callers.
package workspace

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Owner identifies the user who created a workspace.
type Owner struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Workspace is a multi-tenant partition for chat and library data.
type Workspace struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Owner       Owner     `json:"owner"`
	InviteToken string    `json:"invite_token"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service is the slice of the transport the store needs.
type Service interface {
	Workspaces(ctx context.Context) ([]Workspace, error)
	CreateWorkspace(ctx context.Context, name string) (*Workspace, error)
	JoinWorkspace(ctx context.Context, token string) (*Workspace, error)
}

// Store holds the workspace list and the current selection. A nil selection
// means the user's personal, unscoped data.
type Store struct {
	svc    Service
	logger *log.Logger

	mu         sync.RWMutex
	workspaces []Workspace
	current    *Workspace
	loading    bool
}

// NewStore creates an empty store.
func NewStore(svc Service, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{svc: svc, logger: logger}
}

// Refresh replaces the workspace list. The current selection is preserved
// when it still appears in the new list, cleared otherwise. On failure the
// existing list is left untouched.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	list, err := s.svc.Workspaces(ctx)
	if err != nil {
		s.logger.Error("failed to fetch workspaces", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces = list
	if s.current != nil {
		s.current = findByID(s.workspaces, s.current.ID)
	}
}

// Select makes ws the current scope. Passing nil switches back to the
// user's personal, unscoped data.
func (s *Store) Select(ws *Workspace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ws
}

// SelectID selects the workspace with the given ID from the known list,
// reporting whether it was found.
func (s *Store) SelectID(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := findByID(s.workspaces, id)
	if ws == nil {
		return false
	}
	s.current = ws
	return true
}

// Create creates a workspace, adds it to the list and selects it.
func (s *Store) Create(ctx context.Context, name string) bool {
	ws, err := s.svc.CreateWorkspace(ctx, name)
	if err != nil {
		s.logger.Error("failed to create workspace", "name", name, "error", err)
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces = append(s.workspaces, *ws)
	s.current = &s.workspaces[len(s.workspaces)-1]
	return true
}

// Join redeems an invite token, refreshes the list and selects the joined
// workspace.
func (s *Store) Join(ctx context.Context, token string) bool {
	ws, err := s.svc.JoinWorkspace(ctx, token)
	if err != nil {
		s.logger.Error("failed to join workspace", "error", err)
		return false
	}
	s.Refresh(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if found := findByID(s.workspaces, ws.ID); found != nil {
		s.current = found
		return true
	}
	s.current = ws
	return true
}

// Current returns the selected workspace, or nil when unscoped.
func (s *Store) Current() *Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentWorkspaceID implements the controller's scope provider: the
// selected workspace ID as the service expects it in query parameters, or
// "" when unscoped.
func (s *Store) CurrentWorkspaceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return strconv.Itoa(s.current.ID)
}

// Workspaces returns a copy of the known workspace list.
func (s *Store) Workspaces() []Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Workspace, len(s.workspaces))
	copy(out, s.workspaces)
	return out
}

// Loading reports whether a refresh is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func findByID(list []Workspace, id int) *Workspace {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}
