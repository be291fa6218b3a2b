package workspace

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	list    []Workspace
	listErr error

	created   *Workspace
	createErr error

	joined  *Workspace
	joinErr error
}

func (f *fakeService) Workspaces(ctx context.Context) ([]Workspace, error) {
	return f.list, f.listErr
}

func (f *fakeService) CreateWorkspace(ctx context.Context, name string) (*Workspace, error) {
	return f.created, f.createErr
}

func (f *fakeService) JoinWorkspace(ctx context.Context, token string) (*Workspace, error) {
	return f.joined, f.joinErr
}

func newTestStore(svc Service) *Store {
	return NewStore(svc, log.New(io.Discard))
}

func TestStore_Refresh(t *testing.T) {
	t.Run("replaces the list", func(t *testing.T) {
		s := newTestStore(&fakeService{list: []Workspace{{ID: 1, Name: "Acme"}}})
		s.Refresh(context.Background())

		list := s.Workspaces()
		require.Len(t, list, 1)
		assert.Equal(t, "Acme", list[0].Name)
		assert.False(t, s.Loading())
	})

	t.Run("leaves the list untouched on failure", func(t *testing.T) {
		svc := &fakeService{list: []Workspace{{ID: 1}}}
		s := newTestStore(svc)
		s.Refresh(context.Background())
		require.Len(t, s.Workspaces(), 1)

		svc.listErr = errors.New("down")
		s.Refresh(context.Background())

		assert.Len(t, s.Workspaces(), 1)
	})

	t.Run("keeps the selection when it survives the refresh", func(t *testing.T) {
		svc := &fakeService{list: []Workspace{{ID: 1}, {ID: 2}}}
		s := newTestStore(svc)
		s.Refresh(context.Background())
		require.True(t, s.SelectID(2))

		svc.list = []Workspace{{ID: 2, Name: "renamed"}}
		s.Refresh(context.Background())

		require.NotNil(t, s.Current())
		assert.Equal(t, 2, s.Current().ID)
		assert.Equal(t, "renamed", s.Current().Name)
	})

	t.Run("clears the selection when it disappears", func(t *testing.T) {
		svc := &fakeService{list: []Workspace{{ID: 1}}}
		s := newTestStore(svc)
		s.Refresh(context.Background())
		require.True(t, s.SelectID(1))

		svc.list = []Workspace{{ID: 9}}
		s.Refresh(context.Background())

		assert.Nil(t, s.Current())
		assert.Equal(t, "", s.CurrentWorkspaceID())
	})
}

func TestStore_Scope(t *testing.T) {
	s := newTestStore(&fakeService{list: []Workspace{{ID: 42}}})
	assert.Equal(t, "", s.CurrentWorkspaceID(), "unscoped by default")

	s.Refresh(context.Background())
	require.True(t, s.SelectID(42))
	assert.Equal(t, "42", s.CurrentWorkspaceID())

	s.Select(nil)
	assert.Equal(t, "", s.CurrentWorkspaceID())

	assert.False(t, s.SelectID(7), "unknown id is not selectable")
}

func TestStore_Create(t *testing.T) {
	t.Run("appends and selects the new workspace", func(t *testing.T) {
		s := newTestStore(&fakeService{created: &Workspace{ID: 5, Name: "New"}})

		require.True(t, s.Create(context.Background(), "New"))
		assert.Equal(t, "5", s.CurrentWorkspaceID())
		assert.Len(t, s.Workspaces(), 1)
	})

	t.Run("reports failure and changes nothing", func(t *testing.T) {
		s := newTestStore(&fakeService{createErr: errors.New("denied")})

		assert.False(t, s.Create(context.Background(), "New"))
		assert.Nil(t, s.Current())
		assert.Empty(t, s.Workspaces())
	})
}

func TestStore_Join(t *testing.T) {
	t.Run("selects the joined workspace from the refreshed list", func(t *testing.T) {
		s := newTestStore(&fakeService{
			joined: &Workspace{ID: 3},
			list:   []Workspace{{ID: 1}, {ID: 3, Name: "Joined"}},
		})

		require.True(t, s.Join(context.Background(), "tok"))
		require.NotNil(t, s.Current())
		assert.Equal(t, "Joined", s.Current().Name)
	})

	t.Run("reports failure", func(t *testing.T) {
		s := newTestStore(&fakeService{joinErr: errors.New("bad token")})
		assert.False(t, s.Join(context.Background(), "tok"))
	})
}
