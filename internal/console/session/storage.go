package session

import (
	"context"
	"errors"
)

// Keys persisted per browser session.
const (
	KeyToken            = "nobleco_auth_token"
	KeyUser             = "nobleco_user_data"
	KeySidebarCollapsed = "adminSidebarCollapsed"
	KeySidebarSections  = "admin-sidebar-sections"
	KeyViewModePrefix   = "admin-view-mode:"
)

var ErrNoSession = errors.New("no session")

// Backend persists key/value pairs grouped by session id.
type Backend interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	Remove(ctx context.Context, sid, key string) error
	Clear(ctx context.Context, sid string) error
}

// Storage is the key/value view one session has of its backend.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type scoped struct {
	backend Backend
	sid     string
}

// Scoped binds a backend to one session id.
func Scoped(b Backend, sid string) Storage {
	return &scoped{backend: b, sid: sid}
}

func (s *scoped) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.sid, key)
}

func (s *scoped) SetItem(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.sid, key, value)
}

func (s *scoped) RemoveItem(ctx context.Context, key string) error {
	return s.backend.Remove(ctx, s.sid, key)
}

func (s *scoped) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx, s.sid)
}
