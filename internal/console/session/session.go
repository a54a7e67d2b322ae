// Package session keeps the console login state: the platform bearer token
// and the signed-in user, stored through an injectable Storage.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avvvet/nobleco-console/internal/console/models"
	log "github.com/sirupsen/logrus"
)

type Session struct {
	ID    string
	store Storage
}

func New(id string, store Storage) *Session {
	return &Session{ID: id, store: store}
}

func (s *Session) Storage() Storage {
	return s.store
}

// Login persists the token and the user JSON.
func (s *Session) Login(ctx context.Context, token string, user *models.User) error {
	if err := s.store.SetItem(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return s.SetUser(ctx, user)
}

// SetUser replaces the stored user, e.g. after a profile edit.
func (s *Session) SetUser(ctx context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.store.SetItem(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Token implements api.TokenSource; it reads storage on every call.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, _, err := s.store.GetItem(ctx, KeyToken)
	return token, err
}

// CurrentUser returns nil when nobody is signed in. Unreadable user data
// is dropped and treated as signed out.
func (s *Session) CurrentUser(ctx context.Context) (*models.User, error) {
	raw, ok, err := s.store.GetItem(ctx, KeyUser)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	u := &models.User{}
	if err := json.Unmarshal([]byte(raw), u); err != nil {
		log.Warnf("session %s: dropping unreadable user data: %v", s.ID, err)
		_ = s.store.RemoveItem(ctx, KeyUser)
		return nil, nil
	}
	return u, nil
}

func (s *Session) IsAuthenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	u, err := s.CurrentUser(ctx)
	return err == nil && u != nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// ContextTokens is an api.TokenSource reading the session carried by the
// call's context.
type ContextTokens struct{}

func (ContextTokens) Token(ctx context.Context) (string, error) {
	s := FromContext(ctx)
	if s == nil {
		return "", nil
	}
	return s.Token(ctx)
}
