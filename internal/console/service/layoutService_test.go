package service

import (
	"context"
	"testing"
	"time"

	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/avvvet/nobleco-console/internal/console/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memStorage() session.Storage {
	return session.Scoped(session.NewMemoryBackend(time.Hour), "sid")
}

func TestSidebarDefaults(t *testing.T) {
	ctx := context.Background()
	st := memStorage()

	assert.False(t, SidebarCollapsed(ctx, st))
	for _, open := range SectionState(ctx, st) {
		assert.True(t, open)
	}

	require.NoError(t, st.SetItem(ctx, session.KeySidebarSections, "{broken"))
	for _, open := range SectionState(ctx, st) {
		assert.True(t, open)
	}
}

func TestSidebarPersistence(t *testing.T) {
	ctx := context.Background()
	st := memStorage()
	svc := NewLayoutService(nil)

	require.NoError(t, svc.SetCollapsed(ctx, st, true))
	v, _, _ := st.GetItem(ctx, session.KeySidebarCollapsed)
	assert.Equal(t, "true", v)

	state, err := svc.ToggleSection(ctx, st, models.SectionPayment)
	require.NoError(t, err)
	assert.False(t, state[models.SectionPayment])
	assert.True(t, state[models.SectionUsers])

	raw, _, _ := st.GetItem(ctx, session.KeySidebarSections)
	assert.JSONEq(t, `{"dashboard":true,"users":true,"products":true,"payment":false}`, raw)

	_, err = svc.ToggleSection(ctx, st, "nope")
	assert.Error(t, err)

	l, err := svc.Load(ctx, st, &models.User{ID: 1, Name: "lan"})
	require.NoError(t, err)
	assert.True(t, l.Collapsed)
	assert.False(t, l.Sections[3].Open)
	assert.Equal(t, "L", l.Avatar.Initial)
	assert.True(t, l.Avatar.ImageFailed)
	assert.Equal(t, 40.0, l.Avatar.Styles.Width)
}

func TestViewMode(t *testing.T) {
	ctx := context.Background()
	st := memStorage()
	svc := NewLayoutService(nil)

	assert.Equal(t, ViewTable, svc.ViewMode(ctx, st, "clients"))
	require.NoError(t, svc.SetViewMode(ctx, st, "clients", ViewCards))
	assert.Equal(t, ViewCards, svc.ViewMode(ctx, st, "clients"))
	assert.Error(t, svc.SetViewMode(ctx, st, "clients", "grid"))
}
