package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var someClients = []models.Client{
	{ID: 1, Name: "Nguyen Van A", Phone: "0901111111", Location: "Ha Noi"},
	{ID: 2, Name: "Tran Thi B", Email: "b@mail.vn", Location: "Da Nang"},
	{ID: 3, Name: "Le C", Phone: "0902222222", Location: "Ho Chi Minh"},
}

func TestFilterClients(t *testing.T) {
	assert.Len(t, FilterClients(someClients, ""), 3)
	assert.Len(t, FilterClients(someClients, "  "), 3)

	got := FilterClients(someClients, "da nang")
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	assert.Len(t, FilterClients(someClients, "090"), 2)
	assert.Len(t, FilterClients(someClients, "B@MAIL"), 1)
	assert.Empty(t, FilterClients(someClients, "zzz"))
}

func TestClientCreateValidation(t *testing.T) {
	up := newUpstream(t)
	svc := NewClientService(up.client(), nil)

	_, err := svc.Create(context.Background(), nil, models.Client{Name: " "})
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), nil, models.Client{Name: "X", Email: "nope"})
	assert.Error(t, err)
	assert.Equal(t, 0, up.count(http.MethodPost, "/api/clients"))

	assert.ErrorIs(t, svc.Delete(context.Background(), nil, 1, false), ErrConfirmationRequired)
}

func TestCategoryListSearch(t *testing.T) {
	up := newUpstream(t)
	up.handle("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Category{
			{ID: 1, Name: "Rings"},
			{ID: 2, Name: "Necklaces", Description: "gold and silver"},
		})
	})
	svc := NewCategoryService(up.client(), nil)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := svc.List(context.Background(), "GOLD")
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, int64(2), some[0].ID)

	_, err = svc.Create(context.Background(), nil, models.Category{})
	assert.Error(t, err)
}
