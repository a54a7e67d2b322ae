package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admins(names ...string) []models.User {
	out := make([]models.User, len(names))
	for i, n := range names {
		out[i] = models.User{ID: int64(i + 1), Name: n, Role: models.RoleAdmin}
	}
	return out
}

func TestBuildUserListPinsCurrentAdmin(t *testing.T) {
	users := admins("zoe", "Bao", "anh", "Minh", "chi")
	actor := &models.User{ID: 4, Role: models.RoleAdmin} // Minh

	list := BuildUserList(actor, api.UsersAdmin, models.RoleAdmin, users)

	var names []string
	for _, r := range list.Rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Minh", "anh", "Bao", "chi", "zoe"}, names)
	assert.True(t, list.Rows[0].IsSelf)
	assert.False(t, list.Rows[0].CanDelete)
	for _, r := range list.Rows[1:] {
		assert.True(t, r.CanDelete)
	}
}

func TestBuildUserListStableForEqualNames(t *testing.T) {
	users := []models.User{
		{ID: 1, Name: "an", Role: models.RoleCoworker},
		{ID: 2, Name: "An", Role: models.RoleCoworker},
		{ID: 3, Name: "AN", Role: models.RoleCoworker},
	}
	list := BuildUserList(&models.User{ID: 9, Role: models.RoleAdmin}, api.UsersCoworkers, models.RoleCoworker, users)
	require.Len(t, list.Rows, 3)
	assert.Equal(t, int64(1), list.Rows[0].ID)
	assert.Equal(t, int64(2), list.Rows[1].ID)
	assert.Equal(t, int64(3), list.Rows[2].ID)
}

func TestBuildUserListDropsOtherRoles(t *testing.T) {
	users := append(admins("a", "b"), models.User{ID: 99, Name: "intruder", Role: models.RoleUser})
	list := BuildUserList(nil, api.UsersAdmin, models.RoleAdmin, users)
	assert.Equal(t, 2, list.Total)
}

func TestSingleAdminCannotBeDeleted(t *testing.T) {
	users := admins("only")
	for _, viewer := range []*models.User{
		{ID: 1, Role: models.RoleAdmin},
		{ID: 50, Role: models.RoleAdmin},
		{ID: 51, Role: models.RoleCoworker},
		nil,
	} {
		list := BuildUserList(viewer, api.UsersAdmin, models.RoleAdmin, users)
		require.Len(t, list.Rows, 1)
		assert.False(t, list.Rows[0].CanDelete)
	}
}

func TestValidateNewUser(t *testing.T) {
	ok := CreateUserInput{Name: "Lan", Email: "lan@nobleco.vn", Password: "secret1", ConfirmPassword: "secret1"}
	assert.NoError(t, ValidateNewUser(ok))

	short := ok
	short.Password, short.ConfirmPassword = "12345", "12345"
	assert.Error(t, ValidateNewUser(short))

	missing := ok
	missing.Name = "  "
	assert.Error(t, ValidateNewUser(missing))

	mismatch := ok
	mismatch.ConfirmPassword = "secret2"
	err := ValidateNewUser(mismatch)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Passwords do not match", verr.Message)
}

func TestCreateCoworkerMismatchedPasswordIssuesNoPost(t *testing.T) {
	up := newUpstream(t)
	up.handle("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, models.User{ID: 10})
	})
	svc := NewUserService(up.client(), nil)

	_, err := svc.Create(context.Background(), &models.User{ID: 1, Role: models.RoleAdmin}, api.UsersCoworkers, CreateUserInput{
		Name: "Hoa", Email: "hoa@nobleco.vn", Password: "secret1", ConfirmPassword: "secret9",
	})

	require.Error(t, err)
	assert.Equal(t, "Passwords do not match", err.Error())
	assert.Equal(t, 0, up.count(http.MethodPost, "/api/users"))
}

func TestCreateUsesRoleOfListAndRefetches(t *testing.T) {
	up := newUpstream(t)
	up.handle("POST /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, models.User{ID: 10, Name: "Hoa", Role: models.RoleCoworker})
	})
	up.handle("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, api.UsersCoworkers, r.URL.Query().Get("type"))
		writeJSON(w, http.StatusOK, []models.User{{ID: 10, Name: "Hoa", Role: models.RoleCoworker}})
	})
	svc := NewUserService(up.client(), nil)

	list, err := svc.Create(context.Background(), &models.User{ID: 1, Role: models.RoleAdmin}, api.UsersCoworkers, CreateUserInput{
		Name: "Hoa", Email: "hoa@nobleco.vn", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	var sent api.NewUser
	require.NoError(t, json.Unmarshal(up.last(http.MethodPost, "/api/users").Body, &sent))
	assert.Equal(t, models.RoleCoworker, sent.Role)
	assert.Equal(t, 1, up.count(http.MethodGet, "/api/users"))
}

func TestDeleteGuards(t *testing.T) {
	up := newUpstream(t)
	up.handle("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, admins("only"))
	})
	up.handle("DELETE /api/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	svc := NewUserService(up.client(), nil)
	ctx := context.Background()
	other := &models.User{ID: 77, Role: models.RoleAdmin}

	_, err := svc.Delete(ctx, other, api.UsersAdmin, 1, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	_, err = svc.Delete(ctx, &models.User{ID: 1, Role: models.RoleAdmin}, api.UsersAdmin, 1, true)
	assert.ErrorIs(t, err, ErrSelfDelete)

	_, err = svc.Delete(ctx, other, api.UsersAdmin, 1, true)
	assert.ErrorIs(t, err, ErrLastAdministrator)

	assert.Equal(t, 0, up.count(http.MethodDelete, "/api/users"))
}

func TestDeleteSendsIDAndRefetches(t *testing.T) {
	up := newUpstream(t)
	up.handle("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, admins("a", "b"))
	})
	up.handle("DELETE /api/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	svc := NewUserService(up.client(), nil)

	_, err := svc.Delete(context.Background(), &models.User{ID: 1, Role: models.RoleAdmin}, api.UsersAdmin, 2, true)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":2}`, string(up.last(http.MethodDelete, "/api/users").Body))
	assert.Equal(t, 2, up.count(http.MethodGet, "/api/users"))
}

func TestToggleStatusPatchesOnlyRow(t *testing.T) {
	up := newUpstream(t)
	up.handle("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.User{
			{ID: 5, Name: "Hoa", Role: models.RoleCoworker, Status: models.StatusActive},
			{ID: 6, Name: "Minh", Role: models.RoleCoworker},
		})
	})
	up.handle("PUT /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	svc := NewUserService(up.client(), nil)

	row, err := svc.ToggleStatus(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, row.Status)
	assert.Equal(t, "Hoa", row.Name)
	assert.JSONEq(t, `{"id":5,"status":"inactive"}`, string(up.last(http.MethodPut, "/api/users").Body))
	assert.Equal(t, "type=coworkers", up.last(http.MethodGet, "/api/users").Query)

	// a row without a known status is never flipped blindly
	_, err = svc.ToggleStatus(context.Background(), nil, 6)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
	assert.Equal(t, 1, up.count(http.MethodPut, "/api/users"))
}

func TestToggleStatusOnlyForCoworkers(t *testing.T) {
	up := newUpstream(t)
	up.handle("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		// an admin leaking into the coworker list is dropped, not toggled
		writeJSON(w, http.StatusOK, []models.User{
			{ID: 2, Name: "Lan", Role: models.RoleAdmin, Status: models.StatusActive},
		})
	})
	svc := NewUserService(up.client(), nil)

	_, err := svc.ToggleStatus(context.Background(), nil, 2)
	assert.ErrorIs(t, err, ErrUserNotInList)
	_, err = svc.ToggleStatus(context.Background(), nil, 3)
	assert.ErrorIs(t, err, ErrUserNotInList)
	assert.Equal(t, 0, up.count(http.MethodPut, "/api/users"))
}

func TestListSurfacesUpstreamError(t *testing.T) {
	up := newUpstream(t)
	up.handle("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Admin only"})
	})
	svc := NewUserService(up.client(), nil)

	_, err := svc.List(context.Background(), nil, api.UsersAdmin)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, api.StatusOf(err))
	assert.Equal(t, "Admin only", api.MessageOf(err, ""))
}
