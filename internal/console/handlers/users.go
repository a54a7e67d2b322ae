package handlers

import (
	"net/http"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/avatar"
	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/avvvet/nobleco-console/internal/console/service"
)

const (
	kindAdmins    = api.UsersAdmin
	kindCoworkers = api.UsersCoworkers

	// maxAvatarBatch bounds one batch request, not the fan-out inside it.
	maxAvatarBatch = 500
)

func (h *Handler) ListUsers(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, actor := currentUser(r)
		list, err := h.users.List(r.Context(), actor, kind)
		if err != nil {
			h.fail(w, err, "Failed to load users")
			return
		}
		h.ok(w, kind, list)
	}
}

func (h *Handler) CreateUser(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, actor := currentUser(r)
		var in service.CreateUserInput
		if err := decode(w, r, &in); err != nil {
			h.badRequest(w, "Invalid request body")
			return
		}
		list, err := h.users.Create(r.Context(), actor, kind, in)
		if err != nil {
			h.fail(w, err, "Failed to create user")
			return
		}
		h.CreateResponse(w, Response{Message: "user created", Code: http.StatusCreated, Data: list})
	}
}

func (h *Handler) DeleteUser(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, actor := currentUser(r)
		id, ok := idParam(r, "id")
		if !ok {
			h.badRequest(w, "Invalid user id")
			return
		}
		list, err := h.users.Delete(r.Context(), actor, kind, id, confirmed(r))
		if err != nil {
			h.fail(w, err, "Failed to delete user")
			return
		}
		h.ok(w, "user deleted", list)
	}
}

// ToggleStatus flips the coworker's current status as the platform reports it.
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid user id")
		return
	}

	updated, err := h.users.ToggleStatus(r.Context(), actor, id)
	if err != nil {
		h.fail(w, err, "Failed to update status")
		return
	}
	h.ok(w, "status updated", updated)
}

type userDetail struct {
	User       *models.User   `json:"user"`
	Avatar     *models.Avatar `json:"avatar"`
	AvatarView avatar.View    `json:"avatar_view"`
}

func (h *Handler) UserDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid user id")
		return
	}
	p, err := h.profile.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err, "Failed to load user")
		return
	}
	h.ok(w, "user", userDetail{User: &p.User, Avatar: p.Avatar, AvatarView: p.AvatarView})
}

type avatarBatchRequest struct {
	Users []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"users"`
	Size float64 `json:"size"`
}

// AvatarBatch resolves avatars for a rendered list in one call.
func (h *Handler) AvatarBatch(w http.ResponseWriter, r *http.Request) {
	var req avatarBatchRequest
	if err := decode(w, r, &req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	if len(req.Users) > maxAvatarBatch {
		h.badRequest(w, "Too many users")
		return
	}
	if req.Size <= 0 {
		req.Size = 40
	}

	ids := make([]int64, len(req.Users))
	for i, u := range req.Users {
		ids[i] = u.ID
	}
	found := h.avatars.Batch(r.Context(), ids)

	views := make(map[int64]avatar.View, len(req.Users))
	for _, u := range req.Users {
		views[u.ID] = avatar.NewView(u.Name, found[u.ID], req.Size)
	}
	h.ok(w, "avatars", views)
}

type permissionsView struct {
	CoworkerID int64                       `json:"coworker_id"`
	Sections   []service.PermissionSection `json:"sections"`
}

func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid coworker id")
		return
	}
	e, err := h.permissions.Load(r.Context(), id)
	if err != nil {
		h.fail(w, err, "Failed to load permissions")
		return
	}
	h.ok(w, "permissions", permissionsView{CoworkerID: id, Sections: e.Sections()})
}

type savePermissionsRequest struct {
	PagePaths []string `json:"page_paths"`
}

func (h *Handler) SavePermissions(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid coworker id")
		return
	}
	var req savePermissionsRequest
	if err := decode(w, r, &req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	e, err := h.permissions.Save(r.Context(), actor, id, req.PagePaths)
	if err != nil {
		h.fail(w, err, "Failed to save permissions")
		return
	}
	h.ok(w, "permissions saved", permissionsView{CoworkerID: id, Sections: e.Sections()})
}
