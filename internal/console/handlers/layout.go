package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

func (h *Handler) GetLayout(w http.ResponseWriter, r *http.Request) {
	sess, user := currentUser(r)
	l, err := h.layout.Load(r.Context(), sess.Storage(), user)
	if err != nil {
		h.fail(w, err, "Failed to load layout")
		return
	}
	h.ok(w, "layout", l)
}

type sidebarRequest struct {
	Collapsed bool `json:"collapsed"`
}

func (h *Handler) SetSidebar(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentUser(r)
	var req sidebarRequest
	if err := decode(w, r, &req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	if err := h.layout.SetCollapsed(r.Context(), sess.Storage(), req.Collapsed); err != nil {
		h.fail(w, err, "Failed to save sidebar state")
		return
	}
	h.ok(w, "sidebar saved", req)
}

func (h *Handler) ToggleSection(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentUser(r)
	state, err := h.layout.ToggleSection(r.Context(), sess.Storage(), chi.URLParam(r, "key"))
	if err != nil {
		h.fail(w, err, "Failed to save sidebar sections")
		return
	}
	h.ok(w, "sections saved", state)
}

type viewModeRequest struct {
	Mode string `json:"mode"`
}

func (h *Handler) GetViewMode(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentUser(r)
	mode := h.layout.ViewMode(r.Context(), sess.Storage(), chi.URLParam(r, "page"))
	h.ok(w, "view mode", viewModeRequest{Mode: mode})
}

func (h *Handler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentUser(r)
	var req viewModeRequest
	if err := decode(w, r, &req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	if err := h.layout.SetViewMode(r.Context(), sess.Storage(), chi.URLParam(r, "page"), req.Mode); err != nil {
		h.fail(w, err, "Failed to save view mode")
		return
	}
	h.ok(w, "view mode saved", req)
}
