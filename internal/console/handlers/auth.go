package handlers

import (
	"net/http"
	"strings"

	"github.com/avvvet/nobleco-console/internal/console/events"
	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/avvvet/nobleco-console/internal/console/service"
	"github.com/avvvet/nobleco-console/internal/console/session"
	log "github.com/sirupsen/logrus"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		h.badRequest(w, "Email and password are required")
		return
	}

	res, err := h.login.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, err, "Invalid email or password")
		return
	}
	if res.Token == "" || res.User == nil {
		log.Errorf("login for %s returned no token or user", req.Email)
		h.fail(w, errMalformedLogin, "Login failed")
		return
	}

	// drop a previous session of this browser
	if old := session.FromContext(r.Context()); old != nil {
		old.Logout(r.Context())
	}

	if _, err := h.sessions.Start(r.Context(), w, res.Token, res.User); err != nil {
		log.Errorf("start session for %s: %s", req.Email, err)
		h.fail(w, err, "Login failed")
		return
	}

	h.audit.Record(r.Context(), res.User, service.ActionLogin, "", "")
	h.hub.Publish(events.SessionChanged{UserID: res.User.ID, LoggedIn: true})
	h.ok(w, "logged in", res.User)
}

// Logout always succeeds, with or without a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	var user *models.User
	if sess != nil {
		user, _ = sess.CurrentUser(r.Context())
	}
	h.sessions.End(r.Context(), w, sess)
	if user != nil {
		h.audit.Record(r.Context(), user, service.ActionLogout, "", "")
		h.hub.Publish(events.SessionChanged{UserID: user.ID, LoggedIn: false})
	}

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.ok(w, "logged out", nil)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	_, user := currentUser(r)
	h.ok(w, "current user", user)
}
