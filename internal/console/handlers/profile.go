package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/avatar"
	"github.com/avvvet/nobleco-console/internal/console/service"
	log "github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	_, user := currentUser(r)
	p, err := h.profile.Get(r.Context(), user.ID)
	if err != nil {
		h.fail(w, err, "Failed to load profile")
		return
	}
	h.ok(w, "profile", p)
}

// UpdateProfile saves the profile and refreshes the user cached in the session.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, actor := currentUser(r)
	var in service.ProfileInput
	if err := decode(w, r, &in); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	u, err := h.profile.Update(r.Context(), actor, in)
	if err != nil {
		h.fail(w, err, "Failed to update profile")
		return
	}

	// the upstream may answer with a partial user
	if u.Role == "" {
		u.Role = actor.Role
	}
	if u.Email == "" {
		u.Email = actor.Email
	}
	if err := sess.SetUser(r.Context(), u); err != nil {
		log.Errorf("session %s: refresh user: %s", sess.ID, err)
	}
	h.ok(w, "profile updated", u)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	var in service.PasswordInput
	if err := decode(w, r, &in); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	if err := h.profile.ChangePassword(r.Context(), actor, in); err != nil {
		h.fail(w, err, "Failed to change password")
		return
	}
	h.ok(w, "password changed", nil)
}

// UploadAvatar takes a multipart form with the image in "file" and the
// crop preview state as JSON in "crop".
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxUploadBytes+maxJSONBody)
	if err := r.ParseMultipartForm(avatar.MaxUploadBytes); err != nil {
		h.badRequest(w, avatar.ErrFileTooLarge.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.badRequest(w, avatar.ErrEmptyFile.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.badRequest(w, avatar.ErrEmptyFile.Error())
		return
	}

	var crop avatar.CropState
	if raw := r.FormValue("crop"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &crop); err != nil {
			h.badRequest(w, "Invalid crop state")
			return
		}
	}

	a, err := h.avatars.Upload(r.Context(), actor, service.AvatarUploadInput{
		UserID:      actor.ID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Crop:        crop,
	})
	if err != nil {
		h.fail(w, err, "Failed to upload avatar")
		return
	}
	h.ok(w, "avatar uploaded", avatar.NewView(actor.Name, a, service.ProfileAvatarSize))
}

func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	if err := h.avatars.Delete(r.Context(), actor, actor.ID); err != nil {
		h.fail(w, err, "Failed to remove avatar")
		return
	}
	h.ok(w, "avatar removed", avatar.NewView(actor.Name, nil, service.ProfileAvatarSize))
}

// ReferralQR renders the signup link of the current user as a PNG.
func (h *Handler) ReferralQR(w http.ResponseWriter, r *http.Request) {
	_, user := currentUser(r)
	link := h.profile.SignupURL(user.ReferCode)
	if link == "" {
		h.CreateResponse(w, Response{Message: "not found", Code: http.StatusNotFound, Error: "No referral code"})
		return
	}
	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		h.fail(w, err, "Failed to render QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
