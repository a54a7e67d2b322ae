package handlers

import (
	"net/http"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

func (h *Handler) GetCommission(w http.ResponseWriter, r *http.Request) {
	e, err := h.commission.Load(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to load commission rates")
		return
	}
	h.ok(w, "commission rates", e.Rows())
}

type commissionRequest struct {
	Rates []models.CommissionRate `json:"rates"`
}

func (h *Handler) SaveCommission(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	var req commissionRequest
	if err := decode(w, r, &req); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	rows, err := h.commission.Update(r.Context(), actor, req.Rates)
	if err != nil {
		h.fail(w, err, "Failed to save commission rates")
		return
	}
	h.ok(w, "commission rates saved", rows)
}

func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		h.fail(w, err, "Failed to load audit log")
		return
	}
	h.ok(w, "audit", entries)
}
