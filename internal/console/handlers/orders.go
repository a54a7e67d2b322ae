package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/avvvet/nobleco-console/internal/console/export"
)

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := h.orders.List(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to load orders")
		return
	}
	h.ok(w, "orders", rows)
}

// OrderDetail takes the browser viewport width so fullscreen can be refused
// on narrow screens.
func (h *Handler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid order id")
		return
	}
	width, _ := strconv.Atoi(r.URL.Query().Get("width"))
	fullscreen, _ := strconv.ParseBool(r.URL.Query().Get("fullscreen"))

	d, err := h.orders.Detail(r.Context(), id, width, fullscreen)
	if err != nil {
		h.fail(w, err, "Failed to load order")
		return
	}
	h.ok(w, "order", d)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid order id")
		return
	}
	rows, err := h.orders.Delete(r.Context(), actor, id, confirmed(r))
	if err != nil {
		h.fail(w, err, "Failed to delete order")
		return
	}
	h.ok(w, "order deleted", rows)
}

func (h *Handler) TestPayment(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid order id")
		return
	}
	rows, err := h.orders.TestPayment(r.Context(), actor, id)
	if err != nil {
		h.fail(w, err, "Test payment failed")
		return
	}
	h.ok(w, "test payment completed", rows)
}

func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.Orders(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to load orders")
		return
	}
	var buf bytes.Buffer
	if err := export.Orders(&buf, orders); err != nil {
		h.fail(w, err, "Failed to export orders")
		return
	}
	writeXLSX(w, "orders", buf.Bytes())
}

func writeXLSX(w http.ResponseWriter, name string, data []byte) {
	filename := name + "-" + time.Now().Format("20060102-150405") + ".xlsx"
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
