package handlers

import (
	"bytes"
	"net/http"

	"github.com/avvvet/nobleco-console/internal/console/export"
	"github.com/avvvet/nobleco-console/internal/console/models"
)

// listView pairs list rows with the page's remembered table/cards mode.
type listView struct {
	Items    interface{} `json:"items"`
	ViewMode string      `json:"view_mode"`
}

// ListClients filters with ?q= and returns the remembered view mode of
// the clients page with the rows.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentUser(r)
	rows, err := h.clients.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err, "Failed to load clients")
		return
	}
	h.ok(w, "clients", listView{
		Items:    rows,
		ViewMode: h.layout.ViewMode(r.Context(), sess.Storage(), "clients"),
	})
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid client id")
		return
	}
	row, err := h.clients.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err, "Failed to load client")
		return
	}
	h.ok(w, "client", row)
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	var c models.Client
	if err := decode(w, r, &c); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	created, err := h.clients.Create(r.Context(), actor, c)
	if err != nil {
		h.fail(w, err, "Failed to create client")
		return
	}
	h.CreateResponse(w, Response{Message: "client created", Code: http.StatusCreated, Data: created})
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid client id")
		return
	}
	var c models.Client
	if err := decode(w, r, &c); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	c.ID = id
	updated, err := h.clients.Update(r.Context(), actor, c)
	if err != nil {
		h.fail(w, err, "Failed to update client")
		return
	}
	h.ok(w, "client updated", updated)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid client id")
		return
	}
	if err := h.clients.Delete(r.Context(), actor, id, confirmed(r)); err != nil {
		h.fail(w, err, "Failed to delete client")
		return
	}
	h.ok(w, "client deleted", nil)
}

func (h *Handler) ExportClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.Clients(r.Context())
	if err != nil {
		h.fail(w, err, "Failed to load clients")
		return
	}
	var buf bytes.Buffer
	if err := export.Clients(&buf, clients); err != nil {
		h.fail(w, err, "Failed to export clients")
		return
	}
	writeXLSX(w, "clients", buf.Bytes())
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	sess, _ := currentUser(r)
	cats, err := h.categories.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, err, "Failed to load categories")
		return
	}
	h.ok(w, "categories", listView{
		Items:    cats,
		ViewMode: h.layout.ViewMode(r.Context(), sess.Storage(), "categories"),
	})
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	var c models.Category
	if err := decode(w, r, &c); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	created, err := h.categories.Create(r.Context(), actor, c)
	if err != nil {
		h.fail(w, err, "Failed to create category")
		return
	}
	h.CreateResponse(w, Response{Message: "category created", Code: http.StatusCreated, Data: created})
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid category id")
		return
	}
	var c models.Category
	if err := decode(w, r, &c); err != nil {
		h.badRequest(w, "Invalid request body")
		return
	}
	c.ID = id
	updated, err := h.categories.Update(r.Context(), actor, c)
	if err != nil {
		h.fail(w, err, "Failed to update category")
		return
	}
	h.ok(w, "category updated", updated)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	_, actor := currentUser(r)
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid category id")
		return
	}
	if err := h.categories.Delete(r.Context(), actor, id, confirmed(r)); err != nil {
		h.fail(w, err, "Failed to delete category")
		return
	}
	h.ok(w, "category deleted", nil)
}

func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		h.badRequest(w, "Invalid product id")
		return
	}
	p, err := h.products.Detail(r.Context(), id)
	if err != nil {
		h.fail(w, err, "Failed to load product")
		return
	}
	h.ok(w, "product", p)
}
