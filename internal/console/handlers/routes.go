package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/avvvet/nobleco-console/internal/console/metrics"
	"github.com/go-chi/chi"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

// Page paths as known to the coworker permission catalog.
const (
	PageAdminUsers = "/admin/admin-users"
	PageClients    = "/admin/clients"
	PageCategories = "/admin/categories"
	PageProducts   = "/admin/products"
	PageOrders     = "/admin/orders"
	PageCommission = "/admin/commission"
	PageAudit      = "/admin/audit"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {

		// public routes here
		r.Get("/health", h.HealthHandler)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.sessions.Auth()))
			r.Use(h.sessions.Middleware)

			r.With(httprate.LimitByIP(h.loginLimit, 1*time.Minute)).Post("/auth/login", h.Login)
			r.Post("/auth/logout", h.Logout)

			// Secure routes
			r.Group(func(r chi.Router) {
				r.Use(h.requireUser)

				r.Get("/auth/me", h.Me)
				r.Get("/ws", h.HandleWebSocket)

				r.Get("/layout", h.GetLayout)
				r.Put("/layout/sidebar", h.SetSidebar)
				r.Post("/layout/sections/{key}/toggle", h.ToggleSection)
				r.Get("/layout/view-mode/{page}", h.GetViewMode)
				r.Put("/layout/view-mode/{page}", h.SetViewMode)

				r.Get("/profile", h.GetProfile)
				r.Patch("/profile", h.UpdateProfile)
				r.Post("/profile/avatar", h.UploadAvatar)
				r.Delete("/profile/avatar", h.DeleteAvatar)
				r.Get("/profile/qr.png", h.ReferralQR)
				r.Patch("/settings/password", h.ChangePassword)

				r.Group(func(r chi.Router) {
					r.Use(h.gate.Require(PageAdminUsers))

					r.Get("/users/{id}", h.UserDetail)
					r.Post("/avatars/batch", h.AvatarBatch)

					r.Get("/admins", h.ListUsers(kindAdmins))
					r.Post("/admins", h.CreateUser(kindAdmins))
					r.Delete("/admins/{id}", h.DeleteUser(kindAdmins))

					r.Get("/coworkers", h.ListUsers(kindCoworkers))
					r.Post("/coworkers", h.CreateUser(kindCoworkers))
					r.Delete("/coworkers/{id}", h.DeleteUser(kindCoworkers))
					r.Put("/coworkers/{id}/status", h.ToggleStatus)
					r.Get("/coworkers/{id}/permissions", h.GetPermissions)
					r.Put("/coworkers/{id}/permissions", h.SavePermissions)
				})

				r.Group(func(r chi.Router) {
					r.Use(h.gate.Require(PageClients))

					r.Get("/clients", h.ListClients)
					r.Post("/clients", h.CreateClient)
					r.Get("/clients/export.xlsx", h.ExportClients)
					r.Get("/clients/{id}", h.GetClient)
					r.Put("/clients/{id}", h.UpdateClient)
					r.Delete("/clients/{id}", h.DeleteClient)
				})

				r.Group(func(r chi.Router) {
					r.Use(h.gate.Require(PageCategories))

					r.Get("/categories", h.ListCategories)
					r.Post("/categories", h.CreateCategory)
					r.Put("/categories/{id}", h.UpdateCategory)
					r.Delete("/categories/{id}", h.DeleteCategory)
				})

				r.With(h.gate.Require(PageProducts)).Get("/products/{id}", h.ProductDetail)

				r.Group(func(r chi.Router) {
					r.Use(h.gate.Require(PageOrders))

					r.Get("/orders", h.ListOrders)
					r.Get("/orders/export.xlsx", h.ExportOrders)
					r.Get("/orders/{id}", h.OrderDetail)
					r.Delete("/orders/{id}", h.DeleteOrder)
					r.Post("/orders/{id}/test-payment", h.TestPayment)
				})

				r.Group(func(r chi.Router) {
					r.Use(h.gate.Require(PageCommission))

					r.Get("/commission", h.GetCommission)
					r.Patch("/commission", h.SaveCommission)
				})

				r.With(h.gate.Require(PageAudit)).Get("/audit", h.ListAudit)
			})
		})
	})
}

// requireUser rejects requests without a signed-in console session.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := currentUser(r)
		if sess == nil {
			h.unauthorized(w)
			return
		}
		token, err := sess.Token(r.Context())
		if err != nil {
			log.Errorf("session %s token: %s", sess.ID, err)
		}
		user, err := sess.CurrentUser(r.Context())
		if err != nil {
			log.Errorf("session %s user: %s", sess.ID, err)
		}
		if token == "" || user == nil {
			h.unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUser{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) unauthorized(w http.ResponseWriter) {
	h.CreateResponse(w, Response{Message: "unauthorized", Code: http.StatusUnauthorized, Error: "Please log in"})
}
