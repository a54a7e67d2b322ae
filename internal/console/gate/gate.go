// Package gate decides per request whether the signed-in user may open an
// admin page.
package gate

import (
	"context"
	"net/http"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/metrics"
	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/avvvet/nobleco-console/internal/console/session"
	log "github.com/sirupsen/logrus"
)

type Decision int

const (
	Unknown Decision = iota
	Pending
	Allowed
	Denied
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Checker answers the remote permission question for a coworker.
type Checker interface {
	HasPermission(ctx context.Context, coworkerID int64, pagePath string) (bool, error)
}

type Gate struct {
	checkerFor func(s *session.Session) Checker
}

// New builds a gate whose remote checks authenticate with the request's
// session token.
func New(client *api.Client) *Gate {
	return &Gate{
		checkerFor: func(s *session.Session) Checker {
			return client.WithTokens(s)
		},
	}
}

// Decide runs unknown -> allowed | pending -> allowed/denied | denied.
// Administrators never trigger a network call. Errors deny.
func Decide(ctx context.Context, checker Checker, user *models.User, pagePath string) Decision {
	d := Unknown
	role := "anonymous"
	if user != nil {
		role = user.Role
	}
	defer func() { metrics.ObserveGate(role, d.String()) }()

	switch {
	case user.IsAdmin():
		d = Allowed
	case user.IsCoworker():
		d = Pending
		ok, err := checker.HasPermission(ctx, user.ID, pagePath)
		if err != nil {
			log.Warnf("permission check for coworker %d on %s failed: %s", user.ID, pagePath, err)
			d = Denied
			return d
		}
		if ok {
			d = Allowed
		} else {
			d = Denied
		}
	default:
		d = Denied
	}
	return d
}

// Require gates every request under pagePath. The check runs per request,
// so a new path or a new identity is always re-evaluated.
func (g *Gate) Require(pagePath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())

			var user *models.User
			var checker Checker
			if sess != nil {
				u, err := sess.CurrentUser(r.Context())
				if err != nil {
					log.Errorf("gate: reading session %s: %s", sess.ID, err)
				}
				user = u
				checker = g.checkerFor(sess)
			}

			if Decide(r.Context(), checker, user, pagePath) != Allowed {
				Deny(w, r, pagePath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
