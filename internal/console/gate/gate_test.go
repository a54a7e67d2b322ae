package gate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/avvvet/nobleco-console/internal/console/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	calls int
	allow bool
	err   error
}

func (f *fakeChecker) HasPermission(ctx context.Context, coworkerID int64, pagePath string) (bool, error) {
	f.calls++
	return f.allow, f.err
}

func TestDecideAdminMakesNoCall(t *testing.T) {
	c := &fakeChecker{}
	d := Decide(context.Background(), c, &models.User{ID: 1, Role: models.RoleAdmin}, "/admin/orders")
	assert.Equal(t, Allowed, d)
	assert.Equal(t, 0, c.calls)
}

func TestDecideCoworker(t *testing.T) {
	coworker := &models.User{ID: 2, Role: models.RoleCoworker}

	c := &fakeChecker{allow: true}
	assert.Equal(t, Allowed, Decide(context.Background(), c, coworker, "/admin/orders"))
	assert.Equal(t, 1, c.calls)

	c = &fakeChecker{allow: false}
	assert.Equal(t, Denied, Decide(context.Background(), c, coworker, "/admin/orders"))

	c = &fakeChecker{allow: true, err: errors.New("boom")}
	assert.Equal(t, Denied, Decide(context.Background(), c, coworker, "/admin/orders"))
}

func TestDecideOtherRoles(t *testing.T) {
	c := &fakeChecker{allow: true}
	assert.Equal(t, Denied, Decide(context.Background(), c, &models.User{ID: 3, Role: models.RoleUser}, "/admin"))
	assert.Equal(t, Denied, Decide(context.Background(), c, nil, "/admin"))
	assert.Equal(t, 0, c.calls)
}

// newGateServer returns a gate backed by a fake permission endpoint.
func newGateServer(t *testing.T, body string, status int) (*Gate, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/admin/orders", r.URL.Query().Get("pagePath"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(api.NewClient(srv.URL, time.Second)), &hits
}

func serve(g *Gate, user *models.User, accept string) *httptest.ResponseRecorder {
	store := session.NewMemoryBackend(time.Hour)
	s := session.New("sid", session.Scoped(store, "sid"))
	if user != nil {
		s.Login(context.Background(), "tok", user)
	}

	h := g.Require("/admin/orders")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req = req.WithContext(session.NewContext(req.Context(), s))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireCoworkerAllowed(t *testing.T) {
	g, hits := newGateServer(t, `{"hasPermission":true}`, http.StatusOK)
	rec := serve(g, &models.User{ID: 5, Role: models.RoleCoworker}, "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestRequireOnlyExplicitTrueAllows(t *testing.T) {
	for _, body := range []string{`{"hasPermission":"true"}`, `{}`, `{"hasPermission":false}`} {
		g, _ := newGateServer(t, body, http.StatusOK)
		rec := serve(g, &models.User{ID: 5, Role: models.RoleCoworker}, "")
		assert.Equal(t, http.StatusForbidden, rec.Code, body)
	}
}

func TestRequireNonOKDenies(t *testing.T) {
	g, _ := newGateServer(t, `{"hasPermission":true}`, http.StatusInternalServerError)
	rec := serve(g, &models.User{ID: 5, Role: models.RoleCoworker}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireDeniedViewOffersLogout(t *testing.T) {
	g, hits := newGateServer(t, `{"hasPermission":true}`, http.StatusOK)

	rec := serve(g, &models.User{ID: 9, Role: models.RoleUser}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")
	assert.Contains(t, rec.Body.String(), LogoutPath)
	assert.Empty(t, rec.Header().Get("Location"))
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))

	rec = serve(g, nil, "application/json")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), `"logout":"/v1/auth/logout"`)
}

func TestRequireAdminSkipsRemote(t *testing.T) {
	g, hits := newGateServer(t, `{"hasPermission":false}`, http.StatusOK)
	rec := serve(g, &models.User{ID: 1, Role: models.RoleAdmin}, "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}
