package gate

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

const LogoutPath = "/v1/auth/logout"

var deniedTmpl = template.Must(template.New("denied").Parse(`<!doctype html>
<html lang="vi">
<head><meta charset="utf-8"><title>Access denied</title></head>
<body>
  <main class="access-denied">
    <h1>Access denied</h1>
    <p>You do not have permission to view <code>{{.Path}}</code>.</p>
    <p>Contact an administrator to request access.</p>
    <form method="post" action="{{.Logout}}">
      <button type="submit">Log out</button>
    </form>
  </main>
</body>
</html>
`))

// Deny renders the access-denied view. It never redirects.
func Deny(w http.ResponseWriter, r *http.Request, pagePath string) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "access denied",
			"code":    http.StatusForbidden,
			"data":    map[string]string{"page_path": pagePath, "logout": LogoutPath},
			"error":   "You do not have permission to access this page",
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	err := deniedTmpl.Execute(w, struct{ Path, Logout string }{pagePath, LogoutPath})
	if err != nil {
		log.Errorf("render access denied: %s", err)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
