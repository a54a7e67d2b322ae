package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	config "github.com/avvvet/nobleco-console/configs"
	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/events"
	"github.com/avvvet/nobleco-console/internal/console/gate"
	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/avvvet/nobleco-console/internal/console/service"
	"github.com/avvvet/nobleco-console/internal/console/session"
	"github.com/go-chi/chi"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const maxJSONBody = 1 << 20

type Options struct {
	Client         *api.Client
	Sessions       *session.Manager
	Hub            *events.Hub
	Audit          *service.AuditService
	SignupBaseURL  string
	LoginRateLimit int
	AllowedOrigins []string
	Port           string
}

type Handler struct {
	login       *api.Client
	sessions    *session.Manager
	gate        *gate.Gate
	hub         *events.Hub
	audit       *service.AuditService
	users       *service.UserService
	avatars     *service.AvatarService
	permissions *service.PermissionService
	orders      *service.OrderService
	commission  *service.CommissionService
	clients     *service.ClientService
	categories  *service.CategoryService
	products    *service.ProductService
	profile     *service.ProfileService
	layout      *service.LayoutService
	upgrader    websocket.Upgrader
	ws          *Ws
	loginLimit  int
	port        string
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func NewHandler(o Options) *Handler {
	// every service call authenticates with the token of the request's session
	client := o.Client.WithTokens(session.ContextTokens{})
	avatars := service.NewAvatarService(client, o.Hub, o.Audit)

	h := &Handler{
		login:       o.Client,
		sessions:    o.Sessions,
		gate:        gate.New(o.Client),
		hub:         o.Hub,
		audit:       o.Audit,
		users:       service.NewUserService(client, o.Audit),
		avatars:     avatars,
		permissions: service.NewPermissionService(client, o.Audit),
		orders:      service.NewOrderService(client, o.Audit),
		commission:  service.NewCommissionService(client, o.Audit),
		clients:     service.NewClientService(client, o.Audit),
		categories:  service.NewCategoryService(client, o.Audit),
		products:    service.NewProductService(client),
		profile:     service.NewProfileService(client, o.Hub, o.Audit, o.SignupBaseURL),
		layout:      service.NewLayoutService(avatars),
		ws:          NewWs(o.Hub),
		loginLimit:  o.LoginRateLimit,
		port:        o.Port,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(o.AllowedOrigins),
	}
	return h
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, message string, data interface{}) {
	h.CreateResponse(w, Response{Message: message, Code: http.StatusOK, Data: data})
}

// fail maps service and upstream errors onto the response envelope.
func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	var verr *service.ValidationError
	var apiErr *api.Error

	switch {
	case errors.As(err, &verr):
		h.CreateResponse(w, Response{Message: "validation failed", Code: http.StatusBadRequest, Data: map[string]string{"field": verr.Field}, Error: verr.Message})
	case errors.Is(err, service.ErrConfirmationRequired):
		h.CreateResponse(w, Response{Message: "confirmation required", Code: http.StatusBadRequest, Error: err.Error()})
	case errors.Is(err, service.ErrUserNotInList):
		h.CreateResponse(w, Response{Message: "not found", Code: http.StatusNotFound, Error: err.Error()})
	case service.IsGuardError(err):
		h.CreateResponse(w, Response{Message: "action not allowed", Code: http.StatusConflict, Error: err.Error()})
	case errors.As(err, &apiErr):
		code := apiErr.Status
		if code < 400 || code >= 500 {
			code = http.StatusBadGateway
		}
		h.CreateResponse(w, Response{Message: "request failed", Code: code, Error: api.MessageOf(err, fallback)})
	default:
		log.Errorf("%s: %s", fallback, err)
		h.CreateResponse(w, Response{Message: "request failed", Code: http.StatusBadGateway, Error: fallback})
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.CreateResponse(w, Response{Message: "bad request", Code: http.StatusBadRequest, Error: msg})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(v)
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func confirmed(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return v
}

type ctxUser struct{}

// currentUser returns the session and user set by requireUser.
func currentUser(r *http.Request) (*session.Session, *models.User) {
	u, _ := r.Context().Value(ctxUser{}).(*models.User)
	return session.FromContext(r.Context()), u
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "console service is running at port " + h.port,
		Code:    200,
		Data:    map[string]string{"instance": config.GetInstanceId()},
	}
	h.CreateResponse(w, rsp)
}

var errMalformedLogin = errors.New("malformed login response")

// Close drops the open websockets.
func (h *Handler) Close() {
	h.ws.Close()
}
