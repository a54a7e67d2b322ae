package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/avvvet/nobleco-console/internal/comm"
	"github.com/avvvet/nobleco-console/internal/console/events"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	sendBuffer = 16
)

type socket struct {
	id     string
	userID int64
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

func (s *socket) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// offer queues raw without blocking. open is false once the socket was
// closed; queued is false when the frame was not taken.
func (s *socket) offer(raw []byte) (queued, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, false
	}
	select {
	case s.send <- raw:
		return true, true
	default:
		return false, true
	}
}

// Ws keeps the open console sockets and fans hub events out to them.
type Ws struct {
	connMap sync.Map // socketId -> *socket
	stop    func()
}

func NewWs(hub *events.Hub) *Ws {
	s := &Ws{stop: func() {}}
	if hub != nil {
		s.stop = hub.Subscribe(s.dispatch)
	}
	return s
}

func (s *Ws) StoreConnection(sock *socket) {
	s.connMap.Store(sock.id, sock)
}

func (s *Ws) GetConnection(socketId string) (*socket, bool) {
	v, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return v.(*socket), true
}

func (s *Ws) HandleDisconnect(socketId string) {
	if v, ok := s.connMap.LoadAndDelete(socketId); ok {
		v.(*socket).close()
	}
}

func (s *Ws) Count() int {
	n := 0
	s.connMap.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close detaches from the hub and drops every socket.
func (s *Ws) Close() {
	s.stop()
	s.connMap.Range(func(key, _ any) bool {
		s.HandleDisconnect(key.(string))
		return true
	})
}

// dispatch sends avatar changes to every socket and session changes only
// to the sockets of the user they concern.
func (s *Ws) dispatch(e events.Event) {
	var userID int64
	switch ev := e.(type) {
	case events.AvatarUpdated:
	case events.SessionChanged:
		userID = ev.UserID
	default:
		return
	}

	msg, err := comm.NewWSMessage(e.EventType(), "", e)
	if err != nil {
		log.Errorf("encode %s for sockets: %v", e.EventType(), err)
		return
	}

	s.connMap.Range(func(_, v any) bool {
		sock := v.(*socket)
		if userID != 0 && sock.userID != userID {
			return true
		}
		msg.SocketId = sock.id
		raw, err := json.Marshal(msg)
		if err != nil {
			return true
		}
		s.push(sock, raw)
		return true
	})
}

// push never blocks the publisher; a socket that cannot keep up loses the frame.
func (s *Ws) push(sock *socket, raw []byte) {
	if queued, open := sock.offer(raw); open && !queued {
		log.Warnf("socket %s is slow, dropping frame", sock.id)
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	_, user := currentUser(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	sock := &socket{
		id:     uuid.New().String(),
		userID: user.ID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	h.ws.StoreConnection(sock)
	log.Infof("New WebSocket connection established: %s user %d", sock.id, user.ID)

	if hello, err := comm.NewWSMessage(comm.TypeHello, sock.id, comm.Hello{SocketId: sock.id, UserId: user.ID}); err == nil {
		if raw, err := json.Marshal(hello); err == nil {
			h.ws.push(sock, raw)
		}
	}

	go h.writeLoop(sock)
	go h.handleConnection(sock)
}

func (h *Handler) writeLoop(sock *socket) {
	for raw := range sock.send {
		sock.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sock.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			log.Errorf("write to socket %s: %v", sock.id, err)
			sock.conn.Close()
			h.ws.HandleDisconnect(sock.id)
			for range sock.send {
			}
			return
		}
	}
	sock.conn.SetWriteDeadline(time.Now().Add(writeWait))
	sock.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Handler) handleConnection(sock *socket) {
	defer func() {
		log.Infof("Closing WebSocket connection: %s", sock.id)
		h.ws.HandleDisconnect(sock.id)
		sock.conn.Close()
	}()

	sock.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		_, raw, err := sock.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Errorf("WebSocket unexpected close error for socket %s: %v", sock.id, err)
			}
			return
		}
		sock.conn.SetReadDeadline(time.Now().Add(pongWait))

		message := comm.WSMessage{}
		if err := json.Unmarshal(raw, &message); err != nil {
			log.Warnf("Failed to unmarshal message from socket %s: %v", sock.id, err)
			continue
		}

		switch message.Type {
		case comm.TypePing:
			pong := comm.WSMessage{Type: comm.TypePong, SocketId: sock.id}
			if out, err := json.Marshal(pong); err == nil {
				h.ws.push(sock, out)
			}
		default:
			log.Debugf("ignoring %q from socket %s", message.Type, sock.id)
		}
	}
}

// originChecker accepts same-host requests and the configured CORS origins.
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if allowed["*"] || allowed[strings.ToLower(origin)] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}
