package comm

import (
	"encoding/json"
	"time"
)

// WSMessage is the frame exchanged with console browser tabs.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "avatar_updated", "session_changed"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

const (
	TypeHello          = "hello"
	TypePing           = "ping"
	TypePong           = "pong"
	TypeAvatarUpdated  = "avatar_updated"
	TypeSessionChanged = "session_changed"
)

// Envelope is what console instances exchange over NATS.
type Envelope struct {
	Origin string          `json:"origin"` // instance id
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data"`
	SentAt time.Time       `json:"sent_at"`
}

type Hello struct {
	SocketId string `json:"socketid"`
	UserId   int64  `json:"user_id"`
}

func NewWSMessage(msgType, socketID string, data any) (WSMessage, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return WSMessage{}, err
	}
	return WSMessage{Type: msgType, Data: raw, SocketId: socketID}, nil
}
