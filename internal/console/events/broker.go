package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avvvet/nobleco-console/internal/comm"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const Subject = "console.events"

// Broker bridges the hub over NATS so every console instance sees events
// published on any other.
type Broker struct {
	Conn   *nats.Conn
	Hub    *Hub
	Origin string
}

func NewBroker(conn *nats.Conn, hub *Hub, origin string) *Broker {
	b := &Broker{Conn: conn, Hub: hub, Origin: origin}
	hub.SetRelay(b)
	return b
}

func (b *Broker) Subscribe() (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(Subject, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) Relay(e Event) error {
	payload, err := b.encode(e)
	if err != nil {
		return err
	}
	if err := b.Conn.Publish(Subject, payload); err != nil {
		log.Errorf("Error publishing to topic %s: %s", Subject, err)
		return err
	}
	return nil
}

func (b *Broker) encode(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(comm.Envelope{
		Origin: b.Origin,
		Type:   e.EventType(),
		Data:   data,
		SentAt: time.Now().UTC(),
	})
}

// handleMessage delivers events of other instances to local subscribers.
func (b *Broker) handleMessage(msg *nats.Msg) {
	env := comm.Envelope{}
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}
	if env.Origin == b.Origin {
		return
	}

	e, err := Decode(env.Type, env.Data)
	if err != nil {
		log.Warn(err)
		return
	}
	b.Hub.Deliver(e)
}

func Decode(eventType string, data json.RawMessage) (Event, error) {
	switch eventType {
	case comm.TypeAvatarUpdated:
		e := AvatarUpdated{}
		err := json.Unmarshal(data, &e)
		return e, err
	case comm.TypeSessionChanged:
		e := SessionChanged{}
		err := json.Unmarshal(data, &e)
		return e, err
	}
	return nil, fmt.Errorf("unknown event type %q", eventType)
}
