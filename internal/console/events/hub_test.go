package events

import (
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRelay struct {
	events []Event
	err    error
}

func (r *recordingRelay) Relay(e Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestHubTypedSubscribe(t *testing.T) {
	h := NewHub()

	var avatars []AvatarUpdated
	var all int
	stopAvatars := On(h, func(e AvatarUpdated) { avatars = append(avatars, e) })
	stopAll := h.Subscribe(func(Event) { all++ })

	h.Publish(AvatarUpdated{UserID: 1, AvatarURL: "a.png"})
	h.Publish(SessionChanged{UserID: 1, LoggedIn: true})

	require.Len(t, avatars, 1)
	assert.Equal(t, "a.png", avatars[0].AvatarURL)
	assert.Equal(t, 2, all)

	stopAvatars()
	stopAvatars()
	stopAll()
	assert.Equal(t, 0, h.Subscribers())

	h.Publish(AvatarUpdated{UserID: 2})
	assert.Len(t, avatars, 1)
}

func TestHubRelayFailureStillDeliversLocally(t *testing.T) {
	h := NewHub()
	r := &recordingRelay{err: errors.New("down")}
	h.SetRelay(r)

	got := 0
	On(h, func(SessionChanged) { got++ })
	h.Publish(SessionChanged{UserID: 4})

	assert.Equal(t, 1, got)
	assert.Len(t, r.events, 1)
}

func TestBrokerDeliversRemoteEventsOnly(t *testing.T) {
	h := NewHub()
	local := &Broker{Hub: h, Origin: "instance-a"}
	remote := &Broker{Hub: NewHub(), Origin: "instance-b"}

	var got []AvatarUpdated
	On(h, func(e AvatarUpdated) { got = append(got, e) })

	payload, err := remote.encode(AvatarUpdated{UserID: 8, AvatarURL: "x.jpg"})
	require.NoError(t, err)
	local.handleMessage(&nats.Msg{Subject: Subject, Data: payload})

	own, err := local.encode(AvatarUpdated{UserID: 9})
	require.NoError(t, err)
	local.handleMessage(&nats.Msg{Subject: Subject, Data: own})

	local.handleMessage(&nats.Msg{Subject: Subject, Data: []byte("not json")})

	require.Len(t, got, 1)
	assert.Equal(t, int64(8), got[0].UserID)
	assert.Equal(t, "x.jpg", got[0].AvatarURL)
}

func TestDecodeUnknownType(t *testing.T) {
	_, err := Decode("mystery", []byte(`{}`))
	assert.Error(t, err)
}
