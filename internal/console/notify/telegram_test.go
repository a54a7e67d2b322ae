package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avvvet/nobleco-console/internal/console/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	msg := Message(models.AuditEntry{
		ActorEmail: "admin@nobleco.vn",
		Action:     "user.delete",
		Target:     "user:4",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	assert.Equal(t, "Nobleco console: user.delete\nBy: admin@nobleco.vn\nTarget: user:4\nAt: 10:04:05 02/01/2026", msg)

	assert.Contains(t, Message(models.AuditEntry{ActorID: 7, Action: "x"}), "By: user 7")
}

func TestNotifySendsToEveryChat(t *testing.T) {
	var chats []int64
	tn := &TelegramNotifier{
		chatIDs: []int64{11, 22, 33},
		send: func(c tgbotapi.Chattable) error {
			m := c.(tgbotapi.MessageConfig)
			chats = append(chats, m.ChatID)
			if m.ChatID == 22 {
				return errors.New("blocked")
			}
			return nil
		},
	}

	err := tn.Notify(context.Background(), models.AuditEntry{Action: "order.delete"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat 22")
	assert.Equal(t, []int64{11, 22, 33}, chats)
}

func TestNotifyDisabled(t *testing.T) {
	var tn *TelegramNotifier
	assert.NoError(t, tn.Notify(context.Background(), models.AuditEntry{}))
	assert.Nil(t, Init("", []int64{1}))
	assert.Nil(t, Init("token", nil))
}
