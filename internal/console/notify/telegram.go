package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avvvet/nobleco-console/internal/console/format"
	"github.com/avvvet/nobleco-console/internal/console/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// TelegramNotifier sends audit alerts to the configured chats.
type TelegramNotifier struct {
	chatIDs []int64
	send    func(c tgbotapi.Chattable) error
}

func NewTelegramNotifier(botToken string, chatIDs []int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &TelegramNotifier{
		chatIDs: chatIDs,
		send: func(c tgbotapi.Chattable) error {
			_, err := bot.Send(c)
			return err
		},
	}, nil
}

// Init returns nil (alerts disabled) when token or chats are missing.
func Init(botToken string, chatIDs []int64) *TelegramNotifier {
	if botToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set, notifications disabled")
		return nil
	}
	if len(chatIDs) == 0 {
		log.Warn("No telegram chat IDs configured, notifications disabled")
		return nil
	}

	notifier, err := NewTelegramNotifier(botToken, chatIDs)
	if err != nil {
		log.Errorf("Failed to initialize Telegram notifier: %v", err)
		return nil
	}

	log.Infof("Telegram notifier initialized with %d chat IDs", len(chatIDs))
	return notifier
}

// Notify sends one message per chat and reports every failed chat.
func (tn *TelegramNotifier) Notify(ctx context.Context, e models.AuditEntry) error {
	if tn == nil || tn.send == nil {
		return nil
	}

	text := Message(e)
	var errs []error
	for _, chatID := range tn.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, text)
		if err := tn.send(msg); err != nil {
			log.Errorf("Failed to send telegram message to chat %d: %v", chatID, err)
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

func Message(e models.AuditEntry) string {
	var b strings.Builder
	b.WriteString("Nobleco console: " + e.Action + "\n")
	actor := e.ActorEmail
	if actor == "" {
		actor = fmt.Sprintf("user %d", e.ActorID)
	}
	b.WriteString("By: " + actor + "\n")
	if e.Target != "" {
		b.WriteString("Target: " + e.Target + "\n")
	}
	if e.Detail != "" {
		b.WriteString("Detail: " + e.Detail + "\n")
	}
	if !e.CreatedAt.IsZero() {
		b.WriteString("At: " + format.DateTime(e.CreatedAt) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
