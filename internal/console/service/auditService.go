package service

import (
	"context"
	"fmt"

	"github.com/avvvet/nobleco-console/internal/console/models"
	log "github.com/sirupsen/logrus"
)

const (
	ActionUserCreate       = "user.create"
	ActionUserDelete       = "user.delete"
	ActionUserStatus       = "user.status"
	ActionPermissions      = "permissions.replace"
	ActionOrderDelete      = "order.delete"
	ActionOrderTestPayment = "order.test_payment"
	ActionCommissionUpdate = "commission.update"
	ActionClientCreate     = "client.create"
	ActionClientUpdate     = "client.update"
	ActionClientDelete     = "client.delete"
	ActionCategoryCreate   = "category.create"
	ActionCategoryUpdate   = "category.update"
	ActionCategoryDelete   = "category.delete"
	ActionAvatarUpload     = "avatar.upload"
	ActionAvatarDelete     = "avatar.delete"
	ActionProfileUpdate    = "profile.update"
	ActionPasswordChange   = "profile.password"
	ActionLogin            = "auth.login"
	ActionLogout           = "auth.logout"
)

// sensitive actions are also pushed to the alert channel.
var sensitive = map[string]bool{
	ActionUserDelete:       true,
	ActionPermissions:      true,
	ActionOrderDelete:      true,
	ActionOrderTestPayment: true,
	ActionCommissionUpdate: true,
}

type AuditRecorder interface {
	Insert(ctx context.Context, e models.AuditEntry) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

type Notifier interface {
	Notify(ctx context.Context, e models.AuditEntry) error
}

// AuditService records console mutations. Without a store it only logs;
// audit failures never fail the mutation itself.
type AuditService struct {
	store    AuditRecorder
	notifier Notifier
}

func NewAuditService(store AuditRecorder, notifier Notifier) *AuditService {
	return &AuditService{store: store, notifier: notifier}
}

func (s *AuditService) Record(ctx context.Context, actor *models.User, action, target, detail string) {
	e := models.AuditEntry{Action: action, Target: target, Detail: detail}
	if actor != nil {
		e.ActorID = actor.ID
		e.ActorEmail = actor.Email
	}

	log.WithFields(log.Fields{
		"actor":  e.ActorEmail,
		"action": action,
		"target": target,
	}).Info("console audit")

	if s == nil {
		return
	}

	if s.store != nil {
		id, err := s.store.Insert(ctx, e)
		if err != nil {
			log.Errorf("Error [AuditStore.Insert] %s", err)
		}
		e.ID = id
	}

	if s.notifier != nil && sensitive[action] {
		if err := s.notifier.Notify(ctx, e); err != nil {
			log.Errorf("Error [Notifier.Notify] %s", err)
		}
	}
}

func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if s == nil || s.store == nil {
		return []models.AuditEntry{}, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load audit entries: %w", err)
	}
	return entries, nil
}
