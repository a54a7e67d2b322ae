package service

import (
	"bytes"
	"context"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/avatar"
	"github.com/avvvet/nobleco-console/internal/console/events"
	"github.com/avvvet/nobleco-console/internal/console/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// AvatarUploadInput is a posted avatar file with the crop preview state.
type AvatarUploadInput struct {
	UserID      int64
	Filename    string
	ContentType string
	Data        []byte
	Crop        avatar.CropState
}

type AvatarService struct {
	api   *api.Client
	hub   *events.Hub
	audit *AuditService
}

func NewAvatarService(client *api.Client, hub *events.Hub, audit *AuditService) *AvatarService {
	return &AvatarService{api: client, hub: hub, audit: audit}
}

func (s *AvatarService) Get(ctx context.Context, userID int64) (*models.Avatar, error) {
	return s.api.GetAvatar(ctx, userID)
}

// Batch fetches avatars in parallel and joins before returning. A failed
// fetch yields a nil avatar for that user instead of failing the batch.
func (s *AvatarService) Batch(ctx context.Context, ids []int64) map[int64]*models.Avatar {
	results := make([]*models.Avatar, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			a, err := s.api.GetAvatar(gctx, id)
			if err != nil {
				log.Warnf("avatar for user %d: %s", id, err)
				return nil
			}
			results[i] = a
			return nil
		})
	}
	g.Wait()

	out := make(map[int64]*models.Avatar, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out
}

// Upload validates the file, encodes the crop against the decoded natural
// size and publishes AvatarUpdated on success.
func (s *AvatarService) Upload(ctx context.Context, actor *models.User, in AvatarUploadInput) (*models.Avatar, error) {
	if err := avatar.ValidateUpload(in.ContentType, int64(len(in.Data))); err != nil {
		return nil, invalid("file", err.Error())
	}

	w, h, err := avatar.NaturalSize(in.Data)
	if err != nil {
		return nil, invalid("file", err.Error())
	}
	crop := in.Crop
	crop.NaturalWidth, crop.NaturalHeight = w, h

	vp, err := avatar.EncodeViewport(crop)
	if err != nil {
		return nil, invalid("crop", err.Error())
	}

	a, err := s.api.UploadAvatar(ctx, api.AvatarUpload{
		UserID:         in.UserID,
		Filename:       in.Filename,
		ContentType:    in.ContentType,
		File:           bytes.NewReader(in.Data),
		Viewport:       vp,
		OriginalWidth:  w,
		OriginalHeight: h,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, ActionAvatarUpload, "user:"+strconv.FormatInt(in.UserID, 10), a.URL)
	s.hub.Publish(events.AvatarUpdated{UserID: in.UserID, AvatarURL: a.URL})
	return a, nil
}

func (s *AvatarService) Delete(ctx context.Context, actor *models.User, userID int64) error {
	if err := s.api.DeleteAvatar(ctx, userID); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, ActionAvatarDelete, "user:"+strconv.FormatInt(userID, 10), "")
	s.hub.Publish(events.AvatarUpdated{UserID: userID})
	return nil
}
