package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/avatar"
	"github.com/avvvet/nobleco-console/internal/console/events"
	"github.com/avvvet/nobleco-console/internal/console/format"
	"github.com/avvvet/nobleco-console/internal/console/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ProfileAvatarSize is the avatar diameter in the profile and detail modals.
const ProfileAvatarSize = 120

type ProfileView struct {
	User           models.User    `json:"user"`
	Avatar         *models.Avatar `json:"avatar"`
	AvatarView     avatar.View    `json:"avatar_view"`
	SignupURL      string         `json:"signup_url,omitempty"`
	PointsDisplay  string         `json:"points_display"`
	CreatedDisplay string         `json:"created_display"`
}

type ProfileInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type PasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ProfileService struct {
	api           *api.Client
	hub           *events.Hub
	audit         *AuditService
	signupBaseURL string
}

func NewProfileService(client *api.Client, hub *events.Hub, audit *AuditService, signupBaseURL string) *ProfileService {
	return &ProfileService{api: client, hub: hub, audit: audit, signupBaseURL: signupBaseURL}
}

// SignupURL is the referral link for code; empty when there is no code.
func SignupURL(base, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("ref", code)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *ProfileService) SignupURL(code string) string {
	return SignupURL(s.signupBaseURL, code)
}

// Get loads a user and their avatar in parallel. A missing or failing
// avatar renders the initials placeholder.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*ProfileView, error) {
	var user *models.User
	var av *models.Avatar

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.api.GetUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		a, err := s.api.GetAvatar(gctx, userID)
		if err != nil {
			log.Warnf("avatar for user %d: %s", userID, err)
			return nil
		}
		av = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ProfileView{
		User:           *user,
		Avatar:         av,
		AvatarView:     avatar.NewView(user.Name, av, ProfileAvatarSize),
		SignupURL:      s.SignupURL(user.ReferCode),
		PointsDisplay:  format.Number(user.Points),
		CreatedDisplay: format.Date(user.CreatedAt),
	}, nil
}

func ValidateProfile(in ProfileInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "Name is required")
	}
	return nil
}

func (s *ProfileService) Update(ctx context.Context, actor *models.User, in ProfileInput) (*models.User, error) {
	if err := ValidateProfile(in); err != nil {
		return nil, err
	}
	u, err := s.api.UpdateProfile(ctx, api.ProfileUpdate{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	})
	if err != nil {
		return nil, err
	}
	if u.ID == 0 && actor != nil {
		merged := *actor
		merged.Name, merged.Phone, merged.Address = strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone), strings.TrimSpace(in.Address)
		u = &merged
	}
	s.audit.Record(ctx, actor, ActionProfileUpdate, "user:"+strconv.FormatInt(u.ID, 10), "")
	s.hub.Publish(events.SessionChanged{UserID: u.ID, LoggedIn: true})
	return u, nil
}

func ValidatePasswordChange(in PasswordInput) error {
	if in.CurrentPassword == "" {
		return invalid("current_password", "Current password is required")
	}
	if len([]rune(in.NewPassword)) < MinPasswordLength {
		return invalid("new_password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if in.NewPassword != in.ConfirmPassword {
		return invalid("confirm_password", "Passwords do not match")
	}
	if in.NewPassword == in.CurrentPassword {
		return invalid("new_password", "New password must be different from the current password")
	}
	return nil
}

func (s *ProfileService) ChangePassword(ctx context.Context, actor *models.User, in PasswordInput) error {
	if err := ValidatePasswordChange(in); err != nil {
		return err
	}
	_, err := s.api.UpdateProfile(ctx, api.ProfileUpdate{
		CurrentPassword: in.CurrentPassword,
		NewPassword:     in.NewPassword,
	})
	if err != nil {
		return err
	}
	s.audit.Record(ctx, actor, ActionPasswordChange, "", "")
	return nil
}
