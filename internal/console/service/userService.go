package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/avvvet/nobleco-console/internal/console/api"
	"github.com/avvvet/nobleco-console/internal/console/models"
	log "github.com/sirupsen/logrus"
)

// UserRow is one line of the administrators or coworkers table.
type UserRow struct {
	models.User
	IsSelf    bool `json:"is_self"`
	CanDelete bool `json:"can_delete"`
}

type UserList struct {
	Kind  string    `json:"kind"`
	Rows  []UserRow `json:"rows"`
	Total int       `json:"total"`
}

type CreateUserInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type UserService struct {
	api   *api.Client
	audit *AuditService
}

func NewUserService(client *api.Client, audit *AuditService) *UserService {
	return &UserService{api: client, audit: audit}
}

// RoleFor maps a list kind to the role its members carry.
func RoleFor(kind string) (string, error) {
	switch kind {
	case api.UsersAdmin:
		return models.RoleAdmin, nil
	case api.UsersCoworkers:
		return models.RoleCoworker, nil
	}
	return "", invalid("kind", fmt.Sprintf("unknown user list %q", kind))
}

// List fetches, filters, sorts and pins. The endpoint already scopes by
// role; rows with another role are a contract violation and are dropped.
func (s *UserService) List(ctx context.Context, actor *models.User, kind string) (*UserList, error) {
	role, err := RoleFor(kind)
	if err != nil {
		return nil, err
	}

	users, err := s.api.ListUsers(ctx, kind)
	if err != nil {
		return nil, err
	}

	return BuildUserList(actor, kind, role, users), nil
}

// BuildUserList shapes a raw user list into table rows.
func BuildUserList(actor *models.User, kind, role string, users []models.User) *UserList {
	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role != role {
			log.Warnf("users?type=%s returned user %d with role %q", kind, u.ID, u.Role)
			continue
		}
		filtered = append(filtered, u)
	}

	SortByName(filtered)
	if actor.IsAdmin() {
		PinUser(filtered, actor.ID)
	}

	rows := make([]UserRow, len(filtered))
	for i, u := range filtered {
		self := actor != nil && u.ID == actor.ID
		canDelete := true
		if role == models.RoleAdmin {
			canDelete = !self && len(filtered) > 1
		}
		rows[i] = UserRow{User: u, IsSelf: self, CanDelete: canDelete}
	}

	return &UserList{Kind: kind, Rows: rows, Total: len(rows)}
}

// SortByName orders case-insensitively, keeping input order on ties.
func SortByName(users []models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
	})
}

// PinUser moves the user with id to index 0 without disturbing the rest.
func PinUser(users []models.User, id int64) {
	for i := range users {
		if users[i].ID != id {
			continue
		}
		pinned := users[i]
		copy(users[1:i+1], users[:i])
		users[0] = pinned
		return
	}
}

func ValidateNewUser(in CreateUserInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", "Name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return invalid("email", "Email is required")
	}
	if !strings.Contains(in.Email, "@") {
		return invalid("email", "Please enter a valid email address")
	}
	if in.Password == "" {
		return invalid("password", "Password is required")
	}
	if len([]rune(in.Password)) < MinPasswordLength {
		return invalid("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if in.Password != in.ConfirmPassword {
		return invalid("confirm_password", "Passwords do not match")
	}
	return nil
}

// Create validates, posts with the role fixed by kind and refetches.
func (s *UserService) Create(ctx context.Context, actor *models.User, kind string, in CreateUserInput) (*UserList, error) {
	role, err := RoleFor(kind)
	if err != nil {
		return nil, err
	}
	if err := ValidateNewUser(in); err != nil {
		return nil, err
	}

	created, err := s.api.CreateUser(ctx, api.NewUser{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Phone:    strings.TrimSpace(in.Phone),
		Password: in.Password,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionUserCreate, "user:"+strconv.FormatInt(created.ID, 10), role)

	return s.List(ctx, actor, kind)
}

// Delete refuses unconfirmed requests, self deletion and removing the last
// administrator, then refetches.
func (s *UserService) Delete(ctx context.Context, actor *models.User, kind string, id int64, confirmed bool) (*UserList, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	if actor != nil && actor.ID == id {
		return nil, ErrSelfDelete
	}

	list, err := s.List(ctx, actor, kind)
	if err != nil {
		return nil, err
	}
	row, ok := list.find(id)
	if !ok {
		return nil, ErrUserNotInList
	}
	if !row.CanDelete {
		return nil, ErrLastAdministrator
	}

	if err := s.api.DeleteUser(ctx, id); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, ActionUserDelete, "user:"+strconv.FormatInt(id, 10), row.Email)

	return s.List(ctx, actor, kind)
}

// ToggleStatus flips a coworker's status and returns only that row. The
// row is resolved from the coworker list; anyone else is not found.
func (s *UserService) ToggleStatus(ctx context.Context, actor *models.User, id int64) (*UserRow, error) {
	list, err := s.List(ctx, actor, api.UsersCoworkers)
	if err != nil {
		return nil, err
	}
	found, ok := list.find(id)
	if !ok {
		return nil, ErrUserNotInList
	}
	current := found.User
	if current.Status == "" {
		return nil, invalid("status", "The current status of this coworker is unknown")
	}

	next := current.FlippedStatus()
	updated, err := s.api.UpdateUserStatus(ctx, current.ID, next)
	if err != nil {
		return nil, err
	}

	row := current
	if updated != nil && updated.ID == current.ID {
		row = *updated
	}
	if row.Status == "" || row.Status == current.Status {
		row.Status = next
	}
	s.audit.Record(ctx, actor, ActionUserStatus, "user:"+strconv.FormatInt(current.ID, 10), next)

	return &UserRow{User: row, CanDelete: true}, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.api.GetUser(ctx, id)
}

func (l *UserList) find(id int64) (UserRow, bool) {
	for _, r := range l.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return UserRow{}, false
}

// IsGuardError reports whether err is one of the delete guards.
func IsGuardError(err error) bool {
	return errors.Is(err, ErrConfirmationRequired) || errors.Is(err, ErrLastAdministrator) ||
		errors.Is(err, ErrSelfDelete) || errors.Is(err, ErrTestPaymentUnavailable)
}
