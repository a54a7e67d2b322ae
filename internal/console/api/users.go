package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

const (
	UsersAdmin     = "admin"
	UsersCoworkers = "coworkers"
)

type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// ProfileUpdate is the self-service PATCH body; empty fields are omitted.
type ProfileUpdate struct {
	Name            string `json:"name,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context, kind string) ([]models.User, error) {
	var users []models.User
	q := url.Values{"type": {kind}}
	if err := c.do(ctx, http.MethodGet, "/api/users", q, nil, &users, "Failed to load users"); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	if err := c.do(ctx, http.MethodGet, "/api/users/"+strconv.FormatInt(id, 10), nil, nil, u, "Failed to load user"); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) CreateUser(ctx context.Context, nu NewUser) (*models.User, error) {
	u := &models.User{}
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, nu, u, "Failed to create user"); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) UpdateUserStatus(ctx context.Context, id int64, status string) (*models.User, error) {
	body := map[string]any{"id": id, "status": status}
	u := &models.User{}
	if err := c.do(ctx, http.MethodPut, "/api/users", nil, body, u, "Failed to update status"); err != nil {
		return nil, err
	}
	return u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	body := map[string]any{"id": id}
	return c.do(ctx, http.MethodDelete, "/api/users", nil, body, nil, "Failed to delete user")
}

func (c *Client) UpdateProfile(ctx context.Context, p ProfileUpdate) (*models.User, error) {
	u := &models.User{}
	if err := c.do(ctx, http.MethodPatch, "/api/users/profile", nil, p, u, "Failed to update profile"); err != nil {
		return nil, err
	}
	return u, nil
}
