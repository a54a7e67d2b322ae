package api

import (
	"context"
	"net/http"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	res := &LoginResult{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, res, "Invalid email or password"); err != nil {
		return nil, err
	}
	return res, nil
}
