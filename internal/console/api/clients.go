package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

func (c *Client) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := c.do(ctx, http.MethodGet, "/api/clients", nil, nil, &clients, "Failed to load clients"); err != nil {
		return nil, err
	}
	return clients, nil
}

func (c *Client) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	cl := &models.Client{}
	if err := c.do(ctx, http.MethodGet, "/api/clients/"+strconv.FormatInt(id, 10), nil, nil, cl, "Failed to load client"); err != nil {
		return nil, err
	}
	return cl, nil
}

func (c *Client) CreateClient(ctx context.Context, in models.Client) (*models.Client, error) {
	cl := &models.Client{}
	if err := c.do(ctx, http.MethodPost, "/api/clients", nil, in, cl, "Failed to create client"); err != nil {
		return nil, err
	}
	return cl, nil
}

func (c *Client) UpdateClient(ctx context.Context, in models.Client) (*models.Client, error) {
	cl := &models.Client{}
	if err := c.do(ctx, http.MethodPut, "/api/clients/"+strconv.FormatInt(in.ID, 10), nil, in, cl, "Failed to update client"); err != nil {
		return nil, err
	}
	return cl, nil
}

func (c *Client) DeleteClient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/clients/"+strconv.FormatInt(id, 10), nil, nil, nil, "Failed to delete client")
}
