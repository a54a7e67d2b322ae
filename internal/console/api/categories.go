package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &cats, "Failed to load categories"); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Client) CreateCategory(ctx context.Context, in models.Category) (*models.Category, error) {
	cat := &models.Category{}
	if err := c.do(ctx, http.MethodPost, "/api/categories", nil, in, cat, "Failed to create category"); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, in models.Category) (*models.Category, error) {
	cat := &models.Category{}
	if err := c.do(ctx, http.MethodPut, "/api/categories/"+strconv.FormatInt(in.ID, 10), nil, in, cat, "Failed to update category"); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+strconv.FormatInt(id, 10), nil, nil, nil, "Failed to delete category")
}
