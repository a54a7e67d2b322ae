package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

func (c *Client) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p := &models.Product{}
	if err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(id, 10), nil, nil, p, "Failed to load product"); err != nil {
		return nil, err
	}
	return p, nil
}
