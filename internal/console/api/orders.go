package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &orders, "Failed to load orders"); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	o := &models.Order{}
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+strconv.FormatInt(id, 10), nil, nil, o, "Failed to load order"); err != nil {
		return nil, err
	}
	return o, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/orders/"+strconv.FormatInt(id, 10), nil, nil, nil, "Failed to delete order")
}

func (c *Client) TestPayment(ctx context.Context, id int64) error {
	path := "/api/orders/" + strconv.FormatInt(id, 10) + "/test-payment"
	return c.do(ctx, http.MethodPost, path, nil, struct{}{}, nil, "Test payment failed")
}
