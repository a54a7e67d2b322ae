package api

import (
	"context"
	"net/http"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

func (c *Client) ListCommissionRates(ctx context.Context) ([]models.CommissionRate, error) {
	var rates []models.CommissionRate
	if err := c.do(ctx, http.MethodGet, "/api/commission-rates", nil, nil, &rates, "Failed to load commission rates"); err != nil {
		return nil, err
	}
	return rates, nil
}

func (c *Client) UpdateCommissionRates(ctx context.Context, rates []models.CommissionRate) error {
	body := map[string]any{"rates": rates}
	return c.do(ctx, http.MethodPatch, "/api/commission-rates", nil, body, nil, "Failed to save commission rates")
}
