package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

// HasPermission asks whether a coworker may open pagePath. Only an explicit
// true grants access.
func (c *Client) HasPermission(ctx context.Context, coworkerID int64, pagePath string) (bool, error) {
	var res struct {
		HasPermission bool `json:"hasPermission"`
	}
	q := url.Values{
		"coworkerId": {strconv.FormatInt(coworkerID, 10)},
		"pagePath":   {pagePath},
	}
	if err := c.do(ctx, http.MethodGet, "/api/coworker-permissions", q, nil, &res, "Failed to check permission"); err != nil {
		return false, err
	}
	return res.HasPermission, nil
}

// AvailablePages is the catalog of assignable admin pages.
func (c *Client) AvailablePages(ctx context.Context) ([]models.CoworkerPermission, error) {
	var pages []models.CoworkerPermission
	q := url.Values{"available": {"true"}}
	if err := c.do(ctx, http.MethodGet, "/api/coworker-permissions", q, nil, &pages, "Failed to load pages"); err != nil {
		return nil, err
	}
	return pages, nil
}

func (c *Client) CoworkerPermissions(ctx context.Context, coworkerID int64) ([]models.CoworkerPermission, error) {
	var perms []models.CoworkerPermission
	q := url.Values{"coworkerId": {strconv.FormatInt(coworkerID, 10)}}
	if err := c.do(ctx, http.MethodGet, "/api/coworker-permissions", q, nil, &perms, "Failed to load permissions"); err != nil {
		return nil, err
	}
	return perms, nil
}

// ReplacePermissions sends the complete set; the server replaces, not merges.
func (c *Client) ReplacePermissions(ctx context.Context, coworkerID int64, perms []models.PagePermission) error {
	if perms == nil {
		perms = []models.PagePermission{}
	}
	body := map[string]any{"coworkerId": coworkerID, "permissions": perms}
	return c.do(ctx, http.MethodPut, "/api/coworker-permissions", nil, body, nil, "Failed to save permissions")
}
