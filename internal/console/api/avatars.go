package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/avvvet/nobleco-console/internal/console/avatar"
	"github.com/avvvet/nobleco-console/internal/console/models"
)

// AvatarUpload is the multipart payload of a new avatar.
type AvatarUpload struct {
	UserID         int64
	Filename       string
	ContentType    string
	File           io.Reader
	Viewport       avatar.Viewport
	OriginalWidth  float64
	OriginalHeight float64
}

// GetAvatar returns nil when the user has no avatar.
func (c *Client) GetAvatar(ctx context.Context, userID int64) (*models.Avatar, error) {
	var a *models.Avatar
	q := url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	if err := c.do(ctx, http.MethodGet, "/api/user-avatars", q, nil, &a, "Failed to load avatar"); err != nil {
		return nil, err
	}
	return a, nil
}

func (c *Client) UploadAvatar(ctx context.Context, up AvatarUpload) (*models.Avatar, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, up.Filename))
	header.Set("Content-Type", up.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, up.File); err != nil {
		return nil, fmt.Errorf("copy avatar file: %w", err)
	}

	viewport, err := json.Marshal(up.Viewport)
	if err != nil {
		return nil, fmt.Errorf("marshal viewport: %w", err)
	}
	fields := map[string]string{
		"userId":          strconv.FormatInt(up.UserID, 10),
		"viewport":        string(viewport),
		"original_width":  strconv.FormatFloat(up.OriginalWidth, 'f', -1, 64),
		"original_height": strconv.FormatFloat(up.OriginalHeight, 'f', -1, 64),
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/user-avatars", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	a := &models.Avatar{}
	if err := c.send(req, a, "Failed to upload avatar"); err != nil {
		return nil, err
	}
	return a, nil
}

func (c *Client) DeleteAvatar(ctx context.Context, userID int64) error {
	q := url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	return c.do(ctx, http.MethodDelete, "/api/user-avatars", q, nil, nil, "Failed to delete avatar")
}
