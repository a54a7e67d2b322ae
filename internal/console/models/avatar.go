package models

// Avatar is a user avatar. The viewport fields are ratios of the original
// image and are either all set or all nil.
type Avatar struct {
	UserID       int64    `json:"user_id,omitempty"`
	URL          string   `json:"url"`
	ViewportX    *float64 `json:"viewport_x,omitempty"`
	ViewportY    *float64 `json:"viewport_y,omitempty"`
	ViewportSize *float64 `json:"viewport_size,omitempty"`
	Width        *float64 `json:"width,omitempty"`
	Height       *float64 `json:"height,omitempty"`
}

// HasViewport reports whether the avatar carries a complete viewport and
// original dimensions.
func (a *Avatar) HasViewport() bool {
	if a == nil {
		return false
	}
	return a.ViewportX != nil && a.ViewportY != nil && a.ViewportSize != nil &&
		a.Width != nil && a.Height != nil
}
