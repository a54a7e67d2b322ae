// Package avatar holds the avatar framing rules shared by every place the
// console shows a user picture: header, table rows and modals.
package avatar

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

// Palette is the fixed placeholder background palette.
var Palette = [8]string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444",
	"#8B5CF6", "#EC4899", "#14B8A6", "#F97316",
}

// Styles is the inline style descriptor of a circular avatar image.
type Styles struct {
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	BorderRadius    string  `json:"borderRadius"`
	ObjectFit       string  `json:"objectFit"`
	ObjectPosition  string  `json:"objectPosition"`
	Transform       string  `json:"transform,omitempty"`
	TransformOrigin string  `json:"transformOrigin,omitempty"`
}

// ViewportStyles maps an avatar and a display diameter to its styles.
// Avatars without a complete viewport render centered and cover-fit.
func ViewportStyles(a *models.Avatar, diameter float64) Styles {
	plain := Styles{
		Width:          diameter,
		Height:         diameter,
		BorderRadius:   "50%",
		ObjectFit:      "cover",
		ObjectPosition: "center",
	}
	if !a.HasViewport() {
		return plain
	}

	larger := math.Max(*a.Width, *a.Height)
	viewportSizePx := larger * *a.ViewportSize
	if viewportSizePx <= 0 {
		return plain
	}

	position := percent(*a.ViewportX) + " " + percent(*a.ViewportY)
	scale := math.Max(1, diameter/viewportSizePx)

	plain.ObjectPosition = position
	plain.Transform = "scale(" + number(scale) + ")"
	plain.TransformOrigin = position
	return plain
}

// CSS renders the styles as an inline style attribute value.
func (s Styles) CSS() string {
	parts := []string{
		"width: " + number(s.Width) + "px",
		"height: " + number(s.Height) + "px",
		"border-radius: " + s.BorderRadius,
		"object-fit: " + s.ObjectFit,
		"object-position: " + s.ObjectPosition,
	}
	if s.Transform != "" {
		parts = append(parts,
			"transform: "+s.Transform,
			"transform-origin: "+s.TransformOrigin,
		)
	}
	return strings.Join(parts, "; ")
}

// Initial returns the uppercase first letter of name, "?" when blank.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

// Color picks a palette color from a stable hash of name.
func Color(name string) string {
	if name == "" {
		return Palette[0]
	}
	var h int32
	for _, r := range name {
		h = int32(r) + ((h << 5) - h)
	}
	idx := int64(h)
	if idx < 0 {
		idx = -idx
	}
	return Palette[idx%int64(len(Palette))]
}

// View is everything a template needs to draw one avatar. ImageFailed
// switches rendering to the initials placeholder.
type View struct {
	URL         string `json:"url,omitempty"`
	Styles      Styles `json:"styles"`
	Initial     string `json:"initial"`
	Color       string `json:"color"`
	ImageFailed bool   `json:"image_failed"`
}

func NewView(name string, a *models.Avatar, diameter float64) View {
	v := View{
		Styles:      ViewportStyles(a, diameter),
		Initial:     Initial(name),
		Color:       Color(name),
		ImageFailed: a == nil || a.URL == "",
	}
	if a != nil {
		v.URL = a.URL
	}
	return v
}

func percent(ratio float64) string {
	return number(ratio*100) + "%"
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
