package avatar

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

const MaxUploadBytes = 5 << 20

// MaxDimension caps either side of an uploaded image, checked from the
// header before the bitmap is decoded.
const MaxDimension = 8000

var (
	ErrImageNotLaidOut = errors.New("The image is not ready yet, please wait a moment and try again")
	ErrUnknownSize     = errors.New("Could not read the image dimensions")
	ErrFileType        = errors.New("Please select an image file (JPEG, PNG or GIF)")
	ErrFileTooLarge    = errors.New("Image must be 5MB or smaller")
	ErrEmptyFile       = errors.New("Please select an image")
	ErrImageTooLarge   = errors.New("Image dimensions must be 8000x8000 pixels or smaller")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// CropState is the measured state of the crop preview when the user saves.
// Rendered sizes are the on-screen image box after zoom; Scale is the zoom.
type CropState struct {
	ContainerWidth  float64 `json:"container_width"`
	ContainerHeight float64 `json:"container_height"`
	RenderedWidth   float64 `json:"rendered_width"`
	RenderedHeight  float64 `json:"rendered_height"`
	NaturalWidth    float64 `json:"natural_width"`
	NaturalHeight   float64 `json:"natural_height"`
	Scale           float64 `json:"scale"`
	PanX            float64 `json:"pan_x"`
	PanY            float64 `json:"pan_y"`
	FrameSize       float64 `json:"frame_size"`
	DisplaySize     float64 `json:"display_size"`
}

// Viewport is the descriptor sent with the uploaded file. X and Y are the
// frame center as ratios of the original image, Size is the frame diameter
// as a ratio of the larger original dimension.
type Viewport struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	DisplaySize float64 `json:"displaySize"`
	Size        float64 `json:"size"`
}

// EncodeViewport maps the frame center of the crop preview back onto the
// original image.
func EncodeViewport(st CropState) (Viewport, error) {
	if st.ContainerWidth <= 0 || st.ContainerHeight <= 0 ||
		st.RenderedWidth <= 0 || st.RenderedHeight <= 0 {
		return Viewport{}, ErrImageNotLaidOut
	}
	if st.NaturalWidth <= 0 || st.NaturalHeight <= 0 {
		return Viewport{}, ErrUnknownSize
	}
	scale := st.Scale
	if scale <= 0 {
		scale = 1
	}

	frameCenterX := st.ContainerWidth / 2
	frameCenterY := st.ContainerHeight / 2

	imageLeft := (st.ContainerWidth-st.RenderedWidth)/2 + st.PanX
	imageTop := (st.ContainerHeight-st.RenderedHeight)/2 + st.PanY

	relX := (frameCenterX - imageLeft) / scale
	relY := (frameCenterY - imageTop) / scale

	size := 0.0
	if st.FrameSize > 0 {
		size = clampRatio(st.FrameSize / scale / math.Max(st.NaturalWidth, st.NaturalHeight))
	}

	return Viewport{
		X:           clampRatio(relX / st.NaturalWidth),
		Y:           clampRatio(relY / st.NaturalHeight),
		Width:       st.FrameSize,
		Height:      st.FrameSize,
		DisplaySize: st.DisplaySize,
		Size:        size,
	}, nil
}

// ClampPan keeps the image within half a container of center.
func ClampPan(panX, panY, containerWidth, containerHeight float64) (float64, float64) {
	limitX := containerWidth / 2
	limitY := containerHeight / 2
	return math.Max(-limitX, math.Min(limitX, panX)), math.Max(-limitY, math.Min(limitY, panY))
}

// ValidateUpload runs the file checks that must pass before any upload.
func ValidateUpload(contentType string, size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !allowedTypes[ct] {
		return ErrFileType
	}
	if size > MaxUploadBytes {
		return ErrFileTooLarge
	}
	return nil
}

// NaturalSize returns the dimensions the browser shows as natural size,
// with EXIF orientation applied. Oversized images are refused from their
// header alone.
func NaturalSize(data []byte) (float64, float64, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, ErrUnknownSize
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, ErrUnknownSize
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return 0, 0, ErrImageTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return 0, 0, ErrUnknownSize
	}
	b := img.Bounds()
	return float64(b.Dx()), float64(b.Dy()), nil
}

func clampRatio(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
