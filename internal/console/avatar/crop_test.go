package avatar

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/nobleco-console/internal/console/models"
)

func TestEncodeViewportCentered(t *testing.T) {
	st := CropState{
		ContainerWidth:  400,
		ContainerHeight: 300,
		RenderedWidth:   640,
		RenderedHeight:  480,
		NaturalWidth:    640,
		NaturalHeight:   480,
		Scale:           1,
		FrameSize:       200,
		DisplaySize:     120,
	}

	v, err := EncodeViewport(st)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v.X, 1e-9)
	assert.InDelta(t, 0.5, v.Y, 1e-9)
	assert.Equal(t, float64(200), v.Width)
	assert.Equal(t, float64(200), v.Height)
	assert.Equal(t, float64(120), v.DisplaySize)
	assert.InDelta(t, 200.0/640.0, v.Size, 1e-9)
}

func TestEncodeViewportPannedAndZoomed(t *testing.T) {
	st := CropState{
		ContainerWidth:  400,
		ContainerHeight: 400,
		RenderedWidth:   800,
		RenderedHeight:  800,
		NaturalWidth:    400,
		NaturalHeight:   400,
		Scale:           2,
		PanX:            100,
		PanY:            -100,
		FrameSize:       200,
	}

	// image left = -200 + 100 = -100, frame center 200 -> 300px scaled -> 150 natural
	v, err := EncodeViewport(st)
	require.NoError(t, err)
	assert.InDelta(t, 150.0/400.0, v.X, 1e-9)
	assert.InDelta(t, 250.0/400.0, v.Y, 1e-9)
}

func TestEncodeViewportRoundTrip(t *testing.T) {
	st := CropState{
		ContainerWidth: 300, ContainerHeight: 300,
		RenderedWidth: 500, RenderedHeight: 250,
		NaturalWidth: 500, NaturalHeight: 250,
		Scale: 1, FrameSize: 100, DisplaySize: 100,
	}
	v, err := EncodeViewport(st)
	require.NoError(t, err)

	w, h := st.NaturalWidth, st.NaturalHeight
	a := &models.Avatar{URL: "x", ViewportX: &v.X, ViewportY: &v.Y, ViewportSize: &v.Size, Width: &w, Height: &h}
	s := ViewportStyles(a, st.DisplaySize)
	assert.Equal(t, "50% 50%", s.ObjectPosition)
	assert.Equal(t, "scale(1)", s.Transform)
}

func TestEncodeViewportNotLaidOut(t *testing.T) {
	_, err := EncodeViewport(CropState{ContainerWidth: 300, ContainerHeight: 300, NaturalWidth: 10, NaturalHeight: 10})
	assert.ErrorIs(t, err, ErrImageNotLaidOut)

	_, err = EncodeViewport(CropState{RenderedWidth: 10, RenderedHeight: 10, NaturalWidth: 10, NaturalHeight: 10})
	assert.ErrorIs(t, err, ErrImageNotLaidOut)

	_, err = EncodeViewport(CropState{ContainerWidth: 1, ContainerHeight: 1, RenderedWidth: 1, RenderedHeight: 1})
	assert.ErrorIs(t, err, ErrUnknownSize)
}

func TestClampPan(t *testing.T) {
	x, y := ClampPan(500, -500, 300, 200)
	assert.Equal(t, float64(150), x)
	assert.Equal(t, float64(-100), y)

	x, y = ClampPan(20, -30, 300, 200)
	assert.Equal(t, float64(20), x)
	assert.Equal(t, float64(-30), y)
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("image/png", 1024))
	assert.NoError(t, ValidateUpload("image/jpeg; charset=binary", 1024))
	assert.ErrorIs(t, ValidateUpload("application/pdf", 1024), ErrFileType)
	assert.ErrorIs(t, ValidateUpload("image/png", MaxUploadBytes+1), ErrFileTooLarge)
	assert.ErrorIs(t, ValidateUpload("image/png", 0), ErrEmptyFile)
}

func TestNaturalSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 32))))

	w, h, err := NaturalSize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, float64(64), w)
	assert.Equal(t, float64(32), h)

	_, _, err = NaturalSize([]byte("not an image"))
	assert.ErrorIs(t, err, ErrUnknownSize)
}

func TestNaturalSizeRefusesHugeDimensions(t *testing.T) {
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, MaxDimension+1, 1),
		image.Rect(0, 0, 1, 12000),
	} {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewGray(r)))
		require.NoError(t, ValidateUpload("image/png", int64(buf.Len())))

		_, _, err := NaturalSize(buf.Bytes())
		assert.ErrorIs(t, err, ErrImageTooLarge)
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, MaxDimension, 1))))
	w, _, err := NaturalSize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, float64(MaxDimension), w)
}
