package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	return img
}

func TestProcess_ResizesPNGKeepingRatio(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(1200, 600)))

	res, err := NewProcessor(85, 600).Process(&buf)
	require.NoError(t, err)

	assert.Equal(t, 600, res.Width)
	assert.Equal(t, 300, res.Height)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, ".png", res.Ext)

	decoded, _, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 600, decoded.Bounds().Dx())
}

func TestProcess_DoesNotUpscaleAndConvertsGIF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(100, 50), nil))

	res, err := NewProcessor(0, 600).Process(&buf)
	require.NoError(t, err)

	assert.Equal(t, 100, res.Width)
	assert.Equal(t, "image/jpeg", res.ContentType)
	assert.Equal(t, ".jpg", res.Ext)
}

func TestProcess_RejectsGarbage(t *testing.T) {
	_, err := NewProcessor(85, 600).Process(strings.NewReader("not an image"))
	assert.Error(t, err)
}
