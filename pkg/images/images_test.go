package images_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/foomo/sitegen/pkg/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		img.Set(x, height/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeDataURI(t *testing.T, uri string) image.Image {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestCompress_Downsizes(t *testing.T) {
	uri, err := images.Compress(testPNG(t, 2400, 1200), images.DefaultOptions)
	require.NoError(t, err)

	img := decodeDataURI(t, uri)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestCompress_KeepsSmallImages(t *testing.T) {
	uri, err := images.Compress(testPNG(t, 300, 200), images.DefaultOptions)
	require.NoError(t, err)

	img := decodeDataURI(t, uri)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestCompress_Invalid(t *testing.T) {
	_, err := images.Compress([]byte("not an image"), images.DefaultOptions)
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	w, h := images.Fit(1000, 3000, 1200, 1200)
	assert.Equal(t, 400, w)
	assert.Equal(t, 1200, h)

	w, h = images.Fit(800, 600, 1200, 1200)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestDataURI(t *testing.T) {
	assert.Equal(t, "data:text/plain;base64,aGk=", images.DataURI([]byte("hi"), "text/plain"))
	assert.True(t, strings.HasPrefix(images.DataURI(testPNG(t, 1, 1), ""), "data:image/png;base64,"))
}
