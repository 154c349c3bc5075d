package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"net/http"

	// decoders for uploaded images
	_ "image/gif"
	_ "image/png"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type Options struct {
	MaxWidth  int
	MaxHeight int
	// Quality jpeg quality 1-100
	Quality int
}

// DefaultOptions fit uploads into 1200x1200 at 70% jpeg quality
var DefaultOptions = Options{
	MaxWidth:  1200,
	MaxHeight: 1200,
	Quality:   70,
}

// Compress decodes data, downsizes it to fit the bounds preserving the aspect ratio and
// returns it as a jpeg data URI
func Compress(data []byte, opts Options) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "failed to decode image")
	}

	width, height := Fit(src.Bounds().Dx(), src.Bounds().Dy(), opts.MaxWidth, opts.MaxHeight)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// jpeg has no alpha channel
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return "", errors.Wrap(err, "failed to encode image")
	}
	return DataURI(buf.Bytes(), "image/jpeg"), nil
}

// Fit returns the dimensions of width x height scaled down to fit maxWidth x maxHeight
func Fit(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 || (width <= maxWidth && height <= maxHeight) {
		return width, height
	}
	ratio := min(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	w := int(float64(width)*ratio + 0.5)
	h := int(float64(height)*ratio + 0.5)
	return max(w, 1), max(h, 1)
}

// DataURI encodes data as a base64 data URI. An empty mime type is sniffed from data.
func DataURI(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
