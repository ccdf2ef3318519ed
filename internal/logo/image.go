package logo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"

	xdraw "golang.org/x/image/draw"

	"brandmock/internal/domain"
)

// maxImageBytes bounds how much of a remote image is read into memory.
const maxImageBytes = 16 << 20

// FetchImage downloads and decodes a raster image. PNG, JPEG, and GIF are
// understood; anything else fails with ErrDecodeFailed.
func FetchImage(ctx context.Context, client *http.Client, rawURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch image: http %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	return img, nil
}

// NormalizeRGB re-encodes any decoded image as a PNG backed by a plain RGBA
// raster, so downstream consumers see one predictable format regardless of
// what the rendering service emitted.
func NormalizeRGB(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	return buf.Bytes(), nil
}

// ResizeLogo scales a decoded logo to the given bounds with Catmull-Rom
// interpolation.
func ResizeLogo(img image.Image, width, height int) image.Image {
	if width <= 0 || height <= 0 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}

// PrepareLogo decodes a raw logo asset and resizes it to a template's target
// size. Vector assets cannot be rasterized here and report
// ErrUnsupportedFormat instead of failing the pipeline.
func PrepareLogo(data []byte, format domain.LogoFormat, width, height int) (image.Image, error) {
	if format == domain.FormatSVG {
		return nil, fmt.Errorf("svg logo: %w", domain.ErrUnsupportedFormat)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	return ResizeLogo(img, width, height), nil
}
