package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/url"
	"sync"

	"github.com/tair/catalog-admin/pkg/blobstore"
	"github.com/tair/catalog-admin/pkg/logger"
)

const (
	// PlaceholderPath is the blob key of the generated default image
	PlaceholderPath = blobDir + "default-placeholder.png"
	// PlaceholderSize is the width and height of the generated image in pixels
	PlaceholderSize = 800

	fallbackBase    = "https://via.placeholder.com/800x800/E5E7EB/9CA3AF?text="
	fallbackNameLen = 20
)

var (
	placeholderBackground = color.RGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}
	placeholderForeground = color.RGBA{R: 0x9C, G: 0xA3, B: 0xAF, A: 0xFF}
)

// Placeholder provisions the default product image in the blob store
type Placeholder struct {
	store blobstore.Store
	urls  *URLResolver

	mu    sync.Mutex
	ready bool
}

// NewPlaceholder creates a provisioner writing to store
func NewPlaceholder(store blobstore.Store, urls *URLResolver) *Placeholder {
	return &Placeholder{store: store, urls: urls}
}

// Ensure generates and stores the placeholder unless it already exists.
// A failed attempt is retried on the next call.
func (p *Placeholder) Ensure(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}

	exists, err := p.store.Exists(ctx, PlaceholderPath)
	if err != nil {
		return fmt.Errorf("check placeholder: %w", err)
	}
	if !exists {
		data, err := Render()
		if err != nil {
			return fmt.Errorf("render placeholder: %w", err)
		}
		if err := p.store.Put(ctx, PlaceholderPath, data, "image/png"); err != nil {
			return fmt.Errorf("store placeholder: %w", err)
		}
		logger.Info(ctx).Str("path", PlaceholderPath).Msg("Default product image generated")
	}

	p.ready = true
	return nil
}

// URL returns the public placeholder URL, or an external fallback built from
// name when the placeholder cannot be provisioned
func (p *Placeholder) URL(ctx context.Context, name string) string {
	if err := p.Ensure(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Placeholder unavailable, using fallback URL")
		return FallbackURL(name)
	}
	return p.urls.URL(PlaceholderPath)
}

// FallbackURL is the external placeholder service URL for a product name
func FallbackURL(name string) string {
	runes := []rune(name)
	if len(runes) > fallbackNameLen {
		runes = runes[:fallbackNameLen]
	}
	return fallbackBase + url.QueryEscape(string(runes))
}

// Render draws the placeholder: a flat background with a framed picture glyph
func Render() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: placeholderBackground}, image.Point{}, draw.Src)

	fg := &image.Uniform{C: placeholderForeground}
	const (
		frameMin = 250
		frameMax = 550
		stroke   = 12
	)

	// frame
	for _, r := range []image.Rectangle{
		image.Rect(frameMin, frameMin, frameMax, frameMin+stroke),
		image.Rect(frameMin, frameMax-stroke, frameMax, frameMax),
		image.Rect(frameMin, frameMin, frameMin+stroke, frameMax),
		image.Rect(frameMax-stroke, frameMin, frameMax, frameMax),
	} {
		draw.Draw(img, r, fg, image.Point{}, draw.Src)
	}

	// sun
	cx, cy, radius := 340, 340, 30
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= radius*radius {
				img.Set(x, y, placeholderForeground)
			}
		}
	}

	// mountain
	inner := image.Rect(frameMin+stroke, frameMin+stroke, frameMax-stroke, frameMax-stroke)
	peakX, peakY := 440, 380
	for y := peakY; y < inner.Max.Y; y++ {
		half := (y - peakY) * 3 / 4
		row := image.Rect(peakX-half, y, peakX+half, y+1).Intersect(inner)
		draw.Draw(img, row, fg, image.Point{}, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
