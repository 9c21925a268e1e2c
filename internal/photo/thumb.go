package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultMaxWidth bounds report thumbnails the same way the capture
// pipeline bounds stored photos.
const DefaultMaxWidth = 1280

const thumbQuality = 70

// Thumbnail decodes the image at path and re-encodes it as a JPEG no
// wider than maxWidth, preserving aspect ratio. Images already within
// the bound are re-encoded without scaling so the caller always gets
// JPEG bytes it can embed.
func Thumbnail(path string, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	bounds := src.Bounds()
	if bounds.Dx() > maxWidth {
		h := bounds.Dy() * maxWidth / bounds.Dx()
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnailer turns vault references into thumbnail bytes for report
// embedding.
type Thumbnailer struct {
	vault    *Vault
	maxWidth int
}

func NewThumbnailer(v *Vault, maxWidth int) *Thumbnailer {
	return &Thumbnailer{vault: v, maxWidth: maxWidth}
}

func (t *Thumbnailer) Thumbnail(ref string) ([]byte, error) {
	return Thumbnail(t.vault.Path(ref), t.maxWidth)
}
