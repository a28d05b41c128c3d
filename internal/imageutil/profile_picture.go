package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	maxProfileWidth = 512
	webpQuality     = 85
)

// NormalizeProfilePicture decodes an uploaded JPEG/PNG, scales it down
// to at most maxProfileWidth wide and re-encodes it as WebP.
func NormalizeProfilePicture(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode profile picture: %w", err)
	}

	bounds := src.Bounds()
	if bounds.Dx() > maxProfileWidth {
		height := bounds.Dy() * maxProfileWidth / bounds.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, maxProfileWidth, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return buf.Bytes(), nil
}
