// Package imgproc normalizes uploaded images for the classification
// model: decode, scale to the model's input size, re-encode as JPEG.
package imgproc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	"leafcare.org/internal/diagnosis"
)

const (
	defaultWidth   = 224
	defaultHeight  = 224
	defaultQuality = 80
)

var _ diagnosis.Preprocessor = (*Resizer)(nil)

// Resizer scales images to a fixed size and compresses them. The same
// input bytes always produce the same output bytes.
type Resizer struct {
	width   int
	height  int
	quality int
}

// New returns a Resizer with the model's expected input geometry
// (224x224 JPEG at quality 80).
func New() *Resizer {
	return &Resizer{width: defaultWidth, height: defaultHeight, quality: defaultQuality}
}

// Process decodes data (JPEG, PNG or GIF), scales it to the target size
// and re-encodes it as JPEG.
func (r *Resizer) Process(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
