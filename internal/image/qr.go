package imagepkg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultQRSize = 400
	MaxQRSize     = 2048
)

// ErrQRContent is returned when text cannot be held by a QR code, e.g. a
// deck code longer than the largest QR version.
var ErrQRContent = errors.New("content does not fit in a QR code")

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
// Sizes outside (0, MaxQRSize] fall back to DefaultQRSize.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if size <= 0 || size > MaxQRSize {
		size = DefaultQRSize
	}
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQRContent, err)
	}
	return q.PNG(size)
}

// GenerateQRImage returns an image.Image for further composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	b, err := GenerateQRPNG(text, size)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(b))
}
