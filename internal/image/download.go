package imagepkg

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"

	"github.com/youruser/frycards/internal/util"
)

// DownloadImage downloads an image from url and decodes it.
func DownloadImage(ctx context.Context, url string) (image.Image, error) {
	body, err := util.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	return imaging.Decode(bytes.NewReader(body), imaging.AutoOrientation(true))
}
