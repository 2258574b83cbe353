package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/frycards/internal/deckcode"
)

func TestGenerateQRPNG(t *testing.T) {
	t.Parallel()

	code := deckcode.Encode([]string{"card-001", "card-002"})
	b, err := GenerateQRPNG(code, 256)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	img2, err := GenerateQRImage(code, -1)
	require.NoError(t, err)
	assert.Equal(t, DefaultQRSize, img2.Bounds().Dx())
}

func TestGenerateQRPNG_TooLong(t *testing.T) {
	t.Parallel()

	ids := make([]string, 80)
	for i := range ids {
		ids[i] = fmt.Sprintf("5f0c7e1a-93f4-4c1d-9d0b-%012d", i)
	}
	_, err := GenerateQRPNG(deckcode.Encode(ids), 256)
	assert.ErrorIs(t, err, ErrQRContent)

	_, err = GenerateQRImage(deckcode.Encode(ids), 256)
	assert.ErrorIs(t, err, ErrQRContent)
}

func TestComposeDeckImage(t *testing.T) {
	t.Parallel()

	red := imaging.New(50, 80, color.NRGBA{R: 0xff, A: 0xff})
	qr, err := GenerateQRImage("FRY:W10=", 200)
	require.NoError(t, err)

	cs := make([]SheetCard, 40)
	for i := range cs {
		cs[i] = SheetCard{Image: red, Rarity: "Rare"}
	}
	cs[1].Image = nil
	cs[2].Rarity = "unknown"

	out := ComposeDeckImage(red, cs, qr)
	assert.Equal(t, image.Rect(0, 0, sheetW, sheetH), out.Bounds())

	// first card tile wears the Rare frame on its edge
	r, g, b, _ := out.At(margin, 700).RGBA()
	want := frameColors["Rare"]
	assert.Equal(t, uint32(want.R)*0x101, r)
	assert.Equal(t, uint32(want.G)*0x101, g)
	assert.Equal(t, uint32(want.B)*0x101, b)
}

func TestDownloadImage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(10, 12, color.NRGBA{G: 0xff, A: 0xff})))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/card.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)

	img, err := DownloadImage(context.Background(), srv.URL+"/card.png")
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 12, img.Bounds().Dy())

	_, err = DownloadImage(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}
