package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	sheetW  = 2150
	sheetH  = 2048
	margin  = 48
	cardW   = 215
	cardH   = 300
	cardGap = 8
	perRow  = 9
)

// MaxSheetCards is the number of main-deck slots drawn on a sheet.
const MaxSheetCards = 30

// rarity frame colours, lowest to highest
var frameColors = map[string]color.NRGBA{
	"Common":     {R: 0x94, G: 0xa3, B: 0xb8, A: 0xff},
	"Uncommon":   {R: 0x4a, G: 0xde, B: 0x80, A: 0xff},
	"Rare":       {R: 0x60, G: 0xa5, B: 0xfa, A: 0xff},
	"Super-Rare": {R: 0xc0, G: 0x84, B: 0xfc, A: 0xff},
	"Mythic":     {R: 0xfa, G: 0xcc, B: 0x15, A: 0xff},
	"Divine":     {R: 0xef, G: 0x44, B: 0x44, A: 0xff},
}

// SheetCard is one main-deck slot on the sheet.
type SheetCard struct {
	Image  image.Image
	Rarity string
}

// ComposeDeckImage lays out a shareable deck sheet: leader top-left, QR
// top-right and up to 30 cards in rows below. Missing images leave a
// framed placeholder.
func ComposeDeckImage(leader image.Image, cards []SheetCard, qr image.Image) image.Image {
	canvas := imaging.New(sheetW, sheetH, color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff})

	if leader != nil {
		l := imaging.Fill(leader, 400, 600, imaging.Center, imaging.Lanczos)
		canvas = imaging.Paste(canvas, l, image.Pt(margin, margin))
	}

	if qr != nil {
		q := imaging.Resize(qr, 400, 400, imaging.Lanczos)
		canvas = imaging.Paste(canvas, q, image.Pt(sheetW-margin-400, margin))
	}

	for i := 0; i < len(cards) && i < MaxSheetCards; i++ {
		x := margin + (i%perRow)*(cardW+cardGap)
		y := 700 + (i/perRow)*(cardH+cardGap)
		canvas = imaging.Paste(canvas, cardTile(cards[i]), image.Pt(x, y))
	}
	return canvas
}

func cardTile(c SheetCard) image.Image {
	frame, ok := frameColors[c.Rarity]
	if !ok {
		frame = frameColors["Common"]
	}
	tile := imaging.New(cardW, cardH, frame)
	if c.Image != nil {
		inner := imaging.Fill(c.Image, cardW-8, cardH-8, imaging.Center, imaging.Lanczos)
		tile = imaging.Paste(tile, inner, image.Pt(4, 4))
	}
	return tile
}
