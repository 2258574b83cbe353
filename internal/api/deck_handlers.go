package api

import (
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/youruser/frycards/internal/deck"
	"github.com/youruser/frycards/internal/deckcode"
	imagepkg "github.com/youruser/frycards/internal/image"
)

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func encodeDeckCode(c *gin.Context) {
	var req struct {
		CardIDs []string `json:"card_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": deckcode.Encode(req.CardIDs)})
}

func decodeDeckCode(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ids, err := deckcode.Decode(req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"card_ids": ids})
}

// detectDeckCode tells the search box whether to try a deck import or a
// user search.
func detectDeckCode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"deck_code": deckcode.LooksLikeDeckCode(c.Query("value"))})
}

// deckCodeQR returns a PNG QR for a valid deck code.
func deckCodeQR(c *gin.Context) {
	code := c.Query("code")
	if _, err := deckcode.Decode(code); err != nil {
		writeError(c, err)
		return
	}
	size := imagepkg.DefaultQRSize
	if v, err := strconv.Atoi(c.Query("size")); err == nil {
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(code, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func exportDeck(c *gin.Context) {
	var d deck.Deck
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": deck.ExportText(d), "code": deck.ShareCode(d)})
}

const maxSheetDownloads = 4

// deckImageHandler renders a deck sheet. Cards past the sheet's slots are
// ignored and images that fail to download are left blank.
func deckImageHandler(c *gin.Context) {
	var req struct {
		LeaderURL string `json:"leader_url"`
		Cards     []struct {
			ImageURL string `json:"image_url"`
			Rarity   string `json:"rarity"`
		} `json:"cards"`
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Cards) > imagepkg.MaxSheetCards {
		req.Cards = req.Cards[:imagepkg.MaxSheetCards]
	}
	ctx := c.Request.Context()

	var qrImg image.Image
	if req.Code != "" {
		if _, err := deckcode.Decode(req.Code); err != nil {
			writeError(c, err)
			return
		}
		q, err := imagepkg.GenerateQRImage(req.Code, imagepkg.DefaultQRSize)
		if err != nil {
			writeError(c, err)
			return
		}
		qrImg = q
	}

	download := func(url string) image.Image {
		if url == "" {
			return nil
		}
		img, err := imagepkg.DownloadImage(ctx, url)
		if err != nil {
			slog.Warn("deck image download failed", slog.String("url", url), slog.String("error", err.Error()))
			return nil
		}
		return img
	}

	sheet := make([]imagepkg.SheetCard, len(req.Cards))
	var leaderImg image.Image
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxSheetDownloads)
	wg.Add(1)
	go func() {
		defer wg.Done()
		leaderImg = download(req.LeaderURL)
	}()
	for i, card := range req.Cards {
		sheet[i].Rarity = card.Rarity
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			sheet[i].Image = download(card.ImageURL)
		}()
	}
	wg.Wait()

	out := imagepkg.ComposeDeckImage(leaderImg, sheet, qrImg)
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, out); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
