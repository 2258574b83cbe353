package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youruser/frycards/internal/cards"
	"github.com/youruser/frycards/internal/gateway"
	"github.com/youruser/frycards/internal/state"
)

const (
	defaultCollectionLimit  = 100
	maxCollectionLimit      = 500
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 100
	maxProgressURLs         = 100

	// packAssetTimeout bounds the background warm-up of opened cards.
	packAssetTimeout = 30 * time.Second
)

// gatewayFor returns the gateway authenticated as the caller.
func (s *Server) gatewayFor(c *gin.Context) *gateway.Client {
	return s.Gateway.WithTokens(sessionFrom(c))
}

func queryInt(c *gin.Context, key string, def, upper int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, upper)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (s *Server) getCollection(c *gin.Context) {
	limit := queryInt(c, "limit", defaultCollectionLimit, maxCollectionLimit)
	offset := queryInt(c, "offset", 0, 1<<30)
	cs, err := s.gatewayFor(c).GetUserCollection(c.Request.Context(), sessionFrom(c).UserID(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	if cs == nil {
		cs = []cards.Card{}
	}
	c.JSON(http.StatusOK, gin.H{"cards": cs})
}

func (s *Server) markCardsSeen(c *gin.Context) {
	var req struct {
		CardIDs []string `json:"card_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.gatewayFor(c).MarkCardsSeen(c.Request.Context(), req.CardIDs); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listPacks(c *gin.Context) {
	ps, err := s.gatewayFor(c).GetAvailablePacks(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if ps == nil {
		ps = []gateway.PackType{}
	}
	c.JSON(http.StatusOK, gin.H{"packs": ps})
}

// openPack opens a pack and starts warming the revealed card images. The
// caller polls /api/assets/progress before starting the reveal.
func (s *Server) openPack(c *gin.Context) {
	var req struct {
		PackTypeID string `json:"pack_type_id" binding:"required"`
		UseGems    bool   `json:"use_gems"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.gatewayFor(c).OpenPack(c.Request.Context(), sessionFrom(c).UserID(), req.PackTypeID, req.UseGems)
	if err != nil {
		s.fail(c, err)
		return
	}

	urls := make([]string, 0, len(res.Cards))
	for _, card := range res.Cards {
		if card.ImageURL != "" {
			urls = append(urls, card.ImageURL)
		}
	}
	if s.Assets != nil && len(urls) > 0 {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), packAssetTimeout)
		go func() {
			defer cancel()
			_ = s.Assets.Preload(ctx, urls)
		}()
	}

	s.notify(c, fmt.Sprintf("Pack opened! %d new cards", res.NewCardCount), state.ToastSuccess)
	c.JSON(http.StatusOK, gin.H{"result": res, "assets": urls})
}

// assetProgress reports how many of the given asset urls have settled.
func (s *Server) assetProgress(c *gin.Context) {
	urls := c.QueryArray("url")
	if len(urls) > maxProgressURLs {
		urls = urls[:maxProgressURLs]
	}
	loaded := make([]string, 0, len(urls))
	progress := 100
	if s.Assets != nil {
		progress = s.Assets.Progress(urls)
		for _, u := range urls {
			if s.Assets.Loaded(u) {
				loaded = append(loaded, u)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress, "loaded": loaded})
}

// claimDaily claims today's reward unless the profile shows it was already
// claimed.
func (s *Server) claimDaily(c *gin.Context) {
	ctx := c.Request.Context()
	gw := s.gatewayFor(c)
	p, err := gw.GetProfile(ctx, sessionFrom(c).UserID())
	if err != nil {
		s.fail(c, err)
		return
	}
	if !state.CanClaimDaily(p.LastDailyClaim, time.Now()) {
		s.notify(c, "Daily reward already claimed", state.ToastInfo)
		c.JSON(http.StatusConflict, gin.H{"error": "daily reward already claimed"})
		return
	}
	res, err := gw.ClaimDailyReward(ctx, p.DailyStreak)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.notify(c, fmt.Sprintf("Daily reward claimed! +%d gold, +%d gems", res.GoldEarned, res.GemsEarned), state.ToastSuccess)
	c.JSON(http.StatusOK, res)
}

func (s *Server) claimMission(c *gin.Context) {
	if err := s.gatewayFor(c).ClaimMissionReward(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	s.notify(c, "Mission reward claimed!", state.ToastSuccess)
	c.Status(http.StatusNoContent)
}

func (s *Server) claimQuest(c *gin.Context) {
	if err := s.gatewayFor(c).ClaimQuestReward(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	s.notify(c, "Quest reward claimed!", state.ToastSuccess)
	c.Status(http.StatusNoContent)
}

func (s *Server) claimSeasonPass(c *gin.Context) {
	var req struct {
		Season string `json:"season" binding:"required"`
		Tier   int    `json:"tier" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := s.gatewayFor(c).ClaimSeasonPassTier(c.Request.Context(), req.Season, req.Tier)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = "Cannot claim yet"
		}
		s.notify(c, msg, state.ToastError)
		c.JSON(http.StatusConflict, gin.H{"error": msg})
		return
	}
	s.notify(c, "Claimed: "+res.RewardLabel+"!", state.ToastSuccess)
	c.JSON(http.StatusOK, res)
}

func (s *Server) leaderboard(c *gin.Context) {
	kind := c.DefaultQuery("type", "collection")
	limit := queryInt(c, "limit", defaultLeaderboardLimit, maxLeaderboardLimit)
	es, err := s.gatewayFor(c).GetLeaderboard(c.Request.Context(), kind, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if es == nil {
		es = []gateway.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": es})
}

func (s *Server) createTrade(c *gin.Context) {
	var req gateway.TradeOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.gatewayFor(c).CreateTradeOffer(c.Request.Context(), req); err != nil {
		s.fail(c, err)
		return
	}
	s.notify(c, "Trade offer sent!", state.ToastSuccess)
	c.Status(http.StatusCreated)
}

func (s *Server) respondTrade(c *gin.Context) {
	var req struct {
		Accept bool `json:"accept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.gatewayFor(c).RespondTradeOffer(c.Request.Context(), c.Param("id"), req.Accept); err != nil {
		s.fail(c, err)
		return
	}
	if req.Accept {
		s.notify(c, "Trade accepted!", state.ToastSuccess)
	} else {
		s.notify(c, "Trade declined", state.ToastInfo)
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) createListing(c *gin.Context) {
	var req gateway.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.gatewayFor(c).CreateMarketListing(c.Request.Context(), req); err != nil {
		s.fail(c, err)
		return
	}
	s.notify(c, "Listing created successfully!", state.ToastSuccess)
	c.Status(http.StatusCreated)
}

func (s *Server) buyListing(c *gin.Context) {
	if err := s.gatewayFor(c).BuyMarketItem(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	s.notify(c, "Purchase successful!", state.ToastSuccess)
	c.Status(http.StatusNoContent)
}
