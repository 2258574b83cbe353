package gateway

import (
	"context"
	"net/url"

	"github.com/youruser/frycards/internal/cards"
	"github.com/youruser/frycards/internal/deck"
)

func (c *Client) GetProfile(ctx context.Context, userID string) (Profile, error) {
	var rows []Profile
	if err := c.Select(ctx, "profiles", url.Values{"id": {"eq." + userID}}, &rows); err != nil {
		return Profile{}, err
	}
	if len(rows) == 0 {
		return Profile{}, ErrNoRows
	}
	return rows[0], nil
}

func (c *Client) GetMyCollectionStats(ctx context.Context) (CollectionStats, error) {
	var s CollectionStats
	err := c.RPC(ctx, "get_my_collection_stats", nil, &s)
	return s, err
}

// EnsureDailyMissions creates today's missions when missing and returns them.
func (c *Client) EnsureDailyMissions(ctx context.Context) ([]Mission, error) {
	var ms []Mission
	err := c.RPC(ctx, "ensure_and_get_daily_missions", nil, &ms)
	return ms, err
}

// PendingTradeCount counts pending offers addressed to userID.
func (c *Client) PendingTradeCount(ctx context.Context, userID string) (int, error) {
	return c.Count(ctx, "trade_offers", url.Values{
		"receiver_id": {"eq." + userID},
		"status":      {"eq.pending"},
	})
}

// GetUserCollection returns the collection rows of userID that the player
// still owns.
func (c *Client) GetUserCollection(ctx context.Context, userID string, limit, offset int) ([]cards.Card, error) {
	var all []cards.Card
	err := c.RPC(ctx, "get_user_collection", map[string]any{
		"p_user_id": userID,
		"p_rarity":  nil,
		"p_sort_by": "created_at",
		"p_limit":   limit,
		"p_offset":  offset,
	}, &all)
	if err != nil {
		return nil, err
	}
	return cards.Filter(all, cards.FilterOptions{OwnedOnly: true}), nil
}

func (c *Client) MarkCardsSeen(ctx context.Context, cardIDs []string) error {
	return c.RPC(ctx, "mark_cards_seen", map[string]any{"p_card_ids": cardIDs}, nil)
}

func (c *Client) GetAvailablePacks(ctx context.Context) ([]PackType, error) {
	var ps []PackType
	err := c.RPC(ctx, "get_available_packs", nil, &ps)
	return ps, err
}

func (c *Client) OpenPack(ctx context.Context, userID, packTypeID string, useGems bool) (PackResult, error) {
	var r PackResult
	err := c.RPC(ctx, "open_pack", map[string]any{
		"p_user_id":      userID,
		"p_pack_type_id": packTypeID,
		"p_use_gems":     useGems,
	}, &r)
	return r, err
}

// ClaimDailyReward tries the edge function first and falls back to the
// database procedure, filling defaults the procedure may omit.
func (c *Client) ClaimDailyReward(ctx context.Context, currentStreak int) (DailyRewardResult, error) {
	var r DailyRewardResult
	if err := c.Call(ctx, "claim-daily-reward", nil, &r); err == nil {
		return r, nil
	}

	var raw struct {
		GoldEarned    int `json:"gold_earned"`
		GemsEarned    int `json:"gems_earned"`
		CurrentStreak int `json:"current_streak"`
	}
	if err := c.RPC(ctx, "claim_daily_reward", nil, &raw); err != nil {
		return DailyRewardResult{}, err
	}
	r = DailyRewardResult{Success: true, GoldEarned: raw.GoldEarned, GemsEarned: raw.GemsEarned, Streak: raw.CurrentStreak}
	if r.GoldEarned == 0 {
		r.GoldEarned = 100
	}
	if r.GemsEarned == 0 {
		r.GemsEarned = 10
	}
	if r.Streak == 0 {
		r.Streak = currentStreak + 1
	}
	return r, nil
}

func (c *Client) ClaimMissionReward(ctx context.Context, missionID string) error {
	return c.Call(ctx, "claim-mission-reward", map[string]string{"mission_id": missionID}, nil)
}

func (c *Client) ClaimQuestReward(ctx context.Context, questID string) error {
	return c.Call(ctx, "claim-quest-reward", map[string]string{"quest_id": questID}, nil)
}

func (c *Client) ClaimSeasonPassTier(ctx context.Context, season string, tier int) (SeasonPassClaim, error) {
	var r SeasonPassClaim
	err := c.RPC(ctx, "claim_season_pass_tier", map[string]any{"p_season": season, "p_tier": tier}, &r)
	return r, err
}

func (c *Client) GetLeaderboard(ctx context.Context, kind string, limit int) ([]LeaderboardEntry, error) {
	var es []LeaderboardEntry
	err := c.RPC(ctx, "get_leaderboard", map[string]any{"p_type": kind, "p_limit": limit}, &es)
	return es, err
}

func (c *Client) ListDecks(ctx context.Context, userID string) ([]deck.Deck, error) {
	var ds []deck.Deck
	err := c.Select(ctx, "decks", url.Values{"user_id": {"eq." + userID}}, &ds)
	return ds, err
}

// CreateDeck saves d and returns the stored row.
func (c *Client) CreateDeck(ctx context.Context, d deck.Deck) (deck.Deck, error) {
	ids := d.CardIDs
	if ids == nil {
		ids = []string{}
	}
	var out deck.Deck
	err := c.RPC(ctx, "create_deck", map[string]any{
		"p_name":      d.Name,
		"p_card_ids":  ids,
		"p_leader_id": d.LeaderID,
	}, &out)
	return out, err
}

func (c *Client) CreateTradeOffer(ctx context.Context, req TradeOfferRequest) error {
	return c.Call(ctx, "create-trade-offer", req, nil)
}

func (c *Client) RespondTradeOffer(ctx context.Context, tradeID string, accept bool) error {
	return c.Call(ctx, "respond-trade-offer", map[string]any{"trade_id": tradeID, "accept": accept}, nil)
}

func (c *Client) CreateMarketListing(ctx context.Context, req ListingRequest) error {
	if req.ListingType == "" {
		req.ListingType = "fixed_price"
	}
	if req.DurationDays == 0 {
		req.DurationDays = 3
	}
	return c.Call(ctx, "create-market-listing", req, nil)
}

func (c *Client) BuyMarketItem(ctx context.Context, listingID string) error {
	return c.Call(ctx, "buy-market-item", map[string]string{"listing_id": listingID}, nil)
}
