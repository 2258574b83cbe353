package gateway

import (
	"github.com/youruser/frycards/internal/cards"
)

type Profile struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	GoldBalance    int     `json:"gold_balance"`
	GemBalance     int     `json:"gem_balance"`
	XP             int     `json:"xp"`
	Level          int     `json:"level"`
	PacksOpened    int     `json:"packs_opened"`
	PityCounter    int     `json:"pity_counter"`
	DailyStreak    int     `json:"daily_streak"`
	LastDailyClaim *string `json:"last_daily_claim"`
	AvatarURL      string  `json:"avatar_url,omitempty"`
	BannerURL      string  `json:"banner_url,omitempty"`
	CardBackURL    string  `json:"card_back_url,omitempty"`
	Bio            string  `json:"bio,omitempty"`
	IsPublic       bool    `json:"is_public,omitempty"`
	TotalTrades    int     `json:"total_trades,omitempty"`
	Energy         int     `json:"energy,omitempty"`
	MaxEnergy      int     `json:"max_energy,omitempty"`
}

type RarityCount struct {
	Rarity cards.Rarity `json:"rarity"`
	Count  int          `json:"count"`
}

type SetCompletion struct {
	SetName              string  `json:"set_name"`
	Owned                int     `json:"owned"`
	Total                int     `json:"total"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type CollectionStats struct {
	TotalCards           int             `json:"total_cards"`
	UniqueCards          int             `json:"unique_cards"`
	TotalPossible        int             `json:"total_possible"`
	CompletionPercentage float64         `json:"completion_percentage"`
	RarityBreakdown      []RarityCount   `json:"rarity_breakdown"`
	SetCompletion        []SetCompletion `json:"set_completion"`
}

type Mission struct {
	ID                   string  `json:"id"`
	MissionType          string  `json:"mission_type"`
	Description          string  `json:"description"`
	Progress             int     `json:"progress"`
	Target               int     `json:"target"`
	RewardGold           int     `json:"reward_gold"`
	RewardGems           int     `json:"reward_gems"`
	RewardXP             int     `json:"reward_xp"`
	IsCompleted          bool    `json:"is_completed"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type PackType struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	CostGold         *int    `json:"cost_gold"`
	CostGems         *int    `json:"cost_gems"`
	CardCount        int     `json:"card_count"`
	GuaranteedRarity *string `json:"guaranteed_rarity"`
	ImageURL         string  `json:"image_url"`
	FoilChance       float64 `json:"foil_chance,omitempty"`
	HasFoilSlot      bool    `json:"has_foil_slot,omitempty"`
}

type PackResult struct {
	Success       bool         `json:"success"`
	Cards         []cards.Card `json:"cards"`
	NewCardCount  int          `json:"new_card_count"`
	XPGained      int          `json:"xp_gained"`
	PityTriggered bool         `json:"pity_triggered"`
	NextPityIn    int          `json:"next_pity_in"`
}

type DailyRewardResult struct {
	Success    bool `json:"success"`
	GoldEarned int  `json:"gold_earned"`
	GemsEarned int  `json:"gems_earned"`
	Streak     int  `json:"streak"`
}

type SeasonPassClaim struct {
	Success     bool   `json:"success"`
	RewardType  string `json:"reward_type"`
	RewardLabel string `json:"reward_label"`
	Message     string `json:"message,omitempty"`
}

type LeaderboardEntry struct {
	Rank                 int     `json:"rank"`
	UserID               string  `json:"user_id"`
	Username             string  `json:"username"`
	AvatarURL            string  `json:"avatar_url,omitempty"`
	UniqueCards          int     `json:"unique_cards,omitempty"`
	TotalCards           int     `json:"total_cards,omitempty"`
	CompletionPercentage float64 `json:"completion_percentage,omitempty"`
	Level                int     `json:"level,omitempty"`
	XP                   int     `json:"xp,omitempty"`
	PacksOpened          int     `json:"packs_opened,omitempty"`
}

type TradeOfferRequest struct {
	ReceiverID    string   `json:"receiver_id"`
	SenderCards   []string `json:"sender_cards"`
	ReceiverCards []string `json:"receiver_cards"`
	SenderGold    int      `json:"sender_gold"`
	ReceiverGold  int      `json:"receiver_gold"`
}

type ListingRequest struct {
	CardID       string `json:"card_id"`
	Price        int    `json:"price"`
	Currency     string `json:"currency"`
	ListingType  string `json:"listing_type"`
	DurationDays int    `json:"duration_days"`
}
