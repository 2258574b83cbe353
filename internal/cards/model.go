package cards

// Rarity is the card rarity as reported by the backend.
type Rarity string

const (
	Common    Rarity = "Common"
	Uncommon  Rarity = "Uncommon"
	Rare      Rarity = "Rare"
	SuperRare Rarity = "Super-Rare"
	Mythic    Rarity = "Mythic"
	Divine    Rarity = "Divine"
)

// Rarities lists every rarity from lowest to highest.
var Rarities = []Rarity{Common, Uncommon, Rare, SuperRare, Mythic, Divine}

var millValues = map[Rarity]int{
	Common:    10,
	Uncommon:  25,
	Rare:      100,
	SuperRare: 250,
	Mythic:    500,
	Divine:    1000,
}

// Rank returns the position of r in Rarities, or -1 when unknown.
func (r Rarity) Rank() int {
	for i, v := range Rarities {
		if v == r {
			return i
		}
	}
	return -1
}

// MillValue is the gold shown for quick-selling one copy.
func (r Rarity) MillValue() int {
	return millValues[r]
}

// TypeLeader is the card_type that may fill a deck's leader slot.
const TypeLeader = "Leader"

// Card mirrors a card row (plus joined collection fields) from the backend.
type Card struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rarity      Rarity   `json:"rarity"`
	CardType    string   `json:"card_type"`
	ImageURL    string   `json:"image_url"`
	IsVideo     bool     `json:"is_video"`
	FlavorText  string   `json:"flavor_text,omitempty"`
	Description string   `json:"description,omitempty"`
	DiceCost    int      `json:"dice_cost,omitempty"`
	Bounty      int      `json:"bounty,omitempty"`
	Strength    int      `json:"strength,omitempty"`
	Durability  int      `json:"durability,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	AbilityText string   `json:"ability_text,omitempty"`
	AbilityType string   `json:"ability_type,omitempty"`
	Element     string   `json:"element,omitempty"`
	SubType     string   `json:"sub_type,omitempty"`

	// collection fields
	IsNew         bool   `json:"is_new,omitempty"`
	Quantity      int    `json:"quantity,omitempty"`
	SetName       string `json:"set_name,omitempty"`
	IsFoil        bool   `json:"is_foil,omitempty"`
	FoilQuantity  int    `json:"foil_quantity,omitempty"`
	FirstAcquired string `json:"first_acquired,omitempty"`
	IsLocked      bool   `json:"is_locked,omitempty"`
	IsWishlisted  bool   `json:"is_wishlisted,omitempty"`
}

// Owned reports whether the player holds at least one copy.
func (c Card) Owned() bool {
	return c.Quantity > 0 || c.FoilQuantity > 0
}

// IsLeader reports whether c can fill the leader slot.
func (c Card) IsLeader() bool {
	return c.CardType == TypeLeader
}
