package deck

import (
	"errors"
	"slices"

	"github.com/youruser/frycards/internal/cards"
)

const (
	MinCards = 5
	MaxCards = 30
)

var (
	ErrNoLeader    = errors.New("you must select a leader")
	ErrTooFewCards = errors.New("deck needs at least 5 cards")
	ErrDeckFull    = errors.New("max 30 cards")
)

// Deck mirrors a row of the backend decks table.
type Deck struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name"`
	LeaderID  string   `json:"leader_id,omitempty"`
	CardIDs   []string `json:"card_ids"`
	CreatedAt string   `json:"created_at,omitempty"`
	UserID    string   `json:"user_id,omitempty"`
}

// Builder holds a deck while it is being edited.
type Builder struct {
	Name   string
	Leader *cards.Card
	Cards  []cards.Card
}

func NewBuilder(name string) *Builder {
	return &Builder{Name: name}
}

// Hydrate rebuilds a builder from a stored deck. Ids missing from the
// collection are dropped.
func Hydrate(d Deck, collection []cards.Card) *Builder {
	byID := make(map[string]cards.Card, len(collection))
	for _, c := range collection {
		byID[c.ID] = c
	}
	b := NewBuilder(d.Name)
	if l, ok := byID[d.LeaderID]; ok {
		b.Leader = &l
	}
	for _, id := range d.CardIDs {
		if c, ok := byID[id]; ok {
			b.Cards = append(b.Cards, c)
		}
	}
	return b
}

// Toggle adds or removes c. A leader card replaces the leader slot;
// any other card is removed when already present and appended otherwise.
func (b *Builder) Toggle(c cards.Card) error {
	if c.IsLeader() {
		b.Leader = &c
		b.remove(c.ID)
		return nil
	}
	if b.contains(c.ID) {
		b.remove(c.ID)
		return nil
	}
	if len(b.Cards) >= MaxCards {
		return ErrDeckFull
	}
	b.Cards = append(b.Cards, c)
	return nil
}

func (b *Builder) contains(id string) bool {
	return slices.ContainsFunc(b.Cards, func(c cards.Card) bool { return c.ID == id })
}

func (b *Builder) remove(id string) {
	b.Cards = slices.DeleteFunc(b.Cards, func(c cards.Card) bool { return c.ID == id })
}

func (b *Builder) Validate() error {
	if b.Leader == nil {
		return ErrNoLeader
	}
	if len(b.Cards) < MinCards {
		return ErrTooFewCards
	}
	return nil
}

// CardIDs returns the main deck ids in order.
func (b *Builder) CardIDs() []string {
	ids := make([]string, 0, len(b.Cards))
	for _, c := range b.Cards {
		ids = append(ids, c.ID)
	}
	return ids
}

// Deck validates b and returns the row to save.
func (b *Builder) Deck() (Deck, error) {
	if err := b.Validate(); err != nil {
		return Deck{}, err
	}
	return Deck{Name: b.Name, LeaderID: b.Leader.ID, CardIDs: b.CardIDs()}, nil
}
