package deck

import (
	"strconv"
	"strings"

	"github.com/youruser/frycards/internal/deckcode"
)

// ExportText renders d as a plain list, counts grouped by id in order of
// first appearance.
func ExportText(d Deck) string {
	lines := []string{}
	if d.Name != "" {
		lines = append(lines, "# "+d.Name)
	}
	if d.LeaderID != "" {
		lines = append(lines, "1x"+d.LeaderID)
	}
	counts := map[string]int{}
	order := []string{}
	for _, id := range d.CardIDs {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	for _, id := range order {
		lines = append(lines, strconv.Itoa(counts[id])+"x"+id)
	}
	return strings.Join(lines, "\n")
}

// ShareCode returns the deck code for the main deck.
func ShareCode(d Deck) string {
	return deckcode.Encode(d.CardIDs)
}

// FromShareCode returns a nameless deck holding the ids in code.
func FromShareCode(code string) (Deck, error) {
	ids, err := deckcode.Decode(code)
	if err != nil {
		return Deck{}, err
	}
	return Deck{CardIDs: ids}, nil
}
