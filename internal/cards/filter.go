package cards

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

type FilterOptions struct {
	Rarities       []Rarity `json:"rarities"`
	MinRarity      Rarity   `json:"min_rarity"`
	Types          []string `json:"types"`
	Elements       []string `json:"elements"`
	Sets           []string `json:"sets"`
	Keywords       []string `json:"keywords"`
	FreeWords      string   `json:"free_words"`
	OwnedOnly      bool     `json:"owned_only"`
	FoilOnly       bool     `json:"foil_only"`
	ExcludeLeaders bool     `json:"exclude_leaders"`
}

func containsAny(hay []string, needles []string) bool {
	for _, n := range needles {
		for _, h := range hay {
			if strings.EqualFold(h, n) {
				return true
			}
		}
	}
	return false
}

// matchesFreeWords requires every whitespace separated word of query to
// appear in the card name, description, ability text or keywords.
func matchesFreeWords(c Card, query string) bool {
	fold := cases.Fold()
	hay := fold.String(strings.Join([]string{
		c.Name,
		c.Description,
		c.AbilityText,
		strings.Join(c.Keywords, " "),
	}, "\n"))
	for _, k := range strings.Fields(query) {
		if !strings.Contains(hay, fold.String(k)) {
			return false
		}
	}
	return true
}

func Filter(cards []Card, opt FilterOptions) []Card {
	minRank := -1
	if opt.MinRarity != "" {
		minRank = opt.MinRarity.Rank()
	}
	out := []Card{}
	for _, c := range cards {
		if opt.OwnedOnly && !c.Owned() {
			continue
		}
		if opt.FoilOnly && c.FoilQuantity <= 0 && !c.IsFoil {
			continue
		}
		// leaders go in their own slot in the deck builder
		if opt.ExcludeLeaders && c.IsLeader() {
			continue
		}
		if len(opt.Rarities) > 0 && !slices.Contains(opt.Rarities, c.Rarity) {
			continue
		}
		if minRank >= 0 && c.Rarity.Rank() < minRank {
			continue
		}
		if len(opt.Types) > 0 && !containsAny([]string{c.CardType}, opt.Types) {
			continue
		}
		if len(opt.Elements) > 0 && !containsAny([]string{c.Element}, opt.Elements) {
			continue
		}
		if len(opt.Sets) > 0 && !slices.Contains(opt.Sets, c.SetName) {
			continue
		}
		if len(opt.Keywords) > 0 && !containsAny(c.Keywords, opt.Keywords) {
			continue
		}
		if opt.FreeWords != "" && !matchesFreeWords(c, opt.FreeWords) {
			continue
		}
		out = append(out, c)
	}
	return out
}
