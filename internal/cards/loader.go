package cards

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CatalogFiles are read from the data directory in this order.
var CatalogFiles = []string{"catalog.csv", "custom_cards.csv"}

func parseListCell(s string) []string {
	s = strings.ReplaceAll(s, "|", "/")
	parts := strings.Split(s, "/")
	out := []string{}
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" && t != "-" {
			out = append(out, t)
		}
	}
	return out
}

func parseIntCell(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}
	v, _ := strconv.Atoi(s)
	return v
}

// LoadCatalog loads the card catalog CSVs from dataDir (best-effort).
// catalog.csv is expected; custom_cards.csv is optional.
func LoadCatalog(dataDir string) ([]Card, error) {
	var all []Card
	var found bool
	for _, name := range CatalogFiles {
		f := filepath.Join(dataDir, name)
		if _, err := os.Stat(f); err != nil {
			// skip missing files
			continue
		}
		found = true
		cs, err := loadSingleCSV(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		all = append(all, cs...)
	}
	if !found {
		return nil, fmt.Errorf("no catalog CSVs found in %s", dataDir)
	}
	return all, nil
}

func loadSingleCSV(path string) ([]Card, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ReadCSV(fp)
}

// ReadCSV parses catalog rows. The first row is the header; columns are
// matched by name and unknown columns are ignored.
func ReadCSV(r io.Reader) ([]Card, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv has no header")
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.TrimSpace(h)] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("csv header has no id column")
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Card{}
	for _, row := range rows[1:] {
		c := Card{
			ID:          get(row, "id"),
			Name:        get(row, "name"),
			Rarity:      Rarity(get(row, "rarity")),
			CardType:    get(row, "card_type"),
			Element:     strings.ToLower(get(row, "element")),
			SubType:     get(row, "sub_type"),
			SetName:     get(row, "set_name"),
			ImageURL:    get(row, "image_url"),
			Description: get(row, "description"),
			FlavorText:  get(row, "flavor_text"),
			AbilityType: get(row, "ability_type"),
			AbilityText: get(row, "ability_text"),
			DiceCost:    parseIntCell(get(row, "dice_cost")),
			Strength:    parseIntCell(get(row, "strength")),
			Durability:  parseIntCell(get(row, "durability")),
			Bounty:      parseIntCell(get(row, "bounty")),
			Keywords:    parseListCell(get(row, "keywords")),
		}
		if c.ID == "" {
			continue
		}
		switch strings.ToLower(get(row, "is_video")) {
		case "true", "1":
			c.IsVideo = true
		}
		out = append(out, c)
	}
	return out, nil
}
