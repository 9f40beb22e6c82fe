package services

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/BradenHooton/bookshare/internal/models"
)

// cardSearchItems implements fuzzy.Source over title and author
type cardSearchItems []*models.Card

func (items cardSearchItems) Len() int {
	return len(items)
}

func (items cardSearchItems) String(i int) string {
	return normalizeSearchText(items[i].Title + " " + items[i].Author)
}

func normalizeSearchText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "ё", "е")
	return strings.Join(strings.Fields(s), " ")
}

// searchCards ranks cards against query, best match first. Cards that do
// not match are dropped. An empty query returns cards unchanged.
func searchCards(cards []*models.Card, query string) []*models.Card {
	query = normalizeSearchText(query)
	if query == "" || len(cards) == 0 {
		return cards
	}

	matches := fuzzy.FindFrom(query, cardSearchItems(cards))

	results := make([]*models.Card, len(matches))
	for i, match := range matches {
		results[i] = cards[match.Index]
	}
	return results
}
