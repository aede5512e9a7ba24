package scribble

import (
	"fmt"
	"strings"
)

// Ranking is a series-ranking sort. Sort is the value of the site's sort
// query parameter.
type Ranking struct {
	ID   string
	Sort int
}

var (
	RankingPopularity = Ranking{ID: "popularity", Sort: 1}
	RankingFavorites  = Ranking{ID: "favorites", Sort: 2}
	RankingActivity   = Ranking{ID: "activity", Sort: 3}
	RankingReaders    = Ranking{ID: "readers", Sort: 4}
	RankingRating     = Ranking{ID: "rating", Sort: 5}
)

// Rankings lists every known ranking.
var Rankings = []Ranking{
	RankingPopularity,
	RankingFavorites,
	RankingActivity,
	RankingReaders,
	RankingRating,
}

// Alternate names accepted by ParseRanking.
var rankingAliases = map[string]Ranking{
	"popular": RankingPopularity,
}

// ParseRanking looks a ranking up by ID; "popular" is accepted too.
func ParseRanking(s string) (Ranking, error) {
	for _, r := range Rankings {
		if strings.EqualFold(s, r.ID) {
			return r, nil
		}
	}
	if r, ok := rankingAliases[strings.ToLower(s)]; ok {
		return r, nil
	}
	return Ranking{}, fmt.Errorf("unknown ranking %q", s)
}

// Order is a ranking direction. Value is the site's order query parameter.
type Order struct {
	ID    string
	Value int
}

var (
	OrderDescending = Order{ID: "descending", Value: 1}
	OrderAscending  = Order{ID: "ascending", Value: 2}
)

// ParseOrder looks an order up by ID; "asc" and "desc" are accepted too.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "descending", "desc":
		return OrderDescending, nil
	case "ascending", "asc":
		return OrderAscending, nil
	}
	return Order{}, fmt.Errorf("unknown order %q", s)
}
