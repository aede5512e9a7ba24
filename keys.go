package scribble

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/purell"
)

const keyNormalization = purell.FlagsSafe |
	purell.FlagRemoveFragment |
	purell.FlagSortQuery |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveWWW |
	purell.FlagAddTrailingSlash

// Cache keys: operation name plus the normalized query or URL.

func urlKey(op, url string) string {
	normalized, err := purell.NormalizeURLString(strings.TrimSpace(url), keyNormalization)
	if err != nil {
		normalized = strings.TrimSpace(url)
	}
	return op + ":" + normalized
}

func queryKey(op, q string) string {
	return op + ":" + strings.ToLower(strings.Join(strings.Fields(q), " "))
}

func rankingKey(r Ranking, o Order) string {
	return fmt.Sprintf("rankings:%s:%s", r.ID, o.ID)
}
