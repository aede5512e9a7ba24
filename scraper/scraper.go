// Package scraper assembles records from parsed Scribble Hub pages. Each
// assembler reads its fields in document order and builds the record once at
// the end; a required field that cannot be read aborts that record only.
package scraper

import (
	"errors"
	"fmt"
	"math"

	"github.com/PuerkitoBio/goquery"
)

// ErrLayoutChanged marks a block the site always renders (such as the stats
// row of a ranking or story page) that could not be found.
var ErrLayoutChanged = errors.New("page layout changed")

// AssemblyError reports which entity and field aborted a record.
type AssemblyError struct {
	Entity string
	Field  string
	Err    error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble %s: %s: %v", e.Entity, e.Field, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// Skip records a subtree that did not produce a record.
type Skip struct {
	Index int
	Err   error
}

// Batch holds the records assembled from a listing page and the subtrees that
// were skipped. Records is never nil.
type Batch[T any] struct {
	Records []T
	Skipped []Skip
}

// Assemble runs fn over every node in items. A failing node is skipped and
// the rest are still assembled. limit <= 0 means no limit.
func Assemble[T any](items *goquery.Selection, limit int, fn func(*goquery.Selection) (T, error)) Batch[T] {
	batch := Batch[T]{Records: []T{}}

	items.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if limit > 0 && len(batch.Records) >= limit {
			return false
		}
		rec, err := fn(s)
		if err != nil {
			batch.Skipped = append(batch.Skipped, Skip{Index: i, Err: err})
			return true
		}
		batch.Records = append(batch.Records, rec)
		return true
	})

	return batch
}

// rating rounds to one decimal and clamps to the site's 0-5 scale.
func rating(f float64) float64 {
	f = math.Round(f*10) / 10
	return math.Max(0, math.Min(5, f))
}
