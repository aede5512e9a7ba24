package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/scribble/extract"
	"github.com/pevans/scribble/record"
)

// Story assembles a story page. The title (twitter:title) and the stats row
// are required; everything else falls back to its zero value.
func (l *DetailLayout) Story(page *goquery.Selection, url string) (record.StoryDetail, error) {
	fail := func(field string, err error) (record.StoryDetail, error) {
		return record.StoryDetail{}, &AssemblyError{Entity: "story detail", Field: field, Err: err}
	}

	title, err := extract.Meta(page, "name", "twitter:title")
	if err != nil {
		return fail("title", err)
	}
	image, _ := extract.Meta(page, "name", "twitter:image")
	creator, _ := extract.Meta(page, "name", "twitter:creator")

	details := page.Find(l.Container).First()
	synopsis := extract.Paragraphs(details.Find(l.Synopsis).First())
	genres := extract.List(details.Find(l.GenreContainer).First(), l.GenreItem)
	tags := extract.List(details.Find(l.TagContainer).First(), l.TagItem)
	score, count := storyRating(details.Find(l.Rating).First())

	row, err := extract.ReadRow(page.Find(l.Stats).First(), "stats", l.StatsAnchor, l.StatsColumns)
	if err != nil {
		return fail("stats", fmt.Errorf("%w: %w", ErrLayoutChanged, err))
	}

	var stats firstErr
	views, err := row.Abbreviated(colViews)
	stats.check(err)
	favorites, err := row.Int64(colFavorites)
	stats.check(err)
	chapters, err := row.Int(colChapters)
	stats.check(err)
	perWeek, err := row.Int(colChaptersPerWeek)
	stats.check(err)
	readers, err := row.Int(colReaders)
	stats.check(err)
	if stats.err != nil {
		return fail("stats", stats.err)
	}

	var sid int
	if v, err := extract.Attr(page, "sid", extract.Path{extract.First(l.SID)}, "value"); err == nil {
		sid, _ = extract.ParseInt(v)
	}

	return record.StoryDetail{
		SID:             sid,
		URL:             url,
		Title:           title,
		Image:           image,
		Creator:         creator,
		Synopsis:        synopsis,
		Genres:          genres,
		Tags:            tags,
		Rating:          score,
		RatingCount:     count,
		Views:           views,
		Favorites:       favorites,
		Chapters:        chapters,
		ChaptersPerWeek: perWeek,
		Readers:         readers,
	}, nil
}

// storyRating reads "4.5 (123 ratings)" into its two numbers.
func storyRating(sel *goquery.Selection) (float64, int) {
	fields := strings.Fields(sel.Text())
	if len(fields) == 0 {
		return 0, 0
	}

	var score float64
	if f, err := extract.ParseFloat(fields[0]); err == nil {
		score = rating(f)
	}
	var count int
	if len(fields) > 1 {
		count, _ = extract.ParseInt(fields[1])
	}
	return score, count
}
