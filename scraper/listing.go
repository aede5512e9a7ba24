package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/scribble/extract"
	"github.com/pevans/scribble/record"
)

// firstErr keeps the first error it is given.
type firstErr struct {
	err error
}

func (f *firstErr) check(err error) {
	if err != nil && f.err == nil {
		f.err = err
	}
}

// Summaries assembles every story box on a listing page.
func (l *ListingLayout) Summaries(page *goquery.Selection, strict bool) Batch[record.StorySummary] {
	return Assemble(page.Find(l.Item), 0, func(box *goquery.Selection) (record.StorySummary, error) {
		return l.Summary(box, strict)
	})
}

// Summary assembles one story box. Thumbnail, title and URL are required.
// With strict set the stats row is required too, as on ranking pages.
func (l *ListingLayout) Summary(box *goquery.Selection, strict bool) (record.StorySummary, error) {
	fail := func(field string, err error) (record.StorySummary, error) {
		return record.StorySummary{}, &AssemblyError{Entity: "story summary", Field: field, Err: err}
	}

	thumbnail, err := extract.Attr(box, "thumbnail", extract.Path{extract.First(l.Thumbnail)}, "src")
	if err != nil {
		return fail("thumbnail", err)
	}

	var score float64
	if f, err := extract.Float(box, "rating", extract.Path{extract.First(l.Rating)}); err == nil {
		score = rating(f)
	}

	body := box.Find(l.Body).First()
	title, err := extract.Text(body, "title", extract.Path{extract.First(l.Title)})
	if err != nil {
		return fail("title", err)
	}
	url, err := extract.Attr(body, "url", extract.Path{extract.First(l.Title)}, "href")
	if err != nil {
		return fail("url", err)
	}

	short := extract.OwnText(body)
	full := fullSynopsis(body, l.MoreSynopsis, short)
	genres := extract.List(body.Find(l.GenreContainer).First(), l.GenreItem)

	row, err := extract.ReadRow(box.Find(l.Stats).First(), "stats", l.StatsAnchor, l.StatsColumns)
	if err != nil && strict {
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
	reviews, err := row.Int(colReviews)
	stats.check(err)
	words, err := row.Abbreviated(colWords)
	stats.check(err)
	if strict && stats.err != nil {
		return fail("stats", stats.err)
	}

	updated, _ := row.OwnText(colLastUpdated)
	var creator, creatorURL string
	if cell, err := row.Cell(colCreator); err == nil {
		a := cell.Find("a").First()
		creator = extract.OwnText(a)
		creatorURL, _ = a.Attr("href")
	}

	return record.StorySummary{
		Thumbnail:       thumbnail,
		Rating:          score,
		Title:           title,
		URL:             url,
		ShortSynopsis:   short,
		FullSynopsis:    full,
		Genres:          genres,
		Views:           views,
		Favorites:       favorites,
		Chapters:        chapters,
		ChaptersPerWeek: perWeek,
		Readers:         readers,
		Reviews:         reviews,
		Words:           words,
		LastUpdated:     updated,
		Creator:         creator,
		CreatorURL:      strings.TrimSpace(creatorURL),
	}, nil
}

// fullSynopsis appends the collapsed part of a listing synopsis to its
// visible part.
func fullSynopsis(body *goquery.Selection, more, short string) string {
	parts := []string{}
	if short != "" {
		parts = append(parts, short)
	}
	body.Find(more).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(strings.ReplaceAll(extract.NormalizeSpace(s.Text()), "<<less", ""))
		if text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n")
}
