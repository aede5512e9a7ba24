package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/scribble/extract"
	"github.com/pevans/scribble/record"
)

// Users assembles the user stubs of a search page.
func (l *UserSearchLayout) Users(page *goquery.Selection) Batch[record.UserResult] {
	return Assemble(page.Find(l.Item), 0, l.User)
}

// User assembles one user link. The avatar image and the link are required.
func (l *UserSearchLayout) User(link *goquery.Selection) (record.UserResult, error) {
	fail := func(field string, err error) (record.UserResult, error) {
		return record.UserResult{}, &AssemblyError{Entity: "user result", Field: field, Err: err}
	}

	url, ok := link.Attr("href")
	if !ok || strings.TrimSpace(url) == "" {
		return fail("url", &extract.FieldError{Field: "url", Step: "@href", Err: extract.ErrFieldNotFound})
	}
	avatar, err := extract.Attr(link, "avatar", extract.Path{extract.First(l.Image)}, "src")
	if err != nil {
		return fail("avatar", err)
	}
	name, err := extract.Attr(link, "name", extract.Path{extract.First(l.Image)}, "alt")
	if err != nil {
		return fail("name", err)
	}

	return record.UserResult{
		Name:   name,
		Avatar: avatar,
		URL:    strings.TrimSpace(url),
	}, nil
}

// Updates assembles the latest releases table, capped at the table's
// published size.
func (l *UpdatesLayout) Updates(page *goquery.Selection) Batch[record.LatestUpdate] {
	return Assemble(page.Find(l.Row), l.Size, l.Update)
}

// Update assembles one latest releases row. Thumbnail, story name and story
// URL are required.
func (l *UpdatesLayout) Update(row *goquery.Selection) (record.LatestUpdate, error) {
	fail := func(field string, err error) (record.LatestUpdate, error) {
		return record.LatestUpdate{}, &AssemblyError{Entity: "latest update", Field: field, Err: err}
	}

	thumbnail, err := extract.Attr(row, "thumbnail", extract.Path{extract.First("td"), extract.First(l.Thumbnail)}, "src")
	if err != nil {
		return fail("thumbnail", err)
	}

	body := row.Find(l.Body).First()
	storyURL, err := extract.Attr(body, "story_url", extract.Path{extract.First(l.Title)}, "href")
	if err != nil {
		return fail("story_url", err)
	}
	storyName, err := extract.Attr(body, "story_name", extract.Path{extract.First(l.Title)}, "title")
	if err != nil {
		return fail("story_name", err)
	}

	divs := body.Find("div")
	genres := extract.List(divs.First(), l.GenreItem)

	chapter := divs.First().Next().Find("a").First()
	chapterURL, _ := chapter.Attr("href")

	last := divs.Last()
	authorURL, _ := last.Find("a").First().Attr("href")
	lastUpdate := strings.TrimSpace(strings.Replace(extract.OwnText(last), ", ", "", 1))

	return record.LatestUpdate{
		Thumbnail:    thumbnail,
		StoryName:    storyName,
		StoryURL:     storyURL,
		Genres:       genres,
		ChapterTitle: extract.OwnText(chapter),
		ChapterURL:   strings.TrimSpace(chapterURL),
		AuthorName:   extract.OwnText(last.Find(l.AuthorName).First()),
		AuthorURL:    strings.TrimSpace(authorURL),
		LastUpdate:   lastUpdate,
	}, nil
}

// Threads assembles the latest forum topics.
func (l *ForumLayout) Threads(page *goquery.Selection) Batch[record.ForumThread] {
	return Assemble(page.Find(l.Row), 0, l.Thread)
}

// Thread assembles one forum topic row. Title and URL are required.
func (l *ForumLayout) Thread(row *goquery.Selection) (record.ForumThread, error) {
	fail := func(field string, err error) (record.ForumThread, error) {
		return record.ForumThread{}, &AssemblyError{Entity: "forum thread", Field: field, Err: err}
	}

	link := extract.Path{extract.First("td"), extract.First("a")}
	title, err := extract.OwnTextAt(row, "title", link)
	if err != nil {
		return fail("title", err)
	}
	url, err := extract.Attr(row, "url", link, "href")
	if err != nil {
		return fail("url", err)
	}

	return record.ForumThread{
		Title:       title,
		LatestReply: extract.OwnText(row.Find("td").Last()),
		URL:         url,
	}, nil
}
