package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/scribble/extract"
	"github.com/pevans/scribble/record"
)

var profileIDPattern = regexp.MustCompile(`/profile/(\d+)`)

// User assembles a profile page. A disabled profile short-circuits to
// record.DisabledProfile. Otherwise the profile container, the UID and the
// name are required; demographics and totals are best effort.
func (l *ProfileLayout) User(page *goquery.Selection, url string) (record.UserProfile, error) {
	fail := func(field string, err error) (record.UserProfile, error) {
		return record.UserProfile{}, &AssemblyError{Entity: "user profile", Field: field, Err: err}
	}

	if l.disabled(page) {
		title := extract.NormalizeSpace(page.Find(l.PageTitle).First().Text())
		name := strings.TrimSpace(strings.Replace(title, l.TitleSuffix, "", 1))
		return record.DisabledProfile(profileID(url), name, url), nil
	}

	container := page.Find(l.Container).First()
	if container.Length() == 0 {
		return fail("profile", &extract.FieldError{Field: "profile", Step: l.Container, Err: extract.ErrFieldNotFound})
	}

	idText, err := extract.Attr(container, "uid", extract.Path{extract.First(l.AuthorID)}, "value")
	if err != nil {
		return fail("uid", err)
	}
	uid, err := extract.ParseInt(idText)
	if err != nil {
		return fail("uid", err)
	}

	description, err := extract.Meta(page, "property", "og:description")
	if err != nil {
		return fail("name", err)
	}
	name, _, _ := strings.Cut(description, "'s")
	name = strings.TrimSpace(name)

	avatar, _ := extract.Meta(page, "property", "og:image")
	bio := extract.Paragraphs(page.Find(l.Bio).First())

	tables := page.Find(l.Overview)
	demo, _ := extract.ReadRow(tables.First(), "demographics", l.OverviewRow, l.DemographicsColumns)
	totals, _ := extract.ReadRow(tables.Last(), "totals", l.OverviewRow, l.TotalsColumns)

	var homepage string
	if cell, err := demo.Cell(colHomepage); err == nil {
		homepage = extract.NormalizeSpace(cell.Find("td a").Text())
	}

	return record.UserProfile{
		UID:            uid,
		URL:            url,
		Name:           name,
		Avatar:         avatar,
		Bio:            bio,
		LastActive:     cellValue(demo, colLastActive),
		Birthday:       cellValue(demo, colBirthday),
		Gender:         cellValue(demo, colGender),
		Location:       cellValue(demo, colLocation),
		Homepage:       homepage,
		TotalSeries:    cellInt(totals, colSeries),
		TotalWords:     cellInt64(totals, colWords),
		TotalViews:     cellInt64(totals, colViews),
		TotalReviews:   cellInt(totals, colReviews),
		TotalReaders:   cellInt(totals, colReaders),
		TotalFollowers: cellInt(totals, colFollowers),
	}, nil
}

func (l *ProfileLayout) disabled(page *goquery.Selection) bool {
	notice := page.Find(l.DisabledNotice).First()
	return notice.Length() > 0 && strings.Contains(extract.OwnText(notice), l.DisabledPhrase)
}

// profileID reads the numeric id embedded in a profile URL.
func profileID(url string) int {
	if m := profileIDPattern.FindStringSubmatch(url); m != nil {
		if id, err := extract.ParseInt(m[1]); err == nil {
			return id
		}
	}
	id, _ := extract.ParseInt(url)
	return id
}

// cellValue is the text of a profile table row's value cells.
func cellValue(row extract.Row, name string) string {
	cell, err := row.Cell(name)
	if err != nil {
		return ""
	}
	return extract.NormalizeSpace(cell.Find("td").Text())
}

func cellInt(row extract.Row, name string) int {
	n, _ := extract.ParseInt(cellValue(row, name))
	return n
}

func cellInt64(row extract.Row, name string) int64 {
	n, _ := extract.ParseInt64(cellValue(row, name))
	return n
}
