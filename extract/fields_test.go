package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsHTML = `
<div class="box">
  <div class="search_title"><a href="https://example.com/series/1/x/">The Title</a></div>
  <div class="search_stats">
    <span class="nl">1.2k Views</span>
    <span class="nl">45 Favorites</span>
    <span class="nl">12 Chapters</span>
    <span class="nl">3 Chapters/Week</span>
    <span class="nl">99 Readers</span>
    <span class="nl">7 Reviews</span>
    <span class="nl">95.1k Words</span>
    <span class="nl">2 days ago</span>
    <span class="nl"><span><a href="https://example.com/profile/9/writer/">Writer</a></span></span>
  </div>
</div>`

var statsColumns = []Column{
	{Name: "views", Offset: 0},
	{Name: "favorites", Offset: 1},
	{Name: "chapters", Offset: 2},
	{Name: "words", Offset: 6},
	{Name: "updated", Offset: 7},
	{Name: "missing", Offset: 40},
	{Name: "creator", Offset: 0, FromEnd: true},
}

// TestText_And_Attr verifies the happy path of the basic extractors
func TestText_And_Attr(t *testing.T) {
	root := parse(t, statsHTML)

	title, err := Text(root, "title", Path{First(".search_title a")})
	require.NoError(t, err)
	assert.Equal(t, "The Title", title)

	href, err := Attr(root, "url", Path{First(".search_title"), First("a")}, "href")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/series/1/x/", href)
}

// TestResolve_MissingStep verifies the failure names the field and step
func TestResolve_MissingStep(t *testing.T) {
	root := parse(t, statsHTML)

	_, err := Text(root, "title", Path{First(".search_title"), First("h1")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFieldNotFound)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "title", fe.Field)
	assert.Equal(t, "h1:first", fe.Step)
}

// TestAttr_MissingAttribute verifies an absent attribute is a missing field
func TestAttr_MissingAttribute(t *testing.T) {
	root := parse(t, statsHTML)

	_, err := Attr(root, "thumb", Path{First(".search_title a")}, "src")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

// TestInt_Malformed verifies numeric failures carry the field name
func TestInt_Malformed(t *testing.T) {
	root := parse(t, statsHTML)

	_, err := Int(root, "title", Path{First(".search_title a")})
	assert.ErrorIs(t, err, ErrMalformedNumber)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "title", fe.Field)
}

// TestReadRow verifies offsets from one anchor lookup
func TestReadRow(t *testing.T) {
	root := parse(t, statsHTML)

	row, err := ReadRow(root.Find(".search_stats"), "stats", "span.nl", statsColumns)
	require.NoError(t, err)

	views, err := row.Abbreviated("views")
	require.NoError(t, err)
	assert.Equal(t, "1.2k", views)

	fav, err := row.Int64("favorites")
	require.NoError(t, err)
	assert.Equal(t, int64(45), fav)

	ch, err := row.Int("chapters")
	require.NoError(t, err)
	assert.Equal(t, 12, ch)

	words, err := row.Abbreviated("words")
	require.NoError(t, err)
	assert.Equal(t, "95.1k", words)

	updated, err := row.OwnText("updated")
	require.NoError(t, err)
	assert.Equal(t, "2 days ago", updated)

	creator, err := row.Cell("creator")
	require.NoError(t, err)
	assert.Equal(t, "Writer", creator.Find("a").Text())

	_, err = row.Int("missing")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

// TestReadRow_NoAnchor verifies a missing stats block fails
func TestReadRow_NoAnchor(t *testing.T) {
	root := parse(t, `<div class="search_stats"></div>`)

	_, err := ReadRow(root, "stats", "span.nl", statsColumns)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

// TestMeta verifies meta content lookup by name and by property
func TestMeta(t *testing.T) {
	root := parse(t, `<html><head>
		<meta name="twitter:title" content="A Story">
		<meta property="og:image" content="https://img.example/a.jpg">
	</head><body></body></html>`)

	title, err := Meta(root, "name", "twitter:title")
	require.NoError(t, err)
	assert.Equal(t, "A Story", title)

	img, err := Meta(root, "property", "og:image")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/a.jpg", img)

	_, err = Meta(root, "name", "twitter:creator")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

// TestParagraphs verifies joining and the own text fallback
func TestParagraphs(t *testing.T) {
	root := parse(t, `
		<div id="a"><p>First line.</p><p> Second <i>line</i>. </p><p></p></div>
		<div id="b">Only text <span>ignored</span></div>`)

	assert.Equal(t, "First line.\nSecond line.", Paragraphs(root.Find("#a")))
	assert.Equal(t, "Only text", Paragraphs(root.Find("#b")))
	assert.Equal(t, "", Paragraphs(root.Find("#c")))
}

// TestList verifies document order and the empty container case
func TestList(t *testing.T) {
	root := parse(t, `<div class="g"><a>Action</a><a> Drama </a><a></a></div>`)

	assert.Equal(t, []string{"Action", "Drama"}, List(root.Find(".g"), "a"))
	assert.Equal(t, []string{}, List(root.Find(".none"), "a"))
}

// TestFieldError_Message verifies the message names the field and the step
func TestFieldError_Message(t *testing.T) {
	err := &FieldError{Field: "rating", Step: "span.rating", Err: ErrMalformedNumber}
	assert.Equal(t, "rating (at span.rating): malformed numeric field", err.Error())
	assert.ErrorIs(t, err, ErrMalformedNumber)

	err = &FieldError{Field: "title", Err: ErrFieldNotFound}
	assert.Equal(t, "title: field not found", err.Error())
	assert.NotErrorIs(t, err, ErrMalformedNumber)
}
