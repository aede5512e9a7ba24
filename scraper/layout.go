package scraper

import "github.com/pevans/scribble/extract"

// Layout holds every selector and offset table used to read Scribble Hub
// pages. A change in the site's markup is fixed here, not in the assemblers.
type Layout struct {
	Listing    ListingLayout    `json:"listing"`
	Detail     DetailLayout     `json:"detail"`
	Profile    ProfileLayout    `json:"profile"`
	UserSearch UserSearchLayout `json:"user_search"`
	Updates    UpdatesLayout    `json:"updates"`
	Forum      ForumLayout      `json:"forum"`
}

// ListingLayout describes the story boxes shared by search, ranking, series
// finder and latest-series pages.
type ListingLayout struct {
	Item           string           `json:"item"`
	Thumbnail      string           `json:"thumbnail"`
	Rating         string           `json:"rating"`
	Body           string           `json:"body"`
	Title          string           `json:"title"`
	MoreSynopsis   string           `json:"more_synopsis"`
	GenreContainer string           `json:"genre_container"`
	GenreItem      string           `json:"genre_item"`
	Stats          string           `json:"stats"`
	StatsAnchor    string           `json:"stats_anchor"`
	StatsColumns   []extract.Column `json:"stats_columns"`
}

// DetailLayout describes a story page.
type DetailLayout struct {
	Container      string           `json:"container"`
	Synopsis       string           `json:"synopsis"`
	GenreContainer string           `json:"genre_container"`
	GenreItem      string           `json:"genre_item"`
	TagContainer   string           `json:"tag_container"`
	TagItem        string           `json:"tag_item"`
	Rating         string           `json:"rating"`
	Stats          string           `json:"stats"`
	StatsAnchor    string           `json:"stats_anchor"`
	StatsColumns   []extract.Column `json:"stats_columns"`
	SID            string           `json:"sid"`
}

// ProfileLayout describes a user profile page.
type ProfileLayout struct {
	DisabledNotice      string           `json:"disabled_notice"`
	DisabledPhrase      string           `json:"disabled_phrase"`
	PageTitle           string           `json:"page_title"`
	TitleSuffix         string           `json:"title_suffix"`
	Bio                 string           `json:"bio"`
	Container           string           `json:"container"`
	AuthorID            string           `json:"author_id"`
	Overview            string           `json:"overview"`
	OverviewRow         string           `json:"overview_row"`
	DemographicsColumns []extract.Column `json:"demographics_columns"`
	TotalsColumns       []extract.Column `json:"totals_columns"`
}

// UserSearchLayout describes the user box of the search page.
type UserSearchLayout struct {
	Item  string `json:"item"`
	Image string `json:"image"`
}

// UpdatesLayout describes the front page's latest releases table.
type UpdatesLayout struct {
	Row        string `json:"row"`
	Thumbnail  string `json:"thumbnail"`
	Body       string `json:"body"`
	Title      string `json:"title"`
	GenreItem  string `json:"genre_item"`
	AuthorName string `json:"author_name"`
	Size       int    `json:"size"`
}

// ForumLayout describes the front page's latest forum topics.
type ForumLayout struct {
	Row string `json:"row"`
}

// Column names shared by assemblers and offset tables.
const (
	colViews           = "views"
	colFavorites       = "favorites"
	colChapters        = "chapters"
	colChaptersPerWeek = "chapters_per_week"
	colReaders         = "readers"
	colReviews         = "reviews"
	colWords           = "words"
	colLastUpdated     = "last_updated"
	colCreator         = "creator"

	colLastActive = "last_active"
	colBirthday   = "birthday"
	colGender     = "gender"
	colLocation   = "location"
	colHomepage   = "homepage"
	colSeries     = "series"
	colFollowers  = "followers"
)

// DefaultLayout returns the layout of the site as currently published.
func DefaultLayout() *Layout {
	return &Layout{
		Listing: ListingLayout{
			Item:           ".search_main_box",
			Thumbnail:      ".search_img img",
			Rating:         ".search_img .search_ratings",
			Body:           ".search_body",
			Title:          ".search_title a",
			MoreSynopsis:   "span.testhide",
			GenreContainer: ".search_genre",
			GenreItem:      "a",
			Stats:          ".search_stats",
			StatsAnchor:    "span",
			StatsColumns: []extract.Column{
				{Name: colViews, Offset: 0},
				{Name: colFavorites, Offset: 1},
				{Name: colChapters, Offset: 2},
				{Name: colChaptersPerWeek, Offset: 3},
				{Name: colReaders, Offset: 4},
				{Name: colReviews, Offset: 5},
				{Name: colWords, Offset: 6},
				{Name: colLastUpdated, Offset: 7},
				{Name: colCreator, Offset: 0, FromEnd: true},
			},
		},
		Detail: DetailLayout{
			Container:      ".wi_fic_wrap.bottom .wi-fic_l-content.fic .box_fictionpage.details .fic_row.details",
			Synopsis:       ".wi_fic_desc",
			GenreContainer: ".wi_fic_genre",
			GenreItem:      ".fic_genre",
			TagContainer:   ".wi_fic_showtags",
			TagItem:        "span a",
			Rating:         ".fic_rate span",
			Stats:          ".fic_stats",
			StatsAnchor:    "span.st_item",
			StatsColumns: []extract.Column{
				{Name: colViews, Offset: 0},
				{Name: colFavorites, Offset: 1},
				{Name: colChapters, Offset: 2},
				{Name: colChaptersPerWeek, Offset: 3},
				{Name: colReaders, Offset: 0, FromEnd: true},
			},
			SID: "div.site .site-content-contain input#mypostid",
		},
		Profile: ProfileLayout{
			DisabledNotice: ".error_msg_profile",
			DisabledPhrase: "disable their profile.",
			PageTitle:      "title",
			TitleSuffix:    "'s Profile | Scribble Hub",
			Bio:            ".user_bio_profile",
			Container:      ".site-content-contain.profile",
			AuthorID:       "input[name='authorid']",
			Overview:       ".table_pro_overview",
			OverviewRow:    "tr",
			DemographicsColumns: []extract.Column{
				{Name: colLastActive, Offset: 0},
				{Name: colBirthday, Offset: 1},
				{Name: colGender, Offset: 2},
				{Name: colLocation, Offset: 3},
				{Name: colHomepage, Offset: 0, FromEnd: true},
			},
			TotalsColumns: []extract.Column{
				{Name: colSeries, Offset: 0},
				{Name: colWords, Offset: 1},
				{Name: colViews, Offset: 2},
				{Name: colReviews, Offset: 3},
				{Name: colReaders, Offset: 4},
				{Name: colFollowers, Offset: 0, FromEnd: true},
			},
		},
		UserSearch: UserSearchLayout{
			Item:  ".sb_box.search .s_user_link",
			Image: ".s_user_results .sur_image img",
		},
		Updates: UpdatesLayout{
			Row:        ".wi-editfic_l-content_main .latest_releases_main .mr_fictable tbody tr",
			Thumbnail:  ".m_img_fic img",
			Body:       ".search_body.ficmain",
			Title:      ".fp_title.main",
			GenreItem:  ".fic_genre.search.ahmain",
			AuthorName: ".fp_authorname",
			Size:       10,
		},
		Forum: ForumLayout{
			Row: ".site .site-content-contain .wi_fic_wrap.slider #tp_latest tr:has(td)",
		},
	}
}
