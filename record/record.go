// Package record holds the typed values extracted from Scribble Hub pages.
// Records are plain values; nothing in this module mutates one after it has
// been returned.
package record

import "time"

// StorySummary is a story as it appears in a search, ranking or latest-series
// listing.
type StorySummary struct {
	Thumbnail       string   `json:"thumbnail"`
	Rating          float64  `json:"rating"`
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	ShortSynopsis   string   `json:"short_synopsis"`
	FullSynopsis    string   `json:"full_synopsis"`
	Genres          []string `json:"genres"`
	Views           string   `json:"views"` // abbreviated, e.g. "1.2k"
	Favorites       int64    `json:"favorites"`
	Chapters        int      `json:"chapters"`
	ChaptersPerWeek int      `json:"chapters_per_week"`
	Readers         int      `json:"readers"`
	Reviews         int      `json:"reviews"`
	Words           string   `json:"words"` // abbreviated, e.g. "95.1k"
	LastUpdated     string   `json:"last_updated"`
	Creator         string   `json:"creator"`
	CreatorURL      string   `json:"creator_url"`
}

// StoryDetail is the full story page.
type StoryDetail struct {
	SID             int      `json:"sid"`
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Image           string   `json:"image"`
	Creator         string   `json:"creator"`
	Synopsis        string   `json:"synopsis"`
	Genres          []string `json:"genres"`
	Tags            []string `json:"tags"`
	Rating          float64  `json:"rating"`
	RatingCount     int      `json:"rating_count"`
	Views           string   `json:"views"`
	Favorites       int64    `json:"favorites"`
	Chapters        int      `json:"chapters"`
	ChaptersPerWeek int      `json:"chapters_per_week"`
	Readers         int      `json:"readers"`
}

// UserProfile is a user's profile page.
type UserProfile struct {
	UID            int    `json:"uid"`
	URL            string `json:"url"`
	Name           string `json:"name"`
	Avatar         string `json:"avatar"`
	Bio            string `json:"bio"`
	LastActive     string `json:"last_active"`
	Birthday       string `json:"birthday"`
	Gender         string `json:"gender"`
	Location       string `json:"location"`
	Homepage       string `json:"homepage"`
	TotalSeries    int    `json:"total_series"`
	TotalWords     int64  `json:"total_words"`
	TotalViews     int64  `json:"total_views"`
	TotalReviews   int    `json:"total_reviews"`
	TotalReaders   int    `json:"total_readers"`
	TotalFollowers int    `json:"total_followers"`
	Disabled       bool   `json:"disabled"`
}

// Values used for every field of a profile whose owner disabled it.
const (
	DisabledField  = "Disabled"
	DisabledBio    = "This user has disabled their profile."
	DefaultAvatar  = "https://cdn.scribblehub.com/default/avatar.jpg"
	disabledTotals = 0
)

// DisabledProfile builds the profile of a user who disabled their page. It is
// the only way a UserProfile with Disabled set is produced.
func DisabledProfile(uid int, name, url string) UserProfile {
	return UserProfile{
		UID:            uid,
		URL:            url,
		Name:           name,
		Avatar:         DefaultAvatar,
		Bio:            DisabledBio,
		LastActive:     DisabledField,
		Birthday:       DisabledField,
		Gender:         DisabledField,
		Location:       DisabledField,
		Homepage:       DisabledField,
		TotalSeries:    disabledTotals,
		TotalWords:     disabledTotals,
		TotalViews:     disabledTotals,
		TotalReviews:   disabledTotals,
		TotalReaders:   disabledTotals,
		TotalFollowers: disabledTotals,
		Disabled:       true,
	}
}

// UserResult is a user stub returned by the site search.
type UserResult struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	URL    string `json:"url"`
}

// LatestUpdate is one row of the front page's latest releases table.
type LatestUpdate struct {
	Thumbnail    string   `json:"thumbnail"`
	StoryName    string   `json:"story_name"`
	StoryURL     string   `json:"story_url"`
	Genres       []string `json:"genres"`
	ChapterTitle string   `json:"chapter_title"`
	ChapterURL   string   `json:"chapter_url"`
	AuthorName   string   `json:"author_name"`
	AuthorURL    string   `json:"author_url"`
	LastUpdate   string   `json:"last_update"`
}

// ForumThread is one entry of the front page's latest forum topics.
type ForumThread struct {
	Title       string `json:"title"`
	LatestReply string `json:"latest_reply"`
	URL         string `json:"url"`
}

// FeedEntry is a chapter announced in a series or author RSS feed.
type FeedEntry struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
