package scribble

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pevans/scribble/cache"
	"github.com/pevans/scribble/fetch"
	"github.com/pevans/scribble/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	searchURL  = "https://www.scribblehub.com/?s=tower&post_type=fictionposts"
	rankingURL = "https://www.scribblehub.com/series-ranking/?sort=1&order=1"
	latestURL  = "https://www.scribblehub.com/latest-series/"
	frontURL   = "https://www.scribblehub.com/"
	storyURL   = "https://www.scribblehub.com/series/101/the-tower/"
	profileURL = "https://www.scribblehub.com/profile/77/ink/"
	hiddenURL  = "https://www.scribblehub.com/profile/4242/hidden-hand/"
	feedURL    = "https://www.scribblehub.com/rssfeed.php?type=series&sid=101"
)

// fakeSite serves fixture pages by URL and records every request.
type fakeSite struct {
	mu          sync.Mutex
	pages       map[string][]byte
	calls       []fetch.Request
	fail        error
	delay       time.Duration
	// Requests for hold wait until release is closed
	hold        string
	release     chan struct{}
	inFlight    int
	maxInFlight int
}

func (f *fakeSite) Fetch(ctx context.Context, req fetch.Request) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	fail, delay := f.fail, f.delay
	held := f.hold != "" && req.URL == f.hold
	body, ok := f.pages[req.URL]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if held {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, &fetch.TransportError{URL: req.URL, Err: ctx.Err()}
		}
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &fetch.TransportError{URL: req.URL, Err: ctx.Err()}
		}
	}
	if fail != nil {
		return nil, &fetch.TransportError{URL: req.URL, Err: fail}
	}
	if !ok {
		return nil, &fetch.TransportError{URL: req.URL, StatusCode: 404, Err: fetch.ErrStatus}
	}
	return body, nil
}

func (f *fakeSite) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSite) lastCall() fetch.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// Test helper: a site serving every fixture page
func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	fixture := func(name string) []byte {
		data, err := os.ReadFile(filepath.Join("scraper", "testdata", name))
		require.NoError(t, err)
		return data
	}
	return &fakeSite{pages: map[string][]byte{
		searchURL:  fixture("search.html"),
		rankingURL: fixture("ranking.html"),
		latestURL:  fixture("ranking.html"),
		frontURL:   fixture("front.html"),
		storyURL:   fixture("story.html"),
		profileURL: fixture("profile.html"),
		hiddenURL:  fixture("profile_disabled.html"),
		feedURL:    fixture("series_feed.xml"),
	}}
}

// Test helper: a client over site with logging discarded
func newTestClient(site fetch.Fetcher) *Client {
	config := DefaultClientConfig()
	config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(site, cache.New(nil), config)
}

// TestSearchStories verifies records come back and the second call is served
// from cache
func TestSearchStories(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)

	results := client.SearchStories(context.Background(), "tower")
	require.Len(t, results, 2, "box without a thumbnail is skipped")
	assert.Equal(t, "the-tower", results[0].Title)
	assert.Equal(t, "1.2k", results[0].Views)
	assert.Equal(t, "https://www.scribblehub.com/", site.lastCall().Referrer)
	assert.Equal(t, DefaultUserAgent, site.lastCall().UserAgent)

	again := client.SearchStories(context.Background(), "  Tower ")
	assert.Equal(t, results, again)
	assert.Equal(t, 1, site.callCount(), "normalized query should hit the cache")
}

// TestSearchStories_TransportFailure verifies a failure yields nil, caches
// nothing and is not retried
func TestSearchStories_TransportFailure(t *testing.T) {
	site := newFakeSite(t)
	site.fail = errors.New("connection reset")
	client := newTestClient(site)

	assert.Nil(t, client.SearchStories(context.Background(), "tower"))
	assert.Equal(t, 1, site.callCount(), "no retry")
	assert.Equal(t, 0, client.Cache().Len())

	site.mu.Lock()
	site.fail = nil
	site.mu.Unlock()

	assert.Len(t, client.SearchStories(context.Background(), "tower"), 2)
	assert.Equal(t, 2, site.callCount())
}

// TestSearchStories_NoMatches verifies an empty page is an empty result, not
// a failure
func TestSearchStories_NoMatches(t *testing.T) {
	site := newFakeSite(t)
	site.pages["https://www.scribblehub.com/?s=zzz&post_type=fictionposts"] = []byte(`<html><body><p>No results</p></body></html>`)
	client := newTestClient(site)

	results := client.SearchStories(context.Background(), "zzz")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

// TestSearchUsers verifies user stubs from the search page
func TestSearchUsers(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)

	users := client.SearchUsers(context.Background(), "tower")

	require.Len(t, users, 2)
	assert.Equal(t, "Ink", users[0].Name)
	assert.Equal(t, "https://www.scribblehub.com/profile/79/inkwell/", users[1].URL)
}

// TestSeriesFinder verifies the finder referrer and URL keyed caching
func TestSeriesFinder(t *testing.T) {
	site := newFakeSite(t)
	finder := "https://www.scribblehub.com/series-finder/?sf=1&gi=5&order=desc"
	site.pages[finder] = site.pages[searchURL]
	client := newTestClient(site)

	results := client.SeriesFinder(context.Background(), finder)

	assert.Len(t, results, 2)
	assert.Equal(t, "https://www.scribblehub.com/series-finder/?sf=2", site.lastCall().Referrer)

	_ = client.SeriesFinder(context.Background(), "https://scribblehub.com/series-finder/?sf=1&gi=5&order=desc#top")
	assert.Equal(t, 1, site.callCount())
}

// TestRankings verifies the ranking URL and strict stats handling
func TestRankings(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)

	results := client.Rankings(context.Background(), RankingPopularity, OrderDescending)

	require.Len(t, results, 2, "box without stats is skipped on ranking pages")
	assert.Equal(t, rankingURL, site.lastCall().URL)
	assert.Empty(t, site.lastCall().Referrer)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Rating, 0.0)
		assert.LessOrEqual(t, r.Rating, 5.0)
		assert.GreaterOrEqual(t, r.Chapters, 0)
	}

	e, ok := client.Cache().Lookup(rankingKey(RankingPopularity, OrderDescending))
	require.True(t, ok)
	assert.Equal(t, cache.Rankings, e.Category)
}

// TestLatestSeries verifies latest series keep boxes without stats
func TestLatestSeries(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)

	results := client.LatestSeries(context.Background())

	require.Len(t, results, 3)
	assert.Equal(t, "broken-layout", results[1].Title)
	assert.Zero(t, results[1].Readers)
}

// TestLatestUpdates verifies the fixed-size front page table
func TestLatestUpdates(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)

	updates := client.LatestUpdates(context.Background())

	require.Len(t, updates, 10)
	assert.Equal(t, "Story 1", updates[0].StoryName)
	assert.Equal(t, "Chapter 1", updates[0].ChapterTitle)
}

// TestLatestTopics verifies forum threads from the front page
func TestLatestTopics(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)

	threads := client.LatestTopics(context.Background())

	require.Len(t, threads, 2)
	assert.Equal(t, "Welcome", threads[0].Title)
	assert.Equal(t, "5 minutes ago", threads[0].LatestReply)
}

// TestStory verifies the story page, the configured referrer and URL
// normalization of the cache key
func TestStory(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)

	story := client.Story(context.Background(), storyURL)

	require.NotNil(t, story)
	assert.Equal(t, 101, story.SID)
	assert.Equal(t, "The Tower", story.Title)
	assert.Equal(t, 815, story.Readers)
	assert.Equal(t, "https://www.scribblehub.com/", site.lastCall().Referrer)

	again := client.Story(context.Background(), "https://scribblehub.com/series/101/the-tower/#comments")
	require.NotNil(t, again)
	assert.Equal(t, *story, *again)
	assert.Equal(t, 1, site.callCount())
}

// TestStory_LayoutChanged verifies a page without stats gives nil and is not
// cached
func TestStory_LayoutChanged(t *testing.T) {
	site := newFakeSite(t)
	nostats, err := os.ReadFile(filepath.Join("scraper", "testdata", "story_nostats.html"))
	require.NoError(t, err)
	site.pages[storyURL] = nostats
	client := newTestClient(site)

	assert.Nil(t, client.Story(context.Background(), storyURL))
	assert.Equal(t, 0, client.Cache().Len())
}

// TestStory_NotFound verifies a 404 gives nil
func TestStory_NotFound(t *testing.T) {
	client := newTestClient(newFakeSite(t))

	assert.Nil(t, client.Story(context.Background(), "https://www.scribblehub.com/series/999/missing/"))
}

// TestUser verifies a profile page
func TestUser(t *testing.T) {
	client := newTestClient(newFakeSite(t))

	user := client.User(context.Background(), profileURL)

	require.NotNil(t, user)
	assert.Equal(t, 77, user.UID)
	assert.Equal(t, "Ink", user.Name)
	assert.False(t, user.Disabled)
	assert.Equal(t, int64(1234567), user.TotalWords)
}

// TestUser_Disabled verifies the disabled variant comes through the client
func TestUser_Disabled(t *testing.T) {
	client := newTestClient(newFakeSite(t))

	user := client.User(context.Background(), hiddenURL)

	require.NotNil(t, user)
	assert.Equal(t, record.DisabledProfile(4242, "Hidden Hand", hiddenURL), *user)
}

// TestSeriesFeed verifies RSS chapters
func TestSeriesFeed(t *testing.T) {
	client := newTestClient(newFakeSite(t))

	entries := client.SeriesFeed(context.Background(), 101)

	require.Len(t, entries, 2)
	assert.Equal(t, "The Tower - Chapter 42", entries[0].Title)
	assert.Equal(t, "https://www.scribblehub.com/read/101-the-tower/chapter/42/", entries[0].URL)
	assert.Equal(t, "Ink", entries[0].Author)
	assert.Equal(t, time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC), entries[0].PublishedAt.UTC())
}

// TestSeriesFeed_Malformed verifies an unparseable feed gives nil
func TestSeriesFeed_Malformed(t *testing.T) {
	site := newFakeSite(t)
	site.pages["https://www.scribblehub.com/rssfeed.php?type=series&sid=5"] = []byte("not a feed")
	client := newTestClient(site)

	assert.Nil(t, client.SeriesFeed(context.Background(), 5))
}

// TestDisabledCategory verifies a disabled category bypasses the cache and
// skips writes
func TestDisabledCategory(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)
	client.Cache().SetEnabled(cache.Search, false)

	_ = client.SearchStories(context.Background(), "tower")
	_ = client.SearchStories(context.Background(), "tower")
	assert.Equal(t, 2, site.callCount())
	assert.Equal(t, 0, client.Cache().Len())

	_ = client.Story(context.Background(), storyURL)
	_ = client.Story(context.Background(), storyURL)
	assert.Equal(t, 3, site.callCount(), "other categories still cache")
}

// TestToggleRoundTrip verifies a cached entry returns after re-enabling
func TestToggleRoundTrip(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)

	first := client.Story(context.Background(), storyURL)
	client.Cache().SetEnabled(cache.Detail, false)
	client.Cache().SetEnabled(cache.Detail, true)
	second := client.Story(context.Background(), storyURL)

	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.Equal(t, 1, site.callCount())
}

// TestSetUserAgent verifies settings apply from the next call
func TestSetUserAgent(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(site)

	client.SetUserAgent("custom/2.0")
	client.SetReferrer("https://example.com/ref")
	_ = client.Story(context.Background(), storyURL)

	assert.Equal(t, "custom/2.0", site.lastCall().UserAgent)
	assert.Equal(t, "https://example.com/ref", site.lastCall().Referrer)
	assert.Equal(t, "custom/2.0", client.UserAgent())

	_ = client.User(context.Background(), profileURL)
	assert.Equal(t, "custom/2.0", site.lastCall().UserAgent)
	assert.Equal(t, "https://www.scribblehub.com/", site.lastCall().Referrer, "profiles never get the configured referrer")
}

// TestListingConcurrency verifies listing fetches run one at a time
func TestListingConcurrency(t *testing.T) {
	site := newFakeSite(t)
	site.delay = 20 * time.Millisecond
	client := newTestClient(site)

	var wg sync.WaitGroup
	for _, op := range []func(){
		func() { client.SearchStories(context.Background(), "tower") },
		func() { client.LatestSeries(context.Background()) },
		func() { client.LatestUpdates(context.Background()) },
		func() { client.Rankings(context.Background(), RankingPopularity, OrderDescending) },
	} {
		wg.Add(1)
		go func(f func()) {
			defer wg.Done()
			f()
		}(op)
	}
	wg.Wait()

	assert.Equal(t, 4, site.callCount())
	assert.Equal(t, 1, site.maxInFlight)
}

// TestDetail_NotBoundByListingSlot verifies story and profile pages are
// fetched while a listing holds the only listing slot
func TestDetail_NotBoundByListingSlot(t *testing.T) {
	site := newFakeSite(t)
	site.hold = latestURL
	site.release = make(chan struct{})
	client := newTestClient(site)

	done := make(chan []record.StorySummary)
	go func() {
		done <- client.LatestSeries(context.Background())
	}()
	require.Eventually(t, func() bool { return site.callCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NotNil(t, client.Story(ctx, storyURL))
	assert.NotNil(t, client.User(ctx, profileURL))
	assert.Equal(t, 2, site.maxInFlight, "detail fetch ran beside the held listing")

	waiting, stop := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer stop()
	assert.Nil(t, client.SearchStories(waiting, "tower"), "listing waits for the slot")

	close(site.release)
	assert.NotNil(t, <-done)
}

// TestListing_AbandonedWhileWaiting verifies a cancelled caller gives up its
// place in the listing queue
func TestListing_AbandonedWhileWaiting(t *testing.T) {
	site := newFakeSite(t)
	site.delay = 200 * time.Millisecond
	client := newTestClient(site)

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.LatestSeries(context.Background())
	}()
	require.Eventually(t, func() bool { return site.callCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, client.SearchStories(ctx, "tower"))
	assert.Equal(t, 1, site.callCount())

	<-done
}

// TestParseRankingAndOrder verifies lookups by ID
func TestParseRankingAndOrder(t *testing.T) {
	r, err := ParseRanking("Readers")
	require.NoError(t, err)
	assert.Equal(t, RankingReaders, r)

	r, err = ParseRanking("popular")
	require.NoError(t, err)
	assert.Equal(t, RankingPopularity, r)

	o, err := ParseOrder("descending")
	require.NoError(t, err)
	assert.Equal(t, OrderDescending, o)

	_, err = ParseRanking("nope")
	assert.Error(t, err)

	o, err = ParseOrder("asc")
	require.NoError(t, err)
	assert.Equal(t, OrderAscending, o)

	_, err = ParseOrder("sideways")
	assert.Error(t, err)
}

// TestURLKey verifies equivalent URLs share a cache key
func TestURLKey(t *testing.T) {
	base := urlKey("story", "https://www.scribblehub.com/series/101/the-tower/")

	assert.Equal(t, base, urlKey("story", "HTTPS://www.ScribbleHub.com/series/101/the-tower/#comments"))
	assert.Equal(t, base, urlKey("story", " https://scribblehub.com/series/101/the-tower/ "))
	assert.NotEqual(t, base, urlKey("user", "https://www.scribblehub.com/series/101/the-tower/"))
	assert.NotEqual(t, base, urlKey("story", "https://www.scribblehub.com/series/102/other/"))
}
