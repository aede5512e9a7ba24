package scribble

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/scribble/cache"
	"github.com/pevans/scribble/record"
)

// SearchStories runs a site search and returns the matching stories. The
// result is nil when the page could not be fetched and empty when nothing
// matched.
func (c *Client) SearchStories(ctx context.Context, q string) []record.StorySummary {
	target := fmt.Sprintf("%s/?s=%s&post_type=fictionposts", c.baseURL, url.QueryEscape(q))
	v, _ := run(ctx, c, query{
		op:       "search-stories",
		key:      queryKey("story-search", q),
		category: cache.Search,
		req:      c.request(target, c.baseURL+"/"),
		listing:  true,
	}, c.summaries(target, false))
	return v
}

// SearchUsers runs a site search and returns the matching users.
func (c *Client) SearchUsers(ctx context.Context, q string) []record.UserResult {
	target := fmt.Sprintf("%s/?s=%s&post_type=fictionposts", c.baseURL, url.QueryEscape(q))
	layout := c.currentLayout()
	v, _ := run(ctx, c, query{
		op:       "search-users",
		key:      queryKey("user-search", q),
		category: cache.Search,
		req:      c.request(target, c.baseURL+"/"),
		listing:  true,
	}, page(target, func(p *goquery.Selection, logger *slog.Logger) ([]record.UserResult, error) {
		return records(layout.UserSearch.Users(p), logger), nil
	}))
	return v
}

// SeriesFinder reads the results of a series-finder URL built on the site.
func (c *Client) SeriesFinder(ctx context.Context, finderURL string) []record.StorySummary {
	v, _ := run(ctx, c, query{
		op:       "series-finder",
		key:      urlKey("series-finder", finderURL),
		category: cache.Search,
		req:      c.request(finderURL, c.baseURL+"/series-finder/?sf=2"),
		listing:  true,
	}, c.summaries(finderURL, false))
	return v
}

// Rankings returns the series ranking for a sort and order. Every entry of a
// ranking page carries a stats row; boxes without one are skipped.
func (c *Client) Rankings(ctx context.Context, r Ranking, o Order) []record.StorySummary {
	target := fmt.Sprintf("%s/series-ranking/?sort=%d&order=%d", c.baseURL, r.Sort, o.Value)
	v, _ := run(ctx, c, query{
		op:       "rankings",
		key:      rankingKey(r, o),
		category: cache.Rankings,
		req:      c.request(target, ""),
		listing:  true,
	}, c.summaries(target, true))
	return v
}

// LatestSeries returns the most recently added series.
func (c *Client) LatestSeries(ctx context.Context) []record.StorySummary {
	target := c.baseURL + "/latest-series/"
	v, _ := run(ctx, c, query{
		op:       "latest-series",
		key:      "latest-series",
		category: cache.Rankings,
		req:      c.request(target, ""),
		listing:  true,
	}, c.summaries(target, false))
	return v
}

// LatestUpdates returns the front page's latest releases, at most ten.
func (c *Client) LatestUpdates(ctx context.Context) []record.LatestUpdate {
	target := c.baseURL + "/"
	layout := c.currentLayout()
	v, _ := run(ctx, c, query{
		op:       "latest-updates",
		key:      "latest-updates",
		category: cache.Rankings,
		req:      c.request(target, ""),
		listing:  true,
	}, page(target, func(p *goquery.Selection, logger *slog.Logger) ([]record.LatestUpdate, error) {
		return records(layout.Updates.Updates(p), logger), nil
	}))
	return v
}

// LatestTopics returns the front page's latest forum topics.
func (c *Client) LatestTopics(ctx context.Context) []record.ForumThread {
	target := c.baseURL + "/"
	layout := c.currentLayout()
	v, _ := run(ctx, c, query{
		op:       "latest-topics",
		key:      "latest-topics",
		category: cache.Rankings,
		req:      c.request(target, ""),
		listing:  true,
	}, page(target, func(p *goquery.Selection, logger *slog.Logger) ([]record.ForumThread, error) {
		return records(layout.Forum.Threads(p), logger), nil
	}))
	return v
}

func (c *Client) summaries(target string, strict bool) parseFunc[[]record.StorySummary] {
	layout := c.currentLayout()
	return page(target, func(p *goquery.Selection, logger *slog.Logger) ([]record.StorySummary, error) {
		return records(layout.Listing.Summaries(p, strict), logger), nil
	})
}
