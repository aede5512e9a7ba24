package scribble

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/scribble/cache"
	"github.com/pevans/scribble/record"
)

// Story reads a story page. It returns nil when the page could not be
// fetched or is missing its title or stats.
func (c *Client) Story(ctx context.Context, storyURL string) *record.StoryDetail {
	layout := c.currentLayout()
	v, ok := run(ctx, c, query{
		op:       "story",
		key:      urlKey("story", storyURL),
		category: cache.Detail,
		req:      c.request(storyURL, c.Referrer()),
	}, page(storyURL, func(p *goquery.Selection, _ *slog.Logger) (record.StoryDetail, error) {
		return layout.Detail.Story(p, storyURL)
	}))
	if !ok {
		return nil
	}
	return &v
}

// User reads a profile page. Disabled profiles come back with Disabled set.
// Profiles are requested with the site root as referrer; the configured
// referrer is for story pages only.
func (c *Client) User(ctx context.Context, profileURL string) *record.UserProfile {
	layout := c.currentLayout()
	v, ok := run(ctx, c, query{
		op:       "user",
		key:      urlKey("user", profileURL),
		category: cache.Detail,
		req:      c.request(profileURL, c.baseURL+"/"),
	}, page(profileURL, func(p *goquery.Selection, _ *slog.Logger) (record.UserProfile, error) {
		return layout.Profile.User(p, profileURL)
	}))
	if !ok {
		return nil
	}
	return &v
}
