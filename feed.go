package scribble

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/gofeed"
	"github.com/pevans/scribble/cache"
	"github.com/pevans/scribble/record"
)

// SeriesFeed returns the chapters announced in a series' RSS feed.
func (c *Client) SeriesFeed(ctx context.Context, sid int) []record.FeedEntry {
	target := fmt.Sprintf("%s/rssfeed.php?type=series&sid=%d", c.baseURL, sid)
	return c.feed(ctx, "series-feed", fmt.Sprintf("series-feed:%d", sid), target)
}

// AuthorFeed returns the chapters announced in an author's RSS feed.
func (c *Client) AuthorFeed(ctx context.Context, uid int) []record.FeedEntry {
	target := fmt.Sprintf("%s/rssfeed.php?type=author&uid=%d", c.baseURL, uid)
	return c.feed(ctx, "author-feed", fmt.Sprintf("author-feed:%d", uid), target)
}

func (c *Client) feed(ctx context.Context, op, key, target string) []record.FeedEntry {
	v, _ := run[[]record.FeedEntry](ctx, c, query{
		op:       op,
		key:      key,
		category: cache.Detail,
		req:      c.request(target, ""),
	}, parseFeed)
	return v
}

// parseFeed parses an RSS or Atom body. gofeed detects the format.
func parseFeed(body []byte, _ *slog.Logger) ([]record.FeedEntry, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return FeedEntries(feed), nil
}

// FeedEntries converts every item of a parsed feed.
func FeedEntries(feed *gofeed.Feed) []record.FeedEntry {
	entries := make([]record.FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, FeedItemToEntry(item))
	}
	return entries
}

// FeedItemToEntry converts one RSS or Atom item. gofeed normalizes both
// formats, so the mapping is the same for either.
func FeedItemToEntry(item *gofeed.Item) record.FeedEntry {
	// <author>, then Dublin Core <dc:creator>
	var author string
	if item.Author != nil && item.Author.Name != "" {
		author = item.Author.Name
	} else if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		author = item.DublinCoreExt.Creator[0]
	}

	entry := record.FeedEntry{
		Title:       item.Title,
		URL:         item.Link,
		Author:      author,
		Description: item.Description,
	}
	if item.PublishedParsed != nil {
		entry.PublishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		entry.PublishedAt = *item.UpdatedParsed
	}
	return entry
}
