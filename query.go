package scribble

import (
	"context"
	"errors"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/pevans/scribble/cache"
	"github.com/pevans/scribble/fetch"
	"github.com/pevans/scribble/scraper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// query describes one public operation.
type query struct {
	op       string
	key      string
	category cache.Category
	req      fetch.Request
	// Listing queries share the listing semaphore
	listing bool
}

// parseFunc turns a fetched body into a result.
type parseFunc[T any] func(body []byte, logger *slog.Logger) (T, error)

// run executes q: cache check, fetch, parse, cache write. ok is false when
// the result could not be produced; the cause has been logged.
func run[T any](ctx context.Context, c *Client, q query, parse parseFunc[T]) (result T, ok bool) {
	logger := c.logger.With("op", q.op, "call_id", uuid.NewString(), "url", q.req.URL)

	ctx, span := c.tracer.Start(ctx, "scribble."+q.op)
	defer span.End()
	span.SetAttributes(
		attribute.String("scribble.url", q.req.URL),
		attribute.String("scribble.cache_key", q.key),
	)

	if v, hit := cache.Get[T](c.cache, q.key); hit {
		span.SetAttributes(attribute.Bool("scribble.cache_hit", true))
		logger.Debug("cache hit", "key", q.key)
		return v, true
	}
	span.SetAttributes(attribute.Bool("scribble.cache_hit", false))

	if q.listing {
		select {
		case c.listingSemaphore <- struct{}{}:
			defer func() { <-c.listingSemaphore }()
		case <-ctx.Done():
			logger.Warn("abandoned while waiting for a listing slot", "error", ctx.Err())
			span.SetStatus(codes.Error, "abandoned")
			return result, false
		}
	}

	body, err := c.fetcher.Fetch(ctx, q.req)
	if err != nil {
		logger.Error("fetch failed, try again later", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return result, false
	}

	v, err := parse(body, logger)
	if err != nil {
		var te *fetch.TransportError
		switch {
		case errors.As(err, &te):
			logger.Error("fetch failed, try again later", "error", err)
		case errors.Is(err, scraper.ErrLayoutChanged):
			logger.Warn("page layout changed", "error", err)
		default:
			logger.Warn("could not assemble record", "error", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return result, false
	}

	if c.cache.Enabled(q.category) {
		c.cache.Store(q.key, v, q.category)
	}
	return v, true
}

// page adapts an HTML assembler to a parseFunc.
func page[T any](url string, assemble func(page *goquery.Selection, logger *slog.Logger) (T, error)) parseFunc[T] {
	return func(body []byte, logger *slog.Logger) (T, error) {
		doc, err := fetch.Parse(url, body)
		if err != nil {
			var zero T
			return zero, err
		}
		return assemble(doc.Selection, logger)
	}
}

// records logs the skipped entries of a batch and returns its records.
func records[T any](batch scraper.Batch[T], logger *slog.Logger) []T {
	for _, skip := range batch.Skipped {
		if errors.Is(skip.Err, scraper.ErrLayoutChanged) {
			logger.Warn("page layout changed, skipping record", "index", skip.Index, "error", skip.Err)
			continue
		}
		logger.Warn("skipping record", "index", skip.Index, "error", skip.Err)
	}
	return batch.Records
}
