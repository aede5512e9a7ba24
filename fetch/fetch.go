// Package fetch retrieves pages over HTTP. Everything above it consumes page
// bytes or parsed documents only.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrStatus marks a response with a non-2xx status code.
var ErrStatus = errors.New("unexpected status")

// Request describes one page fetch.
type Request struct {
	URL       string
	UserAgent string
	Referrer  string
	Timeout   time.Duration
}

// Fetcher retrieves the body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req Request) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, req Request) ([]byte, error) {
	return f(ctx, req)
}

// TransportError is any failure to obtain a usable page: network errors,
// timeouts, bad status codes and unparseable bodies.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Document fetches a page and parses it as HTML.
func Document(ctx context.Context, f Fetcher, req Request) (*goquery.Document, error) {
	body, err := f.Fetch(ctx, req)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			return nil, err
		}
		return nil, &TransportError{URL: req.URL, Err: err}
	}

	return Parse(req.URL, body)
}

// Parse parses a fetched body as HTML. A body that cannot be parsed is a
// transport failure of url.
func Parse(url string, body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to parse HTML: %w", err)}
	}
	return doc, nil
}
