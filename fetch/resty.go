package fetch

import (
	"context"
	"log/slog"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Options configures a RestyFetcher.
type Options struct {
	// Route requests through a transport that mimics a browser TLS/header
	// profile, for when the site sits behind Cloudflare's bot check.
	CloudflareBypass bool
	Logger           *slog.Logger
}

// RestyFetcher fetches pages with a shared resty client.
type RestyFetcher struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewRestyFetcher creates a fetcher. A nil opts uses the defaults.
func NewRestyFetcher(opts *Options) *RestyFetcher {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New()
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	f := &RestyFetcher{http: client, logger: logger}
	client.OnBeforeRequest(f.onBeforeRequest)
	client.OnAfterResponse(f.onAfterResponse)
	client.OnError(f.onError)
	return f
}

// Fetch performs a GET. The request timeout bounds the whole exchange, body
// included.
func (f *RestyFetcher) Fetch(ctx context.Context, req Request) ([]byte, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	r := f.http.R().SetContext(ctx)
	if req.UserAgent != "" {
		r.SetHeader("User-Agent", req.UserAgent)
	}
	if req.Referrer != "" {
		r.SetHeader("Referer", req.Referrer)
	}

	res, err := r.Get(req.URL)
	if err != nil {
		return nil, &TransportError{URL: req.URL, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, &TransportError{URL: req.URL, StatusCode: res.StatusCode(), Err: ErrStatus}
	}

	return res.Body(), nil
}

func (f *RestyFetcher) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	f.logger.Debug("fetch: request", "method", req.Method, "url", req.URL)
	return nil
}

func (f *RestyFetcher) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	f.logger.Debug("fetch: response",
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"bytes", len(res.Body()),
		"duration", res.Time(),
	)
	return nil
}

func (f *RestyFetcher) onError(req *resty.Request, err error) {
	f.logger.Debug("fetch: failed", "url", req.URL, "error", err)
}
