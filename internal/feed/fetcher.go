package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// Markers of a Cloudflare interstitial served in place of the real payload.
var (
	doctypePrefix   = []byte("<!DOCTYPE")
	htmlPrefix      = []byte("<html")
	challengeMarker = []byte("Just a moment")
)

// Fetcher retrieves raw feed payloads with browser-like headers and retries
// transient failures (timeouts, 403s, challenge pages, garbage bodies) with
// exponential backoff.
type Fetcher struct {
	client     *http.Client
	referer    string
	maxRetries int
	backoff    func(attempt int) time.Duration
	log        *slog.Logger
}

func NewFetcher(
	timeout time.Duration,
	maxRetries int,
	referer string,
	log *slog.Logger,
) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		referer:    referer,
		maxRetries: maxRetries,
		backoff:    backoffDelay,
		log:        log,
	}
}

// Fetch returns the response body for rawURL, or a *FetchError carrying the
// last observed cause after the retry budget is exhausted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	retryable := func(err error) bool {
		var fetchErr *FetchError
		return errors.As(err, &fetchErr)
	}

	return withRetry(ctx, f.maxRetries, retryable, f.backoff,
		f.log.With("url", rawURL),
		func() ([]byte, error) {
			return f.fetchOnce(ctx, rawURL)
		})
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept",
		"application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", f.referer)
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: KindNetwork, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", closeErr,
				"url", rawURL)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := KindNetwork
		if resp.StatusCode == http.StatusForbidden {
			kind = KindBlocked
		}

		return nil, &FetchError{
			URL:        rawURL,
			Kind:       kind,
			StatusCode: resp.StatusCode,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Kind: KindNetwork, Err: err}
	}

	if bytes.HasPrefix(data, doctypePrefix) ||
		bytes.HasPrefix(data, htmlPrefix) ||
		bytes.Contains(data, challengeMarker) {
		return nil, &FetchError{
			URL:  rawURL,
			Kind: KindBlocked,
			Err:  errors.New("received challenge page instead of feed payload"),
		}
	}

	if Classify(data) == FormatUnknown {
		return nil, &FetchError{
			URL:  rawURL,
			Kind: KindMalformed,
			Err:  errors.New("response is not XML/JSON"),
		}
	}

	return data, nil
}
