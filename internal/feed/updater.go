package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"feedsnap/internal/config"
	"feedsnap/internal/models"
)

// Updater walks an ordered list of candidate source URLs and returns the
// snapshot from the first candidate that both fetches and parses. The JSON
// archive API goes first since it is less likely to be blocked, then the
// archive through the readability proxy, then the native feed, then the
// proxied feed.
type Updater struct {
	fetcher    *Fetcher
	feedXML    *FeedXMLParser
	archive    *ArchiveParser
	candidates []string
	now        func() time.Time
	log        *slog.Logger
}

func NewUpdater(cfg config.Config, log *slog.Logger) *Updater {
	return &Updater{
		fetcher:    NewFetcher(cfg.FetchTimeout, cfg.MaxRetries, cfg.SiteURL+"/", log),
		feedXML:    NewFeedXMLParser(cfg.PostLimit),
		archive:    NewArchiveParser(cfg.PostLimit, cfg.SiteURL, cfg.SiteTitle),
		candidates: buildCandidates(cfg),
		now:        time.Now,
		log:        log,
	}
}

// buildCandidates expands the configured URL templates. Empty templates drop
// their candidates, so a config can run feed-only or without the proxy.
func buildCandidates(cfg config.Config) []string {
	var candidates []string

	appendWithProxy := func(rawURL string) {
		if rawURL == "" {
			return
		}

		candidates = append(candidates, rawURL)
		if cfg.ProxyURLTemplate != "" {
			candidates = append(candidates,
				fmt.Sprintf(cfg.ProxyURLTemplate, strings.TrimPrefix(rawURL, "https://")))
		}
	}

	var archiveURL string
	if cfg.ArchiveURLTemplate != "" {
		archiveURL = fmt.Sprintf(cfg.ArchiveURLTemplate, cfg.PostLimit)
	}

	appendWithProxy(archiveURL)
	appendWithProxy(cfg.FeedURL)

	return candidates
}

// BuildSnapshot tries each candidate in order and short-circuits on the first
// full fetch-classify-parse success. When every candidate fails, the last
// encountered error is surfaced and no snapshot is produced.
func (u *Updater) BuildSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var lastErr error

	for _, candidate := range u.candidates {
		snap, err := u.tryCandidate(ctx, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}

			lastErr = err
			u.log.WarnContext(ctx, "Candidate source failed",
				"error", err,
				"url", candidate)

			continue
		}

		u.log.InfoContext(ctx, "Candidate source succeeded",
			"url", candidate,
			"postCount", len(snap.Posts))

		return snap, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no candidate sources configured")
	}

	return nil, lastErr
}

func (u *Updater) tryCandidate(ctx context.Context, candidate string) (*models.Snapshot, error) {
	data, err := u.fetcher.Fetch(ctx, candidate)
	if err != nil {
		return nil, err
	}

	var parser Parser
	switch Classify(data) {
	case FormatJSON:
		parser = u.archive
	case FormatFeedXML:
		parser = u.feedXML
	default:
		// The fetcher already rejects unrecognized payloads; guard anyway.
		return nil, &FetchError{
			URL:  candidate,
			Kind: KindMalformed,
			Err:  errors.New("response is not XML/JSON"),
		}
	}

	snap, err := parser.Parse(data, candidate)
	if err != nil {
		return nil, err
	}

	snap.UpdatedAt = u.now().UTC().Format(time.RFC3339)

	return snap, nil
}
