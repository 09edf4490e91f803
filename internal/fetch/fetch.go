// Package fetch retrieves and parses the configured feed endpoints.
//
// Endpoints are fetched in sequential batches of a fixed width: requests
// inside a batch run concurrently, and results are merged into the
// accumulator only after the whole batch finished, so no shared state is
// mutated concurrently. A failing endpoint is logged and skipped; it never
// aborts the run.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"meternews/internal/feed"
	"meternews/internal/logger"
)

const (
	// A browser-like identity; several feed hosts reject unknown clients.
	userAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	acceptHint = "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8"
)

// Endpoint is one resolved feed URL plus the label used when the feed
// itself does not identify its source.
type Endpoint struct {
	URL   string
	Label string
}

// Stats summarizes one FetchAll pass.
type Stats struct {
	Tried  int
	Failed int
}

type Fetcher struct {
	client *http.Client
	width  int
}

// New creates a fetcher with the given per-request timeout and batch width.
func New(timeout time.Duration, width int) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if width <= 0 {
		width = 8
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		width:  width,
	}
}

// FetchAll retrieves every endpoint and returns the merged entries.
func (f *Fetcher) FetchAll(ctx context.Context, endpoints []Endpoint) ([]feed.RawEntry, Stats) {
	var all []feed.RawEntry
	stats := Stats{Tried: len(endpoints)}

	for start := 0; start < len(endpoints); start += f.width {
		end := start + f.width
		if end > len(endpoints) {
			end = len(endpoints)
		}
		batch := endpoints[start:end]

		// Each request writes only its own slot; merge happens after Wait.
		results := make([][]feed.RawEntry, len(batch))
		errs := make([]error, len(batch))

		var wg sync.WaitGroup
		for i, ep := range batch {
			wg.Add(1)
			go func(i int, ep Endpoint) {
				defer wg.Done()
				results[i], errs[i] = f.fetchOne(ctx, ep)
			}(i, ep)
		}
		wg.Wait()

		for i, ep := range batch {
			if errs[i] != nil {
				stats.Failed++
				logger.Warnf("feed %s skipped: %v", ep.Label, errs[i])
				continue
			}
			all = append(all, results[i]...)
			logger.Debugf("feed %s returned %d entries", ep.Label, len(results[i]))
		}
	}

	logger.Infof("fetched feeds: %d/%d ok, %d entries", stats.Tried-stats.Failed, stats.Tried, len(all))
	return all, stats
}

func (f *Fetcher) fetchOne(ctx context.Context, ep Endpoint) ([]feed.RawEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHint)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return convertItems(parsed, ep.Label), nil
}

func convertItems(parsed *gofeed.Feed, label string) []feed.RawEntry {
	entries := make([]feed.RawEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		entries = append(entries, feed.RawEntry{
			Title:     strings.TrimSpace(item.Title),
			Link:      strings.TrimSpace(item.Link),
			Summary:   summary,
			Published: published,
			FeedLabel: label,
		})
	}
	return entries
}
