// Package app runs one pipeline invocation end to end.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"meternews/internal/config"
	"meternews/internal/feed"
	"meternews/internal/fetch"
	"meternews/internal/lexicon"
	"meternews/internal/logger"
	"meternews/internal/metrics"
	"meternews/internal/news"
	"meternews/internal/publish"
)

// Run executes one scheduled invocation: fetch, filter, dedupe, rank,
// publish. Per-feed and per-item failures are handled locally; the
// returned error is non-nil only when no output record could be written,
// which the caller must turn into a non-zero exit.
func Run(ctx context.Context, cfg *config.Config) error {
	runID := uuid.NewString()[:8]
	start := time.Now()
	defer func() {
		metrics.Global.RecordRunDuration(time.Since(start))
	}()

	queries := feed.BuildQueries(cfg.Topics, cfg.Regions)
	endpoints := make([]fetch.Endpoint, 0, len(queries))
	for _, q := range queries {
		endpoints = append(endpoints, fetch.Endpoint{
			URL:   feed.EndpointURL(cfg.FeedTemplate, q),
			Label: q.Label(),
		})
	}
	logger.Infof("[%s] run started: %d feeds (%d topics x %d regions)",
		runID, len(endpoints), len(cfg.Topics), len(cfg.Regions))

	fetcher := fetch.New(cfg.RequestTimeout, cfg.Concurrency)
	entries, stats := fetcher.FetchAll(ctx, endpoints)
	metrics.Global.RecordFetch(stats.Tried, stats.Failed)

	now := time.Now()
	cutoff := now.AddDate(0, 0, -cfg.FreshnessDays)
	pol := lexicon.Policy{StrictContext: cfg.StrictContext}

	items := news.Select(entries, pol, cutoff, now)
	items = news.Rank(news.Dedupe(items), cfg.MaxItems)
	metrics.Global.RecordItemsKept(len(items))
	logger.Infof("[%s] %d entries collected, %d kept after filter/dedup/cap",
		runID, len(entries), len(items))

	current := publish.ResultSet{
		UpdatedAt: now,
		Items:     items,
		Meta:      publish.Meta{FeedsTried: stats.Tried, Kept: len(items)},
	}

	store := publish.NewStore(cfg.OutputPath)
	previous, found, err := store.Load()
	if err != nil {
		// A corrupt prior record must not block publishing a fresh one.
		logger.Warnf("[%s] previous record unreadable, ignoring: %v", runID, err)
	}

	final := current
	if found {
		final = publish.MergePolicy(previous, current)
		if len(current.Items) == 0 && len(final.Items) > 0 {
			logger.Infof("[%s] empty run, keeping previous record with %d items",
				runID, len(final.Items))
		}
	}

	if err := store.Write(final); err != nil {
		metrics.Global.SetError(err.Error())
		return fmt.Errorf("publish result record: %w", err)
	}

	metrics.Global.SetLastRun()
	logger.Infof("[%s] published %d items to %s", runID, len(final.Items), cfg.OutputPath)
	return nil
}
