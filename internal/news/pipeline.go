package news

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"meternews/internal/feed"
	"meternews/internal/lexicon"
	"meternews/internal/logger"
	"meternews/internal/metrics"
)

// Select filters raw entries through the lexicons and normalizes the
// survivors. Entries published before cutoff are dropped; entries without
// a timestamp are stamped with now so ranking stays deterministic for a
// given input. Items with an empty title or link never survive.
func Select(entries []feed.RawEntry, pol lexicon.Policy, cutoff, now time.Time) []Item {
	items := make([]Item, 0, len(entries))

	for _, e := range entries {
		metrics.Global.IncrementEntriesSeen()

		if !e.Published.IsZero() && e.Published.Before(cutoff) {
			continue
		}

		res := lexicon.Score(e.Title, e.Summary, pol)
		if !res.Keep {
			metrics.Global.IncrementEntriesExcluded()
			continue
		}

		title := strings.TrimSpace(e.Title)
		link := UnwrapRedirect(strings.TrimSpace(e.Link))
		if title == "" || link == "" {
			continue
		}

		host := DisplayHost(link)
		if host == "" {
			host = e.FeedLabel
		}

		published := e.Published
		if published.IsZero() {
			published = now
		}

		item := Item{
			Title:       title,
			URL:         link,
			SourceHost:  host,
			PublishedAt: published,
			Summary:     CleanSummary(e.Summary),
			Category:    Categorize(title),
			Score:       res.Score,
		}
		items = append(items, item)

		logger.Debugf("kept [%s, score:%d] %s", item.Category, item.Score, item.Title)
	}

	return items
}

// dedupTitleCap bounds the title part of the dedup key.
const dedupTitleCap = 80

// DedupKey builds the collapse key: normalized capped title plus the path
// component of the resolved URL.
func DedupKey(it Item) string {
	title := strings.ToLower(it.Title)
	title = strings.Join(strings.Fields(title), " ")
	if len(title) > dedupTitleCap {
		title = title[:dedupTitleCap]
	}

	path := ""
	if u, err := url.Parse(it.URL); err == nil {
		path = u.Path
	}
	return title + "|" + path
}

// Dedupe collapses items sharing a key to the first-seen occurrence.
func Dedupe(items []Item) []Item {
	seen := map[string]struct{}{}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		key := DedupKey(it)
		if _, dup := seen[key]; dup {
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Rank orders items by score descending, then publication time descending,
// and caps the list at max.
func Rank(items []Item, max int) []Item {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	if max > 0 && len(items) > max {
		items = items[:max]
	}
	return items
}
