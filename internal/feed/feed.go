// Package feed enumerates the search-feed endpoints to poll and defines the
// raw entry shape produced by fetching them.
package feed

import (
	"net/url"
	"strings"
	"time"

	"meternews/internal/config"
)

// Query is one topic/region combination. The source set is the cross
// product of the configured topics and regions.
type Query struct {
	Topic  string
	Region config.Region
}

// Label identifies the query in logs and as a fallback source label.
func (q Query) Label() string {
	return q.Topic + " (" + q.Region.Ceid() + ")"
}

// BuildQueries expands topics x regions into the full source set.
func BuildQueries(topics []string, regions []config.Region) []Query {
	queries := make([]Query, 0, len(topics)*len(regions))
	for _, topic := range topics {
		for _, region := range regions {
			queries = append(queries, Query{Topic: topic, Region: region})
		}
	}
	return queries
}

// EndpointURL renders the endpoint template for one query. Recognized
// placeholders: {query}, {hl}, {gl}, {ceid}.
func EndpointURL(template string, q Query) string {
	r := strings.NewReplacer(
		"{query}", url.QueryEscape(q.Topic),
		"{hl}", strings.ToLower(q.Region.Lang),
		"{gl}", strings.ToUpper(q.Region.Country),
		"{ceid}", url.QueryEscape(q.Region.Ceid()),
	)
	return r.Replace(template)
}

// RawEntry is one parsed feed record, transient until normalization.
// Published is the zero time when the feed carried no usable timestamp.
type RawEntry struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
	FeedLabel string
}
