// Package news turns raw feed entries into the deduplicated, ranked list
// of canonical items handed to the publisher.
package news

import "time"

// Category is the coarse label assigned from the title.
type Category string

const (
	CategoryStandards  Category = "Standards"
	CategoryTechnology Category = "Technology"
	CategoryProjects   Category = "Projects"
	CategoryResearch   Category = "Research"
	CategoryUpdate     Category = "Update"
)

// Item is the canonical output unit. Constructed once per qualifying raw
// entry and immutable afterwards; title and url are always non-empty.
type Item struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	SourceHost  string    `json:"sourceHost"`
	PublishedAt time.Time `json:"publishedAt"`
	Summary     string    `json:"summary"`
	Category    Category  `json:"category"`

	// Score drives ranking only; the widget must not see or re-rank by it.
	Score int `json:"-"`
}
