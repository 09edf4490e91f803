package feed

import (
	"strings"
	"testing"

	"meternews/internal/config"
)

func TestBuildQueriesCardinality(t *testing.T) {
	topics := []string{"custody transfer", "meter proving", "fiscal metering"}
	regions := []config.Region{{Lang: "en", Country: "US"}, {Lang: "en", Country: "GB"}}

	queries := BuildQueries(topics, regions)
	if len(queries) != 6 {
		t.Fatalf("expected topics x regions = 6 queries, got %d", len(queries))
	}

	seen := map[string]bool{}
	for _, q := range queries {
		key := q.Topic + "|" + q.Region.Ceid()
		if seen[key] {
			t.Errorf("duplicate query %s", key)
		}
		seen[key] = true
	}
}

func TestEndpointURLEscapesQuery(t *testing.T) {
	q := Query{
		Topic:  "custody transfer metering",
		Region: config.Region{Lang: "en", Country: "us"},
	}
	got := EndpointURL("https://news.example.com/rss/search?q={query}&hl={hl}&gl={gl}&ceid={ceid}", q)

	if strings.Contains(got, " ") {
		t.Errorf("unescaped space in URL: %q", got)
	}
	if !strings.Contains(got, "q=custody+transfer+metering") {
		t.Errorf("query not escaped as expected: %q", got)
	}
	if !strings.Contains(got, "gl=US") || !strings.Contains(got, "hl=en") {
		t.Errorf("region not rendered: %q", got)
	}
	if !strings.Contains(got, "ceid=US%3Aen") {
		t.Errorf("ceid not escaped: %q", got)
	}
}
