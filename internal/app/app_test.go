package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"meternews/internal/config"
	"meternews/internal/news"
	"meternews/internal/publish"
)

func feedXML(items string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test</title>` + items + `</channel></rss>`
}

func itemXML(title, link, desc string, published time.Time) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><description>%s</description><pubDate>%s</pubDate></item>`,
		title, link, desc, published.Format(time.RFC1123Z))
}

const relevantDesc = "custody transfer metering for the gas pipeline"

func testConfig(t *testing.T, srvURL string) *config.Config {
	t.Helper()
	return &config.Config{
		FeedTemplate:   srvURL + "/rss?q={query}&hl={hl}&gl={gl}&ceid={ceid}",
		Topics:         []string{"custody transfer"},
		Regions:        []config.Region{{Lang: "en", Country: "US"}},
		FreshnessDays:  7,
		MaxItems:       30,
		Concurrency:    4,
		RequestTimeout: 5 * time.Second,
		OutputPath:     filepath.Join(t.TempDir(), "news.json"),
	}
}

func readRecord(t *testing.T, path string) publish.ResultSet {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var rs publish.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	return rs
}

func TestRunPublishesRankedRecord(t *testing.T) {
	now := time.Now()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(
			itemXML("Meter proving campaign starts", "https://site.example/a", relevantDesc, now.Add(-2*time.Hour))+
				itemXML("Celebrity gossip special", "https://site.example/b", "red carpet highlights", now.Add(-1*time.Hour))+
				itemXML("Meter proving campaign starts", "https://mirror.example/a", relevantDesc, now.Add(-1*time.Hour))+
				itemXML("Ultrasonic flow meter approved", "https://site.example/c", relevantDesc, now.Add(-3*time.Hour)),
		))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	if err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}

	rs := readRecord(t, cfg.OutputPath)
	if len(rs.Items) != 2 {
		t.Fatalf("expected 2 items after filter+dedup, got %d: %+v", len(rs.Items), rs.Items)
	}
	if rs.Meta.FeedsTried != 1 || rs.Meta.Kept != 2 {
		t.Errorf("meta = %+v", rs.Meta)
	}
	for _, it := range rs.Items {
		if it.Title == "" || it.URL == "" {
			t.Errorf("item with empty title or url published: %+v", it)
		}
	}
}

func TestRunEmptyResultPreservesPreviousRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Nothing relevant in this run.
		fmt.Fprint(w, feedXML(itemXML("Celebrity gossip special", "https://site.example/b", "red carpet highlights", time.Now())))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)

	previous := publish.ResultSet{
		UpdatedAt: time.Now().Add(-24 * time.Hour),
		Items: []news.Item{
			{Title: "Kept story", URL: "https://site.example/kept", SourceHost: "site.example",
				PublishedAt: time.Now().Add(-24 * time.Hour), Category: news.CategoryUpdate},
		},
		Meta: publish.Meta{FeedsTried: 1, Kept: 1},
	}
	if err := publish.NewStore(cfg.OutputPath).Write(previous); err != nil {
		t.Fatal(err)
	}

	if err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("an empty run is not a failure: %v", err)
	}

	rs := readRecord(t, cfg.OutputPath)
	if len(rs.Items) != 1 || rs.Items[0].Title != "Kept story" {
		t.Fatalf("previous record not preserved: %+v", rs.Items)
	}
}

func TestRunEmptyResultWithNoPreviousWritesEmptyRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(""))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	if err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("zero-item run must still publish: %v", err)
	}

	rs := readRecord(t, cfg.OutputPath)
	if rs.Items == nil || len(rs.Items) != 0 {
		t.Errorf("expected an empty items array, got %+v", rs.Items)
	}
}

func TestRunFailsWhenRecordCannotBeWritten(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(itemXML("Meter proving update", "https://site.example/a", relevantDesc, time.Now())))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	// Point the output at a path whose parent is a regular file.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.OutputPath = filepath.Join(blocker, "news.json")

	if err := Run(context.Background(), cfg); err == nil {
		t.Fatal("expected a persistence failure to propagate")
	}
}

func TestRunWithAllFeedsDownPreservesLastGoodRecord(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML(itemXML("Fiscal metering tender", "https://site.example/a", relevantDesc, time.Now())))
	}))
	defer good.Close()

	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer blocked.Close()

	cfg := testConfig(t, good.URL)
	if err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("good run: %v", err)
	}

	// Next scheduled run: every feed is blocked. The run still succeeds
	// and the last good record stays published.
	cfg2 := testConfig(t, blocked.URL)
	cfg2.OutputPath = cfg.OutputPath
	if err := Run(context.Background(), cfg2); err != nil {
		t.Fatalf("all-feeds-down run: %v", err)
	}

	rs := readRecord(t, cfg.OutputPath)
	if len(rs.Items) != 1 || rs.Items[0].Title != "Fiscal metering tender" {
		t.Errorf("last good record not preserved: %+v", rs.Items)
	}
}
