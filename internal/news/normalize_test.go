package news

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestUnwrapRedirect(t *testing.T) {
	got := UnwrapRedirect("https://news.example.com/rss?url=https://realsite.com/a")
	if got != "https://realsite.com/a" {
		t.Errorf("unwrap failed, got %q", got)
	}
}

func TestUnwrapRedirectKeepsPlainLinks(t *testing.T) {
	link := "https://realsite.com/articles/42"
	if got := UnwrapRedirect(link); got != link {
		t.Errorf("plain link changed to %q", got)
	}
}

func TestUnwrapRedirectFallsBackOnBadTarget(t *testing.T) {
	// The wrapped value is not an absolute http(s) URL; keep the original.
	link := "https://news.example.com/rss?url=not-a-url"
	if got := UnwrapRedirect(link); got != link {
		t.Errorf("expected fallback to original link, got %q", got)
	}
}

func TestDisplayHostStripsWWW(t *testing.T) {
	if got := DisplayHost("https://www.realsite.com/a"); got != "realsite.com" {
		t.Errorf("got %q", got)
	}
	if got := DisplayHost("https://realsite.com/a"); got != "realsite.com" {
		t.Errorf("got %q", got)
	}
}

func TestDisplayHostMalformedURL(t *testing.T) {
	if got := DisplayHost("://not a url"); got != "" {
		t.Errorf("expected empty host for malformed URL, got %q", got)
	}
}

func TestCleanSummaryStripsMarkupAndCollapsesWhitespace(t *testing.T) {
	got := CleanSummary("<p>New   prover \n loop</p> <b>commissioned</b> &amp; tested")
	if got != "New prover loop commissioned & tested" {
		t.Errorf("got %q", got)
	}
}

func TestCleanSummaryTruncatesTo240(t *testing.T) {
	long := strings.Repeat("metering ", 60)
	got := CleanSummary(long)
	if n := utf8.RuneCountInString(got); n > 240 {
		t.Errorf("summary length %d exceeds 240", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}
}

func TestCategorizeFirstMatchWins(t *testing.T) {
	cases := []struct {
		title string
		want  Category
	}{
		{"New ISO 5167 revision published", CategoryStandards},
		{"University study on wet gas measurement", CategoryResearch},
		{"Metering contract awarded for export terminal", CategoryProjects},
		{"Vendor unveils ultrasonic meter family", CategoryTechnology},
		{"Weekly roundup", CategoryUpdate},
		// Matches both "standard" and "meter"; the ordered list prefers Standards.
		{"Standard test procedure for turbine meter", CategoryStandards},
	}
	for _, tc := range cases {
		if got := Categorize(tc.title); got != tc.want {
			t.Errorf("Categorize(%q) = %s, want %s", tc.title, got, tc.want)
		}
	}
}
