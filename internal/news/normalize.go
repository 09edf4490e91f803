package news

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxSummaryLen caps the summary after whitespace collapsing.
const maxSummaryLen = 240

// UnwrapRedirect resolves known redirect-wrapper links that embed the true
// destination in a "url" query parameter. On any parse failure the
// original link is returned unchanged.
func UnwrapRedirect(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	target := u.Query().Get("url")
	if target == "" {
		return link
	}
	tu, err := url.Parse(target)
	if err != nil || (tu.Scheme != "http" && tu.Scheme != "https") || tu.Host == "" {
		return link
	}
	return target
}

// DisplayHost derives the display host from a resolved URL, without a
// leading "www." label. An unparsable URL yields "" so the caller can
// substitute the source label instead.
func DisplayHost(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

// CleanSummary strips markup from a feed summary, collapses whitespace and
// truncates to maxSummaryLen characters.
func CleanSummary(raw string) string {
	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	return truncate(text, maxSummaryLen)
}

// truncate shortens s to at most maxLen characters, ellipsis included.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

// categoryGroups is the ordered keyword list tested against the title;
// the first matching group wins.
var categoryGroups = []struct {
	category Category
	keywords []string
}{
	{CategoryStandards, []string{
		"standard", "iso ", "api mpms", "oiml", "aga ", "regulation",
		"certification", "compliance", "directive", "approval",
	}},
	{CategoryResearch, []string{
		"research", "study", "university", "laboratory", "paper", "testing",
		"trial", "development of",
	}},
	{CategoryProjects, []string{
		"project", "contract", "award", "terminal", "pipeline", "facility",
		"expansion", "deployment", "installation", "commissioning",
	}},
	{CategoryTechnology, []string{
		"meter", "sensor", "ultrasonic", "coriolis", "flow computer",
		"technology", "launch", "unveil", "software", "system",
	}},
}

// Categorize assigns exactly one category from the title; CategoryUpdate
// is the default when nothing matches.
func Categorize(title string) Category {
	lower := strings.ToLower(title)
	for _, group := range categoryGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category
			}
		}
	}
	return CategoryUpdate
}
