package upstream

import (
	"encoding/json"
	"fmt"
	"time"
)

// Article is one news item. Every field is tolerated missing in the
// upstream payload and replaced with a placeholder value, so a single
// sparse item never fails a whole response.
type Article struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	Country  string `json:"country"`
	Language string `json:"language"`
	Summary  string `json:"summary"`
}

// ArticleList is the result unit cached and returned to collaborators.
type ArticleList struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
	Total     int       `json:"total"`
	Note      string    `json:"note,omitempty"`
	Articles  []Article `json:"articles"`
}

// Upstream wire format. Only the fields we consume are declared;
// everything else is ignored.
type rawArticle struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Domain        string `json:"domain"`
	SeenDate      string `json:"seendate"`
	SourceCountry string `json:"sourcecountry"`
	Language      string `json:"language"`
	Content       string `json:"content"`
}

type rawResponse struct {
	Articles []rawArticle `json:"articles"`
}

const summaryLimit = 300

// ParseArticles decodes an upstream response body into an ArticleList,
// capping the result at max items (0 means no cap). Missing fields are
// defaulted rather than rejected; only invalid JSON is an error.
func ParseArticles(data []byte, query string, max int) (*ArticleList, error) {
	var raw rawResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode upstream payload: %w", err)
	}

	items := raw.Articles
	if max > 0 && len(items) > max {
		items = items[:max]
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, Article{
			Title:    defaultString(item.Title, "No title"),
			URL:      defaultString(item.URL, "#"),
			Source:   defaultString(item.Domain, "Unknown"),
			Date:     formatDate(item.SeenDate),
			Country:  defaultString(item.SourceCountry, "Unknown"),
			Language: defaultString(item.Language, "Unknown"),
			Summary:  truncateSummary(item.Content),
		})
	}

	return &ArticleList{
		Query:     query,
		Timestamp: time.Now(),
		Total:     len(articles),
		Articles:  articles,
	}, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// truncateSummary caps article content at summaryLimit characters,
// marking the cut with an ellipsis.
func truncateSummary(content string) string {
	if content == "" {
		return ""
	}
	runes := []rune(content)
	if len(runes) <= summaryLimit {
		return content
	}
	return string(runes[:summaryLimit]) + "..."
}

// formatDate converts the upstream compact timestamp (YYYYMMDDHHMMSS)
// into a readable form. Unparseable input degrades to "Unknown" or is
// passed through.
func formatDate(date string) string {
	if len(date) < 8 {
		return "Unknown"
	}

	year, month, day := date[:4], date[4:6], date[6:8]
	if len(date) >= 12 {
		return fmt.Sprintf("%s-%s-%s %s:%s", year, month, day, date[8:10], date[10:12])
	}
	return fmt.Sprintf("%s-%s-%s", year, month, day)
}
