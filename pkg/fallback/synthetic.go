package fallback

import (
	"fmt"
	"strings"
	"time"

	"github.com/newsroom-labs/news-client/pkg/upstream"
)

// Synthetic builds placeholder articles for the query. It never fails
// and is the terminal step of the chain: callers always get a
// well-formed list, flagged via the Note field so downstream consumers
// can tell it apart from real coverage.
func (c *Chain) Synthetic(query, country string) *upstream.ArticleList {
	now := time.Now()
	title := strings.TrimSpace(query)
	if title == "" {
		title = "Latest news"
	}

	articles := make([]upstream.Article, 0, c.config.SyntheticCount)
	for i := 0; i < c.config.SyntheticCount; i++ {
		articleTitle := title
		if i > 0 {
			articleTitle = fmt.Sprintf("%s - Part %d", title, i+1)
		}
		articles = append(articles, upstream.Article{
			Title:   articleTitle,
			URL:     "#",
			Source:  "Unknown",
			Date:    now.Format("2006-01-02 15:04"),
			Country: country,
			Summary: fmt.Sprintf("Coverage of %s is temporarily unavailable. This placeholder will be replaced as soon as live retrieval recovers.", title),
		})
	}

	return &upstream.ArticleList{
		Query:     query,
		Timestamp: now,
		Total:     len(articles),
		Note:      "Synthesized placeholder results; live sources were unreachable.",
		Articles:  articles,
	}
}
