package news

import (
	"time"

	"github.com/newsroom-labs/news-client/pkg/upstream"
)

// Source labels where a result came from, in decreasing order of
// freshness and trust.
type Source string

const (
	// SourceCache means the result was served from the cache store.
	SourceCache Source = "cache"

	// SourceLive means the result came from a live upstream call.
	SourceLive Source = "live"

	// SourceSnapshot means live retrieval failed and the result was
	// served from the published snapshot mirror.
	SourceSnapshot Source = "snapshot"

	// SourceSynthetic means every real source failed and the result
	// contains generated placeholders.
	SourceSynthetic Source = "synthetic"
)

// Result is what Get always returns: a payload plus its provenance.
// Callers that care about trust inspect Source; callers that just want
// articles use Payload directly.
type Result struct {
	Payload   *upstream.ArticleList
	Source    Source
	Timestamp time.Time
}
