package fallback

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/newsroom-labs/news-client/pkg/upstream"
)

const maxSafeNameLen = 50

// SafeName maps a query and country to the filename the snapshot
// publisher uses: lowercase, spaces collapsed to underscores, anything
// outside [a-z0-9_] dropped, truncated to 50 runes. The lowercase
// country is appended only when a country filter is set.
func SafeName(query, country string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(query) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '_' || unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}

	name := b.String()
	if len(name) > maxSafeNameLen {
		name = name[:maxSafeNameLen]
	}
	if country == "" {
		return name
	}
	return name + "_" + strings.ToLower(country)
}

// decodeSnapshot parses a published snapshot file. Snapshots are
// ArticleList documents written by the same pipeline, so the stored
// query may differ in casing from the live one; the caller's query
// wins.
func decodeSnapshot(data []byte, query string) (*upstream.ArticleList, error) {
	var list upstream.ArticleList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	list.Query = query
	list.Total = len(list.Articles)
	return &list, nil
}
