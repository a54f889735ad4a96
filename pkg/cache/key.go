package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Key identifies a logical retrieval request for caching purposes.
type Key struct {
	// Query is the free-form query text (e.g. "climate change").
	Query string

	// Country is an optional ISO country filter (e.g. "RU", "de").
	Country string

	// Category distinguishes otherwise-identical query text used for
	// different purposes (e.g. "news" vs "trending" vs "translation").
	Category string
}

// Fingerprint derives a deterministic cache key string.
// Format: category:<hex digest of normalized query and country>
//
// The query is trimmed, lower-cased, and internal whitespace collapsed
// before hashing, so "Climate  Change " and "climate change" map to the
// same fingerprint. The country filter is upper-cased. Fingerprint is a
// pure function and never fails; an empty query is legal and produces
// its own valid fingerprint.
func (k Key) Fingerprint() string {
	query := normalizeQuery(k.Query)
	country := strings.ToUpper(strings.TrimSpace(k.Country))

	category := strings.ToLower(strings.TrimSpace(k.Category))
	if category == "" {
		category = "news"
	}

	sum := sha256.Sum256([]byte(query + "|" + country))

	return category + ":" + hex.EncodeToString(sum[:8])
}

// normalizeQuery canonicalizes query text: trim, lower-case, collapse
// internal whitespace runs to single spaces.
func normalizeQuery(query string) string {
	fields := strings.Fields(strings.ToLower(query))
	return strings.Join(fields, " ")
}
