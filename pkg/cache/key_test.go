package cache

import (
	"strings"
	"testing"
)

func TestKey_Fingerprint_Normalization(t *testing.T) {
	tests := []struct {
		name string
		a    Key
		b    Key
		same bool
	}{
		{
			name: "identical keys",
			a:    Key{Query: "technology", Country: "DE", Category: "news"},
			b:    Key{Query: "technology", Country: "DE", Category: "news"},
			same: true,
		},
		{
			name: "case differences in query",
			a:    Key{Query: "Climate Change", Category: "news"},
			b:    Key{Query: "climate change", Category: "news"},
			same: true,
		},
		{
			name: "whitespace differences in query",
			a:    Key{Query: "  climate   change ", Category: "news"},
			b:    Key{Query: "climate change", Category: "news"},
			same: true,
		},
		{
			name: "country case differences",
			a:    Key{Query: "politics", Country: "ru", Category: "news"},
			b:    Key{Query: "politics", Country: "RU", Category: "news"},
			same: true,
		},
		{
			name: "different queries",
			a:    Key{Query: "technology", Category: "news"},
			b:    Key{Query: "business", Category: "news"},
			same: false,
		},
		{
			name: "different countries",
			a:    Key{Query: "politics", Country: "RU", Category: "news"},
			b:    Key{Query: "politics", Country: "UA", Category: "news"},
			same: false,
		},
		{
			name: "different categories",
			a:    Key{Query: "technology", Category: "news"},
			b:    Key{Query: "technology", Category: "trending"},
			same: false,
		},
		{
			name: "country present vs absent",
			a:    Key{Query: "politics", Country: "RU", Category: "news"},
			b:    Key{Query: "politics", Category: "news"},
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fpA := tt.a.Fingerprint()
			fpB := tt.b.Fingerprint()
			if (fpA == fpB) != tt.same {
				t.Errorf("Fingerprint() a=%q b=%q, want same=%v", fpA, fpB, tt.same)
			}
		})
	}
}

func TestKey_Fingerprint_Deterministic(t *testing.T) {
	key := Key{Query: "Artificial  Intelligence", Country: "us", Category: "news"}

	first := key.Fingerprint()
	for i := 0; i < 10; i++ {
		if got := key.Fingerprint(); got != first {
			t.Fatalf("Fingerprint() = %q on call %d, want %q (not deterministic)", got, i, first)
		}
	}
}

func TestKey_Fingerprint_CategoryPrefix(t *testing.T) {
	key := Key{Query: "technology", Category: "trending"}

	fp := key.Fingerprint()
	if !strings.HasPrefix(fp, "trending:") {
		t.Errorf("Fingerprint() = %q, want prefix %q", fp, "trending:")
	}
}

func TestKey_Fingerprint_EmptyQuery(t *testing.T) {
	empty := Key{Category: "news"}
	nonEmpty := Key{Query: "x", Category: "news"}

	fp := empty.Fingerprint()
	if fp == "" {
		t.Fatal("Fingerprint() for empty query is empty, want valid fingerprint")
	}
	if fp == nonEmpty.Fingerprint() {
		t.Error("empty query fingerprint collides with non-empty query")
	}
}

func TestKey_Fingerprint_DefaultCategory(t *testing.T) {
	key := Key{Query: "technology"}

	if !strings.HasPrefix(key.Fingerprint(), "news:") {
		t.Errorf("Fingerprint() = %q, want default category prefix %q", key.Fingerprint(), "news:")
	}
}
