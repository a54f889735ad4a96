package upstream

// EndpointConfig is one concrete upstream call configuration: a target
// (base URL, empty for the fetcher default) plus a parameter set.
// Configs are immutable and defined at startup.
type EndpointConfig struct {
	// Name labels the config in logs and metrics (e.g. "artlist-date").
	Name string

	// BaseURL overrides the fetcher's default upstream URL when set.
	BaseURL string

	// Mode is the upstream response mode parameter.
	Mode string

	// Sort is the upstream sort order parameter.
	Sort string
}

// Rotator holds the ordered list of endpoint configurations tried in
// sequence within a single retrieval attempt. Different upstream modes
// have independent failure surfaces, so a cheap alternate is tried
// before escalating to a full retry cycle.
type Rotator struct {
	configs []EndpointConfig
}

// DefaultConfigs returns the standard rotation for article queries:
// newest-first listing, then relevance-ranked listing.
func DefaultConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Name: "artlist-date", Mode: "artlist", Sort: "date"},
		{Name: "artlist-relevance", Mode: "artlist", Sort: "relevance"},
	}
}

// TrendingConfigs returns the rotation for trending-volume queries.
func TrendingConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Name: "timeline-volume", Mode: "timelinevol", Sort: "date"},
		{Name: "artlist-date", Mode: "artlist", Sort: "date"},
	}
}

// NewRotator creates a rotator over the given configs, in order. With
// no configs it falls back to DefaultConfigs, so the sequence is never
// empty.
func NewRotator(configs ...EndpointConfig) *Rotator {
	if len(configs) == 0 {
		configs = DefaultConfigs()
	}
	return &Rotator{configs: configs}
}

// Configs returns a copy of the ordered configuration sequence.
func (r *Rotator) Configs() []EndpointConfig {
	out := make([]EndpointConfig, len(r.configs))
	copy(out, r.configs)
	return out
}

// Len returns the number of configurations in the rotation.
func (r *Rotator) Len() int {
	return len(r.configs)
}
