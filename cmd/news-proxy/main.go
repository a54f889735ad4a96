// news-proxy serves resilient news retrieval over HTTP: cached,
// rate-limited upstream access with snapshot and synthetic fallback.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/newsroom-labs/news-client/pkg/logging"
	"github.com/newsroom-labs/news-client/pkg/news"
	"github.com/newsroom-labs/news-client/pkg/prefetch"
	"github.com/newsroom-labs/news-client/pkg/upstream"
)

type serverConfig struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	UpstreamURL string `env:"UPSTREAM_URL" envDefault:"https://api.gdeltproject.org/api/v2/doc/doc"`
	UserAgent   string `env:"USER_AGENT" envDefault:"news-proxy/0.1.0"`
	SnapshotURL string `env:"SNAPSHOT_URL"`

	CacheDir string `env:"CACHE_DIR" envDefault:"cache"`
	// RedisURL, when set, replaces the disk cache tier with Redis.
	RedisURL string `env:"REDIS_URL"`

	MinInterval time.Duration `env:"MIN_INTERVAL" envDefault:"1s"`
	SweepEvery  time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`

	// WarmTopics are queries pre-fetched at startup so the first real
	// callers hit the cache.
	WarmTopics  []string `env:"WARM_TOPICS" envSeparator:","`
	WarmCountry string   `env:"WARM_COUNTRY" envDefault:"US"`
}

func main() {
	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse environment")
	}

	logging.Setup(logging.Config{
		Level:   logging.LogLevel(cfg.LogLevel),
		Pretty:  cfg.LogPretty,
		Service: "news-proxy",
	})
	logger := logging.NewLogger("news-proxy")

	serviceConfig := news.DefaultConfig(cfg.UpstreamURL, cfg.UserAgent)
	serviceConfig.CacheDir = cfg.CacheDir
	serviceConfig.SnapshotBaseURL = cfg.SnapshotURL
	serviceConfig.MinInterval = cfg.MinInterval

	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisURL).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("addr", cfg.RedisURL).Msg("Using Redis cache tier")
		serviceConfig.Redis = redisClient
	}

	service, err := news.New(serviceConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create news service")
	}

	if len(cfg.WarmTopics) > 0 {
		go warmCache(service, cfg.WarmTopics, cfg.WarmCountry)
	}
	go sweepLoop(service, cfg.SweepEvery)

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/news", newsHandler(service))
	http.Handle("/metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	logger.Info().
		Str("addr", addr).
		Str("upstream", cfg.UpstreamURL).
		Msg("Starting news proxy")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// newsResponse wraps the article list with its provenance so clients
// can tell degraded answers apart from fresh ones.
type newsResponse struct {
	Source      news.Source           `json:"source"`
	RetrievedAt time.Time             `json:"retrieved_at"`
	Data        *upstream.ArticleList `json:"data"`
}

func newsHandler(service *news.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		if query == "" {
			http.Error(w, "query parameter is required", http.StatusBadRequest)
			return
		}
		country := r.URL.Query().Get("country")
		category := r.URL.Query().Get("category")

		maxRecords := 0
		if raw := r.URL.Query().Get("max"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				http.Error(w, "max must be a non-negative integer", http.StatusBadRequest)
				return
			}
			maxRecords = parsed
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()

		result := service.Get(ctx, query, country, category, maxRecords)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(newsResponse{
			Source:      result.Source,
			RetrievedAt: result.Timestamp,
			Data:        result.Payload,
		}); err != nil {
			log.Warn().Err(err).Msg("Failed to write response")
		}
	}
}

// warmCache pre-fetches the configured topics through the service.
func warmCache(service *news.Service, topics []string, country string) {
	warmTopics := make([]prefetch.Topic, 0, len(topics))
	for _, query := range topics {
		warmTopics = append(warmTopics, prefetch.Topic{
			Query:    query,
			Country:  country,
			Category: news.CategoryNews,
		})
	}

	warmer := prefetch.NewWarmer(service, prefetch.DefaultConfig())
	warmer.WarmAll(context.Background(), warmTopics)
}

// sweepLoop periodically evicts expired cache entries.
func sweepLoop(service *news.Service, every time.Duration) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		if evicted := service.EvictExpired(context.Background()); evicted > 0 {
			log.Info().Int("evicted", evicted).Msg("Cache sweep complete")
		}
	}
}
