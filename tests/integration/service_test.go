package integration

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/newsroom-labs/news-client/internal/testutil"
	"github.com/newsroom-labs/news-client/pkg/news"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newRedisBackedService(t *testing.T, redisClient *redis.Client, baseURL string) *news.Service {
	t.Helper()

	cfg := news.DefaultConfig(baseURL, "news-client-integration/1.0")
	cfg.Redis = redisClient
	cfg.MinInterval = 0
	cfg.InitialBackoff = time.Millisecond
	cfg.MaxBackoff = 5 * time.Millisecond

	service, err := news.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return service
}

func TestFullRetrievalFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetResponse("/", testutil.NewArticleListResponse(3))

	service := newRedisBackedService(t, redisClient, mock.URL())
	ctx := context.Background()

	// First call goes live and writes through to Redis.
	result := service.Get(ctx, "climate change", "US", news.CategoryNews, 10)
	if result.Source != news.SourceLive {
		t.Fatalf("Source = %q, want live", result.Source)
	}
	if result.Payload.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Payload.Total)
	}

	// Verify the entry landed in Redis.
	keys, err := redisClient.Keys(ctx, "news:cache:*").Result()
	if err != nil {
		t.Fatalf("Redis KEYS failed: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("Redis keys = %d, want 1", len(keys))
	}

	// Repeat is a cache hit without touching the upstream.
	calls := mock.GetRequestCount()
	result = service.Get(ctx, "climate change", "US", news.CategoryNews, 10)
	if result.Source != news.SourceCache {
		t.Errorf("Source = %q, want cache", result.Source)
	}
	if mock.GetRequestCount() != calls {
		t.Errorf("Upstream calls = %d after cache hit, want %d", mock.GetRequestCount(), calls)
	}
}

func TestRedisSurvivesServiceRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetResponse("/", testutil.NewArticleListResponse(2))

	ctx := context.Background()

	first := newRedisBackedService(t, redisClient, mock.URL())
	if result := first.Get(ctx, "elections", "US", news.CategoryNews, 10); result.Source != news.SourceLive {
		t.Fatalf("Source = %q, want live", result.Source)
	}

	// A fresh service instance shares no memory tier, so the hit must
	// come out of Redis.
	second := newRedisBackedService(t, redisClient, mock.URL())
	calls := mock.GetRequestCount()

	result := second.Get(ctx, "elections", "US", news.CategoryNews, 10)
	if result.Source != news.SourceCache {
		t.Errorf("Source = %q, want cache from Redis", result.Source)
	}
	if result.Payload.Total != 2 {
		t.Errorf("Total = %d, want 2", result.Payload.Total)
	}
	if mock.GetRequestCount() != calls {
		t.Errorf("Upstream calls = %d, want %d", mock.GetRequestCount(), calls)
	}
}

func TestDegradationWithRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockUpstream()
	defer mock.Close()
	mock.SetResponse("/", testutil.NewRateLimitResponse())

	service := newRedisBackedService(t, redisClient, mock.URL())
	ctx := context.Background()

	result := service.Get(ctx, "breaking story", "US", news.CategoryNews, 10)
	if result.Source != news.SourceSynthetic {
		t.Fatalf("Source = %q, want synthetic", result.Source)
	}
	if len(result.Payload.Articles) == 0 {
		t.Error("Degraded result must still carry articles")
	}

	// The synthetic payload is cached briefly in Redis too.
	repeat := service.Get(ctx, "breaking story", "US", news.CategoryNews, 10)
	if repeat.Source != news.SourceCache {
		t.Errorf("Repeat source = %q, want cache", repeat.Source)
	}
}
