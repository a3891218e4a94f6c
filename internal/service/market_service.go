package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"candleforge/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const defaultCacheTTL = 60 * time.Second

// SeriesFetcher acquires a validated price series from the exchange.
type SeriesFetcher interface {
	Fetch(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) (*domain.Series, error)
}

// BarArchive persists fetched bars for offline analysis.
type BarArchive interface {
	UpsertSeries(ctx context.Context, series *domain.Series) error
}

// MarketService sits between the tool layer and the fetcher. It adds a short
// Redis cache and a best-effort write-behind archive; both are optional and
// the core fetch semantics are untouched when they are absent.
type MarketService struct {
	tracer   trace.Tracer
	fetcher  SeriesFetcher
	cache    *redis.Client
	archive  BarArchive
	cacheTTL time.Duration
}

func NewMarketService(tracer trace.Tracer, fetcher SeriesFetcher, cache *redis.Client, archive BarArchive, cacheTTL time.Duration) *MarketService {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &MarketService{
		tracer:   tracer,
		fetcher:  fetcher,
		cache:    cache,
		archive:  archive,
		cacheTTL: cacheTTL,
	}
}

// GetSeries returns the price series for symbol/timeframe/limit, from cache
// when fresh, otherwise from the exchange.
func (s *MarketService) GetSeries(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) (*domain.Series, error) {
	ctx, span := s.tracer.Start(ctx, "market-service.get-series")
	defer span.End()

	if s.fetcher == nil {
		return nil, fmt.Errorf("market service is not fully initialized")
	}

	key := seriesCacheKey(symbol, timeframe, limit)
	if cached := s.cacheGet(ctx, key); cached != nil {
		return cached, nil
	}

	series, err := s.fetcher.Fetch(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, series)
	if s.archive != nil {
		if err := s.archive.UpsertSeries(ctx, series); err != nil {
			log.Printf("bar archive upsert failed for %s %s: %v", symbol, timeframe, err)
		}
	}
	return series, nil
}

func seriesCacheKey(symbol string, timeframe domain.Timeframe, limit int) string {
	return fmt.Sprintf("series:%s:%s:%d", symbol, timeframe, limit)
}

func (s *MarketService) cacheGet(ctx context.Context, key string) *domain.Series {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var series domain.Series
	if err := json.Unmarshal(raw, &series); err != nil {
		log.Printf("dropping unreadable cache entry %s: %v", key, err)
		return nil
	}
	return &series
}

func (s *MarketService) cacheSet(ctx context.Context, key string, series *domain.Series) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(series)
	if err != nil {
		return
	}
	ttl := s.cacheTTL
	if barTTL := series.Timeframe.Duration(); barTTL > 0 && barTTL < ttl {
		ttl = barTTL
	}
	if err := s.cache.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("series cache set failed for %s: %v", key, err)
	}
}
