package mcp

import (
	"context"

	"candleforge/internal/domain"
	"candleforge/internal/signal"
)

// SeriesProvider exposes validated OHLCV series to the tool layer.
type SeriesProvider interface {
	GetSeries(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) (*domain.Series, error)
}

// StrategyEvaluator exposes the combined-strategy signal computations.
type StrategyEvaluator interface {
	Composite(s *domain.Series) (domain.SignalDirection, []signal.Check, error)
	SMACross(s *domain.Series, fast, slow int) (domain.SignalDirection, string, error)
}

// BarArchiveReader reads previously archived bars. Nil when the archive is
// not configured.
type BarArchiveReader interface {
	ListBars(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) ([]domain.Bar, error)
}
