package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"candleforge/internal/domain"
	"candleforge/internal/exchange"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// minRowFields is the ccxt wire shape: timestamp plus open/high/low/close/volume.
const minRowFields = 6

// ErrFetch is the uniform failure signal for OHLCV acquisition. Every
// per-call failure mode (capability, malformed response, transport) is
// wrapped with it, so callers match with errors.Is and present the message
// text as-is.
var ErrFetch = errors.New("Failed to fetch OHLCV data")

// Fetcher turns raw exchange OHLCV rows into a validated columnar Series.
// It holds no state between calls and issues exactly one provider request
// per invocation; rate limiting and backoff live inside the exchange client.
type Fetcher struct {
	client exchange.Client
	tracer trace.Tracer
}

func NewFetcher(client exchange.Client, tracer trace.Tracer) *Fetcher {
	return &Fetcher{client: client, tracer: tracer}
}

// Fetch retrieves up to limit historical bars for symbol at the given
// timeframe, anchored at the most recent available bar. On success all six
// columns of the returned Series have identical length >= 1; on failure no
// partial series is returned.
func (f *Fetcher) Fetch(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) (*domain.Series, error) {
	ctx, span := f.tracer.Start(ctx, "market.fetch-ohlcv")
	span.SetAttributes(
		attribute.String("market.symbol", symbol),
		attribute.String("market.timeframe", string(timeframe)),
		attribute.Int("market.limit", limit),
	)
	defer span.End()

	series, err := f.fetch(ctx, symbol, timeframe, limit)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFetch, err)
		span.RecordError(err)
		return nil, err
	}
	return series, nil
}

func (f *Fetcher) fetch(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) (*domain.Series, error) {
	if f.client == nil {
		return nil, fmt.Errorf("no exchange client configured")
	}
	if !f.client.HasOHLCV() {
		return nil, fmt.Errorf("exchange %s does not support OHLCV retrieval", f.client.Name())
	}

	rows, err := f.client.FetchOHLCV(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("exchange %s returned no OHLCV rows for %s", f.client.Name(), symbol)
	}

	series := &domain.Series{
		Symbol:    symbol,
		Timeframe: timeframe,
		Dates:     make([]time.Time, 0, len(rows)),
		Opens:     make([]float64, 0, len(rows)),
		Highs:     make([]float64, 0, len(rows)),
		Lows:      make([]float64, 0, len(rows)),
		Closes:    make([]float64, 0, len(rows)),
		Volumes:   make([]float64, 0, len(rows)),
	}
	for i, row := range rows {
		if len(row) < minRowFields {
			return nil, fmt.Errorf("malformed OHLCV row at index %d: got %d fields, want at least %d", i, len(row), minRowFields)
		}
		series.Dates = append(series.Dates, time.UnixMilli(int64(row[0])).UTC())
		series.Opens = append(series.Opens, row[1])
		series.Highs = append(series.Highs, row[2])
		series.Lows = append(series.Lows, row[3])
		series.Closes = append(series.Closes, row[4])
		series.Volumes = append(series.Volumes, row[5])
	}
	return series, nil
}
