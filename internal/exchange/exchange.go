package exchange

import (
	"context"
	"fmt"
	"strings"

	"candleforge/internal/domain"
)

// Client is a market-data provider queried for historical OHLCV bars.
//
// FetchOHLCV returns raw rows in exchange wire order: field 0 is the bar open
// time in epoch milliseconds, fields 1-5 are open/high/low/close/volume.
// Adapters normalize provider-specific layouts into that shape; interpreting
// the fields is the fetcher's job. Implementations are safe for concurrent
// use and handle their own rate limiting.
type Client interface {
	Name() string
	HasOHLCV() bool
	FetchOHLCV(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) ([][]float64, error)
}

// Supported is the closed set of exchange identifiers New accepts.
var Supported = []string{"binance", "binanceus", "kraken"}

// Config selects and parameterizes the process-wide exchange client.
type Config struct {
	Exchange  string
	APIKey    string
	APISecret string
}

// New maps a validated exchange identifier to one of the fixed set of client
// implementations. Identifiers outside the set are a configuration error;
// callers treat it as fatal at startup.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Exchange)) {
	case "binance":
		return newBinanceClient(cfg, false), nil
	case "binanceus":
		return newBinanceClient(cfg, true), nil
	case "kraken":
		return newKrakenClient(), nil
	default:
		return nil, fmt.Errorf("unsupported exchange %q (supported: %s)",
			cfg.Exchange, strings.Join(Supported, ", "))
	}
}
