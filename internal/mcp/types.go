package mcp

import (
	"candleforge/internal/domain"
	"candleforge/internal/signal"
)

const (
	defaultSeriesLimit = 250
	defaultMaxLimit    = 10000

	maxIndicatorPeriod = 500
	tailLen            = 10
)

type seriesArgs struct {
	Symbol    string `json:"symbol" jsonschema:"trading pair in BASE/QUOTE form (e.g. BTC/USDT)"`
	Timeframe string `json:"timeframe" jsonschema:"bar duration: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 12h, 1d, 1w, 1M"`
	Limit     int    `json:"limit,omitempty" jsonschema:"number of historical bars to fetch, default 250"`
}

type periodInput struct {
	seriesArgs
	Period int `json:"period,omitempty" jsonschema:"indicator lookback period"`
}

type stochInput struct {
	seriesArgs
	FastK int `json:"fast_k,omitempty" jsonschema:"fast %K period, default 14"`
	SlowK int `json:"slow_k,omitempty" jsonschema:"slow %K smoothing period, default 3"`
	SlowD int `json:"slow_d,omitempty" jsonschema:"slow %D period, default 3"`
}

type macdInput struct {
	seriesArgs
	Fast   int `json:"fast,omitempty" jsonschema:"fast EMA period, default 12"`
	Slow   int `json:"slow,omitempty" jsonschema:"slow EMA period, default 26"`
	Signal int `json:"signal,omitempty" jsonschema:"signal EMA period, default 9"`
}

type adoscInput struct {
	seriesArgs
	Fast int `json:"fast,omitempty" jsonschema:"fast EMA period, default 3"`
	Slow int `json:"slow,omitempty" jsonschema:"slow EMA period, default 10"`
}

type smaCrossInput struct {
	seriesArgs
	Fast int `json:"fast,omitempty" jsonschema:"fast SMA period, default 20"`
	Slow int `json:"slow,omitempty" jsonschema:"slow SMA period, default 50"`
}

type valueOutput struct {
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Indicator string    `json:"indicator"`
	Period    int       `json:"period,omitempty"`
	Value     float64   `json:"value"`
	Tail      []float64 `json:"tail,omitempty"`
}

type stochOutput struct {
	Symbol    string  `json:"symbol"`
	Timeframe string  `json:"timeframe"`
	K         float64 `json:"k"`
	D         float64 `json:"d"`
}

type macdOutput struct {
	Symbol    string  `json:"symbol"`
	Timeframe string  `json:"timeframe"`
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

type compositeOutput struct {
	Symbol    string                 `json:"symbol"`
	Timeframe string                 `json:"timeframe"`
	Direction domain.SignalDirection `json:"direction"`
	Checks    []signal.Check         `json:"checks"`
}

type smaCrossOutput struct {
	Symbol    string                 `json:"symbol"`
	Timeframe string                 `json:"timeframe"`
	Fast      int                    `json:"fast"`
	Slow      int                    `json:"slow"`
	Direction domain.SignalDirection `json:"direction"`
	Details   string                 `json:"details"`
}

func normalizeSymbol(symbol string) (string, error) {
	return domain.ParseSymbol(symbol)
}

func normalizeTimeframe(timeframe string) (domain.Timeframe, error) {
	return domain.ParseTimeframe(timeframe)
}

func normalizeSeriesLimit(limit, max int) int {
	if max <= 0 {
		max = defaultMaxLimit
	}
	if limit <= 0 {
		return defaultSeriesLimit
	}
	if limit > max {
		return max
	}
	return limit
}

func normalizePeriod(period, fallback int) int {
	if period <= 0 {
		return fallback
	}
	if period > maxIndicatorPeriod {
		return maxIndicatorPeriod
	}
	return period
}
