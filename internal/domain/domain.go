package domain

import (
	"fmt"
	"strings"
	"time"
)

// Timeframe is the fixed duration each OHLCV bar represents.
type Timeframe string

const (
	Timeframe1m  Timeframe = "1m"
	Timeframe3m  Timeframe = "3m"
	Timeframe5m  Timeframe = "5m"
	Timeframe15m Timeframe = "15m"
	Timeframe30m Timeframe = "30m"
	Timeframe1h  Timeframe = "1h"
	Timeframe2h  Timeframe = "2h"
	Timeframe4h  Timeframe = "4h"
	Timeframe6h  Timeframe = "6h"
	Timeframe12h Timeframe = "12h"
	Timeframe1d  Timeframe = "1d"
	Timeframe1w  Timeframe = "1w"
	Timeframe1M  Timeframe = "1M"
)

// SupportedTimeframes lists every bar duration the service accepts, in
// ascending order.
var SupportedTimeframes = []Timeframe{
	Timeframe1m, Timeframe3m, Timeframe5m, Timeframe15m, Timeframe30m,
	Timeframe1h, Timeframe2h, Timeframe4h, Timeframe6h, Timeframe12h,
	Timeframe1d, Timeframe1w, Timeframe1M,
}

var timeframeDurations = map[Timeframe]time.Duration{
	Timeframe1m:  time.Minute,
	Timeframe3m:  3 * time.Minute,
	Timeframe5m:  5 * time.Minute,
	Timeframe15m: 15 * time.Minute,
	Timeframe30m: 30 * time.Minute,
	Timeframe1h:  time.Hour,
	Timeframe2h:  2 * time.Hour,
	Timeframe4h:  4 * time.Hour,
	Timeframe6h:  6 * time.Hour,
	Timeframe12h: 12 * time.Hour,
	Timeframe1d:  24 * time.Hour,
	Timeframe1w:  7 * 24 * time.Hour,
	Timeframe1M:  30 * 24 * time.Hour,
}

// ParseTimeframe validates a raw timeframe string against the supported set.
func ParseTimeframe(raw string) (Timeframe, error) {
	tf := Timeframe(strings.TrimSpace(raw))
	if _, ok := timeframeDurations[tf]; !ok {
		return "", fmt.Errorf("unsupported timeframe: %s", raw)
	}
	return tf, nil
}

func (t Timeframe) IsValid() bool {
	_, ok := timeframeDurations[t]
	return ok
}

// Duration returns the nominal bar duration. Months are approximated as 30
// days, which only matters for cache TTL derivation.
func (t Timeframe) Duration() time.Duration {
	return timeframeDurations[t]
}

// ParseSymbol validates a trading-pair identifier in BASE/QUOTE form and
// returns it upper-cased.
func ParseSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", fmt.Errorf("symbol is required")
	}
	base, quote, ok := strings.Cut(symbol, "/")
	if !ok || base == "" || quote == "" || strings.Contains(quote, "/") {
		return "", fmt.Errorf("symbol must be in BASE/QUOTE form (e.g. BTC/USDT), got %q", raw)
	}
	return symbol, nil
}

// Series is a column-oriented OHLCV price series, one entry per historical
// bar, ordered oldest to newest. All six columns always have identical
// length. Callers treat a returned Series as read-only.
type Series struct {
	Symbol    string      `json:"symbol"`
	Timeframe Timeframe   `json:"timeframe"`
	Dates     []time.Time `json:"dates"`
	Opens     []float64   `json:"opens"`
	Highs     []float64   `json:"highs"`
	Lows      []float64   `json:"lows"`
	Closes    []float64   `json:"closes"`
	Volumes   []float64   `json:"volumes"`
}

// Len returns the number of bars in the series.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Dates)
}

// Bar is a single row view over a Series, used by the archive repository.
type Bar struct {
	Symbol    string    `json:"symbol"`
	Timeframe Timeframe `json:"timeframe"`
	OpenTime  time.Time `json:"open_time"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Bar returns the i-th bar of the series.
func (s *Series) Bar(i int) Bar {
	return Bar{
		Symbol:    s.Symbol,
		Timeframe: s.Timeframe,
		OpenTime:  s.Dates[i],
		Open:      s.Opens[i],
		High:      s.Highs[i],
		Low:       s.Lows[i],
		Close:     s.Closes[i],
		Volume:    s.Volumes[i],
	}
}

// SignalDirection is the outcome of a strategy evaluation.
type SignalDirection string

const (
	DirectionLong  SignalDirection = "long"
	DirectionShort SignalDirection = "short"
	DirectionHold  SignalDirection = "hold"
)
