package exchange

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"candleforge/internal/domain"

	"github.com/adshao/go-binance/v2"
)

const (
	binanceBaseURL   = "https://api.binance.com"
	binanceUSBaseURL = "https://api.binance.us"

	// Binance rejects kline requests above this per-call limit.
	binanceMaxKlineLimit = 1000
)

// binanceClient adapts the go-binance spot client to the Client interface.
// The same adapter serves binance.com and binance.us; only the base URL and
// reported name differ.
type binanceClient struct {
	name string
	spot *binance.Client
}

func newBinanceClient(cfg Config, us bool) *binanceClient {
	spot := binance.NewClient(cfg.APIKey, cfg.APISecret)
	name := "binance"
	spot.BaseURL = binanceBaseURL
	if us {
		name = "binanceus"
		spot.BaseURL = binanceUSBaseURL
	}
	return &binanceClient{name: name, spot: spot}
}

func (c *binanceClient) Name() string { return c.name }

func (c *binanceClient) HasOHLCV() bool { return true }

func (c *binanceClient) FetchOHLCV(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) ([][]float64, error) {
	if limit > binanceMaxKlineLimit {
		limit = binanceMaxKlineLimit
	}

	klines, err := c.spot.NewKlinesService().
		Symbol(binancePair(symbol)).
		Interval(string(timeframe)).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, 0, len(klines))
	for i, k := range klines {
		row, err := translateBinanceKline(k)
		if err != nil {
			return nil, fmt.Errorf("translate kline at index %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// binancePair converts a BASE/QUOTE symbol into Binance's concatenated form.
func binancePair(symbol string) string {
	return strings.ReplaceAll(strings.ToUpper(symbol), "/", "")
}

func translateBinanceKline(k *binance.Kline) ([]float64, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("parse open %q: %w", k.Open, err)
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return nil, fmt.Errorf("parse high %q: %w", k.High, err)
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("parse low %q: %w", k.Low, err)
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return nil, fmt.Errorf("parse close %q: %w", k.Close, err)
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("parse volume %q: %w", k.Volume, err)
	}
	return []float64{float64(k.OpenTime), open, high, low, closePrice, volume}, nil
}
