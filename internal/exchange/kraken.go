package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"candleforge/internal/domain"
	"candleforge/internal/httputil"
)

const krakenOHLCURL = "https://api.kraken.com/0/public/OHLC"

// Kraken's OHLC endpoint takes the interval in minutes and only supports a
// subset of the service timeframes.
var krakenIntervals = map[domain.Timeframe]int{
	domain.Timeframe1m:  1,
	domain.Timeframe5m:  5,
	domain.Timeframe15m: 15,
	domain.Timeframe30m: 30,
	domain.Timeframe1h:  60,
	domain.Timeframe4h:  240,
	domain.Timeframe1d:  1440,
	domain.Timeframe1w:  10080,
}

// krakenClient queries Kraken's public REST API directly. Backoff on 429/5xx
// is handled by the shared retrying HTTP helper.
type krakenClient struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func newKrakenClient() *krakenClient {
	return &krakenClient{
		baseURL:    krakenOHLCURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

func (c *krakenClient) Name() string { return "kraken" }

func (c *krakenClient) HasOHLCV() bool { return true }

func (c *krakenClient) FetchOHLCV(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) ([][]float64, error) {
	interval, ok := krakenIntervals[timeframe]
	if !ok {
		return nil, fmt.Errorf("kraken does not support timeframe %s", timeframe)
	}

	query := url.Values{}
	query.Set("pair", krakenPair(symbol))
	query.Set("interval", fmt.Sprintf("%d", interval))
	endpoint := c.baseURL + "?" + query.Encode()

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("kraken fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kraken returned status %d", resp.StatusCode)
	}

	var payload struct {
		Error  []string                   `json:"error"`
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode kraken response: %w", err)
	}
	if len(payload.Error) > 0 {
		return nil, fmt.Errorf("kraken error: %s", strings.Join(payload.Error, "; "))
	}

	rows, err := krakenRows(payload.Result)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[len(rows)-limit:]
	}
	return rows, nil
}

// krakenPair converts BASE/QUOTE into Kraken's concatenated form. Kraken
// names bitcoin XBT.
func krakenPair(symbol string) string {
	base, quote, _ := strings.Cut(strings.ToUpper(symbol), "/")
	if base == "BTC" {
		base = "XBT"
	}
	if quote == "BTC" {
		quote = "XBT"
	}
	return base + quote
}

// krakenRows normalizes the pair-keyed response into wire-order rows. Kraken
// rows are [time, open, high, low, close, vwap, volume, count] with prices as
// strings and the timestamp in seconds; the "last" key is pagination
// metadata, not a pair.
func krakenRows(result map[string]json.RawMessage) ([][]float64, error) {
	for key, raw := range result {
		if key == "last" {
			continue
		}

		var bars [][]any
		if err := json.Unmarshal(raw, &bars); err != nil {
			return nil, fmt.Errorf("decode kraken bars for %s: %w", key, err)
		}

		rows := make([][]float64, 0, len(bars))
		for i, bar := range bars {
			if len(bar) < 7 {
				return nil, fmt.Errorf("kraken bar at index %d has %d fields, want at least 7", i, len(bar))
			}
			row := make([]float64, 6)
			ts, err := krakenField(bar[0])
			if err != nil {
				return nil, fmt.Errorf("parse kraken timestamp at index %d: %w", i, err)
			}
			row[0] = ts * 1000
			// Skip field 5 (vwap); volume sits at field 6.
			for j, src := range []int{1, 2, 3, 4, 6} {
				v, err := krakenField(bar[src])
				if err != nil {
					return nil, fmt.Errorf("parse kraken field %d at index %d: %w", src, i, err)
				}
				row[j+1] = v
			}
			rows = append(rows, row)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("kraken response contained no pair data")
}

// krakenField parses one scalar from a Kraken bar. Timestamps and counts
// arrive as JSON numbers, prices and volumes as strings.
func krakenField(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case string:
		return strconv.ParseFloat(t, 64)
	case json.Number:
		return t.Float64()
	default:
		return 0, fmt.Errorf("unexpected field type %T", v)
	}
}
