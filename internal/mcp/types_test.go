package mcp

import (
	"testing"

	"candleforge/internal/domain"
)

func TestNormalizeSymbol(t *testing.T) {
	s, err := normalizeSymbol(" btc/usdt ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "BTC/USDT" {
		t.Fatalf("expected BTC/USDT, got %s", s)
	}

	if _, err := normalizeSymbol("BTCUSDT"); err == nil {
		t.Fatal("expected malformed symbol error")
	}
}

func TestNormalizeTimeframe(t *testing.T) {
	tf, err := normalizeTimeframe("1h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tf != domain.Timeframe1h {
		t.Fatalf("expected 1h, got %s", tf)
	}

	if _, err := normalizeTimeframe("7h"); err == nil {
		t.Fatal("expected unsupported timeframe error")
	}
}

func TestNormalizeSeriesLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		max   int
		want  int
	}{
		{name: "zero uses default", limit: 0, max: 10000, want: defaultSeriesLimit},
		{name: "negative uses default", limit: -5, max: 10000, want: defaultSeriesLimit},
		{name: "in range passes through", limit: 500, max: 10000, want: 500},
		{name: "above max is capped", limit: 20000, max: 10000, want: 10000},
		{name: "zero max falls back", limit: 20000, max: 0, want: defaultMaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeSeriesLimit(tt.limit, tt.max); got != tt.want {
				t.Fatalf("normalizeSeriesLimit(%d, %d) = %d, want %d", tt.limit, tt.max, got, tt.want)
			}
		})
	}
}

func TestNormalizePeriod(t *testing.T) {
	if got := normalizePeriod(0, 14); got != 14 {
		t.Fatalf("expected fallback 14, got %d", got)
	}
	if got := normalizePeriod(21, 14); got != 21 {
		t.Fatalf("expected 21, got %d", got)
	}
	if got := normalizePeriod(10000, 14); got != maxIndicatorPeriod {
		t.Fatalf("expected cap %d, got %d", maxIndicatorPeriod, got)
	}
}
