package domain

import (
	"strings"
	"testing"
	"time"
)

func TestParseTimeframe(t *testing.T) {
	for _, tf := range SupportedTimeframes {
		got, err := ParseTimeframe(string(tf))
		if err != nil {
			t.Fatalf("ParseTimeframe(%s): %v", tf, err)
		}
		if got != tf {
			t.Fatalf("ParseTimeframe(%s) = %s", tf, got)
		}
	}

	if _, err := ParseTimeframe("7h"); err == nil {
		t.Fatal("expected error for unsupported timeframe")
	}
	if _, err := ParseTimeframe(""); err == nil {
		t.Fatal("expected error for empty timeframe")
	}
}

func TestTimeframeDuration(t *testing.T) {
	if d := Timeframe1h.Duration(); d != time.Hour {
		t.Fatalf("1h duration = %v", d)
	}
	if d := Timeframe1w.Duration(); d != 7*24*time.Hour {
		t.Fatalf("1w duration = %v", d)
	}
	if Timeframe("7h").IsValid() {
		t.Fatal("7h should not be valid")
	}
}

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "BTC/USDT", want: "BTC/USDT"},
		{raw: "eth/usd", want: "ETH/USD"},
		{raw: "  sol/usdc ", want: "SOL/USDC"},
		{raw: "BTCUSDT", wantErr: true},
		{raw: "BTC/", wantErr: true},
		{raw: "/USDT", wantErr: true},
		{raw: "BTC/USD/T", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseSymbol(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseSymbol(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseSymbol(%q): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseSymbol(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseSymbolErrorMentionsForm(t *testing.T) {
	_, err := ParseSymbol("BTCUSDT")
	if err == nil || !strings.Contains(err.Error(), "BASE/QUOTE") {
		t.Fatalf("expected BASE/QUOTE hint, got %v", err)
	}
}

func TestSeriesLenAndBar(t *testing.T) {
	var nilSeries *Series
	if nilSeries.Len() != 0 {
		t.Fatal("nil series should have length 0")
	}

	s := &Series{
		Symbol:    "BTC/USDT",
		Timeframe: Timeframe1h,
		Dates:     []time.Time{time.UnixMilli(0).UTC(), time.UnixMilli(3600000).UTC()},
		Opens:     []float64{1, 2},
		Highs:     []float64{3, 4},
		Lows:      []float64{0.5, 1.5},
		Closes:    []float64{2, 3},
		Volumes:   []float64{10, 20},
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d", s.Len())
	}

	bar := s.Bar(1)
	if bar.Symbol != "BTC/USDT" || bar.Timeframe != Timeframe1h {
		t.Fatalf("bar identity: %+v", bar)
	}
	if bar.Open != 2 || bar.High != 4 || bar.Low != 1.5 || bar.Close != 3 || bar.Volume != 20 {
		t.Fatalf("bar values: %+v", bar)
	}
	if !bar.OpenTime.Equal(time.UnixMilli(3600000).UTC()) {
		t.Fatalf("bar open time: %v", bar.OpenTime)
	}
}
