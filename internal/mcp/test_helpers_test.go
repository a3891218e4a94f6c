package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"candleforge/internal/domain"
	"candleforge/internal/signal"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type stubMarket struct {
	series *domain.Series
	err    error

	calls         int
	lastSymbol    string
	lastTimeframe domain.Timeframe
	lastLimit     int
}

func (s *stubMarket) GetSeries(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) (*domain.Series, error) {
	s.calls++
	s.lastSymbol = symbol
	s.lastTimeframe = timeframe
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.series, nil
}

type stubStrategy struct {
	direction domain.SignalDirection
	checks    []signal.Check
	details   string
	err       error

	lastFast int
	lastSlow int
}

func (s *stubStrategy) Composite(series *domain.Series) (domain.SignalDirection, []signal.Check, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.direction, s.checks, nil
}

func (s *stubStrategy) SMACross(series *domain.Series, fast, slow int) (domain.SignalDirection, string, error) {
	s.lastFast = fast
	s.lastSlow = slow
	if s.err != nil {
		return "", "", s.err
	}
	return s.direction, s.details, nil
}

type stubArchiveReader struct {
	bars []domain.Bar
	err  error

	lastSymbol string
	lastLimit  int
}

func (s *stubArchiveReader) ListBars(ctx context.Context, symbol string, timeframe domain.Timeframe, limit int) ([]domain.Bar, error) {
	s.lastSymbol = symbol
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.Bar(nil), s.bars...), nil
}

// trendingSeries builds a series long enough for every default warmup.
func trendingSeries(n int) *domain.Series {
	s := &domain.Series{
		Symbol:    "BTC/USDT",
		Timeframe: domain.Timeframe1h,
		Dates:     make([]time.Time, n),
		Opens:     make([]float64, n),
		Highs:     make([]float64, n),
		Lows:      make([]float64, n),
		Closes:    make([]float64, n),
		Volumes:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		c := 100 + float64(i) + float64(i%7)
		s.Dates[i] = time.UnixMilli(int64(i) * 3600_000).UTC()
		s.Opens[i] = c - 0.5
		s.Highs[i] = c + 1
		s.Lows[i] = c - 1
		s.Closes[i] = c
		s.Volumes[i] = 1000 + float64(i%13)*10
	}
	return s
}

func testServer() (*sdkmcp.Server, *stubMarket, *stubStrategy) {
	srv, market, strategy, _ := testServerWithArchive()
	return srv, market, strategy
}

func testServerWithArchive() (*sdkmcp.Server, *stubMarket, *stubStrategy, *stubArchiveReader) {
	market := &stubMarket{series: trendingSeries(120)}
	strategy := &stubStrategy{
		direction: domain.DirectionLong,
		details:   "golden cross: sma(20) crossed above sma(50)",
		checks: []signal.Check{
			{Indicator: "rsi", Direction: domain.DirectionLong, Details: "rsi 25.00 below 30 (oversold)"},
			{Indicator: "macd", Direction: domain.DirectionLong, Details: "macd bullish crossover (0.1234)"},
			{Indicator: "bollinger", Direction: domain.DirectionHold, Details: "close 100.0000 inside bands"},
		},
	}
	archive := &stubArchiveReader{
		bars: []domain.Bar{{
			Symbol: "BTC/USDT", Timeframe: domain.Timeframe1h, OpenTime: time.UnixMilli(0).UTC(),
			Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100,
		}},
	}

	srv := NewServer(nil, market, strategy, archive, ServerConfig{RequestTimeout: time.Second, SeriesMaxLimit: defaultMaxLimit})
	return srv, market, strategy, archive
}

func connectInMemory(ctx context.Context, srv *sdkmcp.Server) (*sdkmcp.ClientSession, context.CancelFunc, error) {
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	runCtx, cancel := context.WithCancel(ctx)
	go func() { _ = srv.Run(runCtx, serverTransport) }()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "mcp-test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return session, cancel, nil
}

func decodeResourceJSON(result *sdkmcp.ReadResourceResult, out any) error {
	if len(result.Contents) == 0 {
		return fmt.Errorf("resource result has no contents")
	}
	return json.Unmarshal([]byte(result.Contents[0].Text), out)
}
