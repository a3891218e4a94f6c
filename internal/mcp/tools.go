package mcp

import (
	"context"
	"fmt"

	"candleforge/internal/domain"
	"candleforge/internal/indicator"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server, market SeriesProvider, strategy StrategyEvaluator, maxLimit int) {
	addValueTool(server, market, maxLimit, "momentum_rsi",
		"Relative Strength Index (RSI) over exchange OHLCV data",
		indicator.DefaultRSIPeriod, indicator.RSI)
	addValueTool(server, market, maxLimit, "momentum_willr",
		"Williams %R over exchange OHLCV data",
		indicator.DefaultWillRPeriod, indicator.WilliamsR)
	addValueTool(server, market, maxLimit, "momentum_roc",
		"Rate of Change (ROC) over exchange OHLCV data",
		indicator.DefaultROCPeriod, indicator.ROC)
	addValueTool(server, market, maxLimit, "momentum_cci",
		"Commodity Channel Index (CCI) over exchange OHLCV data",
		indicator.DefaultCCIPeriod, indicator.CCI)
	addValueTool(server, market, maxLimit, "volume_mfi",
		"Money Flow Index (MFI) over exchange OHLCV data",
		indicator.DefaultMFIPeriod, indicator.MFI)
	addValueTool(server, market, maxLimit, "volume_vwap",
		"Rolling Volume-Weighted Average Price (VWAP) over exchange OHLCV data",
		indicator.DefaultVWAPPeriod, indicator.VWAP)

	addCumulativeTool(server, market, maxLimit, "volume_obv",
		"On-Balance Volume (OBV) over exchange OHLCV data", indicator.OBV)
	addCumulativeTool(server, market, maxLimit, "volume_ad",
		"Chaikin Accumulation/Distribution line over exchange OHLCV data", indicator.AD)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "momentum_stoch",
		Description: "Stochastic oscillator (slow %K/%D) over exchange OHLCV data",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in stochInput) (*mcp.CallToolResult, stochOutput, error) {
		if market == nil {
			return nil, stochOutput{}, fmt.Errorf("market service unavailable")
		}
		fastK := normalizePeriod(in.FastK, indicator.DefaultStochFastK)
		slowK := normalizePeriod(in.SlowK, indicator.DefaultStochSlowK)
		slowD := normalizePeriod(in.SlowD, indicator.DefaultStochSlowD)

		series, err := loadSeries(ctx, market, in.seriesArgs, maxLimit)
		if err != nil {
			return nil, stochOutput{}, err
		}
		if err := indicator.MinLength(series, fastK+slowK+slowD, "stochastic oscillator"); err != nil {
			return nil, stochOutput{}, err
		}

		k, d := indicator.Stoch(series, fastK, slowK, slowD)
		kLast, err := indicator.Last(k)
		if err != nil {
			return nil, stochOutput{}, err
		}
		dLast, err := indicator.Last(d)
		if err != nil {
			return nil, stochOutput{}, err
		}
		return nil, stochOutput{
			Symbol:    series.Symbol,
			Timeframe: string(series.Timeframe),
			K:         kLast,
			D:         dLast,
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "momentum_macd",
		Description: "Moving Average Convergence/Divergence (MACD) over exchange OHLCV data",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in macdInput) (*mcp.CallToolResult, macdOutput, error) {
		if market == nil {
			return nil, macdOutput{}, fmt.Errorf("market service unavailable")
		}
		fast := normalizePeriod(in.Fast, indicator.DefaultMACDFast)
		slow := normalizePeriod(in.Slow, indicator.DefaultMACDSlow)
		sig := normalizePeriod(in.Signal, indicator.DefaultMACDSignal)
		if fast >= slow {
			return nil, macdOutput{}, fmt.Errorf("fast period %d must be below slow period %d", fast, slow)
		}

		series, err := loadSeries(ctx, market, in.seriesArgs, maxLimit)
		if err != nil {
			return nil, macdOutput{}, err
		}
		if err := indicator.MinLength(series, slow+sig, "macd"); err != nil {
			return nil, macdOutput{}, err
		}

		macdLine, signalLine, hist := indicator.MACD(series, fast, slow, sig)
		n := len(macdLine)
		return nil, macdOutput{
			Symbol:    series.Symbol,
			Timeframe: string(series.Timeframe),
			MACD:      macdLine[n-1],
			Signal:    signalLine[n-1],
			Histogram: hist[n-1],
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "volume_adosc",
		Description: "Chaikin A/D oscillator over exchange OHLCV data",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in adoscInput) (*mcp.CallToolResult, valueOutput, error) {
		if market == nil {
			return nil, valueOutput{}, fmt.Errorf("market service unavailable")
		}
		fast := normalizePeriod(in.Fast, indicator.DefaultADOSCFast)
		slow := normalizePeriod(in.Slow, indicator.DefaultADOSCSlow)
		if fast >= slow {
			return nil, valueOutput{}, fmt.Errorf("fast period %d must be below slow period %d", fast, slow)
		}

		series, err := loadSeries(ctx, market, in.seriesArgs, maxLimit)
		if err != nil {
			return nil, valueOutput{}, err
		}
		if err := indicator.MinLength(series, slow+1, "a/d oscillator"); err != nil {
			return nil, valueOutput{}, err
		}

		values := indicator.ADOSC(series, fast, slow)
		last, err := indicator.Last(values)
		if err != nil {
			return nil, valueOutput{}, err
		}
		return nil, valueOutput{
			Symbol:    series.Symbol,
			Timeframe: string(series.Timeframe),
			Indicator: "volume_adosc",
			Value:     last,
			Tail:      indicator.Tail(values, tailLen),
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "strategy_composite",
		Description: "Combined RSI + MACD + Bollinger strategy vote over exchange OHLCV data",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in seriesArgs) (*mcp.CallToolResult, compositeOutput, error) {
		if market == nil || strategy == nil {
			return nil, compositeOutput{}, fmt.Errorf("strategy service unavailable")
		}
		series, err := loadSeries(ctx, market, in, maxLimit)
		if err != nil {
			return nil, compositeOutput{}, err
		}
		direction, checks, err := strategy.Composite(series)
		if err != nil {
			return nil, compositeOutput{}, err
		}
		return nil, compositeOutput{
			Symbol:    series.Symbol,
			Timeframe: string(series.Timeframe),
			Direction: direction,
			Checks:    checks,
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "strategy_sma_cross",
		Description: "Fast/slow SMA crossover signal over exchange OHLCV data",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in smaCrossInput) (*mcp.CallToolResult, smaCrossOutput, error) {
		if market == nil || strategy == nil {
			return nil, smaCrossOutput{}, fmt.Errorf("strategy service unavailable")
		}
		fast := normalizePeriod(in.Fast, 20)
		slow := normalizePeriod(in.Slow, 50)

		series, err := loadSeries(ctx, market, in.seriesArgs, maxLimit)
		if err != nil {
			return nil, smaCrossOutput{}, err
		}
		direction, details, err := strategy.SMACross(series, fast, slow)
		if err != nil {
			return nil, smaCrossOutput{}, err
		}
		return nil, smaCrossOutput{
			Symbol:    series.Symbol,
			Timeframe: string(series.Timeframe),
			Fast:      fast,
			Slow:      slow,
			Direction: direction,
			Details:   details,
		}, nil
	})
}

// addValueTool registers a period-parameterized indicator that reduces to a
// single latest value plus a short tail.
func addValueTool(server *mcp.Server, market SeriesProvider, maxLimit int, name, description string, defaultPeriod int, compute func(*domain.Series, int) []float64) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in periodInput) (*mcp.CallToolResult, valueOutput, error) {
		if market == nil {
			return nil, valueOutput{}, fmt.Errorf("market service unavailable")
		}
		period := normalizePeriod(in.Period, defaultPeriod)

		series, err := loadSeries(ctx, market, in.seriesArgs, maxLimit)
		if err != nil {
			return nil, valueOutput{}, err
		}
		if err := indicator.MinLength(series, period+1, name); err != nil {
			return nil, valueOutput{}, err
		}

		values := compute(series, period)
		last, err := indicator.Last(values)
		if err != nil {
			return nil, valueOutput{}, err
		}
		return nil, valueOutput{
			Symbol:    series.Symbol,
			Timeframe: string(series.Timeframe),
			Indicator: name,
			Period:    period,
			Value:     last,
			Tail:      indicator.Tail(values, tailLen),
		}, nil
	})
}

// addCumulativeTool registers a periodless cumulative indicator (OBV, A/D).
func addCumulativeTool(server *mcp.Server, market SeriesProvider, maxLimit int, name, description string, compute func(*domain.Series) []float64) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in seriesArgs) (*mcp.CallToolResult, valueOutput, error) {
		if market == nil {
			return nil, valueOutput{}, fmt.Errorf("market service unavailable")
		}
		series, err := loadSeries(ctx, market, in, maxLimit)
		if err != nil {
			return nil, valueOutput{}, err
		}
		if err := indicator.MinLength(series, 2, name); err != nil {
			return nil, valueOutput{}, err
		}

		values := compute(series)
		last, err := indicator.Last(values)
		if err != nil {
			return nil, valueOutput{}, err
		}
		return nil, valueOutput{
			Symbol:    series.Symbol,
			Timeframe: string(series.Timeframe),
			Indicator: name,
			Value:     last,
			Tail:      indicator.Tail(values, tailLen),
		}, nil
	})
}

// loadSeries normalizes common tool arguments and fetches the price series.
func loadSeries(ctx context.Context, market SeriesProvider, args seriesArgs, maxLimit int) (*domain.Series, error) {
	symbol, err := normalizeSymbol(args.Symbol)
	if err != nil {
		return nil, err
	}
	timeframe, err := normalizeTimeframe(args.Timeframe)
	if err != nil {
		return nil, err
	}
	limit := normalizeSeriesLimit(args.Limit, maxLimit)
	return market.GetSeries(ctx, symbol, timeframe, limit)
}
