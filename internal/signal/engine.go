package signal

import (
	"fmt"

	"candleforge/internal/domain"
	"candleforge/internal/indicator"
)

const (
	// compositeMinBars covers the slowest warmup in the vote (MACD 26+9).
	compositeMinBars = 40

	rsiOversold   = 30
	rsiOverbought = 70
)

// Check is one indicator's verdict inside a combined strategy.
type Check struct {
	Indicator string                 `json:"indicator"`
	Direction domain.SignalDirection `json:"direction"`
	Details   string                 `json:"details"`
}

// Engine evaluates combined-strategy signals over a price series. All
// indicator math is delegated to the ta-lib wrappers.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Composite votes RSI, MACD, and Bollinger verdicts into one direction.
// A direction wins when at least two checks agree on it.
func (e *Engine) Composite(s *domain.Series) (domain.SignalDirection, []Check, error) {
	if err := indicator.MinLength(s, compositeMinBars, "composite strategy"); err != nil {
		return "", nil, err
	}

	checks := []Check{
		rsiCheck(s),
		macdCheck(s),
		bollingerCheck(s),
	}
	return vote(checks), checks, nil
}

// SMACross reports fast/slow moving-average crossovers on the last two bars.
func (e *Engine) SMACross(s *domain.Series, fast, slow int) (domain.SignalDirection, string, error) {
	if fast >= slow {
		return "", "", fmt.Errorf("fast period %d must be below slow period %d", fast, slow)
	}
	if err := indicator.MinLength(s, slow+1, "sma crossover"); err != nil {
		return "", "", err
	}

	fastMA := indicator.SMA(s, fast)
	slowMA := indicator.SMA(s, slow)
	n := len(fastMA)

	prevDelta := fastMA[n-2] - slowMA[n-2]
	currDelta := fastMA[n-1] - slowMA[n-1]

	switch {
	case prevDelta <= 0 && currDelta > 0:
		return domain.DirectionLong, fmt.Sprintf("golden cross: sma(%d) crossed above sma(%d)", fast, slow), nil
	case prevDelta >= 0 && currDelta < 0:
		return domain.DirectionShort, fmt.Sprintf("death cross: sma(%d) crossed below sma(%d)", fast, slow), nil
	case currDelta > 0:
		return domain.DirectionHold, fmt.Sprintf("sma(%d) above sma(%d), no fresh cross", fast, slow), nil
	default:
		return domain.DirectionHold, fmt.Sprintf("sma(%d) below sma(%d), no fresh cross", fast, slow), nil
	}
}

func rsiCheck(s *domain.Series) Check {
	series := indicator.RSI(s, indicator.DefaultRSIPeriod)
	curr := series[len(series)-1]

	check := Check{Indicator: "rsi", Direction: domain.DirectionHold}
	switch {
	case curr < rsiOversold:
		check.Direction = domain.DirectionLong
		check.Details = fmt.Sprintf("rsi %.2f below %d (oversold)", curr, rsiOversold)
	case curr > rsiOverbought:
		check.Direction = domain.DirectionShort
		check.Details = fmt.Sprintf("rsi %.2f above %d (overbought)", curr, rsiOverbought)
	default:
		check.Details = fmt.Sprintf("rsi %.2f neutral", curr)
	}
	return check
}

func macdCheck(s *domain.Series) Check {
	macdLine, signalLine, _ := indicator.MACD(s, indicator.DefaultMACDFast, indicator.DefaultMACDSlow, indicator.DefaultMACDSignal)
	n := len(macdLine)

	prevDelta := macdLine[n-2] - signalLine[n-2]
	currDelta := macdLine[n-1] - signalLine[n-1]

	check := Check{Indicator: "macd", Direction: domain.DirectionHold}
	switch {
	case prevDelta <= 0 && currDelta > 0:
		check.Direction = domain.DirectionLong
		check.Details = fmt.Sprintf("macd bullish crossover (%.4f)", currDelta)
	case prevDelta >= 0 && currDelta < 0:
		check.Direction = domain.DirectionShort
		check.Details = fmt.Sprintf("macd bearish crossover (%.4f)", currDelta)
	default:
		check.Details = fmt.Sprintf("macd delta %.4f, no crossover", currDelta)
	}
	return check
}

func bollingerCheck(s *domain.Series) Check {
	upper, _, lower := indicator.BBands(s, indicator.DefaultBBandsPeriod, indicator.DefaultBBandsNbDev)
	n := s.Len()
	close := s.Closes[n-1]

	check := Check{Indicator: "bollinger", Direction: domain.DirectionHold}
	switch {
	case close < lower[n-1]:
		check.Direction = domain.DirectionLong
		check.Details = fmt.Sprintf("close %.4f below lower band %.4f", close, lower[n-1])
	case close > upper[n-1]:
		check.Direction = domain.DirectionShort
		check.Details = fmt.Sprintf("close %.4f above upper band %.4f", close, upper[n-1])
	default:
		check.Details = fmt.Sprintf("close %.4f inside bands", close)
	}
	return check
}

func vote(checks []Check) domain.SignalDirection {
	var longs, shorts int
	for _, c := range checks {
		switch c.Direction {
		case domain.DirectionLong:
			longs++
		case domain.DirectionShort:
			shorts++
		}
	}
	if longs >= 2 && longs > shorts {
		return domain.DirectionLong
	}
	if shorts >= 2 && shorts > longs {
		return domain.DirectionShort
	}
	return domain.DirectionHold
}
