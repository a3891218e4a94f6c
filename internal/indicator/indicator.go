// Package indicator bridges columnar price series to the ta-lib port. All
// math is delegated; wrappers only select columns and guard input length.
package indicator

import (
	"fmt"
	"math"

	"candleforge/internal/domain"

	"github.com/markcheno/go-talib"
)

// Default periods, matching the common ta-lib presets.
const (
	DefaultRSIPeriod    = 14
	DefaultStochFastK   = 14
	DefaultStochSlowK   = 3
	DefaultStochSlowD   = 3
	DefaultWillRPeriod  = 14
	DefaultROCPeriod    = 12
	DefaultCCIPeriod    = 20
	DefaultMACDFast     = 12
	DefaultMACDSlow     = 26
	DefaultMACDSignal   = 9
	DefaultADOSCFast    = 3
	DefaultADOSCSlow    = 10
	DefaultMFIPeriod    = 14
	DefaultVWAPPeriod   = 14
	DefaultBBandsPeriod = 20
	DefaultBBandsNbDev  = 2.0
)

// MinLength fails when the series is too short for the indicator's warmup.
func MinLength(s *domain.Series, min int, name string) error {
	if s.Len() < min {
		return fmt.Errorf("%s requires at least %d bars, got %d", name, min, s.Len())
	}
	return nil
}

func RSI(s *domain.Series, period int) []float64 {
	return talib.Rsi(s.Closes, period)
}

func Stoch(s *domain.Series, fastK, slowK, slowD int) (k, d []float64) {
	return talib.Stoch(s.Highs, s.Lows, s.Closes, fastK, slowK, talib.SMA, slowD, talib.SMA)
}

func WilliamsR(s *domain.Series, period int) []float64 {
	return talib.WillR(s.Highs, s.Lows, s.Closes, period)
}

func ROC(s *domain.Series, period int) []float64 {
	return talib.Roc(s.Closes, period)
}

func CCI(s *domain.Series, period int) []float64 {
	return talib.Cci(s.Highs, s.Lows, s.Closes, period)
}

func MACD(s *domain.Series, fast, slow, signal int) (macd, sig, hist []float64) {
	return talib.Macd(s.Closes, fast, slow, signal)
}

func OBV(s *domain.Series) []float64 {
	return talib.Obv(s.Closes, s.Volumes)
}

func AD(s *domain.Series) []float64 {
	return talib.Ad(s.Highs, s.Lows, s.Closes, s.Volumes)
}

func ADOSC(s *domain.Series, fast, slow int) []float64 {
	return talib.AdOsc(s.Highs, s.Lows, s.Closes, s.Volumes, fast, slow)
}

func MFI(s *domain.Series, period int) []float64 {
	return talib.Mfi(s.Highs, s.Lows, s.Closes, s.Volumes, period)
}

func SMA(s *domain.Series, period int) []float64 {
	return talib.Sma(s.Closes, period)
}

func EMA(s *domain.Series, period int) []float64 {
	return talib.Ema(s.Closes, period)
}

func BBands(s *domain.Series, period int, nbDev float64) (upper, middle, lower []float64) {
	return talib.BBands(s.Closes, period, nbDev, nbDev, talib.SMA)
}

// VWAP computes a rolling volume-weighted average of the typical price.
// ta-lib carries no VWAP, so this is the one in-repo computation.
func VWAP(s *domain.Series, period int) []float64 {
	n := s.Len()
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	for i := period - 1; i < n; i++ {
		var pv, vol float64
		for j := i - period + 1; j <= i; j++ {
			typical := (s.Highs[j] + s.Lows[j] + s.Closes[j]) / 3
			pv += typical * s.Volumes[j]
			vol += s.Volumes[j]
		}
		if vol == 0 {
			continue
		}
		out[i] = pv / vol
	}
	return out
}

// Last returns the most recent usable value of an indicator series,
// skipping trailing NaN padding.
func Last(values []float64) (float64, error) {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i], nil
		}
	}
	return 0, fmt.Errorf("indicator series is empty")
}

// Tail returns up to n most recent usable values. NaN warmup padding is
// dropped so the result always JSON-marshals cleanly.
func Tail(values []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	usable := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		usable = append(usable, v)
	}
	if len(usable) == 0 {
		return nil
	}
	if len(usable) > n {
		usable = usable[len(usable)-n:]
	}
	return usable
}
