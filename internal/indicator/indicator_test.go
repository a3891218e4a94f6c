package indicator

import (
	"math"
	"testing"
	"time"

	"candleforge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesOf(closes []float64) *domain.Series {
	n := len(closes)
	s := &domain.Series{
		Symbol:    "BTC/USDT",
		Timeframe: domain.Timeframe1h,
		Dates:     make([]time.Time, n),
		Opens:     make([]float64, n),
		Highs:     make([]float64, n),
		Lows:      make([]float64, n),
		Closes:    append([]float64(nil), closes...),
		Volumes:   make([]float64, n),
	}
	for i, c := range closes {
		s.Dates[i] = time.UnixMilli(int64(i) * 3600_000).UTC()
		s.Opens[i] = c
		s.Highs[i] = c + 1
		s.Lows[i] = c - 1
		s.Volumes[i] = 10
	}
	return s
}

func TestMinLength(t *testing.T) {
	s := seriesOf([]float64{1, 2, 3})

	require.NoError(t, MinLength(s, 3, "RSI"))

	err := MinLength(s, 15, "RSI")
	require.Error(t, err)
	assert.Equal(t, "RSI requires at least 15 bars, got 3", err.Error())
}

func TestRSIWarmup(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	values := RSI(seriesOf(closes), DefaultRSIPeriod)
	require.Len(t, values, 30)
	// ta-lib zero-pads the warmup region; values must exist past it.
	last, err := Last(values)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(last))
	assert.GreaterOrEqual(t, last, 0.0)
	assert.LessOrEqual(t, last, 100.0)
}

func TestVWAPConstantPrice(t *testing.T) {
	// With a flat typical price, VWAP equals that price on every complete window.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	s := seriesOf(closes)

	values := VWAP(s, 14)
	require.Len(t, values, 20)
	for i := 0; i < 13; i++ {
		assert.True(t, math.IsNaN(values[i]), "index %d should be warmup NaN", i)
	}
	for i := 13; i < 20; i++ {
		assert.InDelta(t, 100.0, values[i], 1e-9, "index %d", i)
	}
}

func TestVWAPWeightsByVolume(t *testing.T) {
	s := seriesOf([]float64{10, 20})
	s.Highs = []float64{10, 20}
	s.Lows = []float64{10, 20}
	s.Closes = []float64{10, 20}
	s.Volumes = []float64{1, 3}

	values := VWAP(s, 2)
	require.Len(t, values, 2)
	assert.True(t, math.IsNaN(values[0]))
	// (10*1 + 20*3) / 4 = 17.5
	assert.InDelta(t, 17.5, values[1], 1e-9)
}

func TestVWAPZeroVolumeWindow(t *testing.T) {
	s := seriesOf([]float64{10, 20, 30})
	s.Volumes = []float64{0, 0, 0}

	values := VWAP(s, 2)
	for i, v := range values {
		assert.True(t, math.IsNaN(v), "index %d", i)
	}
}

func TestLastSkipsTrailingNaN(t *testing.T) {
	got, err := Last([]float64{1, 2, 3, math.NaN(), math.NaN()})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = Last([]float64{math.NaN()})
	require.Error(t, err)

	_, err = Last(nil)
	require.Error(t, err)
}

func TestTail(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, []float64{3, 4, 5}, Tail(values, 3))
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, Tail(values, 10))
	assert.Nil(t, Tail(values, 0))
	assert.Nil(t, Tail(nil, 3))

	// The returned slice is a copy, not a view.
	tail := Tail(values, 2)
	tail[0] = 99
	assert.Equal(t, 4.0, values[3])
}

func TestTailDropsNaNPadding(t *testing.T) {
	values := []float64{math.NaN(), math.NaN(), 1, math.NaN(), 2}

	assert.Equal(t, []float64{1, 2}, Tail(values, 10))
	assert.Equal(t, []float64{2}, Tail(values, 1))
	assert.Nil(t, Tail([]float64{math.NaN(), math.NaN()}, 5))
}
