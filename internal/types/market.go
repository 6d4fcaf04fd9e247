package types

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

// PriceBar is one OHLCV observation for a fixed time period.
// A series of bars is ordered chronologically; gaps between bars are tolerated.
type PriceBar struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// Validate checks that the bar carries finite prices and that
// low <= open, close <= high. Loaders call it before bars reach the engine.
func (b PriceBar) Validate() error {
	for name, v := range map[string]float64{
		"open":   b.Open,
		"high":   b.High,
		"low":    b.Low,
		"close":  b.Close,
		"volume": b.Volume,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Newf(errors.ErrCodeInvalidMarketData, "bar at %s has a non-finite %s", b.Time.Format(time.RFC3339), name)
		}
	}

	if b.Low > b.High {
		return errors.Newf(errors.ErrCodeInvalidMarketData, "bar at %s has low %.4f above high %.4f", b.Time.Format(time.RFC3339), b.Low, b.High)
	}

	if b.Open < b.Low || b.Open > b.High || b.Close < b.Low || b.Close > b.High {
		return errors.Newf(errors.ErrCodeInvalidMarketData, "bar at %s has open/close outside the low-high range", b.Time.Format(time.RFC3339))
	}

	if b.Volume < 0 {
		return errors.Newf(errors.ErrCodeInvalidMarketData, "bar at %s has negative volume", b.Time.Format(time.RFC3339))
	}

	return nil
}

// Closes returns the closing prices of bars in order.
func Closes(bars []PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	return closes
}
