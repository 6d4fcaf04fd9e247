package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// neutralRSI is returned when there is not enough history to compute the oscillator.
const neutralRSI = 50.0

// RSI computes the relative strength index over the last period deltas of closes.
// Gains and losses are averaged with a simple mean. Fewer than period+1 closes
// yields the neutral midpoint 50, as does a window with no movement at all.
// Gains with no losses saturate the oscillator at 100.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return neutralRSI
	}

	var gains, losses float64

	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgGain == 0 && avgLoss == 0 {
		return neutralRSI
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}

// RSIIndicator exposes RSI to strategy rules.
type RSIIndicator struct{}

// NewRSI creates the registry entry for RSI.
func NewRSI() Indicator {
	return &RSIIndicator{}
}

func (r *RSIIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

func (r *RSIIndicator) Fields() []string {
	return []string{FieldValue}
}

func (r *RSIIndicator) Params() map[string]float64 {
	return map[string]float64{ParamPeriod: 14}
}

func (r *RSIIndicator) Validate(params map[string]float64) error {
	return requirePeriod(r.Name(), params, ParamPeriod)
}

func (r *RSIIndicator) Series(bars []types.PriceBar, _ string, params map[string]float64) []float64 {
	closes := types.Closes(bars)
	period := int(params[ParamPeriod])

	out := make([]float64, len(closes))
	for i := range closes {
		out[i] = RSI(closes[:i+1], period)
	}

	return out
}
