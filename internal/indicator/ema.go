package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// EMA computes the exponential moving average of values.
// The first value is the simple average of the first period observations and
// each later value is price*k + previous*(1-k) with k = 2/(period+1).
// With fewer observations than period it returns their simple average, and 0
// for an empty input.
func EMA(values []float64, period int) float64 {
	if len(values) == 0 || period <= 0 {
		return 0
	}

	if len(values) < period {
		return mean(values)
	}

	k := 2.0 / float64(period+1)
	ema := mean(values[:period])

	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
	}

	return ema
}

// EMASeries returns EMA(values[:i+1], period) for every i in a single pass.
func EMASeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if period <= 0 {
		return out
	}

	k := 2.0 / float64(period+1)

	var sum, ema float64

	for i, v := range values {
		if i < period {
			sum += v
			ema = sum / float64(i+1)
		} else {
			ema = v*k + ema*(1-k)
		}

		out[i] = ema
	}

	return out
}

// EMAIndicator exposes EMA to strategy rules.
type EMAIndicator struct{}

// NewEMA creates the registry entry for EMA.
func NewEMA() Indicator {
	return &EMAIndicator{}
}

func (e *EMAIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

func (e *EMAIndicator) Fields() []string {
	return []string{FieldValue}
}

func (e *EMAIndicator) Params() map[string]float64 {
	return map[string]float64{ParamPeriod: 12}
}

func (e *EMAIndicator) Validate(params map[string]float64) error {
	return requirePeriod(e.Name(), params, ParamPeriod)
}

func (e *EMAIndicator) Series(bars []types.PriceBar, _ string, params map[string]float64) []float64 {
	return EMASeries(types.Closes(bars), int(params[ParamPeriod]))
}
