package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// MACD computes the moving average convergence divergence of closes.
// The main line is EMA(fast) - EMA(slow), the signal line is the EMA of the
// main line series and the histogram is their difference. Fewer than slow
// closes yields a zero result.
func MACD(closes []float64, fast, slow, signal int) types.MACDResult {
	if fast <= 0 || slow <= 0 || signal <= 0 || len(closes) < slow {
		return types.MACDResult{}
	}

	series := MACDSeries(closes, fast, slow, signal)

	return series[len(series)-1]
}

// MACDSeries returns MACD(closes[:i+1], ...) for every i. The main line
// series starts at the first bar where the slow average is fully seeded.
func MACDSeries(closes []float64, fast, slow, signal int) []types.MACDResult {
	out := make([]types.MACDResult, len(closes))
	if fast <= 0 || slow <= 0 || signal <= 0 || len(closes) < slow {
		return out
	}

	fastEMA := EMASeries(closes, fast)
	slowEMA := EMASeries(closes, slow)

	main := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		main = append(main, fastEMA[i]-slowEMA[i])
	}

	signalLine := EMASeries(main, signal)

	for j, m := range main {
		out[slow-1+j] = types.MACDResult{
			MACD:      m,
			Signal:    signalLine[j],
			Histogram: m - signalLine[j],
		}
	}

	return out
}

// MACDIndicator exposes MACD lines to strategy rules.
type MACDIndicator struct{}

// NewMACD creates the registry entry for MACD.
func NewMACD() Indicator {
	return &MACDIndicator{}
}

func (m *MACDIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

func (m *MACDIndicator) Fields() []string {
	return []string{FieldMACD, FieldSignal, FieldHistogram}
}

func (m *MACDIndicator) Params() map[string]float64 {
	return map[string]float64{ParamFast: 12, ParamSlow: 26, ParamSignal: 9}
}

func (m *MACDIndicator) Validate(params map[string]float64) error {
	for _, name := range []string{ParamFast, ParamSlow, ParamSignal} {
		if err := requirePeriod(m.Name(), params, name); err != nil {
			return err
		}
	}

	if params[ParamFast] >= params[ParamSlow] {
		return invalidParam(m.Name(), ParamFast, "must be smaller than slow")
	}

	return nil
}

func (m *MACDIndicator) Series(bars []types.PriceBar, field string, params map[string]float64) []float64 {
	results := MACDSeries(types.Closes(bars), int(params[ParamFast]), int(params[ParamSlow]), int(params[ParamSignal]))

	out := make([]float64, len(results))

	for i, r := range results {
		switch field {
		case FieldSignal:
			out[i] = r.Signal
		case FieldHistogram:
			out[i] = r.Histogram
		default:
			out[i] = r.MACD
		}
	}

	return out
}
