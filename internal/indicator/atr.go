package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// ATR returns the simple average of the true ranges of the last period bars.
// The first bar's true range is its high-low range. Fewer bars than period
// averages what exists and an empty series yields 0.
func ATR(bars []types.PriceBar, period int) float64 {
	if len(bars) == 0 || period <= 0 {
		return 0
	}

	start := 0
	if len(bars) > period {
		start = len(bars) - period
	}

	var sum float64
	for i := start; i < len(bars); i++ {
		sum += trueRange(bars, i)
	}

	return sum / float64(len(bars)-start)
}

func trueRange(bars []types.PriceBar, i int) float64 {
	bar := bars[i]
	tr := bar.High - bar.Low

	if i > 0 {
		prevClose := bars[i-1].Close
		tr = math.Max(tr, math.Abs(bar.High-prevClose))
		tr = math.Max(tr, math.Abs(bar.Low-prevClose))
	}

	return tr
}

// ATRIndicator exposes ATR to strategy rules.
type ATRIndicator struct{}

// NewATR creates the registry entry for ATR.
func NewATR() Indicator {
	return &ATRIndicator{}
}

func (a *ATRIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeATR
}

func (a *ATRIndicator) Fields() []string {
	return []string{FieldValue}
}

func (a *ATRIndicator) Params() map[string]float64 {
	return map[string]float64{ParamPeriod: 14}
}

func (a *ATRIndicator) Validate(params map[string]float64) error {
	return requirePeriod(a.Name(), params, ParamPeriod)
}

func (a *ATRIndicator) Series(bars []types.PriceBar, _ string, params map[string]float64) []float64 {
	period := int(params[ParamPeriod])

	out := make([]float64, len(bars))
	for i := range bars {
		out[i] = ATR(bars[:i+1], period)
	}

	return out
}
