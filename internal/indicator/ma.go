package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// SMA returns the simple average of the last period values, or of all values
// when there are fewer than period. Empty input yields 0.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 || period <= 0 {
		return 0
	}

	if len(values) > period {
		values = values[len(values)-period:]
	}

	return mean(values)
}

// MovingAverages computes the short, medium and long simple averages and the
// short exponential average of closes.
func MovingAverages(closes []float64, short, medium, long, emaPeriod int) types.MovingAveragesResult {
	return types.MovingAveragesResult{
		Short:  SMA(closes, short),
		Medium: SMA(closes, medium),
		Long:   SMA(closes, long),
		EMA:    EMA(closes, emaPeriod),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// SMAIndicator exposes SMA to strategy rules.
type SMAIndicator struct{}

// NewSMA creates the registry entry for SMA.
func NewSMA() Indicator {
	return &SMAIndicator{}
}

func (s *SMAIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

func (s *SMAIndicator) Fields() []string {
	return []string{FieldValue}
}

func (s *SMAIndicator) Params() map[string]float64 {
	return map[string]float64{ParamPeriod: 20}
}

func (s *SMAIndicator) Validate(params map[string]float64) error {
	return requirePeriod(s.Name(), params, ParamPeriod)
}

func (s *SMAIndicator) Series(bars []types.PriceBar, _ string, params map[string]float64) []float64 {
	closes := types.Closes(bars)
	period := int(params[ParamPeriod])

	out := make([]float64, len(closes))
	for i := range closes {
		out[i] = SMA(closes[:i+1], period)
	}

	return out
}
