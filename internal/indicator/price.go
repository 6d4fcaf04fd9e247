package indicator

import (
	"github.com/rxtech-lab/argo-quant/internal/types"
)

// PriceIndicator exposes raw bar fields to strategy rules.
type PriceIndicator struct{}

// NewPrice creates the registry entry for raw prices.
func NewPrice() Indicator {
	return &PriceIndicator{}
}

func (p *PriceIndicator) Name() types.IndicatorType {
	return types.IndicatorTypePrice
}

func (p *PriceIndicator) Fields() []string {
	return []string{FieldClose, FieldOpen, FieldHigh, FieldLow, FieldVolume}
}

func (p *PriceIndicator) Params() map[string]float64 {
	return map[string]float64{}
}

func (p *PriceIndicator) Validate(map[string]float64) error {
	return nil
}

func (p *PriceIndicator) Series(bars []types.PriceBar, field string, _ map[string]float64) []float64 {
	out := make([]float64, len(bars))

	for i, bar := range bars {
		switch field {
		case FieldOpen:
			out[i] = bar.Open
		case FieldHigh:
			out[i] = bar.High
		case FieldLow:
			out[i] = bar.Low
		case FieldVolume:
			out[i] = bar.Volume
		default:
			out[i] = bar.Close
		}
	}

	return out
}
