package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// BollingerBands computes the volatility envelope of the last period closes.
// The middle band is the simple average and the width is multiplier times the
// population standard deviation of the same window. A shorter history uses
// whatever is available and an empty series yields zero bands.
// Lower <= Middle <= Upper always holds.
func BollingerBands(closes []float64, period int, multiplier float64) types.BandsResult {
	if len(closes) == 0 || period <= 0 {
		return types.BandsResult{}
	}

	window := closes
	if len(window) > period {
		window = window[len(window)-period:]
	}

	middle := mean(window)

	var variance float64
	for _, v := range window {
		variance += (v - middle) * (v - middle)
	}

	variance /= float64(len(window))
	width := math.Abs(multiplier) * math.Sqrt(variance)

	return types.BandsResult{
		Upper:  middle + width,
		Middle: middle,
		Lower:  middle - width,
	}
}

// BollingerBandsIndicator exposes the bands to strategy rules.
type BollingerBandsIndicator struct{}

// NewBollingerBands creates the registry entry for Bollinger Bands.
func NewBollingerBands() Indicator {
	return &BollingerBandsIndicator{}
}

func (b *BollingerBandsIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

func (b *BollingerBandsIndicator) Fields() []string {
	return []string{FieldMiddle, FieldUpper, FieldLower}
}

func (b *BollingerBandsIndicator) Params() map[string]float64 {
	return map[string]float64{ParamPeriod: 20, ParamMultiplier: 2}
}

func (b *BollingerBandsIndicator) Validate(params map[string]float64) error {
	if err := requirePeriod(b.Name(), params, ParamPeriod); err != nil {
		return err
	}

	if params[ParamMultiplier] < 0 {
		return invalidParam(b.Name(), ParamMultiplier, "must not be negative")
	}

	return nil
}

func (b *BollingerBandsIndicator) Series(bars []types.PriceBar, field string, params map[string]float64) []float64 {
	closes := types.Closes(bars)
	period := int(params[ParamPeriod])
	multiplier := params[ParamMultiplier]

	out := make([]float64, len(closes))

	for i := range closes {
		bands := BollingerBands(closes[:i+1], period, multiplier)

		switch field {
		case FieldUpper:
			out[i] = bands.Upper
		case FieldLower:
			out[i] = bands.Lower
		default:
			out[i] = bands.Middle
		}
	}

	return out
}
