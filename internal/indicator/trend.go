package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-quant/internal/types"
)

// TrendConfig controls trend classification.
type TrendConfig struct {
	// Lookback is the number of closes used for the regression.
	Lookback int `yaml:"lookback" json:"lookback" default:"20" validate:"gt=0"`
	// Window is the number of closes used for support and resistance.
	Window int `yaml:"window" json:"window" default:"10" validate:"gt=0"`
	// Threshold is the slope magnitude above which the trend has a direction.
	Threshold float64 `yaml:"threshold" json:"threshold" default:"0.1" validate:"gte=0"`
	// StrengthScale turns slope relative to price into a 0-1 strength.
	StrengthScale float64 `yaml:"strength_scale" json:"strength_scale" default:"100" validate:"gt=0"`
}

// Trend fits an ordinary least squares line to the last Lookback closes
// against their index and classifies its slope. Support and resistance are
// the lowest and highest close of the last Window bars.
func Trend(closes []float64, cfg TrendConfig) types.TrendResult {
	if len(closes) == 0 {
		return types.TrendResult{Direction: types.TrendDirectionNeutral}
	}

	slope := regressionSlope(tail(closes, cfg.Lookback))
	last := closes[len(closes)-1]

	direction := types.TrendDirectionNeutral
	if slope > cfg.Threshold {
		direction = types.TrendDirectionBullish
	} else if slope < -cfg.Threshold {
		direction = types.TrendDirectionBearish
	}

	var strength float64
	if last != 0 {
		strength = math.Min(math.Abs(slope)/math.Abs(last)*cfg.StrengthScale, 1.0)
	}

	support, resistance := minMax(tail(closes, cfg.Window))

	return types.TrendResult{
		Direction:  direction,
		Strength:   strength,
		Slope:      slope,
		Support:    support,
		Resistance: resistance,
	}
}

func regressionSlope(values []float64) float64 {
	n := float64(len(values))
	if len(values) < 2 {
		return 0
	}

	meanX := (n - 1) / 2
	meanY := mean(values)

	var num, den float64

	for i, y := range values {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}

	if den == 0 {
		return 0
	}

	return num / den
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}

	return values[len(values)-n:]
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return lo, hi
}

// TrendIndicator exposes the trend descriptor to strategy rules.
// The direction field is encoded as 1 (bullish), -1 (bearish) or 0.
type TrendIndicator struct{}

// NewTrend creates the registry entry for the trend descriptor.
func NewTrend() Indicator {
	return &TrendIndicator{}
}

func (t *TrendIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeTrend
}

func (t *TrendIndicator) Fields() []string {
	return []string{FieldSlope, FieldStrength, FieldDirection, FieldSupport, FieldResistance}
}

func (t *TrendIndicator) Params() map[string]float64 {
	return map[string]float64{ParamLookback: 20, ParamWindow: 10, ParamThreshold: 0.1, ParamScale: 100}
}

func (t *TrendIndicator) Validate(params map[string]float64) error {
	for _, name := range []string{ParamLookback, ParamWindow} {
		if err := requirePeriod(t.Name(), params, name); err != nil {
			return err
		}
	}

	if params[ParamThreshold] < 0 {
		return invalidParam(t.Name(), ParamThreshold, "must not be negative")
	}

	if params[ParamScale] <= 0 {
		return invalidParam(t.Name(), ParamScale, "must be positive")
	}

	return nil
}

func (t *TrendIndicator) Series(bars []types.PriceBar, field string, params map[string]float64) []float64 {
	closes := types.Closes(bars)
	cfg := TrendConfig{
		Lookback:      int(params[ParamLookback]),
		Window:        int(params[ParamWindow]),
		Threshold:     params[ParamThreshold],
		StrengthScale: params[ParamScale],
	}

	out := make([]float64, len(closes))

	for i := range closes {
		trend := Trend(closes[:i+1], cfg)

		switch field {
		case FieldStrength:
			out[i] = trend.Strength
		case FieldDirection:
			out[i] = directionValue(trend.Direction)
		case FieldSupport:
			out[i] = trend.Support
		case FieldResistance:
			out[i] = trend.Resistance
		default:
			out[i] = trend.Slope
		}
	}

	return out
}

func directionValue(d types.TrendDirection) float64 {
	switch d {
	case types.TrendDirectionBullish:
		return 1
	case types.TrendDirectionBearish:
		return -1
	default:
		return 0
	}
}
