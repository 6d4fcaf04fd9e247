// Package indicator implements the technical indicator library.
//
// Every function is stateless and never mutates its input. Insufficient
// history and degenerate inputs produce neutral values instead of errors.
package indicator

import (
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

var validate = validator.New()

// Output fields of the registered indicators.
const (
	FieldValue      = "value"
	FieldClose      = "close"
	FieldOpen       = "open"
	FieldHigh       = "high"
	FieldLow        = "low"
	FieldVolume     = "volume"
	FieldMACD       = "macd"
	FieldSignal     = "signal"
	FieldHistogram  = "histogram"
	FieldUpper      = "upper"
	FieldMiddle     = "middle"
	FieldLower      = "lower"
	FieldSlope      = "slope"
	FieldStrength   = "strength"
	FieldDirection  = "direction"
	FieldSupport    = "support"
	FieldResistance = "resistance"
)

// Parameters accepted by the registered indicators.
const (
	ParamPeriod     = "period"
	ParamFast       = "fast"
	ParamSlow       = "slow"
	ParamSignal     = "signal"
	ParamMultiplier = "multiplier"
	ParamLookback   = "lookback"
	ParamWindow     = "window"
	ParamThreshold  = "threshold"
	ParamScale      = "scale"
)

// Indicator is a registry entry that turns a bar series into a value series
// usable by strategy rules.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Fields lists the output fields. The first one is the default.
	Fields() []string
	// Params returns every accepted parameter with its default value.
	Params() map[string]float64
	// Validate checks a complete parameter set.
	Validate(params map[string]float64) error
	// Series returns one value per bar. The value at bar i equals the
	// indicator computed on bars[:i+1].
	Series(bars []types.PriceBar, field string, params map[string]float64) []float64
}

// Config holds every period used to build an IndicatorSet.
type Config struct {
	RSIPeriod           int         `yaml:"rsi_period" json:"rsi_period" default:"14" validate:"gt=0"`
	MACDFast            int         `yaml:"macd_fast" json:"macd_fast" default:"12" validate:"gt=0"`
	MACDSlow            int         `yaml:"macd_slow" json:"macd_slow" default:"26" validate:"gtfield=MACDFast"`
	MACDSignal          int         `yaml:"macd_signal" json:"macd_signal" default:"9" validate:"gt=0"`
	BollingerPeriod     int         `yaml:"bollinger_period" json:"bollinger_period" default:"20" validate:"gt=0"`
	BollingerMultiplier float64     `yaml:"bollinger_multiplier" json:"bollinger_multiplier" default:"2.0" validate:"gte=0"`
	ShortPeriod         int         `yaml:"short_period" json:"short_period" default:"20" validate:"gt=0"`
	MediumPeriod        int         `yaml:"medium_period" json:"medium_period" default:"50" validate:"gt=0"`
	LongPeriod          int         `yaml:"long_period" json:"long_period" default:"200" validate:"gt=0"`
	EMAPeriod           int         `yaml:"ema_period" json:"ema_period" default:"12" validate:"gt=0"`
	ATRPeriod           int         `yaml:"atr_period" json:"atr_period" default:"14" validate:"gt=0"`
	Trend               TrendConfig `yaml:"trend" json:"trend"`
}

// DefaultConfig returns the standard periods (14, 12/26/9, 20/2.0, 20/50/200, 12).
func DefaultConfig() Config {
	var cfg Config
	// defaults.Set only fails on malformed tags
	_ = defaults.Set(&cfg)

	return cfg
}

// Validate checks that every period is usable.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid indicator config", err)
	}

	return nil
}

// Analyze computes a fresh IndicatorSet at the latest bar of bars. An empty
// series yields neutral values.
func Analyze(bars []types.PriceBar, cfg Config) types.IndicatorSet {
	closes := types.Closes(bars)

	var price float64
	if len(closes) > 0 {
		price = closes[len(closes)-1]
	}

	return types.IndicatorSet{
		Price:    price,
		Bars:     len(bars),
		RSI:      RSI(closes, cfg.RSIPeriod),
		MACD:     MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal),
		Bands:    BollingerBands(closes, cfg.BollingerPeriod, cfg.BollingerMultiplier),
		Averages: MovingAverages(closes, cfg.ShortPeriod, cfg.MediumPeriod, cfg.LongPeriod, cfg.EMAPeriod),
		Trend:    Trend(closes, cfg.Trend),
		ATR:      ATR(bars, cfg.ATRPeriod),
	}
}
