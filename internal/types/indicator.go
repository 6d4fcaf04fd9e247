package types

import (
	"fmt"
	"sort"
	"strings"
)

// IndicatorType names an indicator that strategy rules can reference.
type IndicatorType string

const (
	IndicatorTypePrice          IndicatorType = "price"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeSMA            IndicatorType = "sma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeBollingerBands IndicatorType = "bollinger"
	IndicatorTypeTrend          IndicatorType = "trend"
	IndicatorTypeATR            IndicatorType = "atr"
)

// IndicatorRef points at one output field of an indicator with its parameters.
// An empty Field selects the indicator's default field.
type IndicatorRef struct {
	Indicator IndicatorType      `yaml:"indicator" json:"indicator" validate:"required" jsonschema:"title=Indicator,description=Indicator name,enum=price,enum=rsi,enum=sma,enum=ema,enum=macd,enum=bollinger,enum=trend,enum=atr"`
	Field     string             `yaml:"field,omitempty" json:"field,omitempty" jsonschema:"title=Field,description=Output field of the indicator. Empty selects the default field"`
	Params    map[string]float64 `yaml:"params,omitempty" json:"params,omitempty" jsonschema:"title=Params,description=Indicator parameters such as period"`
}

// Key returns a canonical string for the reference. Two references with the
// same key always produce the same series.
func (r IndicatorRef) Key() string {
	var sb strings.Builder

	sb.WriteString(string(r.Indicator))

	if r.Field != "" {
		sb.WriteString(".")
		sb.WriteString(r.Field)
	}

	if len(r.Params) > 0 {
		keys := make([]string, 0, len(r.Params))
		for k := range r.Params {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%g", k, r.Params[k]))
		}

		sb.WriteString("(")
		sb.WriteString(strings.Join(parts, ","))
		sb.WriteString(")")
	}

	return sb.String()
}

func (r IndicatorRef) String() string {
	return r.Key()
}

// IndicatorKind tags the variants of an IndicatorSet.
type IndicatorKind string

const (
	IndicatorKindOscillator IndicatorKind = "oscillator"
	IndicatorKindMACD       IndicatorKind = "macd"
	IndicatorKindBands      IndicatorKind = "bands"
	IndicatorKindAverages   IndicatorKind = "averages"
	IndicatorKindTrend      IndicatorKind = "trend"
	IndicatorKindVolatility IndicatorKind = "volatility"
)

// IndicatorValue is the closed set of indicator result variants.
// Only types in this package implement it.
type IndicatorValue interface {
	Kind() IndicatorKind
	isIndicatorValue()
}

// OscillatorValue is a momentum oscillator reading on a 0-100 scale.
type OscillatorValue float64

func (OscillatorValue) Kind() IndicatorKind { return IndicatorKindOscillator }
func (OscillatorValue) isIndicatorValue() {}

// VolatilityValue is an average true range reading in price units.
type VolatilityValue float64

func (VolatilityValue) Kind() IndicatorKind { return IndicatorKindVolatility }
func (VolatilityValue) isIndicatorValue() {}

// MACDResult holds the trend-following oscillator lines.
type MACDResult struct {
	MACD      float64 `yaml:"macd" json:"macd"`
	Signal    float64 `yaml:"signal" json:"signal"`
	Histogram float64 `yaml:"histogram" json:"histogram"`
}

func (MACDResult) Kind() IndicatorKind { return IndicatorKindMACD }
func (MACDResult) isIndicatorValue() {}

// BandsResult is a volatility envelope around a moving average.
type BandsResult struct {
	Upper  float64 `yaml:"upper" json:"upper"`
	Middle float64 `yaml:"middle" json:"middle"`
	Lower  float64 `yaml:"lower" json:"lower"`
}

func (BandsResult) Kind() IndicatorKind { return IndicatorKindBands }
func (BandsResult) isIndicatorValue() {}

// MovingAveragesResult holds the short, medium and long simple averages and one
// short exponential average.
type MovingAveragesResult struct {
	Short  float64 `yaml:"short" json:"short"`
	Medium float64 `yaml:"medium" json:"medium"`
	Long   float64 `yaml:"long" json:"long"`
	EMA    float64 `yaml:"ema" json:"ema"`
}

func (MovingAveragesResult) Kind() IndicatorKind { return IndicatorKindAverages }
func (MovingAveragesResult) isIndicatorValue() {}

// GoldenCross reports whether the medium average is above the long average.
func (m MovingAveragesResult) GoldenCross() bool {
	return m.Medium > m.Long
}

// DeathCross reports whether the medium average is below the long average.
func (m MovingAveragesResult) DeathCross() bool {
	return m.Medium < m.Long
}

type TrendDirection string

const (
	TrendDirectionBullish TrendDirection = "bullish"
	TrendDirectionBearish TrendDirection = "bearish"
	TrendDirectionNeutral TrendDirection = "neutral"
)

// TrendResult describes the recent regression trend of a series.
type TrendResult struct {
	Direction TrendDirection `yaml:"direction" json:"direction"`
	// Strength is the normalized slope in [0, 1].
	Strength   float64 `yaml:"strength" json:"strength"`
	Slope      float64 `yaml:"slope" json:"slope"`
	Support    float64 `yaml:"support" json:"support"`
	Resistance float64 `yaml:"resistance" json:"resistance"`
}

func (TrendResult) Kind() IndicatorKind { return IndicatorKindTrend }
func (TrendResult) isIndicatorValue() {}

// IndicatorSet is a snapshot of every indicator at the latest bar of a series.
type IndicatorSet struct {
	Price    float64              `yaml:"price" json:"price"`
	Bars     int                  `yaml:"bars" json:"bars"`
	RSI      float64              `yaml:"rsi" json:"rsi"`
	MACD     MACDResult           `yaml:"macd" json:"macd"`
	Bands    BandsResult          `yaml:"bands" json:"bands"`
	Averages MovingAveragesResult `yaml:"averages" json:"averages"`
	Trend    TrendResult          `yaml:"trend" json:"trend"`
	ATR      float64              `yaml:"atr" json:"atr"`
}

// Values returns every variant of the set in a fixed order.
func (s IndicatorSet) Values() []IndicatorValue {
	return []IndicatorValue{
		OscillatorValue(s.RSI),
		s.MACD,
		s.Bands,
		s.Averages,
		s.Trend,
		VolatilityValue(s.ATR),
	}
}
