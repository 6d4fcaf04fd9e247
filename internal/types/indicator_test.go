package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type IndicatorTypesTestSuite struct {
	suite.Suite
}

func TestIndicatorTypesSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTypesTestSuite))
}

func (suite *IndicatorTypesTestSuite) TestRefKey() {
	tests := []struct {
		name     string
		ref      IndicatorRef
		expected string
	}{
		{name: "bare", ref: IndicatorRef{Indicator: IndicatorTypePrice}, expected: "price"},
		{name: "with field", ref: IndicatorRef{Indicator: IndicatorTypeMACD, Field: "histogram"}, expected: "macd.histogram"},
		{
			name:     "params are sorted",
			ref:      IndicatorRef{Indicator: IndicatorTypeBollingerBands, Field: "upper", Params: map[string]float64{"period": 20, "multiplier": 2.5}},
			expected: "bollinger.upper(multiplier=2.5,period=20)",
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, tc.ref.Key())
			suite.Equal(tc.expected, tc.ref.String())
		})
	}
}

func (suite *IndicatorTypesTestSuite) TestCrosses() {
	golden := MovingAveragesResult{Medium: 105, Long: 100}
	suite.True(golden.GoldenCross())
	suite.False(golden.DeathCross())

	death := MovingAveragesResult{Medium: 95, Long: 100}
	suite.False(death.GoldenCross())
	suite.True(death.DeathCross())

	flat := MovingAveragesResult{Medium: 100, Long: 100}
	suite.False(flat.GoldenCross())
	suite.False(flat.DeathCross())
}

func (suite *IndicatorTypesTestSuite) TestValuesCoverEveryKind() {
	set := IndicatorSet{RSI: 42, ATR: 1.5}

	kinds := make(map[IndicatorKind]bool)

	for _, value := range set.Values() {
		kinds[value.Kind()] = true

		switch v := value.(type) {
		case OscillatorValue:
			suite.Equal(42.0, float64(v))
		case VolatilityValue:
			suite.Equal(1.5, float64(v))
		case MACDResult, BandsResult, MovingAveragesResult, TrendResult:
		default:
			suite.Failf("unexpected variant", "%T", v)
		}
	}

	suite.Len(kinds, 6)
}
