package engine

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/indicator"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RulesTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesTestSuite))
}

func (suite *RulesTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
}

func (suite *RulesTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func ptr(v float64) *float64 {
	return &v
}

func someFloat(v float64) optional.Option[float64] {
	return optional.Some(v)
}

func noFloat() optional.Option[float64] {
	return optional.None[float64]()
}

func priceRef() types.IndicatorRef {
	return types.IndicatorRef{Indicator: types.IndicatorTypePrice}
}

func (suite *RulesTestSuite) TestHolds() {
	tests := []struct {
		name     string
		rule     compiledRule
		expected []bool
	}{
		{
			name:     "greater than threshold",
			rule:     compiledRule{operator: types.OperatorGreaterThan, threshold: someFloat(2), left: []float64{1, 2, 3}},
			expected: []bool{false, false, true},
		},
		{
			name:     "greater than or equal threshold",
			rule:     compiledRule{operator: types.OperatorGreaterThanOrEqual, threshold: someFloat(2), left: []float64{1, 2, 3}},
			expected: []bool{false, true, true},
		},
		{
			name:     "less than series",
			rule:     compiledRule{operator: types.OperatorLessThan, threshold: noFloat(), left: []float64{1, 2, 3}, right: []float64{2, 2, 2}},
			expected: []bool{true, false, false},
		},
		{
			name:     "less than or equal series",
			rule:     compiledRule{operator: types.OperatorLessThanOrEqual, threshold: noFloat(), left: []float64{1, 2, 3}, right: []float64{2, 2, 2}},
			expected: []bool{true, true, false},
		},
		{
			name:     "inside bands is inclusive",
			rule:     compiledRule{operator: types.OperatorInside, left: []float64{1, 2, 3, 4}, upper: []float64{3, 3, 3, 3}, lower: []float64{2, 2, 2, 2}},
			expected: []bool{false, true, true, false},
		},
		{
			name:     "outside bands is strict",
			rule:     compiledRule{operator: types.OperatorOutside, left: []float64{1, 2, 3, 4}, upper: []float64{3, 3, 3, 3}, lower: []float64{2, 2, 2, 2}},
			expected: []bool{true, false, false, true},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			for i, want := range tc.expected {
				suite.Equal(want, tc.rule.holds(i), "bar %d", i)
			}

			suite.False(tc.rule.holds(len(tc.rule.left)))
		})
	}
}

func (suite *RulesTestSuite) TestEvaluate() {
	yes := compiledRule{operator: types.OperatorGreaterThan, threshold: someFloat(0), left: []float64{1}}
	no := compiledRule{operator: types.OperatorLessThan, threshold: someFloat(0), left: []float64{1}}

	suite.False(evaluate(nil, types.LogicAnd, 0))
	suite.False(evaluate(nil, types.LogicOr, 0))
	suite.True(evaluate([]compiledRule{yes, yes}, types.LogicAnd, 0))
	suite.False(evaluate([]compiledRule{yes, no}, types.LogicAnd, 0))
	suite.True(evaluate([]compiledRule{no, yes}, types.LogicOr, 0))
	suite.False(evaluate([]compiledRule{no, no}, types.LogicOr, 0))
}

func (suite *RulesTestSuite) TestSeriesComputedOncePerReference() {
	bars := mocks.BarsFromCloses(1, 2, 3)

	counter := mocks.NewMockIndicator(suite.ctrl)
	counter.EXPECT().Name().Return(types.IndicatorType("counter")).AnyTimes()
	counter.EXPECT().Fields().Return([]string{indicator.FieldValue}).AnyTimes()
	counter.EXPECT().Params().DoAndReturn(func() map[string]float64 {
		return map[string]float64{indicator.ParamPeriod: 3}
	}).AnyTimes()
	counter.EXPECT().Validate(gomock.Any()).Return(nil).AnyTimes()
	counter.EXPECT().Series(bars, indicator.FieldValue, map[string]float64{indicator.ParamPeriod: 3}).
		Return([]float64{5, 6, 7}).
		Times(1)

	registry := indicator.NewDefaultRegistry()
	suite.Require().NoError(registry.RegisterIndicator(counter))

	// the defaulted and the explicit reference share one key
	strategy := types.Strategy{
		Name:       "dedupe",
		EntryLogic: types.LogicAnd,
		ExitLogic:  types.LogicOr,
		Rules: []types.StrategyRule{
			{Kind: types.RuleKindEntry, Indicator: types.IndicatorRef{Indicator: "counter"}, Operator: types.OperatorGreaterThan, Threshold: ptr(5)},
			{
				Kind:      types.RuleKindExit,
				Indicator: priceRef(),
				Operator:  types.OperatorGreaterThan,
				Compare: &types.IndicatorRef{
					Indicator: "counter",
					Field:     indicator.FieldValue,
					Params:    map[string]float64{indicator.ParamPeriod: 3},
				},
			},
		},
	}

	program, err := compileStrategy(strategy, bars, registry)
	suite.Require().NoError(err)
	suite.Require().Len(program.entry, 1)
	suite.Require().Len(program.exit, 1)
	suite.Equal([]float64{5, 6, 7}, program.entry[0].left)
	suite.Equal([]float64{5, 6, 7}, program.exit[0].right)
	suite.Equal([]float64{1, 2, 3}, program.exit[0].left)
	suite.True(program.stopLoss.IsNone())
}

func (suite *RulesTestSuite) TestBandRuleReadsBothBands() {
	bars := mocks.BarsFromCloses(10, 11, 12, 13)
	registry := indicator.NewDefaultRegistry()
	params := map[string]float64{indicator.ParamPeriod: 3}

	strategy := types.Strategy{
		Name:        "bands",
		EntryLogic:  types.LogicAnd,
		ExitLogic:   types.LogicOr,
		StopLossPct: ptr(0.1),
		Rules: []types.StrategyRule{
			{
				Kind:      types.RuleKindEntry,
				Indicator: priceRef(),
				Operator:  types.OperatorInside,
				Compare: &types.IndicatorRef{
					Indicator: types.IndicatorTypeBollingerBands,
					Field:     indicator.FieldMiddle,
					Params:    params,
				},
			},
		},
	}

	program, err := compileStrategy(strategy, bars, registry)
	suite.Require().NoError(err)
	suite.Require().Len(program.entry, 1)

	upper, err := registry.Series(bars, types.IndicatorRef{Indicator: types.IndicatorTypeBollingerBands, Field: indicator.FieldUpper, Params: params})
	suite.Require().NoError(err)
	lower, err := registry.Series(bars, types.IndicatorRef{Indicator: types.IndicatorTypeBollingerBands, Field: indicator.FieldLower, Params: params})
	suite.Require().NoError(err)

	suite.Equal(upper, program.entry[0].upper)
	suite.Equal(lower, program.entry[0].lower)
	suite.Empty(program.exit)
	suite.InDelta(0.1, program.stopLoss.Unwrap(), 1e-12)
}

func (suite *RulesTestSuite) TestCompileErrors() {
	bars := mocks.BarsFromCloses(1, 2, 3)

	entry := func(ref types.IndicatorRef) types.Strategy {
		return types.Strategy{
			Name:       "broken",
			EntryLogic: types.LogicAnd,
			ExitLogic:  types.LogicOr,
			Rules: []types.StrategyRule{
				{Kind: types.RuleKindEntry, Indicator: ref, Operator: types.OperatorGreaterThan, Threshold: ptr(1)},
			},
		}
	}

	tests := []struct {
		name     string
		strategy types.Strategy
		code     errors.ErrorCode
	}{
		{
			name:     "unknown indicator",
			strategy: entry(types.IndicatorRef{Indicator: "vwap"}),
			code:     errors.ErrCodeIndicatorNotFound,
		},
		{
			name:     "unknown field",
			strategy: entry(types.IndicatorRef{Indicator: types.IndicatorTypeRSI, Field: "upper"}),
			code:     errors.ErrCodeUnknownIndicatorField,
		},
		{
			name:     "unknown param",
			strategy: entry(types.IndicatorRef{Indicator: types.IndicatorTypeSMA, Params: map[string]float64{"length": 3}}),
			code:     errors.ErrCodeUnknownIndicatorParam,
		},
		{
			name: "unknown band compare field",
			strategy: types.Strategy{
				Name: "bad band",
				Rules: []types.StrategyRule{
					{
						Kind:      types.RuleKindEntry,
						Indicator: priceRef(),
						Operator:  types.OperatorInside,
						Compare:   &types.IndicatorRef{Indicator: types.IndicatorTypeBollingerBands, Field: "histogram"},
					},
				},
			},
			code: errors.ErrCodeUnknownIndicatorField,
		},
		{
			name: "unsatisfied engine version",
			strategy: func() types.Strategy {
				s := entry(priceRef())
				s.EngineVersion = ">= 99.0.0"

				return s
			}(),
			code: errors.ErrCodeVersionMismatch,
		},
		{
			name: "no entry rules",
			strategy: types.Strategy{
				Name: "exit only",
				Rules: []types.StrategyRule{
					{Kind: types.RuleKindExit, Indicator: priceRef(), Operator: types.OperatorGreaterThan, Threshold: ptr(1)},
				},
			},
			code: errors.ErrCodeNoEntryRules,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := compileStrategy(tc.strategy, bars, indicator.NewDefaultRegistry())
			suite.Require().Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
			suite.True(errors.IsConfigurationError(err))
		})
	}
}
