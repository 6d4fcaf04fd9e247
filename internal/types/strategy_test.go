package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type StrategyTestSuite struct {
	suite.Suite
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategyTestSuite))
}

const rsiStrategyYAML = `
name: rsi-mean-reversion
engine_version: ">=1.0.0"
rules:
  - kind: entry
    indicator:
      indicator: rsi
      params:
        period: 14
    operator: lt
    threshold: 30
  - kind: entry
    indicator:
      indicator: price
    operator: inside
    compare:
      indicator: bollinger
  - kind: exit
    indicator:
      indicator: rsi
    operator: gt
    threshold: 70
stop_loss_pct: 0.05
`

func (suite *StrategyTestSuite) TestParseStrategy() {
	strategy, err := ParseStrategy([]byte(rsiStrategyYAML))
	suite.Require().NoError(err)

	suite.Equal("rsi-mean-reversion", strategy.Name)
	suite.Equal(LogicAnd, strategy.EntryLogic)
	suite.Equal(LogicOr, strategy.ExitLogic)
	suite.Len(strategy.EntryRules(), 2)
	suite.Len(strategy.ExitRules(), 1)
	suite.Require().NotNil(strategy.StopLossPct)
	suite.Equal(0.05, *strategy.StopLossPct)
	suite.Equal(14.0, strategy.Rules[0].Indicator.Params["period"])
	suite.Len(strategy.References(), 4)
}

func (suite *StrategyTestSuite) TestParseStrategyErrors() {
	tests := []struct {
		name string
		yaml string
		code errors.ErrorCode
	}{
		{name: "malformed yaml", yaml: "name: [", code: errors.ErrCodeStrategyParseFailed},
		{name: "missing name", yaml: "rules:\n  - kind: entry\n    indicator: {indicator: rsi}\n    operator: lt\n    threshold: 30\n", code: errors.ErrCodeInvalidStrategy},
		{name: "no rules", yaml: "name: empty\n", code: errors.ErrCodeInvalidStrategy},
		{name: "unknown operator", yaml: "name: x\nrules:\n  - kind: entry\n    indicator: {indicator: rsi}\n    operator: between\n    threshold: 30\n", code: errors.ErrCodeInvalidStrategy},
		{name: "only exit rules", yaml: "name: x\nrules:\n  - kind: exit\n    indicator: {indicator: rsi}\n    operator: gt\n    threshold: 70\n", code: errors.ErrCodeNoEntryRules},
		{name: "threshold and compare", yaml: "name: x\nrules:\n  - kind: entry\n    indicator: {indicator: price}\n    operator: gt\n    threshold: 1\n    compare: {indicator: sma}\n", code: errors.ErrCodeInvalidRule},
		{name: "neither threshold nor compare", yaml: "name: x\nrules:\n  - kind: entry\n    indicator: {indicator: price}\n    operator: gt\n", code: errors.ErrCodeInvalidRule},
		{name: "inside without bollinger", yaml: "name: x\nrules:\n  - kind: entry\n    indicator: {indicator: price}\n    operator: inside\n    compare: {indicator: sma}\n", code: errors.ErrCodeInvalidRule},
		{name: "bad stop loss", yaml: "name: x\nstop_loss_pct: 2\nrules:\n  - kind: entry\n    indicator: {indicator: rsi}\n    operator: lt\n    threshold: 30\n", code: errors.ErrCodeInvalidStrategy},
		{name: "bad entry logic", yaml: "name: x\nentry_logic: xor\nrules:\n  - kind: entry\n    indicator: {indicator: rsi}\n    operator: lt\n    threshold: 30\n", code: errors.ErrCodeInvalidStrategy},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := ParseStrategy([]byte(tc.yaml))
			suite.Require().Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
			suite.True(errors.IsConfigurationError(err))
		})
	}
}

func (suite *StrategyTestSuite) TestLogicDefaults() {
	strategy := Strategy{}
	suite.Equal(LogicAnd, strategy.EntryLogicOrDefault())
	suite.Equal(LogicOr, strategy.ExitLogicOrDefault())

	strategy.EntryLogic = LogicOr
	strategy.ExitLogic = LogicAnd
	suite.Equal(LogicOr, strategy.EntryLogicOrDefault())
	suite.Equal(LogicAnd, strategy.ExitLogicOrDefault())
}

func (suite *StrategyTestSuite) TestLoadStrategy() {
	path := filepath.Join(suite.T().TempDir(), "strategy.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(rsiStrategyYAML), 0644))

	strategy, err := LoadStrategy(path)
	suite.Require().NoError(err)
	suite.Equal("rsi-mean-reversion", strategy.Name)

	_, err = LoadStrategy(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
}
