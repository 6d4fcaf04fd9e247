package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestUnboundedProfitFactor() {
	suite.True(Statistics{ProfitFactor: UnboundedProfitFactor}.HasUnboundedProfitFactor())
	suite.False(Statistics{ProfitFactor: 2.5}.HasUnboundedProfitFactor())
}

func (suite *StatisticsTestSuite) TestWriteBacktestStats() {
	path := filepath.Join(suite.T().TempDir(), "stats.yaml")
	result := BacktestResult{
		ID:       "run-1",
		Strategy: "rsi",
		Symbol:   "AAPL",
		Trades:   []Trade{{ID: "ignored"}},
		Statistics: Statistics{
			TotalReturn:    0.1,
			NumberOfTrades: 1,
			InitialCapital: 10000,
			FinalEquity:    11000,
		},
	}

	suite.Require().NoError(WriteBacktestStats(path, result))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.NotContains(string(data), "ignored")

	var decoded BacktestResult
	suite.Require().NoError(yaml.Unmarshal(data, &decoded))
	suite.Equal("run-1", decoded.ID)
	suite.Equal(0.1, decoded.Statistics.TotalReturn)
	suite.Equal(11000.0, decoded.Statistics.FinalEquity)
}

func (suite *StatisticsTestSuite) TestWriteEquityCurve() {
	path := filepath.Join(suite.T().TempDir(), "equity.csv")
	curve := []EquityPoint{
		{Index: 0, Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Equity: 10000},
		{Index: 1, Time: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Equity: 10100},
	}

	suite.Require().NoError(WriteEquityCurve(path, curve))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(data), "index,time,equity")
	suite.Contains(string(data), "10100")
}
