package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/stretchr/testify/suite"
)

type SignalCmdTestSuite struct {
	suite.Suite
	dir string
}

func TestSignalCmdSuite(t *testing.T) {
	suite.Run(t, new(SignalCmdTestSuite))
}

func (suite *SignalCmdTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *SignalCmdTestSuite) writeBars(name string, bars []types.PriceBar) {
	var sb strings.Builder
	sb.WriteString("time,open,high,low,close,volume\n")

	for _, bar := range bars {
		fmt.Fprintf(&sb, "%s,%v,%v,%v,%v,%v\n", bar.Time.Format(time.RFC3339), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}

	suite.Require().NoError(os.WriteFile(filepath.Join(suite.dir, name), []byte(sb.String()), 0644))
}

func (suite *SignalCmdTestSuite) run(args ...string) ([]types.Signal, error) {
	var out bytes.Buffer

	cmd := newCommand()
	cmd.Writer = &out

	if err := cmd.Run(context.Background(), append([]string{"signal", "--log-level", "error"}, args...)); err != nil {
		return nil, err
	}

	var signals []types.Signal
	suite.Require().NoError(json.Unmarshal(out.Bytes(), &signals))

	return signals, nil
}

func (suite *SignalCmdTestSuite) TestScanPrintsSignalsInFileOrder() {
	suite.writeBars("AAPL_daily.csv", mocks.NewDataGenerator(1).Generate(mocks.DefaultConfig()))
	suite.writeBars("MSFT_daily.csv", mocks.NewDataGenerator(2).Generate(mocks.DefaultConfig()))

	signals, err := suite.run("--data", filepath.Join(suite.dir, "*.csv"))
	suite.Require().NoError(err)
	suite.Require().Len(signals, 2)
	suite.Equal("AAPL", signals[0].Symbol)
	suite.Equal("MSFT", signals[1].Symbol)

	for _, signal := range signals {
		suite.GreaterOrEqual(signal.Confidence, 50.0)
		suite.LessOrEqual(signal.Confidence, 95.0)
		suite.Equal(252, signal.Indicators.Bars)
	}
}

func (suite *SignalCmdTestSuite) TestMinConfidenceFilters() {
	suite.writeBars("AAPL.csv", mocks.NewDataGenerator(1).Generate(mocks.DefaultConfig()))

	// no signal can exceed the confidence cap
	signals, err := suite.run("--data", filepath.Join(suite.dir, "*.csv"), "--min-confidence", "99")
	suite.Require().NoError(err)
	suite.NotNil(signals)
	suite.Empty(signals)
}

func (suite *SignalCmdTestSuite) TestConfigFile() {
	suite.writeBars("AAPL.csv", mocks.NewDataGenerator(1).Generate(mocks.DefaultConfig()))
	config := filepath.Join(suite.dir, "scorer.yaml")
	suite.Require().NoError(os.WriteFile(config, []byte("min_confidence: 99\n"), 0644))

	signals, err := suite.run("--data", filepath.Join(suite.dir, "*.csv"), "--config", config)
	suite.Require().NoError(err)
	suite.Empty(signals)

	// the flag wins over the config file
	signals, err = suite.run("--data", filepath.Join(suite.dir, "*.csv"), "--config", config, "--min-confidence", "0")
	suite.Require().NoError(err)
	suite.Len(signals, 1)
}

func (suite *SignalCmdTestSuite) TestErrors() {
	suite.writeBars("AAPL.csv", mocks.BarsFromCloses(1, 2, 3))
	bad := filepath.Join(suite.dir, "bad.yaml")
	suite.Require().NoError(os.WriteFile(bad, []byte("confidence_cap: 10\n"), 0644))

	tests := []struct {
		name string
		args []string
	}{
		{"no files", []string{"--data", filepath.Join(suite.dir, "*.parquet")}},
		{"confidence out of range", []string{"--data", filepath.Join(suite.dir, "*.csv"), "--min-confidence", "101"}},
		{"invalid config", []string{"--data", filepath.Join(suite.dir, "*.csv"), "--config", bad}},
		{"missing config", []string{"--data", filepath.Join(suite.dir, "*.csv"), "--config", filepath.Join(suite.dir, "none.yaml")}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := suite.run(tc.args...)
			suite.Error(err)
		})
	}
}
