package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CSVDataSourceTestSuite struct {
	suite.Suite
	dir string
}

func TestCSVDataSourceSuite(t *testing.T) {
	suite.Run(t, new(CSVDataSourceTestSuite))
}

func (suite *CSVDataSourceTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *CSVDataSourceTestSuite) write(name, content string) string {
	path := filepath.Join(suite.dir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

const sampleCSV = `time,open,high,low,close,volume
2024-01-02T00:00:00Z,100,102,99,101,1000
2024-01-03 00:00:00,101,103,100,102,1100
2024-01-04,102,104,101,103,1200
1704412800,103,105,102,104,1300
`

func (suite *CSVDataSourceTestSuite) TestReadAllParsesEveryTimeLayout() {
	ds := NewCSVDataSource(logger.NewNopLogger())
	suite.Require().NoError(ds.Initialize(suite.write("AAPL.csv", sampleCSV)))

	var closes []float64
	var times []time.Time

	for bar, err := range ds.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		suite.Require().NoError(err)
		closes = append(closes, bar.Close)
		times = append(times, bar.Time)
	}

	suite.Equal([]float64{101, 102, 103, 104}, closes)

	for i, t := range times {
		suite.True(t.Equal(time.Date(2024, 1, 2+i, 0, 0, 0, 0, time.UTC)), "bar %d at %s", i, t)
	}
}

func (suite *CSVDataSourceTestSuite) TestWindow() {
	ds := NewCSVDataSource(logger.NewNopLogger())
	suite.Require().NoError(ds.Initialize(suite.write("AAPL.csv", sampleCSV)))

	start := optional.Some(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	end := optional.Some(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC))

	count, err := ds.Count(start, end)
	suite.Require().NoError(err)
	suite.Equal(2, count)

	bars, err := LoadBars(ds, start, end)
	suite.Require().NoError(err)
	suite.Len(bars, 2)
	suite.Equal(102.0, bars[0].Close)
}

func (suite *CSVDataSourceTestSuite) TestEarlyStop() {
	ds := NewCSVDataSource(logger.NewNopLogger())
	suite.Require().NoError(ds.Initialize(suite.write("AAPL.csv", sampleCSV)))

	seen := 0
	for range ds.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		seen++
		if seen == 2 {
			break
		}
	}

	suite.Equal(2, seen)
}

func (suite *CSVDataSourceTestSuite) TestInitializeErrors() {
	ds := NewCSVDataSource(logger.NewNopLogger())

	err := ds.Initialize(filepath.Join(suite.dir, "missing.csv"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))

	err = ds.Initialize(suite.write("bad_time.csv", "time,open,high,low,close,volume\nyesterday,1,1,1,1,1\n"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidMarketData))

	err = ds.Initialize(suite.write("bad_number.csv", "time,open,high,low,close,volume\n2024-01-02,abc,1,1,1,1\n"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidMarketData))
}

func (suite *CSVDataSourceTestSuite) TestLoadFile() {
	bars, err := LoadFile(suite.write("MSFT_2024.csv", sampleCSV), optional.None[time.Time](), optional.None[time.Time](), nil)
	suite.Require().NoError(err)
	suite.Len(bars, 4)
}

func (suite *CSVDataSourceTestSuite) TestClose() {
	ds := NewCSVDataSource(logger.NewNopLogger())
	suite.Require().NoError(ds.Initialize(suite.write("AAPL.csv", sampleCSV)))
	suite.Require().NoError(ds.Close())

	count, err := ds.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Zero(count)
}
