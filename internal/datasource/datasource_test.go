package datasource

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DataSourceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller
}

func TestDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DataSourceTestSuite))
}

func (suite *DataSourceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
}

func (suite *DataSourceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func iterate(bars []types.PriceBar, err error) func(func(types.PriceBar, error) bool) {
	return func(yield func(types.PriceBar, error) bool) {
		for _, bar := range bars {
			if !yield(bar, nil) {
				return
			}
		}

		if err != nil {
			yield(types.PriceBar{}, err)
		}
	}
}

func bar(day int, close float64) types.PriceBar {
	return types.PriceBar{
		Time:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Open:   close,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: 100,
	}
}

func (suite *DataSourceTestSuite) expect(bars []types.PriceBar, err error) *mocks.MockDataSource {
	ds := mocks.NewMockDataSource(suite.ctrl)
	ds.EXPECT().Count(gomock.Any(), gomock.Any()).Return(len(bars), nil)
	ds.EXPECT().ReadAll(gomock.Any(), gomock.Any()).Return(iterate(bars, err))

	return ds
}

func (suite *DataSourceTestSuite) TestLoadBarsSortsByTime() {
	ds := suite.expect([]types.PriceBar{bar(3, 12), bar(1, 10), bar(2, 11)}, nil)

	bars, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 3)
	suite.Equal([]float64{10, 11, 12}, types.Closes(bars))
}

func (suite *DataSourceTestSuite) TestLoadBarsRejectsBadInput() {
	nan := bar(2, 11)
	nan.Close = math.NaN()

	inverted := bar(2, 11)
	inverted.Low = inverted.High + 1

	tests := []struct {
		name string
		bars []types.PriceBar
	}{
		{"non-finite close", []types.PriceBar{bar(1, 10), nan}},
		{"low above high", []types.PriceBar{bar(1, 10), inverted}},
		{"duplicate timestamp", []types.PriceBar{bar(1, 10), bar(1, 11)}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			ds := suite.expect(tc.bars, nil)

			_, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidMarketData))
			suite.True(errors.IsDataError(err))
		})
	}
}

func (suite *DataSourceTestSuite) TestLoadBarsPropagatesReadErrors() {
	ds := suite.expect([]types.PriceBar{bar(1, 10)}, fmt.Errorf("disk gone"))

	_, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeQueryFailed))
	suite.Contains(err.Error(), "disk gone")
}

func (suite *DataSourceTestSuite) TestLoadBarsPropagatesCountErrors() {
	ds := mocks.NewMockDataSource(suite.ctrl)
	ds.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, fmt.Errorf("no table"))

	_, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeQueryFailed))
}

func (suite *DataSourceTestSuite) TestLoadBarsPassesWindow() {
	start := optional.Some(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	end := optional.None[time.Time]()

	ds := mocks.NewMockDataSource(suite.ctrl)
	ds.EXPECT().Count(start, end).Return(1, nil)
	ds.EXPECT().ReadAll(start, end).Return(iterate([]types.PriceBar{bar(2, 11)}, nil))

	bars, err := LoadBars(ds, start, end)
	suite.Require().NoError(err)
	suite.Len(bars, 1)
}

func (suite *DataSourceTestSuite) TestNewDataSourceForPath() {
	log := logger.NewNopLogger()

	csv, err := NewDataSourceForPath("data/AAPL.csv", log)
	suite.Require().NoError(err)
	suite.IsType(&CSVDataSource{}, csv)

	parquet, err := NewDataSourceForPath("data/AAPL.PARQUET", log)
	suite.Require().NoError(err)
	suite.IsType(&DuckDBDataSource{}, parquet)
	suite.NoError(parquet.Close())

	_, err = NewDataSourceForPath("data/AAPL.xlsx", log)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnsupportedDataFormat))
}

func (suite *DataSourceTestSuite) TestSymbolFromPath() {
	tests := []struct {
		path     string
		expected string
	}{
		{"data/AAPL_2024.parquet", "AAPL"},
		{"/tmp/msft.csv", "MSFT"},
		{"spy-daily.csv", "SPY"},
		{"QQQ", "QQQ"},
	}

	for _, tc := range tests {
		suite.Run(tc.path, func() {
			suite.Equal(tc.expected, SymbolFromPath(tc.path))
		})
	}
}

func (suite *DataSourceTestSuite) TestGetIntervalMinutes() {
	minutes, err := getIntervalMinutes(Interval1d)
	suite.Require().NoError(err)
	suite.Equal(1440, minutes)

	_, err = getIntervalMinutes(Interval("3d"))
	suite.Error(err)
}
