package datasource

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

// timeLayouts are tried in order when parsing the time column.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// csvRecord is one row of a bar file. Time stays a string so that several
// layouts and unix seconds can be accepted.
type csvRecord struct {
	Time   string  `csv:"time"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// CSVDataSource holds the bars of one CSV file in memory.
type CSVDataSource struct {
	bars   []types.PriceBar
	logger *logger.Logger
}

func NewCSVDataSource(logger *logger.Logger) DataSource {
	return &CSVDataSource{logger: logger}
}

// Initialize implements DataSource.
func (c *CSVDataSource) Initialize(path string) error {
	c.logger.Debug("Initializing CSV data source", zap.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open %s", path)
	}
	defer file.Close()

	var records []csvRecord
	if err := gocsv.UnmarshalFile(file, &records); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidMarketData, err, "failed to parse %s", path)
	}

	bars := make([]types.PriceBar, 0, len(records))

	for i, record := range records {
		t, err := parseTime(record.Time)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidMarketData, err, "row %d of %s", i+1, path)
		}

		bars = append(bars, types.PriceBar{
			Time:   t,
			Open:   record.Open,
			High:   record.High,
			Low:    record.Low,
			Close:  record.Close,
			Volume: record.Volume,
		})
	}

	c.bars = bars

	c.logger.Debug("CSV data source loaded", zap.Int("bars", len(bars)))

	return nil
}

// ReadAll implements DataSource. Bars are yielded in file order.
func (c *CSVDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.PriceBar, error) bool) {
	return func(yield func(types.PriceBar, error) bool) {
		for _, bar := range c.bars {
			if !inWindow(bar.Time, start, end) {
				continue
			}

			if !yield(bar, nil) {
				return
			}
		}
	}
}

// Count implements DataSource.
func (c *CSVDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	count := 0

	for _, bar := range c.bars {
		if inWindow(bar.Time, start, end) {
			count++
		}
	}

	return count, nil
}

// Close implements DataSource.
func (c *CSVDataSource) Close() error {
	c.bars = nil

	return nil
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC(), nil
	}

	return time.Time{}, errors.Newf(errors.ErrCodeInvalidMarketData, "unrecognized time %q", value)
}
