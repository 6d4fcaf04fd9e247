// Package datasource loads price bars from CSV and Parquet files and hands them
// to the analysis core as validated, time ordered series.
package datasource

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
	Interval1w  Interval = "1w"
)

type DataSource interface {
	// Initialize loads the file at path. Calling it again replaces the previous file.
	Initialize(path string) error
	// ReadAll yields every bar inside the optional time window in time order.
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.PriceBar, error) bool)
	// Count returns the number of bars inside the optional time window.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}

// NewDataSourceForPath picks a data source by file extension. CSV files are
// parsed in memory, Parquet files are read through DuckDB.
func NewDataSourceForPath(path string, log *logger.Logger) (DataSource, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVDataSource(log), nil
	case ".parquet":
		ds, err := NewDuckDBDataSource(":memory:", log)
		if err != nil {
			return nil, err
		}

		return ds, nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedDataFormat, "unsupported data file %s, expected .csv or .parquet", path)
	}
}

// LoadBars drains ds into a slice sorted by time and rejects malformed bars
// and duplicate timestamps.
func LoadBars(ds DataSource, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.PriceBar, error) {
	count, err := ds.Count(start, end)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	bars := make([]types.PriceBar, 0, count)

	for bar, err := range ds.ReadAll(start, end) {
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read bars", err)
		}

		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	if err := validateSeries(bars); err != nil {
		return nil, err
	}

	return bars, nil
}

// validateSeries checks a time ordered series bar by bar.
func validateSeries(bars []types.PriceBar) error {
	for i, bar := range bars {
		if err := bar.Validate(); err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidMarketData, err, "bar %d at %s", i, bar.Time.Format(time.RFC3339))
		}

		if i > 0 && bar.Time.Equal(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidMarketData, "duplicate bar at %s", bar.Time.Format(time.RFC3339))
		}
	}

	return nil
}

// LoadFile opens path, loads its bars and closes the source.
func LoadFile(path string, start optional.Option[time.Time], end optional.Option[time.Time], log *logger.Logger) ([]types.PriceBar, error) {
	ds, err := NewDataSourceForPath(path, log)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if err := ds.Initialize(path); err != nil {
		return nil, err
	}

	return LoadBars(ds, start, end)
}

// LoadResampled reads path through DuckDB and aggregates it into bars of
// interval. Missing bounds cover the whole file.
func LoadResampled(path string, interval Interval, start optional.Option[time.Time], end optional.Option[time.Time], log *logger.Logger) ([]types.PriceBar, error) {
	ds, err := NewDuckDBDataSource(":memory:", log)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if err := ds.Initialize(path); err != nil {
		return nil, err
	}

	bars, err := ds.Resample(start.TakeOr(time.Unix(0, 0).UTC()), end.TakeOr(time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)), interval)
	if err != nil {
		return nil, err
	}

	if err := validateSeries(bars); err != nil {
		return nil, err
	}

	return bars, nil
}

// SymbolFromPath derives an instrument symbol from a file name such as
// data/AAPL_2024.parquet.
func SymbolFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if idx := strings.IndexAny(name, "_-."); idx > 0 {
		name = name[:idx]
	}

	return strings.ToUpper(name)
}

func inWindow(t time.Time, start optional.Option[time.Time], end optional.Option[time.Time]) bool {
	if start.IsSome() && t.Before(start.Unwrap()) {
		return false
	}

	if end.IsSome() && t.After(end.Unwrap()) {
		return false
	}

	return true
}
