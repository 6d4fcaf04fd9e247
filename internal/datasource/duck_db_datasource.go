package datasource

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-quant/internal/logger"
	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"go.uber.org/zap"
)

var barColumns = []string{
	"time",
	"CAST(open AS DOUBLE) AS open",
	"CAST(high AS DOUBLE) AS high",
	"CAST(low AS DOUBLE) AS low",
	"CAST(close AS DOUBLE) AS close",
	"CAST(volume AS DOUBLE) AS volume",
}

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBDataSource creates a new DuckDB data source backed by the database at path.
// Use ":memory:" for an in-memory database.
// This is distinct from Initialize() which exposes a market data file to the database.
func NewDuckDBDataSource(path string, logger *logger.Logger) (*DuckDBDataSource, error) {
	if path == ":memory:" {
		path = ""
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	_, err = db.Exec(`
		SET memory_limit='2GB';
		SET threads=4;
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to set DuckDB options", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource. Parquet files are read with read_parquet,
// anything else with read_csv_auto.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	// First drop the view if it exists
	_, err := d.db.Exec(`DROP VIEW IF EXISTS market_data;`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	reader := "read_csv_auto"
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		reader = "read_parquet"
	}

	// Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM %s('%s');
	`, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to load %s", path)
	}

	return nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query, args, err := d.window(d.sq.Select("COUNT(*)").From("market_data"), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.PriceBar, error) bool) {
	return func(yield func(types.PriceBar, error) bool) {
		d.logger.Debug("Reading all data from DuckDB")

		query, args, err := d.window(d.sq.Select(barColumns...).From("market_data"), start, end).
			OrderBy("time ASC").
			ToSql()
		if err != nil {
			yield(types.PriceBar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err))

			return
		}

		rows, err := d.db.Query(query, args...)
		if err != nil {
			yield(types.PriceBar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query market data", err))

			return
		}
		defer rows.Close()

		for rows.Next() {
			bar, err := scanBar(rows)
			if err != nil {
				yield(types.PriceBar{}, err)

				return
			}

			if !yield(bar, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.PriceBar{}, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err))
		}
	}
}

// Resample aggregates the bars inside [start, end] into buckets of interval.
func (d *DuckDBDataSource) Resample(start time.Time, end time.Time, interval Interval) ([]types.PriceBar, error) {
	minutes, err := getIntervalMinutes(interval)
	if err != nil {
		return nil, err
	}

	// Squirrel doesn't support window functions, so the bucketing query is raw SQL
	query := fmt.Sprintf(`
		WITH buckets AS (
			SELECT
				time_bucket(INTERVAL '%d minutes', time) AS bucket_time,
				time,
				CAST(open AS DOUBLE) AS open,
				CAST(high AS DOUBLE) AS high,
				CAST(low AS DOUBLE) AS low,
				CAST(close AS DOUBLE) AS close,
				CAST(volume AS DOUBLE) AS volume
			FROM market_data
			WHERE time >= $1 AND time <= $2
		)
		SELECT
			bucket_time AS time,
			arg_min(open, time) AS open,
			MAX(high) AS high,
			MIN(low) AS low,
			arg_max(close, time) AS close,
			SUM(volume) AS volume
		FROM buckets
		GROUP BY bucket_time
		ORDER BY bucket_time ASC
	`, minutes)

	rows, err := d.db.Query(query, start, end)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to resample market data", err)
	}
	defer rows.Close()

	result := make([]types.PriceBar, 0, 256)

	for rows.Next() {
		bar, err := scanBar(rows)
		if err != nil {
			return nil, err
		}

		result = append(result, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return result, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

func (d *DuckDBDataSource) window(builder squirrel.SelectBuilder, start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return builder
}

func scanBar(rows *sql.Rows) (types.PriceBar, error) {
	var bar types.PriceBar

	if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
		return types.PriceBar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
	}

	return bar, nil
}
