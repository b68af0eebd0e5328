package datasource

import (
	"database/sql"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"go.uber.org/zap"
)

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	// columns maps lower-case column names to the names used in the file
	columns map[string]string
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// An empty path opens an in-memory database, which is all a read-only bar file needs.
// This is distinct from Initialize() which exposes a bar file to the database.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	_, err = db.Exec(`
		SET memory_limit='1GB';
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

// DetectFormat picks the reader for a bar file from its extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedFormat, "unsupported bar file format %q, expected .csv or .parquet", filepath.Ext(path))
	}
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "bar file %s not found", path)
	}

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS bars;`); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	reader := "read_csv_auto"
	if format == FormatParquet {
		reader = "read_parquet"
	}

	// squirrel does not build DDL
	query := fmt.Sprintf(`
		CREATE VIEW bars AS
		SELECT * FROM %s('%s');
	`, reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s file %s", format, path)
	}

	columns, err := d.describe()
	if err != nil {
		return err
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return errors.Newf(errors.ErrCodeMissingColumn, "bar file %s is missing required column %q", path, name)
		}
	}

	d.columns = columns

	d.logger.Debug("Bar file ready",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("columns", len(columns)),
	)

	return nil
}

// describe lists the view's columns keyed by their lower-case name.
func (d *DuckDBDataSource) describe() (map[string]string, error) {
	rows, err := d.db.Query(`SELECT column_name FROM (DESCRIBE bars)`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe bar file", err)
	}
	defer rows.Close()

	columns := make(map[string]string)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan column name", err)
		}

		columns[strings.ToLower(name)] = name
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to describe bar file", err)
	}

	return columns, nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	if err := d.ready(); err != nil {
		return 0, err
	}

	builder := d.sq.Select("COUNT(*)").From("bars")
	if where := d.window(start, end); len(where) > 0 {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
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
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.Bar, error] {
	return func(yield func(types.Bar, error) bool) {
		if err := d.ready(); err != nil {
			yield(types.Bar{}, err)

			return
		}

		builder := d.sq.Select(d.selectColumns()...).From("bars")
		if where := d.window(start, end); len(where) > 0 {
			builder = builder.Where(where)
		}

		query, args, err := builder.OrderBy("date ASC").ToSql()
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build bar query", err))

			return
		}

		d.logger.Debug("Reading bars", zap.String("query", query))

		rows, err := d.db.Query(query, args...)
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err))

			return
		}
		defer rows.Close()

		for rows.Next() {
			bar, err := scanBar(rows)
			if !yield(bar, err) || err != nil {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate bars", err))
		}
	}
}

// ReadBars implements DataSource.
func (d *DuckDBDataSource) ReadBars(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error) {
	var bars []types.Bar

	for bar, err := range d.ReadAll(start, end) {
		if err != nil {
			return nil, err
		}

		bars = append(bars, bar)
	}

	return bars, nil
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}

func (d *DuckDBDataSource) ready() error {
	if d.columns == nil {
		return errors.New(errors.ErrCodeDataSourceUnavailable, "data source is not initialized, call Initialize first")
	}

	return nil
}

func (d *DuckDBDataSource) dateExpr() string {
	return fmt.Sprintf("CAST(%s AS DATE)", quoteIdent(d.columns["date"]))
}

// window builds the inclusive date filter for the optional bounds.
func (d *DuckDBDataSource) window(start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.And {
	where := squirrel.And{}

	if start.IsSome() {
		where = append(where, squirrel.GtOrEq{d.dateExpr(): types.Day(start.Unwrap())})
	}

	if end.IsSome() {
		where = append(where, squirrel.LtOrEq{d.dateExpr(): types.Day(end.Unwrap())})
	}

	return where
}

// selectColumns casts every column to the type Bar expects. Optional columns
// missing from the file are selected as NULL.
func (d *DuckDBDataSource) selectColumns() []string {
	columns := []string{d.dateExpr() + " AS date"}

	for _, name := range requiredColumns[1:] {
		columns = append(columns, fmt.Sprintf("CAST(%s AS DOUBLE) AS %s", quoteIdent(d.columns[name]), name))
	}

	for _, name := range optionalColumns {
		actual, ok := d.columns[name]
		if !ok {
			columns = append(columns, "CAST(NULL AS DOUBLE) AS "+name)

			continue
		}

		columns = append(columns, fmt.Sprintf("CAST(%s AS DOUBLE) AS %s", quoteIdent(actual), name))
	}

	return columns
}

func scanBar(rows *sql.Rows) (types.Bar, error) {
	var (
		bar              types.Bar
		tradedValue      sql.NullFloat64
		transactionCount sql.NullFloat64
		change           sql.NullFloat64
	)

	err := rows.Scan(
		&bar.Date,
		&bar.Open,
		&bar.High,
		&bar.Low,
		&bar.Close,
		&bar.Volume,
		&tradedValue,
		&transactionCount,
		&change,
	)
	if err != nil {
		return types.Bar{}, errors.Wrap(errors.ErrCodeMalformedInput, "failed to scan bar row", err)
	}

	bar.Date = types.Day(bar.Date)
	bar.TradedValue = fromNull(tradedValue)
	bar.TransactionCount = fromNull(transactionCount)
	bar.Change = fromNull(change)

	return bar, nil
}

func fromNull(v sql.NullFloat64) optional.Option[float64] {
	if !v.Valid {
		return optional.None[float64]()
	}

	return optional.Some(v.Float64)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
