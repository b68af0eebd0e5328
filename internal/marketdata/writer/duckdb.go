package writer

import (
	"database/sql"
	stderrors "errors"
	"fmt"
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

const stagingSchema = `CREATE TABLE IF NOT EXISTS bars (
	symbol TEXT,
	date DATE,
	open DOUBLE,
	high DOUBLE,
	low DOUBLE,
	close DOUBLE,
	volume DOUBLE,
	traded_value DOUBLE,
	transaction_count DOUBLE,
	change DOUBLE
)`

var barColumns = []string{
	"symbol", "date", "open", "high", "low", "close", "volume",
	"traded_value", "transaction_count", "change",
}

// DuckDBWriter stages bars in an in-memory DuckDB table inside one
// transaction, then exports them sorted by date to a Parquet file.
type DuckDBWriter struct {
	path    string
	log     *logger.Logger
	db      *sql.DB
	tx      *sql.Tx
	insert  *sql.Stmt
	written int
}

func NewDuckDBWriter(outputPath string, log *logger.Logger) BarWriter {
	return &DuckDBWriter{path: outputPath, log: log}
}

func (w *DuckDBWriter) Initialize() error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open staging database", err)
	}

	w.db = db

	if err := w.prepare(); err != nil {
		_ = w.Close()

		return err
	}

	return nil
}

func (w *DuckDBWriter) prepare() error {
	if _, err := w.db.Exec(stagingSchema); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create staging table", err)
	}

	placeholders := make([]any, len(barColumns))
	placeholders[1] = squirrel.Expr("CAST(? AS DATE)", nil)

	query, _, err := squirrel.Insert("bars").Columns(barColumns...).Values(placeholders...).ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build insert", err)
	}

	if w.tx, err = w.db.Begin(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	if w.insert, err = w.tx.Prepare(query); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare insert", err)
	}

	return nil
}

func (w *DuckDBWriter) Write(symbol string, bar types.Bar) error {
	if w.insert == nil {
		return errors.New(errors.ErrCodeDataSourceUnavailable, "writer is not initialized")
	}

	day := bar.Date.Format(time.DateOnly)

	_, err := w.insert.Exec(symbol, day,
		bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		nullable(bar.TradedValue), nullable(bar.TransactionCount), nullable(bar.Change),
	)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to stage bar %s", day)
	}

	w.written++

	return nil
}

func (w *DuckDBWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeDataSourceUnavailable, "writer is not initialized")
	}

	if err := w.insert.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to close insert", err)
	}

	w.insert = nil

	tx := w.tx
	w.tx = nil

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit staged bars", err)
	}

	export := fmt.Sprintf("COPY (SELECT * FROM bars ORDER BY date) TO '%s' (FORMAT PARQUET)",
		strings.ReplaceAll(w.path, "'", "''"))
	if _, err := w.db.Exec(export); err != nil {
		return "", errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to export %s", w.path)
	}

	w.log.Info("Exported bars", zap.String("path", w.path), zap.Int("bars", w.written))

	return w.path, nil
}

func (w *DuckDBWriter) Close() error {
	var errs []error

	if w.insert != nil {
		errs = append(errs, w.insert.Close())
		w.insert = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			w.log.Warn("Discarding staged bars failed", zap.Error(err))
		}

		w.tx = nil
	}

	if w.db != nil {
		errs = append(errs, w.db.Close())
		w.db = nil
	}

	if err := stderrors.Join(errs...); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to close writer", err)
	}

	return nil
}

func (w *DuckDBWriter) OutputPath() string {
	return w.path
}

func nullable(v optional.Option[float64]) any {
	if v.IsNone() {
		return nil
	}

	return v.Unwrap()
}
