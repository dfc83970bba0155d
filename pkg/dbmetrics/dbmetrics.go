package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/m04kA/SMC-OsagoQuoteService/pkg/metrics"
)

// DBExecutor интерфейс выполнения запросов
// Реализуется *sql.DB, *sql.Tx, *DB и *Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor открытая транзакция
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

const defaultStatsInterval = 15 * time.Second

// DB обёртка над *sql.DB, собирающая метрики запросов и пула соединений
// С nil метриками работает как обычное соединение
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// New оборачивает соединение без сбора метрик
func New(db *sql.DB) *DB {
	return &DB{db: db}
}

// Wrap оборачивает соединение и запускает сбор статистики пула до закрытия stopCh
func Wrap(db *sql.DB, m *metrics.Metrics, interval time.Duration, stopCh <-chan struct{}) *DB {
	wrapped := &DB{db: db, metrics: m}
	go wrapped.collectPoolStats(interval, stopCh)
	return wrapped
}

// WrapWithDefault то же, что Wrap, с интервалом по умолчанию
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, stopCh <-chan struct{}) *DB {
	return Wrap(db, m, defaultStatsInterval, stopCh)
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	observe(d.metrics, query, start, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	observe(d.metrics, query, start, err)
	return rows, err
}

// QueryRowContext ошибка сканирования здесь недоступна, поэтому статус всегда ok
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	observe(d.metrics, query, start, nil)
	return row
}

// BeginTx начинает транзакцию, запросы внутри которой тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, metrics: d.metrics}, nil
}

// Tx транзакция с метриками
type Tx struct {
	tx      *sql.Tx
	metrics *metrics.Metrics
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	observe(t.metrics, query, start, err)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	observe(t.metrics, query, start, err)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	observe(t.metrics, query, start, nil)
	return row
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

type txKey struct{}

// WithTx кладет транзакцию в контекст
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetExecutor возвращает транзакцию из контекста, если она есть, иначе db
func GetExecutor(ctx context.Context, db DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(txKey{}).(TxExecutor); ok {
		return tx
	}
	return db
}

func observe(m *metrics.Metrics, query string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueryDuration.WithLabelValues(operation(query), status).Observe(time.Since(start).Seconds())
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	if d.metrics == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.DBOpenConnections.Set(float64(stats.OpenConnections))
			d.metrics.DBInUseConnections.Set(float64(stats.InUse))
			d.metrics.DBIdleConnections.Set(float64(stats.Idle))
			d.metrics.DBWaitCount.Set(float64(stats.WaitCount))
			d.metrics.DBWaitDurationSecond.Set(stats.WaitDuration.Seconds())
		}
	}
}

// operation первое слово запроса в нижнем регистре (select, insert, ...)
func operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
