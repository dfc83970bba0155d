package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-OsagoQuoteService/pkg/dbmetrics"
)

var (
	// ErrBegin возвращается, если транзакцию не удалось начать
	ErrBegin = errors.New("txmanager: failed to begin transaction")

	// ErrCommit возвращается, если транзакцию не удалось зафиксировать
	ErrCommit = errors.New("txmanager: failed to commit transaction")
)

// Beginner источник транзакций (*dbmetrics.DB)
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функцию в транзакции, передавая ее через контекст
// Репозитории достают транзакцию через dbmetrics.GetExecutor.
type TransactionManager struct {
	db Beginner
}

func NewTransactionManager(db Beginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoRepeatableRead все чтения внутри fn видят один снимок данных
func (m *TransactionManager) DoRepeatableRead(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead}, fn)
}

// Do выполняет fn в транзакции с заданными опциями
// При ошибке или панике в fn транзакция откатывается.
func (m *TransactionManager) Do(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBegin, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}
	return nil
}
