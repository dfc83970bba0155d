package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OsagoQuoteService/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	err      error
	lastOpts *sql.TxOptions
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.lastOpts = opts
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestDoRepeatableRead_Commit(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	var inside dbmetrics.DBExecutor
	err := m.DoRepeatableRead(context.Background(), func(ctx context.Context) error {
		inside = dbmetrics.GetExecutor(ctx, nil)
		return nil
	})

	require.NoError(t, err)
	assert.Same(t, b.tx, inside)
	assert.True(t, b.tx.committed)
	assert.False(t, b.tx.rolledBack)
	assert.Equal(t, sql.LevelRepeatableRead, b.lastOpts.Isolation)
}

func TestDo_RollbackOnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)
	fnErr := errors.New("boom")

	err := m.Do(context.Background(), nil, func(context.Context) error { return fnErr })

	assert.ErrorIs(t, err, fnErr)
	assert.True(t, b.tx.rolledBack)
	assert.False(t, b.tx.committed)
}

func TestDo_RollbackOnPanic(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), nil, func(context.Context) error { panic("oops") })
	})
	assert.True(t, b.tx.rolledBack)
}

func TestDo_BeginAndCommitErrors(t *testing.T) {
	m := NewTransactionManager(&fakeBeginner{err: errors.New("no conn")})
	err := m.Do(context.Background(), nil, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrBegin)

	b := &fakeBeginner{tx: &fakeTx{commitErr: errors.New("serialization failure")}}
	err = NewTransactionManager(b).Do(context.Background(), nil, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrCommit)
}
