package postgres_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net/http"
	"sync"
	"testing"

	"hotel/infras/postgres"
	"hotel/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// txRecorder is a database/sql driver that only knows how to begin, commit and roll back.
type txRecorder struct {
	mu         sync.Mutex
	beginErr   error
	commitErr  error
	commits    int
	rollbacks  int
	isolations []driver.IsolationLevel
}

func (r *txRecorder) Connect(context.Context) (driver.Conn, error) { return &recorderConn{r}, nil }

func (r *txRecorder) Driver() driver.Driver { return recorderDriver{} }

type recorderDriver struct{}

func (recorderDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("use sql.OpenDB")
}

type recorderConn struct{ r *txRecorder }

func (c *recorderConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("statements not supported")
}

func (c *recorderConn) Close() error { return nil }

func (c *recorderConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *recorderConn) BeginTx(_ context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()

	if c.r.beginErr != nil {
		return nil, c.r.beginErr
	}

	c.r.isolations = append(c.r.isolations, opts.Isolation)

	return &recorderTx{c.r}, nil
}

type recorderTx struct{ r *txRecorder }

func (t *recorderTx) Commit() error {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()

	if t.r.commitErr != nil {
		return t.r.commitErr
	}

	t.r.commits++

	return nil
}

func (t *recorderTx) Rollback() error {
	t.r.mu.Lock()
	defer t.r.mu.Unlock()

	t.r.rollbacks++

	return nil
}

func newTransactor(r *txRecorder) postgres.Transactor {
	db := sqlx.NewDb(sql.OpenDB(r), "postgres")

	return postgres.NewTransactor(&postgres.Connection{Read: db, Write: db})
}

func TestWithTransaction_Commits(t *testing.T) {
	rec := &txRecorder{}

	err := newTransactor(rec).WithTransaction(context.Background(), func(context.Context, *sqlx.Tx) error {
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, rec.commits)
	assert.Equal(t, 0, rec.rollbacks)
	assert.Equal(t, []driver.IsolationLevel{driver.IsolationLevel(sql.LevelReadCommitted)}, rec.isolations)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	rec := &txRecorder{}
	want := failure.NotFound("booking not found")

	err := newTransactor(rec).WithTransaction(context.Background(), func(context.Context, *sqlx.Tx) error {
		return want
	})

	assert.Equal(t, want, err)
	assert.Equal(t, 0, rec.commits)
	assert.Equal(t, 1, rec.rollbacks)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	rec := &txRecorder{}
	transactor := newTransactor(rec)

	assert.PanicsWithValue(t, "boom", func() {
		_ = transactor.WithTransaction(context.Background(), func(context.Context, *sqlx.Tx) error {
			panic("boom")
		})
	})

	assert.Equal(t, 0, rec.commits)
	assert.Equal(t, 1, rec.rollbacks)
}

func TestWithTransaction_StorageFailures(t *testing.T) {
	tests := []struct {
		name     string
		recorder *txRecorder
	}{
		{"begin", &txRecorder{beginErr: errors.New("dial tcp 127.0.0.1:1: connect: connection refused")}},
		{"commit", &txRecorder{commitErr: errors.New("driver: bad connection")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false

			err := newTransactor(tt.recorder).WithTransaction(context.Background(), func(context.Context, *sqlx.Tx) error {
				called = true

				return nil
			})

			require.Error(t, err)
			assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(err))
			assert.Equal(t, failure.ReasonStorage, failure.GetReason(err))
			assert.Equal(t, tt.name == "commit", called)
		})
	}
}
