// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-expense-tracker/internal/config"
	"github.com/MKhiriev/go-expense-tracker/internal/logger"
)

func TestWithinTransaction_Commit(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err := db.WithinTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransaction_RollbackReturnsCallbackError(t *testing.T) {
	db, mock := newTestDB(t)
	sentinel := errors.New("mail server down")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransaction_NestedJoinsOuter(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := db.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return db.WithinTransaction(ctx, func(inner context.Context) error {
			assert.Equal(t, db.conn(ctx), db.conn(inner))
			return nil
		})
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransaction_BeginAndCommitErrors(t *testing.T) {
	t.Run("begin", func(t *testing.T) {
		db, mock := newTestDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		err := db.WithinTransaction(context.Background(), func(ctx context.Context) error { return nil })
		require.ErrorIs(t, err, ErrBeginningTransaction)
	})

	t.Run("commit", func(t *testing.T) {
		db, mock := newTestDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

		err := db.WithinTransaction(context.Background(), func(ctx context.Context) error { return nil })
		require.ErrorIs(t, err, ErrCommitingTransaction)
	})
}

func TestConn_UsesPoolOutsideTransaction(t *testing.T) {
	db, _ := newTestDB(t)
	assert.Equal(t, queryer(db.DB), db.conn(context.Background()))
}

func TestNewConnect_UnsupportedDriver(t *testing.T) {
	_, err := NewConnect(context.Background(), config.DB{Driver: "oracle", DSN: "x"}, logger.Nop())
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "plain path", dsn: "data/app.db", want: "data/app.db?_foreign_keys=on&_busy_timeout=5000"},
		{name: "existing query", dsn: "file:app.db?cache=shared", want: "file:app.db?cache=shared&_foreign_keys=on&_busy_timeout=5000"},
		{name: "explicit settings kept", dsn: "app.db?_fk=0&_busy_timeout=10", want: "app.db?_fk=0&_busy_timeout=10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqliteDSN(tt.dsn))
		})
	}
}
