package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactor_CommitsAndJoins(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := OpenGorm(sqlDB)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	tr := NewGormTransactor(db)
	calls := 0
	err = tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		assert.True(t, InTransaction(ctx))
		calls++
		// nested call joins the open transaction instead of beginning another
		return tr.WithinTransaction(ctx, func(inner context.Context) error {
			calls++
			assert.Same(t, Conn(ctx, db), Conn(inner, db))
			return nil
		})
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactor_RollsBackOnError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := OpenGorm(sqlDB)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = NewGormTransactor(db).WithinTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "restaurant", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=restaurant sslmode=disable", cfg.DSN())
}

func TestInTransactionOutsideTx(t *testing.T) {
	assert.False(t, InTransaction(context.Background()))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%risotto%", ContainsPattern("risotto"))
	assert.Equal(t, `%50\% off%`, ContainsPattern("50% off"))
	assert.Equal(t, `%a\_b\\c%`, ContainsPattern(`a_b\c`))
}
