package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(sqlx.NewDb(db, "pgx")), mock
}

func sampleTransaction() model.Transaction {
	return model.Transaction{
		Amount:               decimal.NewFromFloat(12.5),
		BuyPrice:             decimal.NewFromFloat(97.75),
		TransactionTimestamp: 1748790300000,
		Currency:             model.CurrencyEuro,
	}
}

func TestInsertTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	tr := sampleTransaction()

	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs(tr.Amount, tr.BuyPrice, tr.TransactionTimestamp, tr.Currency).
		WillReturnRows(sqlmock.NewRows([]string{"transaction_id"}).AddRow(int64(7)))

	id, err := repo.InsertTransaction(context.Background(), tr)

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("existing row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		tr := sampleTransaction()
		tr.ID = 7

		mock.ExpectExec(`UPDATE transactions`).
			WithArgs(tr.Amount, tr.BuyPrice, tr.TransactionTimestamp, tr.Currency, tr.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateTransaction(context.Background(), tr))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row returns ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		tr := sampleTransaction()
		tr.ID = 404

		mock.ExpectExec(`UPDATE transactions`).
			WithArgs(tr.Amount, tr.BuyPrice, tr.TransactionTimestamp, tr.Currency, tr.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateTransaction(context.Background(), tr)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	repo, mock := newMockRepo(t)

	// absent id still succeeds
	mock.ExpectExec(`DELETE FROM transactions`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteTransaction(context.Background(), 404))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTransaction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		rows := sqlmock.NewRows([]string{"transaction_id", "amount", "buy_price", "transaction_timestamp", "currency"}).
			AddRow(int64(7), "12.5", "97.75", int64(1748790300000), "€")
		mock.ExpectQuery(`SELECT transaction_id, amount, buy_price, transaction_timestamp, currency`).
			WithArgs(int64(7)).
			WillReturnRows(rows)

		tr, err := repo.GetTransaction(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), tr.ID)
		assert.True(t, tr.Amount.Equal(decimal.NewFromFloat(12.5)))
		assert.True(t, tr.BuyPrice.Equal(decimal.NewFromFloat(97.75)))
		assert.Equal(t, model.CurrencyEuro, tr.Currency)
	})

	t.Run("missing row returns ErrNotFound", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT transaction_id, amount, buy_price, transaction_timestamp, currency`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "amount", "buy_price", "transaction_timestamp", "currency"}))

		_, err := repo.GetTransaction(context.Background(), 404)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListTransactions(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows([]string{"transaction_id", "amount", "buy_price", "transaction_timestamp", "currency"}).
		AddRow(int64(2), "27", "98", int64(1748790400000), "€").
		AddRow(int64(1), "78", "97.75", int64(1748790300000), "€")
	mock.ExpectQuery(`ORDER BY transaction_timestamp DESC`).
		WillReturnRows(rows)

	transactions, err := repo.ListTransactions(context.Background())

	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, int64(2), transactions[0].ID)
	assert.Equal(t, int64(1), transactions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
