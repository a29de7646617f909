package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/jmoiron/sqlx"
	"github.com/stockswidget/stocks_widget_service/internal/converter/dbConverter"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/model/dbModel"
	"github.com/stockswidget/stocks_widget_service/utils"
)

type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (r *Postgres) InsertTransaction(ctx context.Context, t model.Transaction) (transactionID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO transactions(amount, buy_price, transaction_timestamp, currency)
		VALUES($1, $2, $3, $4)
		RETURNING transaction_id`

	slog.Debug("InsertTransaction start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertTransaction failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertTransaction completed", slog.String("rqID", rqID), slog.Int64("transactionID", transactionID))
		}
	}()

	err = r.db.QueryRowContext(ctx, query, t.Amount, t.BuyPrice, t.TransactionTimestamp, t.Currency).Scan(&transactionID)
	if err != nil {
		return 0, err
	}

	return transactionID, nil
}

// UpdateTransaction replaces the mutable fields of the row matching the
// transaction id. Targeting a missing row surfaces ErrNotFound instead of
// silently doing nothing.
func (r *Postgres) UpdateTransaction(ctx context.Context, t model.Transaction) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		UPDATE transactions
		SET amount = $1, buy_price = $2, transaction_timestamp = $3, currency = $4
		WHERE transaction_id = $5`

	slog.Debug("UpdateTransaction start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("UpdateTransaction failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateTransaction completed", slog.String("rqID", rqID), slog.Int64("transactionID", t.ID))
		}
	}()

	res, err := r.db.ExecContext(ctx, query, t.Amount, t.BuyPrice, t.TransactionTimestamp, t.Currency, t.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteTransaction removes the row; deleting an absent id is a no-op.
func (r *Postgres) DeleteTransaction(ctx context.Context, transactionID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `DELETE FROM transactions WHERE transaction_id = $1`

	slog.Debug("DeleteTransaction start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("DeleteTransaction failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteTransaction completed", slog.String("rqID", rqID), slog.Int64("transactionID", transactionID))
		}
	}()

	_, err = r.db.ExecContext(ctx, query, transactionID)
	return err
}

func (r *Postgres) GetTransaction(ctx context.Context, transactionID int64) (transaction model.Transaction, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT transaction_id, amount, buy_price, transaction_timestamp, currency
		FROM transactions
		WHERE transaction_id = $1`

	slog.Debug("GetTransaction start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil && !errors.Is(err, ErrNotFound) {
			slog.Error("GetTransaction failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTransaction completed", slog.String("rqID", rqID))
		}
	}()

	row := dbModel.Transaction{}
	err = r.db.GetContext(ctx, &row, query, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, ErrNotFound
		}
		return model.Transaction{}, err
	}

	return dbConverter.ToTransaction(row), nil
}

// ListTransactions returns all rows ordered by acquisition time, newest
// first.
func (r *Postgres) ListTransactions(ctx context.Context) (transactions []model.Transaction, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT transaction_id, amount, buy_price, transaction_timestamp, currency
		FROM transactions
		ORDER BY transaction_timestamp DESC`

	slog.Debug("ListTransactions start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("ListTransactions failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("ListTransactions completed", slog.String("rqID", rqID), slog.Int("count", len(transactions)))
		}
	}()

	rows := []dbModel.Transaction{}
	err = r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	return dbConverter.ToTransactions(rows), nil
}
