package dbModel

import "github.com/shopspring/decimal"

type Transaction struct {
	ID                   int64           `db:"transaction_id"`
	Amount               decimal.Decimal `db:"amount"`
	BuyPrice             decimal.Decimal `db:"buy_price"`
	TransactionTimestamp int64           `db:"transaction_timestamp"`
	Currency             string          `db:"currency"`
}
