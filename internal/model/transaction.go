package model

import "github.com/shopspring/decimal"

const (
	CurrencyEuro   = "€"
	CurrencyDollar = "$"
	CurrencyOther  = "Other"
)

func IsSupportedCurrency(currency string) bool {
	switch currency {
	case CurrencyEuro, CurrencyDollar, CurrencyOther:
		return true
	}
	return false
}

// Transaction is one recorded VUSA buy. TransactionTimestamp is epoch
// milliseconds of the acquisition.
type Transaction struct {
	ID                   int64           `json:"id"`
	Amount               decimal.Decimal `json:"amount"`
	BuyPrice             decimal.Decimal `json:"buyPrice"`
	TransactionTimestamp int64           `json:"transactionTimestamp"`
	Currency             string          `json:"currency"`
}

// CurrentValue values the position at the given market price.
func (t Transaction) CurrentValue(price decimal.Decimal) decimal.Decimal {
	return t.Amount.Mul(price)
}

// ProfitLoss is the unrealized result against the recorded buy price.
func (t Transaction) ProfitLoss(price decimal.Decimal) decimal.Decimal {
	return t.Amount.Mul(price.Sub(t.BuyPrice))
}
