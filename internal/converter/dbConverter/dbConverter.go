package dbConverter

import (
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/model/dbModel"
)

func ToTransaction(t dbModel.Transaction) model.Transaction {
	return model.Transaction{
		ID:                   t.ID,
		Amount:               t.Amount,
		BuyPrice:             t.BuyPrice,
		TransactionTimestamp: t.TransactionTimestamp,
		Currency:             t.Currency,
	}
}

func ToTransactions(rows []dbModel.Transaction) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, ToTransaction(row))
	}
	return transactions
}
