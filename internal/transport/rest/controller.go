package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stockswidget/stocks_widget_service/internal/boardRenderer"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/service"
	"github.com/stockswidget/stocks_widget_service/utils"
)

type WidgetService interface {
	GetBoardSnapshot(ctx context.Context) (model.BoardSnapshot, error)
	RefreshAll(ctx context.Context) error
	RefreshWidget(ctx context.Context, widgetID string) error
	GetVusaQuote(ctx context.Context) (model.Quote, error)
	CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	UpdateTransaction(ctx context.Context, t model.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID int64) error
	GetTransaction(ctx context.Context, transactionID int64) (model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	GenerateTransactionsReport(ctx context.Context) (fileBytes []byte, fileExtension string, err error)
}

type Controller struct {
	widgetService WidgetService
	hub           Hub
}

func NewController(widgetService WidgetService, hub Hub) *Controller {
	return &Controller{widgetService: widgetService, hub: hub}
}

func (ctrl *Controller) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"widgets": ctrl.hub.Count(),
	})
}

func (ctrl *Controller) GetBoard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := ctrl.widgetService.GetBoardSnapshot(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, http.StatusNotFound, "no board snapshot yet")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// RefreshBoard runs an app-level refresh cycle in the background; the
// rendered board reaches clients through the widget socket.
func (ctrl *Controller) RefreshBoard(w http.ResponseWriter, r *http.Request) {
	rqID := utils.GetRequestIDFromCtx(r.Context())

	go func() {
		ctx := utils.CtxWithRqID(context.Background(), rqID)
		if err := ctrl.widgetService.RefreshAll(ctx); err != nil {
			slog.Error("manual refresh failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "refresh started"})
}

// GetVusaMarket serves the live VUSA header of the transaction entry
// screen. A failed fetch maps to 502 so the client can show its retry
// affordance.
func (ctrl *Controller) GetVusaMarket(w http.ResponseWriter, r *http.Request) {
	quote, err := ctrl.widgetService.GetVusaQuote(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrFetchFailed) {
			respondError(w, http.StatusBadGateway, "market data unavailable, retry")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"price":          quote.Price,
		"priceText":      fmt.Sprintf("€%.2f", quote.Price),
		"lastUpdateTime": boardRenderer.FormatUpdateTime(quote.UpdateTime),
	})
}

func (ctrl *Controller) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := ctrl.widgetService.ListTransactions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, transactions)
}

func (ctrl *Controller) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := transactionIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	transaction, err := ctrl.widgetService.GetTransaction(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, transaction)
}

func (ctrl *Controller) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	transaction, errMsg := parseTransactionRequest(r)
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	created, err := ctrl.widgetService.CreateTransaction(r.Context(), transaction)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (ctrl *Controller) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := transactionIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	transaction, errMsg := parseTransactionRequest(r)
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}
	transaction.ID = transactionID

	if err := ctrl.widgetService.UpdateTransaction(r.Context(), transaction); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, transaction)
}

func (ctrl *Controller) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := transactionIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := ctrl.widgetService.DeleteTransaction(r.Context(), transactionID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (ctrl *Controller) DownloadTransactionsReport(w http.ResponseWriter, r *http.Request) {
	fileBytes, fileExtension, err := ctrl.widgetService.GenerateTransactionsReport(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	filename := fmt.Sprintf("vusa_transactions_%s%s", time.Now().Format("2006-01-02"), fileExtension)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fileBytes)
}

type transactionRequest struct {
	Amount               string `json:"amount"`
	BuyPrice             string `json:"buyPrice"`
	TransactionTimestamp int64  `json:"transactionTimestamp"`
	Currency             string `json:"currency"`
}

// parseTransactionRequest validates user input before the store is touched:
// amount and buy price must parse as positive decimals, the currency must be
// one of the supported glyphs. Returns a non-empty message on rejection.
func parseTransactionRequest(r *http.Request) (model.Transaction, string) {
	req := transactionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return model.Transaction{}, "invalid request body"
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return model.Transaction{}, "amount must be a positive number"
	}

	buyPrice, err := decimal.NewFromString(req.BuyPrice)
	if err != nil || !buyPrice.IsPositive() {
		return model.Transaction{}, "buyPrice must be a positive number"
	}

	currency := req.Currency
	if currency == "" {
		currency = model.CurrencyEuro
	}
	if !model.IsSupportedCurrency(currency) {
		return model.Transaction{}, "unsupported currency"
	}

	timestamp := req.TransactionTimestamp
	if timestamp < 0 {
		return model.Transaction{}, "transactionTimestamp must not be negative"
	}
	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}

	return model.Transaction{
		Amount:               amount,
		BuyPrice:             buyPrice,
		TransactionTimestamp: timestamp,
		Currency:             currency,
	}, ""
}

func transactionIDFromPath(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	return strconv.ParseInt(vars["id"], 10, 64)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
