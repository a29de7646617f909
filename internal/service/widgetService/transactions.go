package widgetService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockswidget/stocks_widget_service/data/repository"
	"github.com/stockswidget/stocks_widget_service/internal/instruments"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/service"
	"github.com/stockswidget/stocks_widget_service/utils"
)

// CreateTransaction persists a new buy and returns it with the assigned id.
// The write is durable before this returns. Amount and price are validated
// by the caller; the store performs no validation of its own.
func (s *WidgetService) CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WidgetService.CreateTransaction"

	slog.Debug("CreateTransaction start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("CreateTransaction finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	transactionID, err := s.repo.InsertTransaction(ctx, t)
	if err != nil {
		slog.Error("got error from repo.InsertTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Transaction{}, err
	}

	t.ID = transactionID
	s.notifyTransactionsChanged(ctx)

	return t, nil
}

// UpdateTransaction replaces the row's fields while preserving the id.
// Returns service.ErrNotFound for an unknown id.
func (s *WidgetService) UpdateTransaction(ctx context.Context, t model.Transaction) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WidgetService.UpdateTransaction"

	slog.Debug("UpdateTransaction start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("transactionID", t.ID))
	defer func() {
		slog.Debug("UpdateTransaction finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("transactionID", t.ID))
	}()

	err := s.repo.UpdateTransaction(ctx, t)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		slog.Error("got error from repo.UpdateTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	s.notifyTransactionsChanged(ctx)

	return nil
}

// DeleteTransaction removes the row; an absent id is not an error.
func (s *WidgetService) DeleteTransaction(ctx context.Context, transactionID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WidgetService.DeleteTransaction"

	slog.Debug("DeleteTransaction start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("transactionID", transactionID))
	defer func() {
		slog.Debug("DeleteTransaction finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("transactionID", transactionID))
	}()

	err := s.repo.DeleteTransaction(ctx, transactionID)
	if err != nil {
		slog.Error("got error from repo.DeleteTransaction", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	s.notifyTransactionsChanged(ctx)

	return nil
}

func (s *WidgetService) GetTransaction(ctx context.Context, transactionID int64) (model.Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Transaction{}, service.ErrNotFound
		}
		return model.Transaction{}, err
	}
	return t, nil
}

func (s *WidgetService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

// notifyTransactionsChanged re-reads the list and pushes it to attached
// clients so the UI reflects store mutations without polling.
func (s *WidgetService) notifyTransactionsChanged(ctx context.Context) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	transactions, err := s.repo.ListTransactions(ctx)
	if err != nil {
		slog.Warn("can't list transactions for push", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return
	}

	s.hub.Broadcast(model.TransactionsEvent(transactions))
}

// GenerateTransactionsReport renders the transaction log as an XLSX file,
// valued at the latest VUSA price. A failed quote still produces a report,
// just without current-value columns.
func (s *WidgetService) GenerateTransactionsReport(ctx context.Context) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WidgetService.GenerateTransactionsReport"

	slog.Debug("GenerateTransactionsReport start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("GenerateTransactionsReport finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	transactions, err := s.repo.ListTransactions(ctx)
	if err != nil {
		slog.Error("got error from repo.ListTransactions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	vusaQuote := s.tradingviewApi.GetQuote(ctx, instruments.VusaSymbol)

	return s.reportGenerator.Generate(ctx, transactions, vusaQuote)
}

// UploadTransactionsReport generates the report and uploads it to cloud
// storage, returning a shareable link.
func (s *WidgetService) UploadTransactionsReport(ctx context.Context) (downloadLink string, err error) {
	if s.cloudStorage == nil {
		return "", service.ErrReportUploadDisabled
	}

	fileBytes, fileExtension, err := s.GenerateTransactionsReport(ctx)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("vusa_transactions_%s%s", time.Now().Format("2006-01-02_15-04-05"), fileExtension)

	return s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
}
