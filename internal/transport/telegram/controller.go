package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockswidget/stocks_widget_service/data/session"
	"github.com/stockswidget/stocks_widget_service/internal/converter/telebotConverter"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/service"
	"github.com/stockswidget/stocks_widget_service/utils"
	tele "gopkg.in/telebot.v4"
)

const internalErrMsg = "something went wrong..."

type WidgetService interface {
	GetBoardSnapshot(ctx context.Context) (model.BoardSnapshot, error)
	RefreshAll(ctx context.Context) error
	CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	UploadTransactionsReport(ctx context.Context) (downloadLink string, err error)
}

type Session interface {
	GetSession(ctx context.Context, key string) (model.Session, error)
	SetSession(ctx context.Context, key string, chatSession model.Session) error
}

type Controller struct {
	widgetService WidgetService
	session       Session
}

func NewController(widgetService WidgetService, session Session) *Controller {
	return &Controller{
		widgetService: widgetService,
		session:       session,
	}
}

func (ctrl *Controller) Start(c tele.Context) error {
	return c.Reply("Hello! /board shows the widget board, /transactions lists VUSA buys, /add records a new one.")
}

func (ctrl *Controller) Board(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	snapshot, err := ctrl.widgetService.GetBoardSnapshot(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Send("board has not been rendered yet, use /refresh")
		}
		slog.Error("got error from widgetService.GetBoardSnapshot", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.BoardResponse(snapshot))
}

func (ctrl *Controller) Refresh(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	go func() {
		refreshCtx := utils.CtxWithRqID(context.Background(), rqID)
		if err := ctrl.widgetService.RefreshAll(refreshCtx); err != nil {
			slog.Error("got error from widgetService.RefreshAll", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
	}()

	return c.Send("refresh started")
}

// RefreshCallback handles the inline refresh button under /board. It waits
// for the cycle to finish and edits the message with the fresh board.
func (ctrl *Controller) RefreshCallback(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	if err := ctrl.widgetService.RefreshAll(ctx); err != nil {
		slog.Error("got error from widgetService.RefreshAll", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	snapshot, err := ctrl.widgetService.GetBoardSnapshot(ctx)
	if err != nil {
		slog.Error("got error from widgetService.GetBoardSnapshot", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Edit(telebotConverter.BoardResponse(snapshot))
}

func (ctrl *Controller) Transactions(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	transactions, err := ctrl.widgetService.ListTransactions(ctx)
	if err != nil {
		slog.Error("got error from widgetService.ListTransactions", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(telebotConverter.TransactionsResponse(transactions))
}

func (ctrl *Controller) InitAddTransaction(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)
	strChatID := strconv.FormatInt(c.Chat().ID, 10)

	chatSession, err := ctrl.session.GetSession(ctx, strChatID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	chatSession.Action = model.ExpectingTransactionInput
	err = ctrl.session.SetSession(ctx, strChatID, chatSession)
	if err != nil {
		slog.Error("got error from session.SetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send("Enter the transaction: <amount> <buy price> [currency], e.g. 12.5 97.75 €")
}

func (ctrl *Controller) ProcessAddTransaction(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	chatSession, err := ctrl.getSessionFromTeleCtxOrStorage(ctx, c)
	if err != nil {
		return c.Send(internalErrMsg)
	}

	defer func() {
		chatSession.Action = model.DefaultAction
		_ = ctrl.session.SetSession(ctx, strconv.FormatInt(c.Chat().ID, 10), chatSession)
	}()

	transaction, parseErr := parseTransactionInput(c.Message().Text)
	if parseErr != "" {
		return c.Send(parseErr)
	}

	created, err := ctrl.widgetService.CreateTransaction(ctx, transaction)
	if err != nil {
		slog.Error("got error from widgetService.CreateTransaction", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send(fmt.Sprintf("Recorded transaction #%d: %s pcs @ %s %s", created.ID, created.Amount.String(), created.BuyPrice.String(), created.Currency))
}

func (ctrl *Controller) Report(c tele.Context) error {
	ctx := utils.CreateCtxWithRqID(c)
	rqID := utils.GetRequestIDFromCtx(ctx)

	link, err := ctrl.widgetService.UploadTransactionsReport(ctx)
	if err != nil {
		if errors.Is(err, service.ErrReportUploadDisabled) {
			return c.Send("report upload is not configured")
		}
		slog.Error("got error from widgetService.UploadTransactionsReport", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return c.Send(internalErrMsg)
	}

	return c.Send("report: " + link)
}

func (ctrl *Controller) getSessionFromTeleCtxOrStorage(ctx context.Context, c tele.Context) (model.Session, error) {
	chatSession, ok := c.Get("session").(model.Session)
	if ok {
		return chatSession, nil
	}

	rqID := utils.GetRequestIDFromCtx(ctx)
	chatSession, err := ctrl.session.GetSession(ctx, strconv.FormatInt(c.Chat().ID, 10))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.Error("got error from session.GetSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		}
		return model.Session{}, err
	}
	return chatSession, nil
}

func parseTransactionInput(text string) (model.Transaction, string) {
	parts := strings.Fields(text)
	if len(parts) < 2 || len(parts) > 3 {
		return model.Transaction{}, "expected: <amount> <buy price> [currency]"
	}

	amount, err := decimal.NewFromString(parts[0])
	if err != nil || !amount.IsPositive() {
		return model.Transaction{}, "amount must be a positive number"
	}

	buyPrice, err := decimal.NewFromString(parts[1])
	if err != nil || !buyPrice.IsPositive() {
		return model.Transaction{}, "buy price must be a positive number"
	}

	currency := model.CurrencyEuro
	if len(parts) == 3 {
		currency = parts[2]
		if !model.IsSupportedCurrency(currency) {
			return model.Transaction{}, "unsupported currency, use € $ or Other"
		}
	}

	return model.Transaction{
		Amount:               amount,
		BuyPrice:             buyPrice,
		TransactionTimestamp: time.Now().UnixMilli(),
		Currency:             currency,
	}, ""
}
