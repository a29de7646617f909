package tradingviewApi

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/stockswidget/stocks_widget_service/config"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/model/tradingviewModel"
	"github.com/stockswidget/stocks_widget_service/utils"
)

type TradingviewApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *TradingviewApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.TradingviewApi.Url)
	return &TradingviewApi{client: client}
}

// GetQuote fetches the close price and last bar time for one symbol.
// It never fails: network errors, non-2xx statuses and malformed bodies all
// collapse into a NaN quote so one instrument cannot break a refresh cycle.
func (a *TradingviewApi) GetQuote(ctx context.Context, symbol string) model.Quote {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TradingviewApi.GetQuote"

	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"symbol": symbol,
			"fields": "close,last_bar_update_time",
		}).
		Get("/symbol")

	if err != nil {
		slog.Error("error while dialing TradingviewApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return model.FailedQuote()
	}

	if resp.IsError() {
		slog.Error(
			"TradingviewApi returned non-success status",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("symbol", symbol),
			slog.Int("status", resp.StatusCode()),
			slog.String("body", string(resp.Body())),
		)
		return model.FailedQuote()
	}

	raw := tradingviewModel.SymbolResponse{}
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		slog.Error("can't unmarshal response into tradingviewModel.SymbolResponse", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.FailedQuote()
	}

	quote := model.FailedQuote()
	if raw.Close != nil {
		quote.Price = *raw.Close
	}
	if raw.LastBarUpdateTime != nil {
		quote.UpdateTime = model.UnixUpdateTime(*raw.LastBarUpdateTime)
	}

	slog.Debug("GetQuote completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	return quote
}
