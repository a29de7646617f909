package vanguardApi

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/stockswidget/stocks_widget_service/config"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/model/vanguardModel"
	"github.com/stockswidget/stocks_widget_service/utils"
)

const fundCardsQuery = `
query PolarisProductDetailFundCardsQuery($portIds: [String!]!, $skipNavPrice: Boolean!) {
  funds(portIds: $portIds) {
    pricingDetails {
      navPrices(limit: 1) @skip(if: $skipNavPrice) {
        items {
          asOfDate
          currencyCode
          price
        }
      }
    }
  }
}`

type VanguardApi struct {
	client     *resty.Client
	consumerID string
}

func New(cfg *config.Config) *VanguardApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.VanguardApi.Url)
	return &VanguardApi{client: client, consumerID: cfg.API.VanguardApi.ConsumerID}
}

// GetFundQuote posts the fund cards query for one portId and walks
// data -> funds[0] -> pricingDetails -> navPrices -> items[0]. A missing
// segment at any level yields a NaN quote, never an error.
func (a *VanguardApi) GetFundQuote(ctx context.Context, portID string) model.Quote {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "VanguardApi.GetFundQuote"

	slog.Debug("GetFundQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("portID", portID))

	reqBody := vanguardModel.GraphQLRequest{
		Query: fundCardsQuery,
		Variables: vanguardModel.Variables{
			PortIDs:      []string{portID},
			SkipNavPrice: false,
		},
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("x-consumer-id", a.consumerID).
		SetBody(reqBody).
		Post("")

	if err != nil {
		slog.Error("error while dialing VanguardApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.FailedQuote()
	}

	if resp.IsError() {
		// the error body is the only diagnostic the provider gives
		slog.Error(
			"VanguardApi returned non-success status",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.String("portID", portID),
			slog.Int("status", resp.StatusCode()),
			slog.String("body", string(resp.Body())),
		)
		return model.FailedQuote()
	}

	raw := vanguardModel.GraphQLResponse{}
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		slog.Error("can't unmarshal response into vanguardModel.GraphQLResponse", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.FailedQuote()
	}

	if raw.Data == nil || len(raw.Data.Funds) == 0 {
		slog.Warn("VanguardApi response has no funds", slog.String("rqID", rqID), slog.String("op", op), slog.String("portID", portID))
		return model.FailedQuote()
	}

	pricing := raw.Data.Funds[0].PricingDetails
	if pricing == nil || pricing.NavPrices == nil || len(pricing.NavPrices.Items) == 0 {
		slog.Warn("VanguardApi response has no nav prices", slog.String("rqID", rqID), slog.String("op", op), slog.String("portID", portID))
		return model.FailedQuote()
	}

	item := pricing.NavPrices.Items[0]

	quote := model.FailedQuote()
	if item.Price != nil {
		quote.Price = *item.Price
	}
	if item.AsOfDate != "" {
		quote.UpdateTime = model.DateUpdateTime(item.AsOfDate)
	}

	slog.Debug("GetFundQuote completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("portID", portID))

	return quote
}
