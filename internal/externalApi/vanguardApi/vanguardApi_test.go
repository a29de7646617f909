package vanguardApi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stockswidget/stocks_widget_service/config"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/model/vanguardModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(serverURL string) *VanguardApi {
	cfg := &config.Config{}
	cfg.API.Timeout = 5 * time.Second
	cfg.API.VanguardApi.Url = serverURL
	cfg.API.VanguardApi.ConsumerID = "GPX"
	return New(cfg)
}

func TestGetFundQuote(t *testing.T) {
	t.Run("nav price and as-of date", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "GPX", r.Header.Get("x-consumer-id"))

			req := vanguardModel.GraphQLRequest{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"9179"}, req.Variables.PortIDs)
			assert.False(t, req.Variables.SkipNavPrice)

			_, _ = w.Write([]byte(`{
				"data": {
					"funds": [
						{
							"pricingDetails": {
								"navPrices": {
									"items": [
										{"asOfDate": "2025-05-30", "currencyCode": "EUR", "price": 31.42}
									]
								}
							}
						}
					]
				}
			}`))
		}))
		defer server.Close()

		quote := newTestApi(server.URL).GetFundQuote(context.Background(), "9179")

		require.False(t, quote.Failed())
		assert.InDelta(t, 31.42, quote.Price, 1e-9)
		assert.Equal(t, model.UpdateTimeDate, quote.UpdateTime.Kind)
		assert.Equal(t, "2025-05-30", quote.UpdateTime.Date)
	})

	t.Run("empty funds yields failed quote without panic", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data": {"funds": []}}`))
		}))
		defer server.Close()

		quote := newTestApi(server.URL).GetFundQuote(context.Background(), "9179")

		assert.True(t, quote.Failed())
	})

	t.Run("missing pricing details yields failed quote", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data": {"funds": [{}]}}`))
		}))
		defer server.Close()

		quote := newTestApi(server.URL).GetFundQuote(context.Background(), "9179")

		assert.True(t, quote.Failed())
	})

	t.Run("non-2xx yields failed quote", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errors":[{"message":"forbidden"}]}`, http.StatusForbidden)
		}))
		defer server.Close()

		quote := newTestApi(server.URL).GetFundQuote(context.Background(), "9179")

		assert.True(t, quote.Failed())
	})

	t.Run("null price with as-of date stays failed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"funds":[{"pricingDetails":{"navPrices":{"items":[{"asOfDate":"2025-05-30","price":null}]}}}]}}`))
		}))
		defer server.Close()

		quote := newTestApi(server.URL).GetFundQuote(context.Background(), "9179")

		assert.True(t, quote.Failed())
		assert.Equal(t, model.UpdateTimeDate, quote.UpdateTime.Kind)
	})
}
