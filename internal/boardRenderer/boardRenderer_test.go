package boardRenderer

import (
	"testing"
	"time"

	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleLotInstrument(unitPrice float64) model.Instrument {
	return model.Instrument{
		Label:         "TEST",
		Symbol:        "EXCH:TEST",
		Endpoint:      model.EndpointTradingview,
		Lots:          []model.Lot{{Shares: 10, UnitPrice: unitPrice}},
		PriceDecimals: 2,
		CurrencyGlyph: "€",
	}
}

func TestRenderProfitLoss(t *testing.T) {
	r := New()
	now := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		price     float64
		wantPL    string
		wantColor model.Color
	}{
		{"profit is green", 110, "€100.00", model.ColorGreen},
		{"loss is red", 90, "-€100.00", model.ColorRed},
		{"breakeven is neutral", 100, "€0.00", model.ColorNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := r.Render(
				[]model.Instrument{singleLotInstrument(100)},
				[]model.Quote{{Price: tt.price, UpdateTime: model.NoUpdateTime()}},
				now,
			)

			require.Len(t, snapshot.Instruments, 1)
			view := snapshot.Instruments[0]
			assert.Equal(t, tt.wantPL, view.ProfitLoss)
			assert.Equal(t, tt.wantColor, view.ProfitLossColor)
			assert.False(t, snapshot.Loading)
			assert.Equal(t, "14:30", snapshot.GeneratedAt)
		})
	}
}

func TestRenderMultiLotBreakeven(t *testing.T) {
	r := New()

	instrument := model.Instrument{
		Label:         "MULTI",
		Lots:          []model.Lot{{Shares: 5, UnitPrice: 100}, {Shares: 5, UnitPrice: 200}},
		PriceDecimals: 2,
		CurrencyGlyph: "€",
	}

	snapshot := r.Render(
		[]model.Instrument{instrument},
		[]model.Quote{{Price: 150, UpdateTime: model.NoUpdateTime()}},
		time.Now(),
	)

	require.Len(t, snapshot.Instruments, 1)
	view := snapshot.Instruments[0]
	assert.Equal(t, "€0.00", view.ProfitLoss)
	assert.Equal(t, model.ColorNeutral, view.ProfitLossColor)
	// multi-lot rows show the share count instead of a buy price
	assert.Equal(t, "10", view.BuyInfo)
	// and their live price stays neutral
	assert.Equal(t, model.ColorNeutral, view.PriceColor)
}

func TestRenderFailedQuoteIsolated(t *testing.T) {
	r := New()

	instrumentList := []model.Instrument{
		singleLotInstrument(100),
		singleLotInstrument(50),
	}
	quotes := []model.Quote{
		model.FailedQuote(),
		{Price: 60, UpdateTime: model.UnixUpdateTime(time.Date(2025, 6, 1, 9, 5, 0, 0, time.Local).Unix())},
	}

	snapshot := r.Render(instrumentList, quotes, time.Now())

	require.Len(t, snapshot.Instruments, 2)

	failed := snapshot.Instruments[0]
	assert.Equal(t, "N/A", failed.Price)
	assert.Equal(t, "N/A", failed.ProfitLoss)
	assert.Equal(t, "N/A", failed.LastUpdated)
	assert.Equal(t, model.ColorNeutral, failed.PriceColor)

	ok := snapshot.Instruments[1]
	assert.Equal(t, "€60.00", ok.Price)
	assert.Equal(t, model.ColorGreen, ok.PriceColor)
	assert.Equal(t, "09:05", ok.LastUpdated)
}

func TestRenderMissingQuotesRenderAsFailed(t *testing.T) {
	r := New()

	// more instruments than quotes must not panic
	snapshot := r.Render([]model.Instrument{singleLotInstrument(100)}, nil, time.Now())

	require.Len(t, snapshot.Instruments, 1)
	assert.Equal(t, "N/A", snapshot.Instruments[0].Price)
}

func TestRenderDividers(t *testing.T) {
	r := New()

	snapshot := r.Render(
		[]model.Instrument{singleLotInstrument(1), singleLotInstrument(2), singleLotInstrument(3)},
		nil,
		time.Now(),
	)

	assert.Equal(t, []bool{true, true, false, false, false}, snapshot.Dividers)
}

func TestFormatUpdateTime(t *testing.T) {
	tests := []struct {
		name string
		in   model.UpdateTime
		want string
	}{
		{"unix renders clock time", model.UnixUpdateTime(time.Date(2025, 6, 1, 16, 45, 0, 0, time.Local).Unix()), "16:45"},
		{"date renders day.month", model.DateUpdateTime("2025-05-30"), "30.05"},
		{"unparseable date passes through", model.DateUpdateTime("soon"), "soon"},
		{"none renders N/A", model.NoUpdateTime(), "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUpdateTime(tt.in))
		})
	}
}

func TestFormatAmountGrouping(t *testing.T) {
	assert.Equal(t, "€1,234.56", formatAmount(1234.56, "€"))
	assert.Equal(t, "$1,234,567.89", formatAmount(1234567.891, "$"))
	assert.Equal(t, "-€999.99", formatAmount(-999.99, "€"))
	assert.Equal(t, "€0.00", formatAmount(0, "€"))
}

func TestBuyInfoFractionalShares(t *testing.T) {
	instrument := model.Instrument{
		Lots:          []model.Lot{{Shares: 1.5, UnitPrice: 10}, {Shares: 2, UnitPrice: 20}},
		PriceDecimals: 2,
		CurrencyGlyph: "€",
	}
	assert.Equal(t, "3.5000", buyInfo(instrument))
}
