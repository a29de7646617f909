package instruments

import "github.com/stockswidget/stocks_widget_service/internal/model"

// VusaSymbol is also used by the transaction screens to value recorded buys.
const VusaSymbol = "EURONEXT:VUSA"

// Default is the fixed board configuration. The list is passed into the
// service from main instead of living behind a package-level singleton, so
// tests can substitute their own set.
func Default() []model.Instrument {
	return []model.Instrument{
		{
			Label:         "XET | CIWP",
			Symbol:        "XETR:CIWP",
			Endpoint:      model.EndpointTradingview,
			Lots:          []model.Lot{{Shares: 3740, UnitPrice: 0.7085}},
			PriceDecimals: 4,
			CurrencyGlyph: "€",
		},
		{
			Label:         "EAM | 3AMD",
			Symbol:        "EURONEXT:3AMD",
			Endpoint:      model.EndpointTradingview,
			Lots:          []model.Lot{{Shares: 27881, UnitPrice: 0.538}},
			PriceDecimals: 4,
			CurrencyGlyph: "€",
		},
		{
			Label:         "XET | COMS",
			Symbol:        "XETR:COMS",
			Endpoint:      model.EndpointTradingview,
			Lots:          []model.Lot{{Shares: 4117, UnitPrice: 2.4290}},
			PriceDecimals: 4,
			CurrencyGlyph: "€",
		},
		{
			Label:    "ABN",
			Symbol:   "9179",
			Endpoint: model.EndpointVanguardGraphQL,
			Lots: []model.Lot{
				{Shares: 0.5464, UnitPrice: 183.020},
				{Shares: 0.2856, UnitPrice: 175.070},
				{Shares: 0.2787, UnitPrice: 179.400},
				{Shares: 10.5966, UnitPrice: 188.740},
				{Shares: 30.6977, UnitPrice: 266.860},
				{Shares: 29.7431, UnitPrice: 348.720},
			},
			PriceDecimals: 2,
			CurrencyGlyph: "€",
		},
		{
			Label:    "AMS | VUSA",
			Symbol:   VusaSymbol,
			Endpoint: model.EndpointTradingview,
			Lots: []model.Lot{
				{Shares: 149, UnitPrice: 75.0},
				{Shares: 78, UnitPrice: 97.75},
				{Shares: 27, UnitPrice: 98.0},
			},
			PriceDecimals: 2,
			CurrencyGlyph: "€",
		},
		{
			Label:    "XET | QDVE",
			Symbol:   "XETR:QDVE",
			Endpoint: model.EndpointTradingview,
			Lots: []model.Lot{
				{Shares: 884, UnitPrice: 28.065},
				{Shares: 0, UnitPrice: 0},
			},
			PriceDecimals: 2,
			CurrencyGlyph: "€",
		},
	}
}
