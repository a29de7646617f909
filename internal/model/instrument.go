package model

type EndpointKind int

const (
	EndpointTradingview EndpointKind = iota
	EndpointVanguardGraphQL
)

type Lot struct {
	Shares    float64
	UnitPrice float64
}

// Instrument is a compiled-in board entry. The list is fixed at build time:
// instruments are never created or deleted at runtime, and every refresh
// cycle issues exactly one endpoint call per instrument.
type Instrument struct {
	Label         string
	Symbol        string // tradingview "EXCHANGE:TICKER" or vanguard portId
	Endpoint      EndpointKind
	Lots          []Lot
	PriceDecimals int
	CurrencyGlyph string
}

func (i Instrument) TotalShares() float64 {
	var total float64
	for _, lot := range i.Lots {
		total += lot.Shares
	}
	return total
}

func (i Instrument) TotalCost() float64 {
	var total float64
	for _, lot := range i.Lots {
		total += lot.Shares * lot.UnitPrice
	}
	return total
}

// AvgUnitCost is the cost basis per share; 0 when no shares are held.
func (i Instrument) AvgUnitCost() float64 {
	shares := i.TotalShares()
	if shares == 0 {
		return 0
	}
	return i.TotalCost() / shares
}
