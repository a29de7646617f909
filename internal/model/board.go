package model

type Color string

const (
	ColorGreen   Color = "green"
	ColorRed     Color = "red"
	ColorNeutral Color = "neutral"
)

// InstrumentView holds the formatted text slots for one board row.
type InstrumentView struct {
	Label           string `json:"label"`
	BuyInfo         string `json:"buyInfo"`
	Price           string `json:"price"`
	PriceColor      Color  `json:"priceColor"`
	ProfitLoss      string `json:"profitLoss"`
	ProfitLossColor Color  `json:"profitLossColor"`
	LastUpdated     string `json:"lastUpdated"`
}

// BoardSnapshot is one full rendering of the widget board. While Loading is
// true the content slots are hidden client-side and a spinner is shown.
type BoardSnapshot struct {
	Loading     bool             `json:"loading"`
	GeneratedAt string           `json:"generatedAt,omitempty"`
	Instruments []InstrumentView `json:"instruments"`
	Dividers    []bool           `json:"dividers"`
}

func LoadingSnapshot() BoardSnapshot {
	return BoardSnapshot{Loading: true, Instruments: []InstrumentView{}, Dividers: []bool{}}
}

// BlankSnapshot restores widgets to a non-loading empty state after a
// whole-cycle failure, so clients are not left stuck on a spinner.
func BlankSnapshot() BoardSnapshot {
	return BoardSnapshot{Loading: false, Instruments: []InstrumentView{}, Dividers: []bool{}}
}
