package tradingviewModel

// SymbolResponse is the scanner symbol endpoint body. Both fields are
// optional: a missing close means the fetch yields no price.
type SymbolResponse struct {
	Close             *float64 `json:"close"`
	LastBarUpdateTime *int64   `json:"last_bar_update_time"`
}
