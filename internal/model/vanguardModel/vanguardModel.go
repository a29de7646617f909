package vanguardModel

type GraphQLRequest struct {
	Query     string    `json:"query"`
	Variables Variables `json:"variables"`
}

type Variables struct {
	PortIDs      []string `json:"portIds"`
	SkipNavPrice bool     `json:"skipNavPrice"`
}

// GraphQLResponse mirrors data -> funds[0] -> pricingDetails -> navPrices ->
// items[0]. Every level is optional so a partial body degrades to "no price"
// instead of a decode error.
type GraphQLResponse struct {
	Data *Data `json:"data"`
}

type Data struct {
	Funds []Fund `json:"funds"`
}

type Fund struct {
	PricingDetails *PricingDetails `json:"pricingDetails"`
}

type PricingDetails struct {
	NavPrices *NavPrices `json:"navPrices"`
}

type NavPrices struct {
	Items []NavPriceItem `json:"items"`
}

type NavPriceItem struct {
	AsOfDate     string   `json:"asOfDate"`
	CurrencyCode string   `json:"currencyCode"`
	Price        *float64 `json:"price"`
}
