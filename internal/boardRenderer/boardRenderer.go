package boardRenderer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/stockswidget/stocks_widget_service/internal/model"
)

// The widget layout carries a fixed number of instrument slots; dividers
// between unused slots are toggled off.
const widgetSlots = 6

const notAvailable = "N/A"

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

// Render turns one cycle's quotes into a board snapshot. Quotes are matched
// to instruments by position; a missing or NaN quote renders that row as
// N/A without affecting the others.
func (r *Renderer) Render(instrumentList []model.Instrument, quotes []model.Quote, now time.Time) model.BoardSnapshot {
	views := make([]model.InstrumentView, 0, len(instrumentList))
	for i, instrument := range instrumentList {
		quote := model.FailedQuote()
		if i < len(quotes) {
			quote = quotes[i]
		}
		views = append(views, r.renderInstrument(instrument, quote))
	}

	dividers := make([]bool, widgetSlots-1)
	for i := range dividers {
		dividers[i] = i < len(instrumentList)-1
	}

	return model.BoardSnapshot{
		Loading:     false,
		GeneratedAt: now.Format("15:04"),
		Instruments: views,
		Dividers:    dividers,
	}
}

func (r *Renderer) renderInstrument(instrument model.Instrument, quote model.Quote) model.InstrumentView {
	view := model.InstrumentView{
		Label:       instrument.Label,
		BuyInfo:     buyInfo(instrument),
		LastUpdated: FormatUpdateTime(quote.UpdateTime),
	}

	if quote.Failed() {
		view.Price = notAvailable
		view.PriceColor = model.ColorNeutral
		view.ProfitLoss = notAvailable
		view.ProfitLossColor = model.ColorNeutral
		return view
	}

	view.Price = formatPrice(quote.Price, instrument)
	view.PriceColor = priceColor(instrument, quote.Price)

	profitOrLoss := instrument.TotalShares()*quote.Price - instrument.TotalCost()
	view.ProfitLoss = formatAmount(profitOrLoss, instrument.CurrencyGlyph)
	switch {
	case profitOrLoss > 0:
		view.ProfitLossColor = model.ColorGreen
	case profitOrLoss < 0:
		view.ProfitLossColor = model.ColorRed
	default:
		view.ProfitLossColor = model.ColorNeutral
	}

	return view
}

// buyInfo fills the buy slot: single-lot rows show the unit buy price,
// multi-lot rows show the total share count instead.
func buyInfo(instrument model.Instrument) string {
	if len(instrument.Lots) == 1 {
		return formatPrice(instrument.Lots[0].UnitPrice, instrument)
	}

	shares := instrument.TotalShares()
	if shares != math.Trunc(shares) {
		return fmt.Sprintf("%.4f", shares)
	}
	return fmt.Sprintf("%.0f", shares)
}

// priceColor compares against the unit buy price for single-lot rows; the
// multi-lot rows keep a neutral price and carry the signal in profit/loss.
func priceColor(instrument model.Instrument, price float64) model.Color {
	if len(instrument.Lots) != 1 {
		return model.ColorNeutral
	}
	switch {
	case price > instrument.Lots[0].UnitPrice:
		return model.ColorGreen
	case price < instrument.Lots[0].UnitPrice:
		return model.ColorRed
	}
	return model.ColorNeutral
}

func formatPrice(price float64, instrument model.Instrument) string {
	return fmt.Sprintf("%s%.*f", instrument.CurrencyGlyph, instrument.PriceDecimals, price)
}

// formatAmount renders a money amount with thousands grouping and two
// decimals, e.g. €1,234.56.
func formatAmount(amount float64, glyph string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var sb strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		sb.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(intPart[i : i+3])
	}

	return sign + glyph + sb.String() + "." + fracPart
}

// FormatUpdateTime renders the tagged update-time variant: clock time for
// unix timestamps, day.month for date-only strings, N/A otherwise.
func FormatUpdateTime(t model.UpdateTime) string {
	switch t.Kind {
	case model.UpdateTimeUnix:
		return time.Unix(t.Unix, 0).Format("15:04")
	case model.UpdateTimeDate:
		parsed, err := time.Parse("2006-01-02", t.Date)
		if err != nil {
			return t.Date
		}
		return parsed.Format("02.01")
	default:
		return notAvailable
	}
}
