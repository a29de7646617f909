package telebotConverter

import (
	"fmt"
	"strings"
	"time"

	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/model/tg/tgCallback"
	tele "gopkg.in/telebot.v4"
)

func colorEmoji(c model.Color) string {
	switch c {
	case model.ColorGreen:
		return "🟢"
	case model.ColorRed:
		return "🔴"
	default:
		return "⚪"
	}
}

func BoardResponse(snapshot model.BoardSnapshot) (text string, markup *tele.ReplyMarkup) {
	markup = &tele.ReplyMarkup{}
	refreshBtn := markup.Data("🔄 Refresh", tgCallback.Refresh)
	markup.Inline(markup.Row(refreshBtn))

	if snapshot.Loading {
		return "⏳ Board is refreshing...", markup
	}

	var sb strings.Builder
	sb.WriteString("📊 Board\n\n")

	for _, view := range snapshot.Instruments {
		sb.WriteString(fmt.Sprintf("%s (%s)\n", view.Label, view.BuyInfo))
		sb.WriteString(fmt.Sprintf("   ▸ Price: %s %s\n", view.Price, colorEmoji(view.PriceColor)))
		sb.WriteString(fmt.Sprintf("   ▸ P/L: %s %s\n", view.ProfitLoss, colorEmoji(view.ProfitLossColor)))
		sb.WriteString(fmt.Sprintf("   ▸ Updated: %s\n\n", view.LastUpdated))
	}

	if snapshot.GeneratedAt != "" {
		sb.WriteString(fmt.Sprintf("Generated at %s", snapshot.GeneratedAt))
	}

	return sb.String(), markup
}

func TransactionsResponse(transactions []model.Transaction) string {
	if len(transactions) == 0 {
		return "No VUSA transactions yet. Use /add to record one."
	}

	var sb strings.Builder
	sb.WriteString("📋 VUSA transactions:\n\n")

	for _, t := range transactions {
		buyDate := time.UnixMilli(t.TransactionTimestamp).Format("02.01.2006")
		sb.WriteString(fmt.Sprintf(
			"#%d  %s pcs @ %s %s on %s\n",
			t.ID, t.Amount.String(), t.BuyPrice.String(), t.Currency, buyDate,
		))
	}

	return sb.String()
}
