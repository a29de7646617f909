package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/utils"
	"github.com/xuri/excelize/v2"
)

const sheetName = "VUSA transactions"

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

// Generate renders the transaction log into an XLSX workbook. When the VUSA
// quote is available every row is valued at it and gets an unrealized P/L
// column; a failed quote leaves those cells empty.
func (g *XSLSXGenerator) Generate(ctx context.Context, transactions []model.Transaction, vusaQuote model.Quote) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if _, err := f.NewSheet(sheetName); err != nil {
		slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := g.fillSheet(f, transactions, vusaQuote); err != nil {
		slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XSLSXGenerator) fillSheet(f *excelize.File, transactions []model.Transaction, vusaQuote model.Quote) error {
	if err := f.MergeCell(sheetName, "A1", "H1"); err != nil {
		return err
	}
	f.SetCellValue(sheetName, "A1", "VUSA buy transactions")

	headerStyleID, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#cfe2f3"},
		},
	})
	if err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetName, "A1", "A1", headerStyleID); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	_ = f.SetCellStr(sheetName, "A2", "id")
	_ = f.SetCellStr(sheetName, "B2", "amount")
	_ = f.SetCellStr(sheetName, "C2", "buy price")
	_ = f.SetCellStr(sheetName, "D2", "buy date")
	_ = f.SetCellStr(sheetName, "E2", "currency")
	_ = f.SetCellStr(sheetName, "F2", "cost")
	_ = f.SetCellStr(sheetName, "G2", "current value")
	_ = f.SetCellStr(sheetName, "H2", "profit/loss")

	hasPrice := !vusaQuote.Failed()
	var price decimal.Decimal
	if hasPrice {
		price = decimal.NewFromFloat(vusaQuote.Price)
	}

	totalCost := decimal.Zero
	totalValue := decimal.Zero

	for i, t := range transactions {
		row := i + 3
		cost := t.Amount.Mul(t.BuyPrice)
		totalCost = totalCost.Add(cost)

		buyDate := time.UnixMilli(t.TransactionTimestamp).Format("02.01.2006")

		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.ID)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("B%d", row), t.Amount.String())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("C%d", row), t.BuyPrice.String())
		_ = f.SetCellStr(sheetName, fmt.Sprintf("D%d", row), buyDate)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("E%d", row), t.Currency)
		_ = f.SetCellStr(sheetName, fmt.Sprintf("F%d", row), cost.StringFixed(2))

		if hasPrice {
			value := t.CurrentValue(price)
			totalValue = totalValue.Add(value)
			_ = f.SetCellStr(sheetName, fmt.Sprintf("G%d", row), value.StringFixed(2))
			_ = f.SetCellStr(sheetName, fmt.Sprintf("H%d", row), t.ProfitLoss(price).StringFixed(2))
		}
	}

	totalsRow := len(transactions) + 3
	_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", totalsRow), "total")
	_ = f.SetCellStr(sheetName, fmt.Sprintf("F%d", totalsRow), totalCost.StringFixed(2))
	if hasPrice {
		_ = f.SetCellStr(sheetName, fmt.Sprintf("G%d", totalsRow), totalValue.StringFixed(2))
		_ = f.SetCellStr(sheetName, fmt.Sprintf("H%d", totalsRow), totalValue.Sub(totalCost).StringFixed(2))
	}

	return nil
}
