package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/presu/internal/model"
)

const historySheet = "Budgets"

var historyHeaders = []string{
	"ID", "Date", "Client", "Phone", "Status", "Items",
	"Subtotal", "Discount %", "Tax %", "Adjustment", "Total", "Valid until",
}

// HistoryXLSX builds a spreadsheet with one row per budget followed by a
// total row summing the Total column.
func HistoryXLSX(budgets []model.Budget, f Format, now time.Time) (Artifact, error) {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName(x.GetSheetName(0), historySheet); err != nil {
		return Artifact{}, fmt.Errorf("set sheet name: %w", err)
	}

	widths := []float64{14, 12, 28, 18, 12, 8, 14, 11, 9, 13, 14, 12}
	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := x.SetColWidth(historySheet, name, name, w); err != nil {
			return Artifact{}, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	headerStyle, err := x.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := x.NewStyle(&excelize.Style{NumFmt: 4, Border: thinBorders()})
	if err != nil {
		return Artifact{}, fmt.Errorf("create money style: %w", err)
	}
	totalStyle, err := x.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		NumFmt: 4,
	})
	if err != nil {
		return Artifact{}, fmt.Errorf("create total style: %w", err)
	}

	for i, h := range historyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := x.SetCellValue(historySheet, cell, h); err != nil {
			return Artifact{}, fmt.Errorf("write header %s: %w", cell, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(historyHeaders))
	if err := x.SetCellStyle(historySheet, "A1", lastCol+"1", headerStyle); err != nil {
		return Artifact{}, fmt.Errorf("style header: %w", err)
	}

	row := 2
	for _, b := range budgets {
		r := strconv.Itoa(row)
		values := []any{
			b.ID,
			f.Date(b.CreatedAt),
			sanitizeExcelCell(b.Client.Name),
			sanitizeExcelCell(b.Client.Phone),
			b.Status.Label(),
			len(b.LineItems),
			b.Subtotal.InexactFloat64(),
			b.DiscountPercent.InexactFloat64(),
			b.TaxPercent.InexactFloat64(),
			b.ManualAdjustment.InexactFloat64(),
			b.Total.InexactFloat64(),
			f.Date(b.ValidUntil),
		}
		if err := x.SetSheetRow(historySheet, "A"+r, &values); err != nil {
			return Artifact{}, fmt.Errorf("write row %d: %w", row, err)
		}
		if err := x.SetCellStyle(historySheet, "G"+r, "G"+r, moneyStyle); err != nil {
			return Artifact{}, fmt.Errorf("style row %d: %w", row, err)
		}
		if err := x.SetCellStyle(historySheet, "J"+r, "K"+r, moneyStyle); err != nil {
			return Artifact{}, fmt.Errorf("style row %d: %w", row, err)
		}
		row++
	}

	if len(budgets) > 0 {
		r := strconv.Itoa(row)
		if err := x.SetCellValue(historySheet, "J"+r, "TOTAL"); err != nil {
			return Artifact{}, fmt.Errorf("write total label: %w", err)
		}
		if err := x.SetCellFormula(historySheet, "K"+r, fmt.Sprintf("SUM(K2:K%d)", row-1)); err != nil {
			return Artifact{}, fmt.Errorf("write total formula: %w", err)
		}
		if err := x.SetCellStyle(historySheet, "J"+r, "K"+r, totalStyle); err != nil {
			return Artifact{}, fmt.Errorf("style total row: %w", err)
		}
	}

	buf, err := x.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("write xlsx: %w", err)
	}
	return Artifact{
		Name: "Presupuestos_" + now.Format("20060102") + ".xlsx",
		Data: buf.Bytes(),
	}, nil
}

// sanitizeExcelCell prefixes values Excel would otherwise read as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
